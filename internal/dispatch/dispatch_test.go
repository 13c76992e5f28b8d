package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/ordini-tipografia/internal/apperr"
	"github.com/MikeMC777/ordini-tipografia/internal/order"
	"github.com/MikeMC777/ordini-tipografia/internal/typography"
)

type fakeOrders struct {
	o        *order.Order
	statuses []order.Status
}

func (f *fakeOrders) GetByID(_ context.Context, id string) (*order.Order, error) {
	if f.o == nil || f.o.ID != id {
		return nil, order.ErrNotFound
	}
	cp := *f.o
	return &cp, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, _ string, s order.Status) error {
	f.statuses = append(f.statuses, s)
	return nil
}

type fakeTypos map[string]typography.Typography

func (f fakeTypos) GetByIDs(_ context.Context, ids []string) ([]typography.Typography, error) {
	out := []typography.Typography{}
	for _, id := range ids {
		if t, ok := f[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeStore struct {
	objects map[string][]byte
	types   map[string]string
	fail    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *fakeStore) Upload(_ context.Context, key string, body []byte, contentType string) error {
	if s.fail != nil {
		return s.fail
	}
	s.objects[key] = body
	s.types[key] = contentType
	return nil
}

func (s *fakeStore) PublicURL(key string) string {
	return "https://cdn.test/order-pdfs/" + key
}

type memSends struct {
	mu   sync.Mutex
	rows []Send
	fail error
}

func (m *memSends) Record(_ context.Context, sends []Send) error {
	if m.fail != nil {
		return m.fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range sends {
		sends[i].ID = sends[i].TypographyID + "-send"
		sends[i].CreatedAt = time.Now()
	}
	m.rows = append(m.rows, sends...)
	return nil
}

func (m *memSends) ListByOrder(_ context.Context, orderID string) ([]Send, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Send{}
	for _, s := range m.rows {
		if s.OrderID == orderID {
			out = append(out, s)
		}
	}
	return out, nil
}

type stubRenderer struct{}

func (stubRenderer) Render(o *order.Order) ([]byte, error) {
	return []byte("%PDF-1.3 " + o.OrderNumber), nil
}

func strp(s string) *string { return &s }

type fixture struct {
	d      *Dispatcher
	orders *fakeOrders
	store  *fakeStore
	sends  *memSends
	hook   *httptest.Server
	got    chan WebhookPayload
}

func newFixture(t *testing.T, status int, reply string) *fixture {
	t.Helper()
	f := &fixture{
		orders: &fakeOrders{o: &order.Order{ID: "o-1", OrderNumber: "ORD 12", PrintType: order.PrintEtichetta, Status: order.StatusBozza}},
		store:  newFakeStore(),
		sends:  &memSends{},
		got:    make(chan WebhookPayload, 1),
	}
	f.hook = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p WebhookPayload
		_ = json.NewDecoder(r.Body).Decode(&p)
		f.got <- p
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(f.hook.Close)

	typos := fakeTypos{
		"t-1": {ID: "t-1", Name: "Stampa Nord", ContactPerson: strp("Luca"), Email: "nord@example.com"},
		"t-2": {ID: "t-2", Name: "Grafiche Sud", Email: "sud@example.com"},
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	relay := NewRelay(typos, f.store, NewWebhookClient(f.hook.URL, time.Second))
	relay.Log = log
	f.d = &Dispatcher{
		Orders:       f.orders,
		Typographies: typos,
		Renderer:     stubRenderer{},
		Store:        f.store,
		Sends:        f.sends,
		Notifier:     relay,
		Log:          log,
	}
	return f
}

func TestPDFPath(t *testing.T) {
	assert.Equal(t, "orders/ORD_12.pdf", PDFPath(&order.Order{ID: "x", OrderNumber: " ORD 12 "}))
	assert.Equal(t, "orders/A_B_C.pdf", PDFPath(&order.Order{OrderNumber: "A \tB  C"}))
	assert.Equal(t, "orders/x.pdf", PDFPath(&order.Order{ID: "x"}))
}

func TestDispatch_Success(t *testing.T) {
	f := newFixture(t, http.StatusOK, `{"ok":true}`)

	res, err := f.d.Dispatch(context.Background(), Request{OrderID: "o-1", TypographyIDs: []string{"t-1", "t-2", "t-1"}})
	require.NoError(t, err)
	assert.True(t, res.Notified)
	assert.Equal(t, "orders/ORD_12.pdf", res.PDFPath)
	assert.Len(t, res.Sends, 2)
	assert.Equal(t, "application/pdf", f.store.types["orders/ORD_12.pdf"])
	assert.Equal(t, []order.Status{order.StatusInviato}, f.orders.statuses)

	p := <-f.got
	assert.Equal(t, "Ordine Tipografia ORD 12", p.Subject)
	assert.Equal(t, DefaultBodyTemplate, p.BodyTemplate)
	assert.Equal(t, "https://cdn.test/order-pdfs/orders/ORD_12.pdf", p.PDFURL)
	require.Len(t, p.Recipients, 2)
	assert.Equal(t, "Ciao Luca, ti allego il PDF destinato a Stampa Nord.", p.Recipients[0].Body)
	assert.Equal(t, "Ciao , ti allego il PDF destinato a Grafiche Sud.", p.Recipients[1].Body)
	assert.Nil(t, p.Recipients[1].ContactPerson)
}

func TestDispatch_WebhookFailureKeepsSends(t *testing.T) {
	f := newFixture(t, http.StatusInternalServerError, "boom")

	res, err := f.d.Dispatch(context.Background(), Request{OrderID: "o-1", TypographyIDs: []string{"t-1"}, Subject: "Urgente"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrUpstream))
	assert.Equal(t, "NOTIFICATION_FAILED", apperr.From(err).Code)

	require.NotNil(t, res)
	assert.False(t, res.Notified)
	rows, _ := f.sends.ListByOrder(context.Background(), "o-1")
	require.Len(t, rows, 1)
	assert.Equal(t, "t-1", rows[0].TypographyID)
	assert.Contains(t, f.store.objects, "orders/ORD_12.pdf")
	assert.Empty(t, f.orders.statuses)
	assert.Equal(t, "Urgente", (<-f.got).Subject)
}

func TestDispatch_RelayRejectionAfterSendsIsUpstream(t *testing.T) {
	f := newFixture(t, http.StatusOK, "")
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"code":"VALIDATION_ERROR","error":"no recipients"}`)
	}))
	t.Cleanup(relay.Close)
	f.d.Notifier = NewRelayClient(relay.URL, "", time.Second)

	res, err := f.d.Dispatch(context.Background(), Request{OrderID: "o-1", TypographyIDs: []string{"t-1"}})
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Len(t, f.sends.rows, 1)

	ae := apperr.From(err)
	assert.Equal(t, "NOTIFICATION_FAILED", ae.Code)
	assert.Equal(t, http.StatusBadGateway, ae.HTTPStatus)
}

func TestDispatch_ErrorFieldInReplyIsFailure(t *testing.T) {
	f := newFixture(t, http.StatusOK, `{"error":"quota exceeded"}`)
	_, err := f.d.Dispatch(context.Background(), Request{OrderID: "o-1", TypographyIDs: []string{"t-2"}})
	assert.ErrorIs(t, err, apperr.ErrUpstream)
}

func TestDispatch_NoSideEffectsBeforeValidation(t *testing.T) {
	f := newFixture(t, http.StatusOK, "")

	_, err := f.d.Dispatch(context.Background(), Request{OrderID: "o-1", TypographyIDs: []string{" "}})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.d.Dispatch(context.Background(), Request{OrderID: "o-1", TypographyIDs: []string{"t-1", "missing"}})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.d.Dispatch(context.Background(), Request{OrderID: "nope", TypographyIDs: []string{"t-1"}})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.Empty(t, f.store.objects)
	assert.Empty(t, f.sends.rows)
}

func TestDispatch_UploadFailureRecordsNothing(t *testing.T) {
	f := newFixture(t, http.StatusOK, "")
	f.store.fail = errors.New("bucket gone")

	_, err := f.d.Dispatch(context.Background(), Request{OrderID: "o-1", TypographyIDs: []string{"t-1"}})
	require.Error(t, err)
	assert.Empty(t, f.sends.rows)
}

func TestRelay_Errors(t *testing.T) {
	f := newFixture(t, http.StatusOK, "")
	relay := f.d.Notifier.(*Relay)
	ctx := context.Background()

	err := relay.Notify(ctx, Notification{TypographyIDs: []string{"t-1"}})
	assert.Equal(t, http.StatusBadRequest, apperr.From(err).HTTPStatus)

	err = relay.Notify(ctx, Notification{PDFPath: "orders/x.pdf", TypographyIDs: []string{"unknown"}})
	assert.ErrorIs(t, err, ErrNoRecipients)
	assert.Equal(t, http.StatusBadRequest, apperr.From(err).HTTPStatus)

	unconfigured := NewRelay(fakeTypos{}, f.store, NewWebhookClient("", 0))
	err = unconfigured.Notify(ctx, Notification{PDFPath: "orders/x.pdf", TypographyIDs: []string{"t-1"}})
	assert.ErrorIs(t, err, ErrWebhookNotConfigured)
	assert.Equal(t, http.StatusInternalServerError, apperr.From(err).HTTPStatus)
}

func TestRelayClient_MapsStatus(t *testing.T) {
	var seen Notification
	var key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&seen)
		key = r.Header.Get("X-API-Key")
		switch seen.PDFPath {
		case "ok":
			_, _ = io.WriteString(w, `{"ok":true}`)
		case "bad":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"code":"VALIDATION_ERROR","error":"pdfPath and typographyIds are required"}`)
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, `{"code":"NOTIFICATION_FAILED","error":"down"}`)
		}
	}))
	defer srv.Close()

	c := NewRelayClient(srv.URL+"/", "secret", time.Second)
	ctx := context.Background()
	ids := []string{"t-1"}

	require.NoError(t, c.Notify(ctx, Notification{PDFPath: "ok", TypographyIDs: ids}))
	assert.Equal(t, "secret", key)
	assert.Equal(t, ids, seen.TypographyIDs)
	assert.ErrorIs(t, c.Notify(ctx, Notification{PDFPath: "bad", TypographyIDs: ids}), apperr.ErrValidation)
	assert.ErrorIs(t, c.Notify(ctx, Notification{PDFPath: "other", TypographyIDs: ids}), apperr.ErrUpstream)
}

func TestRenderBody(t *testing.T) {
	typo := typography.Typography{Name: "Acme <b>", ContactPerson: strp("Ann")}
	assert.Equal(t, "Hi Ann at Acme <b>! Acme <b>", RenderBody("Hi {{contact_person}} at {{name}}! {{name}}", typo))
}
