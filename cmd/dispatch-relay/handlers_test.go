package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/MikeMC777/ordini-tipografia/internal/dispatch"
	"github.com/MikeMC777/ordini-tipografia/internal/typography"
)

//
// ===== STUBS =====
//

type stubTypos map[string]typography.Typography

func (s stubTypos) GetByIDs(ctx context.Context, ids []string) ([]typography.Typography, error) {
	out := []typography.Typography{}
	for _, id := range ids {
		if t, ok := s[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

type urls struct{}

func (urls) PublicURL(key string) string { return "https://files.test/order-pdfs/" + key }

// newWebhook records the last payload and answers with status.
func newWebhook(t *testing.T, status int) (*httptest.Server, *dispatch.WebhookPayload) {
	t.Helper()
	var last dispatch.WebhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&last)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, &last
}

func newTestRouter(t *testing.T, webhookURL, hash string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)
	contact := "Luca"
	typos := stubTypos{
		"t-1": {ID: "t-1", Name: "Stampa Nord", ContactPerson: &contact, Email: "nord@example.com"},
	}
	relay := dispatch.NewRelay(typos, urls{}, dispatch.NewWebhookClient(webhookURL, 2*time.Second))
	relay.Log = log
	return newRouter(relay, hash, log)
}

func post(r *gin.Engine, body, key string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/functions/send-order-email", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	r.ServeHTTP(w, req)
	return w
}

const okBody = `{"pdfPath":"orders/ORD1.pdf","typographyIds":["t-1"],"subject":"Ordine Tipografia ORD1","bodyTemplate":"Ciao {{contact_person}}, ti allego il PDF destinato a {{name}}."}`

//
// ===== TESTS =====
//

func TestSendOrderEmail_OK(t *testing.T) {
	hook, last := newWebhook(t, http.StatusOK)
	r := newTestRouter(t, hook.URL, "")

	w := post(r, okBody, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if w.Body.String() != `{"ok":true}` {
		t.Fatalf("body=%s", w.Body.String())
	}
	if last.PDFURL != "https://files.test/order-pdfs/orders/ORD1.pdf" {
		t.Fatalf("pdf_url=%s", last.PDFURL)
	}
	if len(last.Recipients) != 1 || last.Recipients[0].Body != "Ciao Luca, ti allego il PDF destinato a Stampa Nord." {
		t.Fatalf("recipients=%+v", last.Recipients)
	}
}

func TestSendOrderEmail_BadRequests(t *testing.T) {
	hook, _ := newWebhook(t, http.StatusOK)
	r := newTestRouter(t, hook.URL, "")

	for _, body := range []string{
		``,
		`{"typographyIds":["t-1"]}`,
		`{"pdfPath":"orders/ORD1.pdf","typographyIds":[]}`,
		`{"pdfPath":"orders/ORD1.pdf","typographyIds":["missing"]}`,
	} {
		if w := post(r, body, ""); w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: esperaba 400, got %d %s", body, w.Code, w.Body.String())
		}
	}
}

func TestSendOrderEmail_WebhookNotConfigured(t *testing.T) {
	r := newTestRouter(t, "", "")
	if w := post(r, okBody, ""); w.Code != http.StatusInternalServerError {
		t.Fatalf("esperaba 500, got %d %s", w.Code, w.Body.String())
	}
}

func TestSendOrderEmail_WebhookFails(t *testing.T) {
	hook, _ := newWebhook(t, http.StatusInternalServerError)
	r := newTestRouter(t, hook.URL, "")
	if w := post(r, okBody, ""); w.Code != http.StatusBadGateway {
		t.Fatalf("esperaba 502, got %d %s", w.Code, w.Body.String())
	}
}

func TestSendOrderEmail_APIKey(t *testing.T) {
	hook, _ := newWebhook(t, http.StatusOK)
	hash, err := bcrypt.GenerateFromPassword([]byte("relay-key"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	r := newTestRouter(t, hook.URL, string(hash))

	if w := post(r, okBody, "wrong"); w.Code != http.StatusForbidden {
		t.Fatalf("esperaba 403, got %d", w.Code)
	}
	if w := post(r, okBody, "relay-key"); w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("healthz status=%d", w.Code)
	}
}
