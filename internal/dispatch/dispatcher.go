package dispatch

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/MikeMC777/ordini-tipografia/internal/apperr"
	"github.com/MikeMC777/ordini-tipografia/internal/order"
	"github.com/MikeMC777/ordini-tipografia/internal/storage"
)

const DefaultBodyTemplate = "Ciao {{contact_person}}, ti allego il PDF destinato a {{name}}."

type OrderStore interface {
	GetByID(ctx context.Context, id string) (*order.Order, error)
	UpdateStatus(ctx context.Context, id string, status order.Status) error
}

type Renderer interface {
	Render(o *order.Order) ([]byte, error)
}

type Request struct {
	OrderID       string   `json:"-"`
	TypographyIDs []string `json:"typography_ids"`
	Subject       string   `json:"subject"`
	BodyTemplate  string   `json:"body_template"`
}

type Result struct {
	OrderNumber string `json:"order_number"`
	PDFPath     string `json:"pdf_path"`
	PDFURL      string `json:"pdf_url"`
	Sends       []Send `json:"sends"`
	Notified    bool   `json:"notified"`
}

type Dispatcher struct {
	Orders       OrderStore
	Typographies TypographyLookup
	Renderer     Renderer
	Store        storage.Store
	Sends        SendRepository
	Notifier     Notifier
	Log          logrus.FieldLogger
}

// PDFPath is the object key an order's PDF is stored under.
func PDFPath(o *order.Order) string {
	name := strings.TrimSpace(o.OrderNumber)
	if name == "" {
		name = o.ID
	}
	name = strings.Join(strings.FieldsFunc(name, unicode.IsSpace), "_")
	return "orders/" + name + ".pdf"
}

// Dispatch renders and uploads the order PDF, records one send per
// typography and notifies the webhook. When only the notification fails the
// returned Result still lists the recorded sends.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (*Result, error) {
	ids := dedupe(req.TypographyIDs)
	if len(ids) == 0 {
		return nil, apperr.Validation("select at least one typography")
	}
	o, err := d.Orders.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("load order %s: %w", req.OrderID, err)
	}
	typos, err := d.Typographies.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load typographies: %w", err)
	}
	if len(typos) != len(ids) {
		return nil, apperr.Validation("%d of %d typographies not found", len(ids)-len(typos), len(ids))
	}

	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = "Ordine Tipografia " + o.OrderNumber
	}
	body := req.BodyTemplate
	if strings.TrimSpace(body) == "" {
		body = DefaultBodyTemplate
	}

	pdf, err := d.Renderer.Render(o)
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	path := PDFPath(o)
	if err := d.Store.Upload(ctx, path, pdf, "application/pdf"); err != nil {
		return nil, fmt.Errorf("upload pdf: %w", err)
	}

	sends := make([]Send, len(ids))
	for i, id := range ids {
		sends[i] = Send{OrderID: o.ID, TypographyID: id, PDFPath: path}
	}
	if err := d.Sends.Record(ctx, sends); err != nil {
		return nil, fmt.Errorf("record sends: %w", err)
	}

	res := &Result{OrderNumber: o.OrderNumber, PDFPath: path, PDFURL: d.Store.PublicURL(path), Sends: sends}
	log := d.logger().WithFields(logrus.Fields{"order": o.OrderNumber, "recipients": len(ids)})

	err = d.Notifier.Notify(ctx, Notification{PDFPath: path, TypographyIDs: ids, Subject: subject, BodyTemplate: body})
	if err != nil {
		log.WithError(err).Warn("sends recorded but notification failed")
		return res, fmt.Errorf("%w: notify: %w", apperr.ErrUpstream, err)
	}
	res.Notified = true

	if o.Status == order.StatusBozza {
		if err := d.Orders.UpdateStatus(ctx, o.ID, order.StatusInviato); err != nil {
			log.WithError(err).Warn("order sent but status not updated")
		}
	}
	log.Info("order dispatched")
	return res, nil
}

func (d *Dispatcher) logger() logrus.FieldLogger {
	if d.Log == nil {
		return logrus.WithField("component", "dispatch")
	}
	return d.Log
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
