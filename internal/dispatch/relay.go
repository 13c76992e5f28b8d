package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/MikeMC777/ordini-tipografia/internal/apperr"
	"github.com/MikeMC777/ordini-tipografia/internal/typography"
)

var ErrNoRecipients = fmt.Errorf("%w: no typography found for the given ids", apperr.ErrValidation)

// Notification is what the relay receives: where the PDF is stored and who
// should get it.
type Notification struct {
	PDFPath       string   `json:"pdfPath"`
	TypographyIDs []string `json:"typographyIds"`
	Subject       string   `json:"subject"`
	BodyTemplate  string   `json:"bodyTemplate"`
}

func (n Notification) validate() error {
	if strings.TrimSpace(n.PDFPath) == "" || len(n.TypographyIDs) == 0 {
		return apperr.Validation("pdfPath and typographyIds are required")
	}
	return nil
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type TypographyLookup interface {
	GetByIDs(ctx context.Context, ids []string) ([]typography.Typography, error)
}

type URLBuilder interface {
	PublicURL(key string) string
}

// Relay resolves recipients and calls the webhook directly.
type Relay struct {
	Typographies TypographyLookup
	URLs         URLBuilder
	Webhook      *WebhookClient
	Log          logrus.FieldLogger
}

func NewRelay(typos TypographyLookup, urls URLBuilder, webhook *WebhookClient) *Relay {
	return &Relay{
		Typographies: typos,
		URLs:         urls,
		Webhook:      webhook,
		Log:          logrus.WithField("component", "relay"),
	}
}

func (r *Relay) Notify(ctx context.Context, n Notification) error {
	if r.Webhook == nil || r.Webhook.URL == "" {
		return ErrWebhookNotConfigured
	}
	if err := n.validate(); err != nil {
		return err
	}
	typos, err := r.Typographies.GetByIDs(ctx, n.TypographyIDs)
	if err != nil {
		return fmt.Errorf("load typographies: %w", err)
	}
	if len(typos) == 0 {
		return ErrNoRecipients
	}

	payload := WebhookPayload{
		Subject:      n.Subject,
		BodyTemplate: n.BodyTemplate,
		PDFURL:       r.URLs.PublicURL(n.PDFPath),
		Recipients:   make([]Recipient, 0, len(typos)),
	}
	for _, t := range typos {
		payload.Recipients = append(payload.Recipients, Recipient{
			Name:          t.Name,
			ContactPerson: t.ContactPerson,
			Email:         t.Email,
			Body:          RenderBody(n.BodyTemplate, t),
		})
	}
	if err := r.Webhook.Send(ctx, payload); err != nil {
		r.Log.WithError(err).WithField("pdf_path", n.PDFPath).Error("webhook call failed")
		return err
	}
	r.Log.WithFields(logrus.Fields{"pdf_path": n.PDFPath, "recipients": len(typos)}).Info("webhook accepted send")
	return nil
}

// RenderBody substitutes {{name}} and {{contact_person}} literally.
func RenderBody(tmpl string, t typography.Typography) string {
	contact := ""
	if t.ContactPerson != nil {
		contact = *t.ContactPerson
	}
	return strings.NewReplacer("{{name}}", t.Name, "{{contact_person}}", contact).Replace(tmpl)
}
