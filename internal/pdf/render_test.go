package pdf

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/ordini-tipografia/internal/order"
)

func strp(s string) *string { return &s }

func sampleOrder(pt order.PrintType) *order.Order {
	return &order.Order{
		ID:          "o-1",
		OrderNumber: "ORD1",
		PrintType:   pt,
		Status:      order.StatusBozza,
		CreatedAt:   time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC),
		Details: []order.Detail{
			{
				EANCode:      "8001234567890",
				ClientName:   "Acme",
				ProductName:  "Widget",
				Measurements: strp("50x30"),
				PackageType:  strp("Scatola 10"),
				ExpiryDate:   strp("2025-12-01"),
				Quantity:     5,
				FronteRetro:  true,
				Sagomata:     true,
			},
			{EANCode: "1", ClientName: "Beta", ProductName: "Gadget", Quantity: 1},
		},
	}
}

func render(t *testing.T, o *order.Order) []byte {
	t.Helper()
	r := NewRenderer("FARMAP INDUSTRY")
	r.Compress = false
	out, err := r.Render(o)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	return out
}

func TestRender_Label(t *testing.T) {
	out := render(t, sampleOrder(order.PrintEtichetta))

	for _, want := range []string{
		"ORDINE DI STAMPA - FARMAP INDUSTRY",
		"Ordine: ORD1",
		"05/03/2026",
		"Etichette",
		"Widget", "Acme", "8001234567890",
		"50x30", "Fronte retro, Sagomata",
		"12/2025",
		"Gadget",
		"(N/A)",
		"Misura",
	} {
		assert.Contains(t, string(out), want)
	}
	assert.NotContains(t, string(out), "Tipo confezione")
	assert.NotContains(t, string(out), "Scatola 10")
}

func TestRender_BoxShowsPackageType(t *testing.T) {
	out := render(t, sampleOrder(order.PrintAstuccio))
	assert.Contains(t, string(out), "Tipo confezione")
	assert.Contains(t, string(out), "Scatola 10")
	assert.Contains(t, string(out), "Astucci")
	assert.NotContains(t, string(out), "(Misura)")
}

func TestRender_ManyRowsPaginate(t *testing.T) {
	o := sampleOrder(order.PrintEtichetta)
	for i := 0; i < 80; i++ {
		o.Details = append(o.Details, order.Detail{EANCode: "x", ClientName: "c", ProductName: "p", Quantity: i + 1})
	}
	out := render(t, o)
	assert.Greater(t, bytes.Count(out, []byte("/Type /Page\n")), 1)
}

func TestRender_NilOrder(t *testing.T) {
	_, err := NewRenderer("").Render(nil)
	assert.Error(t, err)
}

func TestRender_AccentedText(t *testing.T) {
	o := sampleOrder(order.PrintBlister)
	o.Details = []order.Detail{{
		EANCode:      "8001234567890",
		ClientName:   "Farmacia Città di Castello",
		ProductName:  "Crema ÀÈÌÒÙ perché più è già",
		Measurements: strp("€ 12 – Łódź"),
		Quantity:     3,
	}}
	out := render(t, o)
	// cp1252: à is 0xE0
	assert.Contains(t, string(out), "Qt\xe0")
	assert.Contains(t, string(out), "Citt\xe0")
}

func TestRender_EmptyDetails(t *testing.T) {
	o := sampleOrder(order.PrintBlister)
	o.Details = nil
	out := render(t, o)
	assert.Contains(t, string(out), "Blister")
}

func TestWrap(t *testing.T) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 8)

	assert.Equal(t, []string{""}, wrap(pdf, "", 20))
	assert.Equal(t, []string{"ab cd"}, wrap(pdf, "ab cd", 50))

	long := strings.Repeat("x", 200)
	lines := wrap(pdf, "Citt\xe0 "+long, 20)
	require.Greater(t, len(lines), 2)
	assert.Equal(t, "Citt\xe0", lines[0])
	for _, l := range lines {
		assert.LessOrEqual(t, pdf.GetStringWidth(l), 20.0, l)
	}
	assert.Equal(t, long, strings.Join(lines[1:], ""))
}
