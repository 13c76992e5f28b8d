// Package pdf lays out an order as the fixed A4 document sent to print shops.
package pdf

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/MikeMC777/ordini-tipografia/internal/datefmt"
	"github.com/MikeMC777/ordini-tipografia/internal/order"
)

const (
	margin  = 10.0
	lineH   = 5.0
	missing = "N/A"
)

type Renderer struct {
	Company  string
	Compress bool
}

func NewRenderer(company string) *Renderer {
	return &Renderer{Company: company, Compress: true}
}

type column struct {
	title string
	width float64
	value func(d order.Detail) string
}

// columns depends on the print type: box orders show the package type
// where labels and blisters show measurements.
func columns(pt order.PrintType) []column {
	sizeCol := column{title: "Misura", width: 45, value: measurements}
	if pt == order.PrintAstuccio {
		sizeCol = column{title: "Tipo confezione", width: 45, value: func(d order.Detail) string { return orNA(d.PackageType) }}
	}
	return []column{
		{title: productLabel(pt), width: 52, value: func(d order.Detail) string { return orNA(&d.ProductName) }},
		{title: "Cliente", width: 42, value: func(d order.Detail) string { return orNA(&d.ClientName) }},
		{title: "EAN", width: 36, value: func(d order.Detail) string { return orNA(&d.EANCode) }},
		sizeCol,
		{title: "Lotto", width: 30, value: func(d order.Detail) string { return orNA(d.LotNumber) }},
		{title: "Scadenza", width: 26, value: func(d order.Detail) string { return monthYear(d.ExpiryDate) }},
		{title: "Produzione", width: 26, value: func(d order.Detail) string { return monthYear(d.ProductionDate) }},
		{title: "Qtà", width: 20, value: func(d order.Detail) string { return quantity(d.Quantity) }},
	}
}

func productLabel(pt order.PrintType) string {
	switch pt {
	case order.PrintAstuccio:
		return "Astuccio"
	case order.PrintBlister:
		return "Blister"
	default:
		return "Etichetta"
	}
}

func sectionTitle(pt order.PrintType) string {
	switch pt {
	case order.PrintAstuccio:
		return "Astucci"
	case order.PrintBlister:
		return "Blister"
	default:
		return "Etichette"
	}
}

func measurements(d order.Detail) string {
	s := orNA(d.Measurements)
	var notes []string
	if d.FronteRetro {
		notes = append(notes, "Fronte retro")
	}
	if d.Sagomata {
		notes = append(notes, "Sagomata")
	}
	if len(notes) > 0 {
		s += "\n" + strings.Join(notes, ", ")
	}
	return s
}

func orNA(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return missing
	}
	return *s
}

func monthYear(iso *string) string {
	if iso == nil {
		return missing
	}
	if s := datefmt.ToDisplayDate(*iso); s != "" {
		return s
	}
	return missing
}

func quantity(q int) string {
	if q <= 0 {
		return missing
	}
	return strconv.Itoa(q)
}

// Render produces the PDF bytes for o and its details.
func (r *Renderer) Render(o *order.Order) ([]byte, error) {
	if o == nil {
		return nil, fmt.Errorf("render: nil order")
	}
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetCompression(r.Compress)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetCreationDate(o.CreatedAt)
	pdf.SetTitle("Ordine "+o.OrderNumber, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	r.header(pdf, tr, o)
	r.summary(pdf, tr, o)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr(sectionTitle(o.PrintType)), "B", 1, "L", false, 0, "")
	pdf.Ln(2)

	cols := columns(o.PrintType)
	tableRow(pdf, tr, cols, headerCells(cols), true)
	pdf.SetFont("Helvetica", "", 8)
	for _, d := range o.Details {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = c.value(d)
		}
		tableRow(pdf, tr, cols, cells, false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render order %s: %w", o.OrderNumber, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) header(pdf *fpdf.Fpdf, tr func(string) string, o *order.Order) {
	title := "ORDINE DI STAMPA"
	if r.Company != "" {
		title += " - " + r.Company
	}
	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 12, tr(title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	info := fmt.Sprintf("Ordine: %s      Data: %s", o.OrderNumber, datefmt.FormatDay(o.CreatedAt))
	pdf.CellFormat(0, 8, tr(info), "", 1, "C", false, 0, "")
	pdf.Ln(4)
}

func (r *Renderer) summary(pdf *fpdf.Fpdf, tr func(string) string, o *order.Order) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr("Dettagli Ordine"), "B", 1, "L", false, 0, "")
	pdf.Ln(2)
	for _, kv := range [][2]string{
		{"Data Creazione:", datefmt.FormatDay(o.CreatedAt)},
		{"Tipo stampa:", string(o.PrintType)},
		{"Stato:", string(o.Status)},
	} {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(35, 6, tr(kv[0]), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, tr(kv[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func headerCells(cols []column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.title
	}
	return out
}

// tableRow draws one bordered row, wrapping each cell inside its column.
func tableRow(pdf *fpdf.Fpdf, tr func(string) string, cols []column, cells []string, header bool) {
	if header {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(240, 240, 240)
	}
	lines := make([][]string, len(cells))
	n := 1
	for i, c := range cells {
		var ls []string
		for _, part := range strings.Split(tr(c), "\n") {
			ls = append(ls, wrap(pdf, part, cols[i].width-2)...)
		}
		if len(ls) == 0 {
			ls = []string{""}
		}
		lines[i] = ls
		if len(ls) > n {
			n = len(ls)
		}
	}
	h := float64(n)*lineH + 2

	_, pageH := pdf.GetPageSize()
	if pdf.GetY()+h > pageH-margin {
		pdf.AddPage()
	}
	x, y := pdf.GetXY()
	style := "D"
	if header {
		style = "FD"
	}
	for i, ls := range lines {
		pdf.Rect(x, y, cols[i].width, h, style)
		for j, l := range ls {
			pdf.SetXY(x+1, y+1+float64(j)*lineH)
			pdf.CellFormat(cols[i].width-2, lineH, l, "", 0, "L", false, 0, "")
		}
		x += cols[i].width
	}
	pdf.SetXY(margin, y+h)
}

// wrap breaks s into lines no wider than w. s must already be in the core
// font code page, one byte per glyph; words wider than w are cut.
func wrap(pdf *fpdf.Fpdf, s string, w float64) []string {
	var out []string
	cur := ""
	for _, word := range strings.Fields(s) {
		for pdf.GetStringWidth(word) > w {
			if cur != "" {
				out = append(out, cur)
				cur = ""
			}
			n := fit(pdf, word, w)
			out = append(out, word[:n])
			word = word[n:]
		}
		if word == "" {
			continue
		}
		if cur == "" {
			cur = word
		} else if line := cur + " " + word; pdf.GetStringWidth(line) <= w {
			cur = line
		} else {
			out = append(out, cur)
			cur = word
		}
	}
	if cur != "" || len(out) == 0 {
		out = append(out, cur)
	}
	return out
}

// fit returns how many leading bytes of s fit in w, at least one.
func fit(pdf *fpdf.Fpdf, s string, w float64) int {
	n := 1
	for n < len(s) && pdf.GetStringWidth(s[:n+1]) <= w {
		n++
	}
	return n
}
