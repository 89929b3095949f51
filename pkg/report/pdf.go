package report

import (
	"io"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// PDF layout, in millimetres
const (
	pdfMargin     = 20
	pdfLineHeight = 6
)

// WritePDF writes the report as an A4 PDF document. The core fonts only
// cover Windows-1252; other characters are printed as '?'.
func WritePDF(w io.Writer, r Report) error {
	h := r.header()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(h.Title, true)
	pdf.SetCreator("pdfhighlights", false)
	if !r.Generated.IsZero() {
		pdf.SetCreationDate(r.Generated)
	}
	align := "L"
	if IsRTL(r.Lang) {
		align = "R"
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, latin1(h.Title), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, pdfLineHeight, latin1(h.Source), "", 1, align, false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, pdfLineHeight, latin1(h.Date), "", 1, align, false, 0, "")
	pdf.CellFormat(0, pdfLineHeight, latin1(h.Count), "", 1, align, false, 0, "")
	pdf.Ln(pdfLineHeight)

	for i, rec := range r.Records {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, pdfLineHeight, latin1(r.entry(i+1, rec)), "", 1, align, false, 0, "")

		pdf.SetFont("Helvetica", "I", 11)
		pdf.SetFillColor(255, 250, 205)
		pdf.MultiCell(0, pdfLineHeight, latin1(rec.Text), "L", align, true)

		pdf.SetFont("Helvetica", "", 9)
		for _, line := range r.details(rec) {
			pdf.CellFormat(0, pdfLineHeight, latin1(line), "", 1, align, false, 0, "")
		}
		pdf.CellFormat(0, pdfLineHeight, strings.Repeat("_", 50), "", 1, align, false, 0, "")
		pdf.Ln(2)
	}

	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, "failed to write PDF report")
	}
	return nil
}

// latin1 encodes s for the core fonts, replacing what Windows-1252 lacks
func latin1(s string) string {
	enc := charmap.Windows1252.NewEncoder()
	if out, err := enc.String(s); err == nil {
		return out
	}

	var b strings.Builder
	for _, r := range s {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}
