package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders a printable question sheet followed by an answer key page.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates the PDF document for p.
func (e *PDFExporter) Render(p Paper) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.MultiCell(0, 8, tr(p.Title), "", "C", false)
	if p.Description != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, tr(p.Description), "", "C", false)
	}
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("%d questions", len(p.Items)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, item := range p.Items {
		pdf.SetFont("Arial", "B", 11)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s", item.Number, item.Content)), "", "L", false)
		if item.HasDiagram {
			pdf.SetFont("Arial", "I", 9)
			pdf.CellFormat(0, 5, "[diagram]", "", 1, "L", false, 0, "")
		}
		pdf.SetFont("Arial", "", 10)
		for i, opt := range item.Options {
			pdf.SetX(22)
			pdf.MultiCell(0, 5.5, tr(fmt.Sprintf("(%s) %s", optionLabel(i), opt)), "", "L", false)
		}
		pdf.Ln(3)
	}

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "ANSWER KEY", "", 1, "C", false, 0, "")
	pdf.Ln(2)
	pdf.SetFont("Arial", "", 10)
	const perRow = 5
	colWidth := 180.0 / perRow
	for i, item := range p.Items {
		pdf.CellFormat(colWidth, 7, fmt.Sprintf("%d. %s", item.Number, strings.ToUpper(item.Answer)), "1", 0, "C", false, 0, "")
		if (i+1)%perRow == 0 {
			pdf.Ln(-1)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
