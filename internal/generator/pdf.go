package generator

import (
	"fmt"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin     = 18.0
	pdfLineHeight = 5.0
)

// RenderPDF writes the document as a styled single-column PDF.
func RenderPDF(doc *Document, style Style, path string) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - 2*pdfMargin

	// Header block: name on the first line, contact details under it.
	for i, line := range doc.Header {
		if i == 0 {
			pdf.SetFont(style.PDFFont, "B", 18)
			pdf.SetTextColor(style.HeaderColor.R, style.HeaderColor.G, style.HeaderColor.B)
			pdf.CellFormat(contentWidth, 9, tr(line), "", 1, "C", false, 0, "")
			continue
		}
		pdf.SetFont(style.PDFFont, "", 10)
		pdf.SetTextColor(80, 80, 80)
		pdf.CellFormat(contentWidth, pdfLineHeight, tr(line), "", 1, "C", false, 0, "")
	}
	if len(doc.Header) > 0 {
		pdf.Ln(3)
	}

	for _, section := range doc.Sections {
		pdf.SetFont(style.PDFFont, "B", 12)
		pdf.SetTextColor(style.HeaderColor.R, style.HeaderColor.G, style.HeaderColor.B)
		pdf.CellFormat(contentWidth, 7, tr(section.Title), "", 1, "L", false, 0, "")

		// Accent rule under the section title
		pdf.SetDrawColor(style.AccentColor.R, style.AccentColor.G, style.AccentColor.B)
		pdf.SetLineWidth(0.4)
		y := pdf.GetY()
		pdf.Line(pdfMargin, y, pdfMargin+contentWidth, y)
		pdf.Ln(2)

		pdf.SetFont(style.PDFFont, "", 10)
		pdf.SetTextColor(30, 30, 30)
		for _, line := range section.Lines {
			if line.Bullet {
				pdf.SetX(pdfMargin + 3)
				pdf.CellFormat(5, pdfLineHeight, tr("•"), "", 0, "L", false, 0, "")
				pdf.MultiCell(contentWidth-8, pdfLineHeight, tr(line.Text), "", "L", false)
			} else {
				pdf.MultiCell(contentWidth, pdfLineHeight, tr(line.Text), "", "L", false)
			}
		}
		pdf.Ln(3)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	return nil
}
