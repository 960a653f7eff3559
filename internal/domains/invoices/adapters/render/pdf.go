package render

import (
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/Apurer/storefront-console/internal/domains/invoices/domain"
	"github.com/Apurer/storefront-console/internal/domains/invoices/ports"
)

var _ ports.Renderer = PDF{}

// column widths in mm for the line-item table on A4 portrait
var pdfColumnWidths = []float64{70, 30, 25, 15, 40}

// PDF renders invoices as a fixed-layout A4 document. Output bytes depend only on the document.
type PDF struct{}

func (PDF) Format() string      { return "pdf" }
func (PDF) ContentType() string { return "application/pdf" }

func (PDF) Render(doc domain.Document, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(doc.IssuedAt)
	pdf.SetModificationDate(doc.IssuedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(doc.Title, true)
	if doc.Store != "" {
		pdf.SetAuthor(doc.Store, true)
	}
	pdf.AddPage()

	if doc.Store != "" {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.CellFormat(0, 10, tr(doc.Store), "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr(doc.Title), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	writePDFFields(pdf, tr, doc.Header)
	pdf.Ln(4)
	writePDFFields(pdf, tr, doc.Customer)
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, col := range doc.Columns {
		pdf.CellFormat(columnWidth(i), 7, tr(col), "1", 0, columnAlign(i), true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range doc.Rows {
		for i, cell := range row {
			pdf.CellFormat(columnWidth(i), 7, tr(cell), "1", 0, columnAlign(i), false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	for i, f := range doc.Summary {
		style := ""
		if i == len(doc.Summary)-1 {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(140, 6, tr(f.Label), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, tr(f.Value), "", 1, "R", false, 0, "")
	}

	return pdf.Output(w)
}

func writePDFFields(pdf *fpdf.Fpdf, tr func(string) string, fields []domain.Field) {
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, tr(f.Label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, tr(f.Value), "", 1, "L", false, 0, "")
	}
}

func columnWidth(i int) float64 {
	if i < len(pdfColumnWidths) {
		return pdfColumnWidths[i]
	}
	return 25
}

func columnAlign(i int) string {
	if i == 0 {
		return "L"
	}
	return "R"
}
