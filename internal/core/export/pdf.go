package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter implements PDF export using gofpdf
type PDFExporter struct {
	orientation string
	pageSize    string
}

// NewPDFExporter creates a new PDF exporter
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{
		orientation: "P",
		pageSize:    "A4",
	}
}

// Export writes the table as a PDF document
func (p *PDFExporter) Export(data *Data, writer io.Writer) error {
	if len(data.Headers) == 0 {
		return fmt.Errorf("no headers provided")
	}

	pdf := gofpdf.New(p.orientation, "mm", p.pageSize, "")
	pdf.AddPage()

	if data.Title != "" {
		pdf.SetFont("Arial", "B", 16)
		pdf.Cell(0, 10, data.Title)
		pdf.Ln(12)
	}

	if !data.CreatedAt.IsZero() {
		pdf.SetFont("Arial", "I", 8)
		pdf.Cell(0, 5, fmt.Sprintf("Generated: %s", data.CreatedAt.Format("2006-01-02 15:04:05")))
		pdf.Ln(10)
	}

	pageWidth, _ := pdf.GetPageSize()
	leftMargin, _, rightMargin, _ := pdf.GetMargins()
	colWidth := (pageWidth - leftMargin - rightMargin) / float64(len(data.Headers))

	drawHeader := func() {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(68, 114, 196)
		pdf.SetTextColor(255, 255, 255)
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 7, header, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Arial", "", 10)
	}

	drawHeader()
	for rowIdx, row := range data.Rows {
		if rowIdx%2 == 0 {
			pdf.SetFillColor(255, 255, 255)
		} else {
			pdf.SetFillColor(242, 242, 242)
		}
		for _, value := range row {
			pdf.CellFormat(colWidth, 6, value, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)

		if pdf.GetY() > 270 { // Near bottom of A4 page
			pdf.AddPage()
			drawHeader()
		}
	}

	if err := pdf.Output(writer); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

func (p *PDFExporter) ContentType() string {
	return "application/pdf"
}

func (p *PDFExporter) FileExtension() string {
	return "pdf"
}
