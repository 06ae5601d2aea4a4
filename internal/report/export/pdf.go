// internal/report/export/pdf.go
package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"loantracker/internal/models"
)

var pdfColumnWidths = []float64{60, 30, 30, 30, 30}

// PDF renders the view as a paginated table, one header row per page.
func PDF(apps []models.Application) ([]byte, error) {
	doc := fpdf.New("P", "mm", "Letter", "")
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 14)
	doc.Cell(0, 10, "Loan Applications Report")
	doc.Ln(12)

	writeHeader(doc)
	doc.SetFont("Helvetica", "", 10)
	for _, row := range Rows(apps) {
		if doc.GetY() > 250 {
			doc.AddPage()
			writeHeader(doc)
			doc.SetFont("Helvetica", "", 10)
		}
		for i, v := range row {
			doc.CellFormat(pdfColumnWidths[i], 7, v, "1", 0, "L", false, 0, "")
		}
		doc.Ln(-1)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(doc *fpdf.Fpdf) {
	doc.SetFont("Helvetica", "B", 10)
	for i, c := range Columns {
		doc.CellFormat(pdfColumnWidths[i], 7, c, "1", 0, "L", false, 0, "")
	}
	doc.Ln(-1)
}
