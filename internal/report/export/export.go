// internal/report/export/export.go
package export

import (
	"fmt"
	"strconv"

	"loantracker/internal/models"
)

// Columns is the visible column order shared by every export format.
var Columns = []string{"Applicant", "Amount", "Security", "Status", "Date"}

const dateLayout = "2006-01-02"

// Format identifies an export document type.
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatExcel Format = "excel"
)

// ParseFormat validates a raw query-string format value.
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatExcel:
		return FormatExcel, nil
	}
	return "", fmt.Errorf("invalid format %q, use pdf or excel", raw)
}

// Rows projects applications into the tabular cells all exporters render,
// in Columns order.
func Rows(apps []models.Application) [][]string {
	rows := make([][]string, 0, len(apps))
	for _, app := range apps {
		rows = append(rows, []string{
			app.MainApplicant.FullName(),
			strconv.FormatFloat(app.Amount, 'f', 2, 64),
			string(app.Security),
			string(app.Status),
			app.ApplicationDate.Format(dateLayout),
		})
	}
	return rows
}

// Render produces the requested document for the already filtered and
// sorted view.
func Render(format Format, apps []models.Application) ([]byte, error) {
	switch format {
	case FormatExcel:
		return Excel(apps)
	case FormatPDF:
		return PDF(apps)
	}
	return nil, fmt.Errorf("invalid format %q", format)
}
