// internal/report/export/export_test.go
package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"loantracker/internal/models"
)

func sampleApps() []models.Application {
	d1, _ := time.Parse("2006-01-02", "2026-06-03")
	d2, _ := time.Parse("2006-01-02", "2026-07-18")
	return []models.Application{
		{
			MainApplicant:   models.Applicant{FirstName: "Robert", LastName: "Smith"},
			Amount:          12500,
			Security:        models.SecurityVehicle,
			Status:          models.StatusFunded,
			ApplicationDate: d1,
		},
		{
			MainApplicant:   models.Applicant{FirstName: "John", LastName: "Doe"},
			Amount:          8000.5,
			Security:        models.SecurityNone,
			Status:          models.StatusDeclined,
			ApplicationDate: d2,
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("pdf")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	f, err = ParseFormat("excel")
	require.NoError(t, err)
	assert.Equal(t, FormatExcel, f)

	_, err = ParseFormat("csv")
	assert.Error(t, err)
	_, err = ParseFormat("")
	assert.Error(t, err)
}

func TestRows(t *testing.T) {
	rows := Rows(sampleApps())
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Robert Smith", "12500.00", "Vehicle", "FUNDED", "2026-06-03"}, rows[0])
	assert.Equal(t, []string{"John Doe", "8000.50", "None", "DECLINED", "2026-07-18"}, rows[1])
}

func TestExcel_RoundTrip(t *testing.T) {
	data, err := Excel(sampleApps())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	cells, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, cells, 3)
	assert.Equal(t, Columns, cells[0])
	assert.Equal(t, "Robert Smith", cells[1][0])
	assert.Equal(t, "DECLINED", cells[2][3])
}

func TestExcel_EmptyView(t *testing.T) {
	data, err := Excel(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	cells, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, cells, 1, "header row only")
}

func TestPDF(t *testing.T) {
	data, err := PDF(sampleApps())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "not a PDF document")
}

func TestPDF_ManyRowsPaginates(t *testing.T) {
	apps := make([]models.Application, 0, 120)
	for i := 0; i < 120; i++ {
		apps = append(apps, sampleApps()[i%2])
	}
	data, err := PDF(apps)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	// A multi-page document is strictly larger than a single page one.
	single, err := PDF(sampleApps())
	require.NoError(t, err)
	assert.Greater(t, len(data), len(single))
}

func TestRender(t *testing.T) {
	pdfData, err := Render(FormatPDF, sampleApps())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfData, []byte("%PDF")))

	xlsxData, err := Render(FormatExcel, sampleApps())
	require.NoError(t, err)
	assert.NotEmpty(t, xlsxData)

	_, err = Render(Format("csv"), sampleApps())
	assert.Error(t, err)
}
