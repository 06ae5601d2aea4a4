// internal/service/client_test.go
package service_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loantracker/internal/common/errors"
	"loantracker/internal/common/logger"
	"loantracker/internal/models"
	"loantracker/internal/report"
	"loantracker/internal/report/export"
	"loantracker/internal/server"
	"loantracker/internal/service"
)

// newClientOverMemory runs the real router over the in-memory service and
// points a Client at it, so every request crosses the actual wire contract.
func newClientOverMemory(t *testing.T) (*service.Client, *service.Memory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewNoOpLogger()
	mem := service.NewMemory(log)
	srv := httptest.NewServer(server.Router(mem, log))
	t.Cleanup(srv.Close)

	return service.NewClient(srv.URL, 5*time.Second, log), mem
}

func clientTestApplication() *models.Application {
	return &models.Application{
		MainApplicant: models.Applicant{
			FirstName:   "Maria",
			LastName:    "Silva",
			DateOfBirth: "1991-03-22",
			Email:       "maria.silva@example.com",
			CellPhone:   "514-555-0192",
			Address: models.Address{
				Street:     "900 Rue Sainte-Catherine",
				City:       "Montreal",
				Province:   "QC",
				PostalCode: "H3B 1E4",
			},
		},
		Amount:   9500,
		Security: models.SecurityNone,
		Status:   models.StatusApplied,
	}
}

func TestClient_ListAndGet(t *testing.T) {
	c, _ := newClientOverMemory(t)
	ctx := context.Background()

	apps, err := c.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, apps, 3)

	got, err := c.Get(ctx, apps[0].ID)
	require.NoError(t, err)
	assert.Equal(t, apps[0].MainApplicant.FullName(), got.MainApplicant.FullName())

	funded, err := c.List(ctx, models.StatusFunded)
	require.NoError(t, err)
	require.Len(t, funded, 1)
	assert.Equal(t, models.StatusFunded, funded[0].Status)
}

func TestClient_GetUnknownIsNotFound(t *testing.T) {
	c, _ := newClientOverMemory(t)
	_, err := c.Get(context.Background(), "no-such-id")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err), "StandardError survives the round trip")
}

func TestClient_CreateAndUpdate(t *testing.T) {
	c, _ := newClientOverMemory(t)
	ctx := context.Background()

	id, err := c.Create(ctx, clientTestApplication())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	approve := models.StatusApproved
	require.NoError(t, c.Update(ctx, id, models.ApplicationUpdate{Status: &approve}))

	got, err := c.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
}

func TestClient_CreateInvalidIsValidationError(t *testing.T) {
	c, _ := newClientOverMemory(t)
	app := clientTestApplication()
	app.MainApplicant.Email = "nope"

	_, err := c.Create(context.Background(), app)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, errors.ErrCodeValidationFailed, errors.CodeOf(err))
}

func TestClient_UpdateBadTransition(t *testing.T) {
	c, _ := newClientOverMemory(t)
	ctx := context.Background()

	id, err := c.Create(ctx, clientTestApplication())
	require.NoError(t, err)

	fund := models.StatusFunded
	err = c.Update(ctx, id, models.ApplicationUpdate{Status: &fund})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidTransition, errors.CodeOf(err))
}

func TestClient_SearchByName(t *testing.T) {
	c, _ := newClientOverMemory(t)
	app, err := c.SearchByName(context.Background(), "alice", "johnson")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApplied, app.Status)
}

func TestClient_Report(t *testing.T) {
	c, _ := newClientOverMemory(t)
	pg, err := c.Report(context.Background(), report.Filter{}, report.Sort{}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, pg.Total)
	assert.Equal(t, 2, pg.Pages)
	assert.Len(t, pg.Data, 2)
}

func TestClient_ReportFiltered(t *testing.T) {
	c, _ := newClientOverMemory(t)
	from, _ := time.Parse("2006-01-02", "2026-07-01")
	pg, err := c.Report(context.Background(), report.Filter{From: from}, report.Sort{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, pg.Total)
}

func TestClient_Summary(t *testing.T) {
	c, _ := newClientOverMemory(t)

	ov, err := c.Summary(context.Background(), report.Filter{})
	require.NoError(t, err)
	total := 0
	for _, n := range ov.Summary {
		total += n
	}
	assert.Equal(t, 3, total, "buckets cover the whole set")
	assert.InDelta(t, 40500.0, ov.Aggregates.TotalAmount, 0.001)

	ov, err = c.Summary(context.Background(), report.Filter{Status: models.StatusDeclined})
	require.NoError(t, err)
	assert.Equal(t, 1, ov.Summary[models.StatusDeclined])
	assert.InDelta(t, 8000.0, ov.Aggregates.TotalAmount, 0.001)
}

func TestClient_DownloadReport(t *testing.T) {
	c, _ := newClientOverMemory(t)
	ctx := context.Background()

	pdfData, err := c.DownloadReport(ctx, export.FormatPDF, report.Filter{}, report.Sort{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfData, []byte("%PDF")))

	xlsxData, err := c.DownloadReport(ctx, export.FormatExcel, report.Filter{}, report.Sort{})
	require.NoError(t, err)
	assert.NotEmpty(t, xlsxData)
}

func TestClient_FileRoundTrip(t *testing.T) {
	c, _ := newClientOverMemory(t)
	ctx := context.Background()

	id, err := c.Create(ctx, clientTestApplication())
	require.NoError(t, err)

	err = c.UploadFile(ctx, id, models.FileTypePayStub, "stub.pdf", strings.NewReader("pay stub bytes"))
	require.NoError(t, err)

	names, err := c.ListFiles(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"stub.pdf"}, names)

	data, err := c.DownloadFile(ctx, id, models.FileTypePayStub)
	require.NoError(t, err)
	assert.Equal(t, "pay stub bytes", string(data))

	_, err = c.DownloadFile(ctx, id, models.FileTypeContract)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestClient_ServerDown(t *testing.T) {
	log := logger.NewNoOpLogger()
	c := service.NewClient("http://127.0.0.1:1", 500*time.Millisecond, log)

	_, err := c.List(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeTransport, errors.CodeOf(err))
	assert.True(t, errors.IsRetryable(err))
}
