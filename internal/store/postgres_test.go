// internal/store/postgres_test.go
package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loantracker/internal/common/errors"
	"loantracker/internal/common/logger"
	"loantracker/internal/models"
	"loantracker/internal/report"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestStore(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "postgres")
	return NewPostgres(sqlxDB, nil, logger.NewNoOpLogger()), mock
}

func storedApplication(id string, status models.Status) *models.Application {
	date, _ := time.Parse("2006-01-02", "2026-06-03")
	return &models.Application{
		ID: id,
		MainApplicant: models.Applicant{
			FirstName:   "Robert",
			LastName:    "Smith",
			DateOfBirth: "1980-04-12",
			Email:       "robert.smith@example.com",
			CellPhone:   "416-555-0134",
			Address: models.Address{
				Street:     "55 King St W",
				City:       "Toronto",
				Province:   "ON",
				PostalCode: "M5H 1J9",
			},
		},
		Amount:          12500,
		Security:        models.SecurityVehicle,
		Status:          status,
		ApplicationDate: date,
	}
}

func docRow(t *testing.T, apps ...*models.Application) *sqlmock.Rows {
	t.Helper()
	rows := sqlmock.NewRows([]string{"doc"})
	for _, app := range apps {
		doc, err := json.Marshal(app)
		require.NoError(t, err)
		rows.AddRow(doc)
	}
	return rows
}

// ==========================
// Read Paths
// ==========================

func TestPostgres_Get(t *testing.T) {
	p, mock := newTestStore(t)

	mock.ExpectQuery(`SELECT "doc" FROM "applications"`).
		WithArgs("app-1").
		WillReturnRows(docRow(t, storedApplication("app-1", models.StatusApplied)))

	got, err := p.Get(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, "Robert Smith", got.MainApplicant.FullName())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetNotFound(t *testing.T) {
	p, mock := newTestStore(t)

	mock.ExpectQuery(`SELECT "doc" FROM "applications"`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}))

	_, err := p.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestPostgres_List(t *testing.T) {
	p, mock := newTestStore(t)

	mock.ExpectQuery(`SELECT "doc" FROM "applications"`).
		WithArgs("FUNDED").
		WillReturnRows(docRow(t, storedApplication("app-1", models.StatusFunded)))

	apps, err := p.List(context.Background(), models.StatusFunded)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, models.StatusFunded, apps[0].Status)
}

func TestPostgres_SearchByName(t *testing.T) {
	p, mock := newTestStore(t)

	mock.ExpectQuery(`SELECT "doc" FROM "applications"`).
		WillReturnRows(docRow(t, storedApplication("app-1", models.StatusApplied)))

	got, err := p.SearchByName(context.Background(), "Robert", "SMITH")
	require.NoError(t, err)
	assert.Equal(t, "app-1", got.ID)
}

// ==========================
// Write Paths
// ==========================

func TestPostgres_Create(t *testing.T) {
	p, mock := newTestStore(t)

	mock.ExpectExec(`INSERT INTO "applications"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	app := storedApplication("", models.StatusApplied)
	id, err := p.Create(context.Background(), app)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CreateRejectsInvalidWithoutQuerying(t *testing.T) {
	p, mock := newTestStore(t)

	app := storedApplication("", models.StatusApplied)
	app.Amount = 10

	_, err := p.Create(context.Background(), app)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.NoError(t, mock.ExpectationsWereMet(), "no SQL runs for invalid input")
}

func TestPostgres_UpdateTransition(t *testing.T) {
	p, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "doc" FROM "applications"`).
		WithArgs("app-1").
		WillReturnRows(docRow(t, storedApplication("app-1", models.StatusApplied)))
	mock.ExpectExec(`UPDATE "applications"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	approve := models.StatusApproved
	err := p.Update(context.Background(), "app-1", models.ApplicationUpdate{Status: &approve})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateRejectsBadTransition(t *testing.T) {
	p, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "doc" FROM "applications"`).
		WithArgs("app-1").
		WillReturnRows(docRow(t, storedApplication("app-1", models.StatusDeclined)))
	mock.ExpectRollback()

	approve := models.StatusApproved
	err := p.Update(context.Background(), "app-1", models.ApplicationUpdate{Status: &approve})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidTransition, errors.CodeOf(err))
}

func TestPostgres_UpdateNotFound(t *testing.T) {
	p, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "doc" FROM "applications"`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}))
	mock.ExpectRollback()

	amount := 5000.0
	err := p.Update(context.Background(), "missing", models.ApplicationUpdate{Amount: &amount})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

// ==========================
// Report Projection
// ==========================

func TestPostgres_Report(t *testing.T) {
	p, mock := newTestStore(t)

	mock.ExpectQuery(`SELECT "doc" FROM "applications"`).
		WillReturnRows(docRow(t,
			storedApplication("app-1", models.StatusApplied),
			storedApplication("app-2", models.StatusApplied),
			storedApplication("app-3", models.StatusApplied),
		))

	pg, err := p.Report(context.Background(), report.Filter{}, report.Sort{}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, pg.Total)
	assert.Equal(t, 2, pg.Pages)
	assert.Len(t, pg.Data, 2)
}

func TestPostgres_ReportSearchNarrowsInProcess(t *testing.T) {
	p, mock := newTestStore(t)

	other := storedApplication("app-2", models.StatusApplied)
	other.MainApplicant.FirstName = "Alice"
	other.MainApplicant.LastName = "Johnson"

	mock.ExpectQuery(`SELECT "doc" FROM "applications"`).
		WillReturnRows(docRow(t, storedApplication("app-1", models.StatusApplied), other))

	pg, err := p.Report(context.Background(), report.Filter{Search: "johnson"}, report.Sort{}, 1, 10)
	require.NoError(t, err)
	require.Len(t, pg.Data, 1)
	assert.Equal(t, "app-2", pg.Data[0].ID)
}

func TestPostgres_Summary(t *testing.T) {
	p, mock := newTestStore(t)

	funded := storedApplication("app-2", models.StatusFunded)
	mock.ExpectQuery(`SELECT "doc" FROM "applications"`).
		WillReturnRows(docRow(t, storedApplication("app-1", models.StatusApplied), funded))

	ov, err := p.Summary(context.Background(), report.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, ov.Summary[models.StatusApplied])
	assert.Equal(t, 1, ov.Summary[models.StatusFunded])
	assert.Equal(t, 0, ov.Summary[models.StatusDeclined])
}
