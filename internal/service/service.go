// internal/service/service.go
package service

import (
	"context"
	"io"

	"loantracker/internal/models"
	"loantracker/internal/report"
	"loantracker/internal/report/export"
)

// ApplicationService is the single data-access contract for loan
// applications. Two primary implementations exist: Client speaks to the
// live REST backend, Memory is the in-process fake used for development
// and tests. Which one a view gets is decided at construction, never by a
// runtime-mutable switch.
type ApplicationService interface {
	// List returns applications, optionally filtered by status ("" = all).
	List(ctx context.Context, status models.Status) ([]models.Application, error)

	// Get fetches a single record by identifier.
	Get(ctx context.Context, id string) (*models.Application, error)

	// SearchByName finds one record by exact, case-insensitive main
	// applicant name.
	SearchByName(ctx context.Context, firstName, lastName string) (*models.Application, error)

	// Create validates and stores a new application, stamping the
	// creation timestamp, and returns the assigned identifier.
	Create(ctx context.Context, app *models.Application) (string, error)

	// Update applies the editable-field subset. Status changes must
	// follow the lifecycle transition table.
	Update(ctx context.Context, id string, upd models.ApplicationUpdate) error

	// Report returns one page of the filtered, sorted, date-bounded view.
	Report(ctx context.Context, f report.Filter, s report.Sort, page, pageSize int) (*report.Page, error)

	// DownloadReport renders the filtered, sorted view as a pdf or excel
	// document.
	DownloadReport(ctx context.Context, format export.Format, f report.Filter, s report.Sort) ([]byte, error)

	// Summary aggregates the entire filtered set, independent of paging.
	Summary(ctx context.Context, f report.Filter) (*report.Overview, error)

	// UploadFile stores a document into the (application, file type) slot.
	// The last successful write to a slot wins.
	UploadFile(ctx context.Context, id string, fileType models.FileType, filename string, r io.Reader) error

	// ListFiles returns the stored file names for an application.
	ListFiles(ctx context.Context, id string) ([]string, error)

	// DownloadFile returns the bytes stored in the given slot.
	DownloadFile(ctx context.Context, id string, fileType models.FileType) ([]byte, error)
}

// Deleter is an optional capability. It exists on the in-memory
// implementation but is deliberately not part of ApplicationService: no
// user-facing flow deletes applications.
type Deleter interface {
	Delete(ctx context.Context, id string) error
}
