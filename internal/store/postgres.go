// internal/store/postgres.go

// Package store persists loan applications in PostgreSQL. The full
// record lives as a JSONB document; the handful of columns the listing
// and report screens filter on (name, status, amount, date) are
// extracted at write time so queries never dig into the document.
package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"io"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"loantracker/internal/common/errors"
	"loantracker/internal/common/logger"
	"loantracker/internal/files"
	"loantracker/internal/models"
	"loantracker/internal/report"
	"loantracker/internal/report/export"
	"loantracker/internal/validation"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var dialect = goqu.Dialect("postgres")

const applicationsTable = "applications"

// Schema is the DDL the store expects. Applied by deployment tooling,
// kept here so the expected shape is visible next to the queries.
const Schema = `
CREATE TABLE IF NOT EXISTS applications (
    id               TEXT PRIMARY KEY,
    first_name       TEXT NOT NULL,
    last_name        TEXT NOT NULL,
    status           TEXT NOT NULL,
    amount           NUMERIC NOT NULL,
    application_date TIMESTAMPTZ NOT NULL,
    doc              JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_applications_status ON applications (status);
CREATE INDEX IF NOT EXISTS idx_applications_date   ON applications (application_date);
`

// Postgres is the server-side ApplicationService. Uploaded documents go
// through the injected files.Storage, not the database.
type Postgres struct {
	db   *sqlx.DB
	docs files.Storage
	log  logger.Logger
	now  func() time.Time
}

func NewPostgres(db *sqlx.DB, docs files.Storage, log logger.Logger) *Postgres {
	return &Postgres{db: db, docs: docs, log: log, now: time.Now}
}

func (p *Postgres) List(ctx context.Context, status models.Status) ([]models.Application, error) {
	ds := dialect.From(applicationsTable).
		Select("doc").
		Order(goqu.I("application_date").Desc(), goqu.I("id").Asc())
	if status != "" {
		ds = ds.Where(goqu.Ex{"status": string(status)})
	}
	return p.queryDocs(ctx, ds)
}

func (p *Postgres) Get(ctx context.Context, id string) (*models.Application, error) {
	query, args, err := dialect.From(applicationsTable).
		Select("doc").
		Where(goqu.Ex{"id": id}).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, errors.NewStorageError(err)
	}
	var doc []byte
	if err := p.db.GetContext(ctx, &doc, query, args...); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError(id)
		}
		return nil, errors.NewStorageError(err)
	}
	return decodeDoc(doc)
}

func (p *Postgres) SearchByName(ctx context.Context, firstName, lastName string) (*models.Application, error) {
	query, args, err := dialect.From(applicationsTable).
		Select("doc").
		Where(
			goqu.L("lower(first_name)").Eq(strings.ToLower(firstName)),
			goqu.L("lower(last_name)").Eq(strings.ToLower(lastName)),
		).
		Limit(1).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, errors.NewStorageError(err)
	}
	var doc []byte
	if err := p.db.GetContext(ctx, &doc, query, args...); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError(firstName + " " + lastName)
		}
		return nil, errors.NewStorageError(err)
	}
	return decodeDoc(doc)
}

func (p *Postgres) Create(ctx context.Context, app *models.Application) (string, error) {
	if res := validation.ValidateApplication(app); !res.OK() {
		return "", errors.NewValidationFailedError(joinViolations(res.Errors))
	}

	cp := *app
	cp.ID = uuid.New().String()
	cp.ApplicationDate = p.now().UTC()
	if cp.Status == "" {
		cp.Status = models.StatusApplied
	}

	doc, err := json.Marshal(&cp)
	if err != nil {
		return "", errors.NewStorageError(err)
	}
	query, args, err := dialect.Insert(applicationsTable).
		Rows(goqu.Record{
			"id":               cp.ID,
			"first_name":       cp.MainApplicant.FirstName,
			"last_name":        cp.MainApplicant.LastName,
			"status":           string(cp.Status),
			"amount":           cp.Amount,
			"application_date": cp.ApplicationDate,
			"doc":              doc,
		}).
		Prepared(true).ToSQL()
	if err != nil {
		return "", errors.NewStorageError(err)
	}
	if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
		return "", errors.NewStorageError(err)
	}

	p.log.Info("application created", map[string]interface{}{
		"id":        cp.ID,
		"applicant": cp.MainApplicant.FullName(),
	})
	return cp.ID, nil
}

func (p *Postgres) Update(ctx context.Context, id string, upd models.ApplicationUpdate) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.NewStorageError(err)
	}
	defer tx.Rollback()

	query, args, err := dialect.From(applicationsTable).
		Select("doc").
		Where(goqu.Ex{"id": id}).
		Prepared(true).ToSQL()
	if err != nil {
		return errors.NewStorageError(err)
	}
	var doc []byte
	if err := tx.GetContext(ctx, &doc, query, args...); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewNotFoundError(id)
		}
		return errors.NewStorageError(err)
	}
	app, err := decodeDoc(doc)
	if err != nil {
		return err
	}

	if upd.Status != nil && !app.Status.CanTransitionTo(*upd.Status) {
		return errors.NewInvalidTransitionError(string(app.Status), string(*upd.Status))
	}

	cp := *app
	upd.ApplyTo(&cp)
	cp.ID = app.ID
	cp.ApplicationDate = app.ApplicationDate

	if res := validation.ValidateApplication(&cp); !res.OK() {
		return errors.NewValidationFailedError(joinViolations(res.Errors))
	}

	newDoc, err := json.Marshal(&cp)
	if err != nil {
		return errors.NewStorageError(err)
	}
	query, args, err = dialect.Update(applicationsTable).
		Set(goqu.Record{
			"status": string(cp.Status),
			"amount": cp.Amount,
			"doc":    newDoc,
		}).
		Where(goqu.Ex{"id": id}).
		Prepared(true).ToSQL()
	if err != nil {
		return errors.NewStorageError(err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return errors.NewStorageError(err)
	}
	if err := tx.Commit(); err != nil {
		return errors.NewStorageError(err)
	}
	return nil
}

func (p *Postgres) Report(ctx context.Context, f report.Filter, s report.Sort, page, pageSize int) (*report.Page, error) {
	apps, err := p.filtered(ctx, f)
	if err != nil {
		return nil, err
	}
	s.Apply(apps)
	pg := report.Paginate(apps, page, pageSize)
	return &pg, nil
}

func (p *Postgres) Summary(ctx context.Context, f report.Filter) (*report.Overview, error) {
	apps, err := p.filtered(ctx, f)
	if err != nil {
		return nil, err
	}
	ov := report.NewOverview(apps)
	return &ov, nil
}

func (p *Postgres) DownloadReport(ctx context.Context, format export.Format, f report.Filter, s report.Sort) ([]byte, error) {
	apps, err := p.filtered(ctx, f)
	if err != nil {
		return nil, err
	}
	s.Apply(apps)
	return export.Render(format, apps)
}

func (p *Postgres) UploadFile(ctx context.Context, id string, fileType models.FileType, filename string, r io.Reader) error {
	app, err := p.Get(ctx, id)
	if err != nil {
		return err
	}
	key := files.Key(app, fileType, filename)
	if err := p.docs.Save(ctx, key, r); err != nil {
		return errors.NewUploadFailedError(string(fileType), err)
	}
	return nil
}

func (p *Postgres) ListFiles(ctx context.Context, id string) ([]string, error) {
	app, err := p.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	keys, err := p.docs.List(ctx, files.Prefix(app))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		if i := strings.LastIndex(k, "/"); i >= 0 {
			k = k[i+1:]
		}
		names = append(names, k)
	}
	return names, nil
}

func (p *Postgres) DownloadFile(ctx context.Context, id string, fileType models.FileType) ([]byte, error) {
	app, err := p.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	keys, err := p.docs.List(ctx, files.Prefix(app))
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		name := k
		if i := strings.LastIndex(k, "/"); i >= 0 {
			name = k[i+1:]
		}
		if strings.TrimSuffix(name, pathExt(name)) == string(fileType) {
			rc, err := p.docs.Open(ctx, k)
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			data, err := io.ReadAll(rc)
			if err != nil {
				return nil, errors.NewStorageError(err)
			}
			return data, nil
		}
	}
	return nil, errors.NewFileNotFoundError(id, string(fileType))
}

// filtered pushes the status and date bounds into SQL and leaves the
// free-text search to the shared projection, so both backends match on
// what the search covers.
func (p *Postgres) filtered(ctx context.Context, f report.Filter) ([]models.Application, error) {
	ds := dialect.From(applicationsTable).
		Select("doc").
		Order(goqu.I("application_date").Desc(), goqu.I("id").Asc())
	if f.Status != "" {
		ds = ds.Where(goqu.Ex{"status": string(f.Status)})
	}
	if !f.From.IsZero() {
		ds = ds.Where(goqu.I("application_date").Gte(f.From))
	}
	if !f.To.IsZero() {
		ds = ds.Where(goqu.I("application_date").Lte(f.To))
	}
	apps, err := p.queryDocs(ctx, ds)
	if err != nil {
		return nil, err
	}
	return report.Apply(apps, report.Filter{Search: f.Search}), nil
}

func (p *Postgres) queryDocs(ctx context.Context, ds *goqu.SelectDataset) ([]models.Application, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, errors.NewStorageError(err)
	}
	var docs [][]byte
	if err := p.db.SelectContext(ctx, &docs, query, args...); err != nil {
		return nil, errors.NewStorageError(err)
	}
	out := make([]models.Application, 0, len(docs))
	for _, d := range docs {
		app, err := decodeDoc(d)
		if err != nil {
			return nil, err
		}
		out = append(out, *app)
	}
	return out, nil
}

func decodeDoc(doc []byte) (*models.Application, error) {
	var app models.Application
	if err := json.Unmarshal(doc, &app); err != nil {
		return nil, errors.NewStorageError(err)
	}
	return &app, nil
}

func joinViolations(errs []validation.Error) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return strings.Join(parts, "; ")
}

func pathExt(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}
