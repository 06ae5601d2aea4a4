// internal/service/memory.go
package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"loantracker/internal/common/errors"
	"loantracker/internal/common/logger"
	"loantracker/internal/models"
	"loantracker/internal/report"
	"loantracker/internal/report/export"
	"loantracker/internal/validation"
)

// Memory is an in-process ApplicationService backed by a map. It comes
// pre-seeded with a few realistic records so screens and tests have data
// to work with from the first call.
type Memory struct {
	mu    sync.RWMutex
	apps  map[string]*models.Application
	files map[string]map[models.FileType][]byte
	names map[string]map[models.FileType]string
	log   logger.Logger
	now   func() time.Time
}

// NewMemory returns a seeded in-memory service.
func NewMemory(log logger.Logger) *Memory {
	m := &Memory{
		apps:  make(map[string]*models.Application),
		files: make(map[string]map[models.FileType][]byte),
		names: make(map[string]map[models.FileType]string),
		log:   log,
		now:   time.Now,
	}
	for _, app := range seedApplications() {
		a := app
		m.apps[a.ID] = &a
	}
	return m
}

func (m *Memory) List(ctx context.Context, status models.Status) ([]models.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Application, 0, len(m.apps))
	for _, app := range m.apps {
		if status != "" && app.Status != status {
			continue
		}
		out = append(out, *app)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ApplicationDate.Equal(out[j].ApplicationDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].ApplicationDate.After(out[j].ApplicationDate)
	})
	return out, nil
}

func (m *Memory) Get(ctx context.Context, id string) (*models.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	app, ok := m.apps[id]
	if !ok {
		return nil, errors.NewNotFoundError(id)
	}
	cp := *app
	return &cp, nil
}

func (m *Memory) SearchByName(ctx context.Context, firstName, lastName string) (*models.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, app := range m.apps {
		if strings.EqualFold(app.MainApplicant.FirstName, firstName) &&
			strings.EqualFold(app.MainApplicant.LastName, lastName) {
			cp := *app
			return &cp, nil
		}
	}
	return nil, errors.NewNotFoundError(firstName + " " + lastName)
}

func (m *Memory) Create(ctx context.Context, app *models.Application) (string, error) {
	res := validation.ValidateApplication(app)
	if !res.OK() {
		return "", errors.NewValidationFailedError(validationDetails(res))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *app
	cp.ID = uuid.New().String()
	// Stamped in UTC so date-range filters, which parse to UTC, never
	// straddle a zone boundary.
	cp.ApplicationDate = m.now().UTC()
	if cp.Status == "" {
		cp.Status = models.StatusApplied
	}
	m.apps[cp.ID] = &cp

	m.log.Info("application created", map[string]interface{}{
		"id":        cp.ID,
		"applicant": cp.MainApplicant.FullName(),
	})
	return cp.ID, nil
}

func (m *Memory) Update(ctx context.Context, id string, upd models.ApplicationUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	app, ok := m.apps[id]
	if !ok {
		return errors.NewNotFoundError(id)
	}
	if upd.Status != nil && !app.Status.CanTransitionTo(*upd.Status) {
		return errors.NewInvalidTransitionError(string(app.Status), string(*upd.Status))
	}

	cp := *app
	upd.ApplyTo(&cp)
	// ApplicationDate is stamped once at creation and never edited.
	cp.ApplicationDate = app.ApplicationDate
	cp.ID = app.ID

	if res := validation.ValidateApplication(&cp); !res.OK() {
		return errors.NewValidationFailedError(validationDetails(res))
	}
	m.apps[id] = &cp
	return nil
}

func (m *Memory) Report(ctx context.Context, f report.Filter, s report.Sort, page, pageSize int) (*report.Page, error) {
	apps, err := m.List(ctx, "")
	if err != nil {
		return nil, err
	}
	filtered := report.Apply(apps, f)
	s.Apply(filtered)
	pg := report.Paginate(filtered, page, pageSize)
	return &pg, nil
}

func (m *Memory) Summary(ctx context.Context, f report.Filter) (*report.Overview, error) {
	apps, err := m.List(ctx, "")
	if err != nil {
		return nil, err
	}
	ov := report.NewOverview(report.Apply(apps, f))
	return &ov, nil
}

func (m *Memory) DownloadReport(ctx context.Context, format export.Format, f report.Filter, s report.Sort) ([]byte, error) {
	apps, err := m.List(ctx, "")
	if err != nil {
		return nil, err
	}
	filtered := report.Apply(apps, f)
	s.Apply(filtered)
	return export.Render(format, filtered)
}

func (m *Memory) UploadFile(ctx context.Context, id string, fileType models.FileType, filename string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return errors.NewUploadFailedError(string(fileType), err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.apps[id]; !ok {
		return errors.NewNotFoundError(id)
	}
	if m.files[id] == nil {
		m.files[id] = make(map[models.FileType][]byte)
		m.names[id] = make(map[models.FileType]string)
	}
	m.files[id][fileType] = data
	m.names[id][fileType] = filename
	return nil
}

func (m *Memory) ListFiles(ctx context.Context, id string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.apps[id]; !ok {
		return nil, errors.NewNotFoundError(id)
	}
	out := make([]string, 0, len(m.names[id]))
	for _, name := range m.names[id] {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func (m *Memory) DownloadFile(ctx context.Context, id string, fileType models.FileType) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.apps[id]; !ok {
		return nil, errors.NewNotFoundError(id)
	}
	data, ok := m.files[id][fileType]
	if !ok {
		return nil, errors.NewFileNotFoundError(id, string(fileType))
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// Delete removes an application and its stored files. Kept off the main
// interface; tests and admin tooling use it.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.apps[id]; !ok {
		return errors.NewNotFoundError(id)
	}
	delete(m.apps, id)
	delete(m.files, id)
	delete(m.names, id)
	return nil
}

func validationDetails(res *validation.Result) string {
	parts := make([]string, 0, len(res.Errors))
	for _, e := range res.Errors {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return strings.Join(parts, "; ")
}

func seedApplications() []models.Application {
	date := func(s string) time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return t
	}
	return []models.Application{
		{
			ID: "a3f1c9d0-6b2e-4f5a-9c7d-1e8b4a2d6f30",
			MainApplicant: models.Applicant{
				FirstName:   "Robert",
				LastName:    "Smith",
				DateOfBirth: "1980-04-12",
				Email:       "robert.smith@example.com",
				CellPhone:   "416-555-0134",
				SIN:         "123 456 789",
				Address: models.Address{
					Street:     "55 King St W",
					City:       "Toronto",
					Province:   "ON",
					PostalCode: "M5H 1J9",
				},
				Rent:              1900,
				DurationAtAddress: 36,
				Employment: &models.Employment{
					CompanyName:     "Northline Logistics",
					Position:        "Dispatcher",
					LengthOfService: 48,
					GrossIncome:     4800,
					CompanyAddress: models.Address{
						Street:     "200 Industry Rd",
						City:       "Toronto",
						Province:   "ON",
						PostalCode: "M9W 5R1",
					},
					CompanyPhone: "416-555-0200",
				},
				MonthlyIncome:   models.MonthlyIncome{FTIncome: 4800},
				MonthlyExpenses: models.MonthlyExpenses{Utilities: 240, CarPayment: 410},
			},
			Amount:          12500,
			Security:        models.SecurityVehicle,
			Status:          models.StatusFunded,
			ApplicationDate: date("2026-06-03"),
		},
		{
			ID: "b7e2d4f1-8c3a-4b6d-a1f0-2c9e5d7b3a41",
			MainApplicant: models.Applicant{
				FirstName:   "John",
				LastName:    "Doe",
				DateOfBirth: "1992-11-30",
				Email:       "john.doe@example.com",
				CellPhone:   "(604) 555-0187",
				Address: models.Address{
					Street:     "1200 Granville St",
					City:       "Vancouver",
					Province:   "BC",
					PostalCode: "V6Z 1L8",
				},
				Rent:            1650,
				MonthlyIncome:   models.MonthlyIncome{FTIncome: 3100, PTIncome: 600},
				MonthlyExpenses: models.MonthlyExpenses{Utilities: 180},
			},
			Amount:          8000,
			Security:        models.SecurityNone,
			Status:          models.StatusDeclined,
			Reason:          "Debt service ratio above threshold",
			ApplicationDate: date("2026-07-18"),
		},
		{
			ID: "c9d4e6a2-1f5b-4c8e-b3a7-4d0f6e8c5b52",
			MainApplicant: models.Applicant{
				FirstName:   "Alice",
				LastName:    "Johnson",
				DateOfBirth: "1987-02-09",
				Email:       "alice.johnson@example.com",
				CellPhone:   "9025550173",
				Dependents:  2,
				Address: models.Address{
					Street:     "18 Barrington St",
					City:       "Halifax",
					Province:   "NS",
					PostalCode: "B3J 2P8",
				},
				Rent:            1500,
				MonthlyIncome:   models.MonthlyIncome{FTIncome: 5200, ChildTax: 350},
				MonthlyExpenses: models.MonthlyExpenses{Utilities: 210, ChildSupport: 800},
			},
			Amount:          20000,
			Security:        models.SecurityProperty,
			Status:          models.StatusApplied,
			Notes:           "Requested callback after 5pm",
			ApplicationDate: date("2026-08-22"),
		},
	}
}
