// internal/report/report.go
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"loantracker/internal/models"
)

// Filter narrows a collection of applications. Zero values leave the
// corresponding dimension unfiltered.
type Filter struct {
	// Search matches case-insensitively against applicant name, email,
	// status, security and the formatted amount.
	Search string
	Status models.Status
	// From/To bound application_date inclusively; zero time is open-ended.
	From time.Time
	To   time.Time
}

// Column identifies a sortable/displayed column.
type Column string

const (
	ColumnApplicant Column = "applicant"
	ColumnAmount    Column = "amount"
	ColumnSecurity  Column = "security"
	ColumnStatus    Column = "status"
	ColumnDate      Column = "application_date"
)

// Sort orders a view by one displayed column. A zero Sort leaves the
// collection in its incoming order.
type Sort struct {
	Column Column
	Desc   bool
}

// ParseColumn validates a raw sort column value.
func ParseColumn(raw string) (Column, error) {
	switch Column(raw) {
	case ColumnApplicant, ColumnAmount, ColumnSecurity, ColumnStatus, ColumnDate:
		return Column(raw), nil
	}
	return "", fmt.Errorf("invalid sort column %q", raw)
}

// Page is one page of a filtered view. Page numbers are 1-indexed on the
// wire; slicing is 0-indexed internally.
type Page struct {
	Data     []models.Application `json:"data"`
	Total    int                  `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
	Pages    int                  `json:"pages"`
}

// Summary is the per-status breakdown of a collection. Buckets always sum
// to the collection size.
type Summary map[models.Status]int

// Aggregates are the money rollups over a filtered set.
type Aggregates struct {
	TotalAmount   float64 `json:"total_amount"`
	AverageAmount float64 `json:"average_amount"`
}

// Overview pairs the status breakdown with the money rollups for one
// filtered set. Buckets and rollups always cover the whole set, never a
// page of it.
type Overview struct {
	Summary    Summary    `json:"summary"`
	Aggregates Aggregates `json:"aggregates"`
}

// NewOverview computes the overview of apps.
func NewOverview(apps []models.Application) Overview {
	return Overview{Summary: Summarize(apps), Aggregates: Aggregate(apps)}
}

// Apply returns the applications matching every set dimension of f,
// preserving input order.
func Apply(apps []models.Application, f Filter) []models.Application {
	out := make([]models.Application, 0, len(apps))
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	for _, app := range apps {
		if f.Status != "" && app.Status != f.Status {
			continue
		}
		if !f.From.IsZero() && app.ApplicationDate.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && app.ApplicationDate.After(f.To) {
			continue
		}
		if needle != "" && !matchesSearch(app, needle) {
			continue
		}
		out = append(out, app)
	}
	return out
}

func matchesSearch(app models.Application, needle string) bool {
	haystacks := []string{
		app.MainApplicant.FullName(),
		app.MainApplicant.Email,
		string(app.Status),
		string(app.Security),
		strconv.FormatFloat(app.Amount, 'f', -1, 64),
	}
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

// Apply orders apps in place per s. A zero Sort is a no-op.
func (s Sort) Apply(apps []models.Application) {
	if s.Column == "" {
		return
	}
	SortBy(apps, s.Column, s.Desc)
}

// SortBy orders apps by the given column. The sort is stable, so rows that
// compare equal keep their relative order.
func SortBy(apps []models.Application, col Column, desc bool) {
	less := func(a, b models.Application) bool {
		switch col {
		case ColumnAmount:
			return a.Amount < b.Amount
		case ColumnSecurity:
			return a.Security < b.Security
		case ColumnStatus:
			return a.Status < b.Status
		case ColumnDate:
			return a.ApplicationDate.Before(b.ApplicationDate)
		default:
			return strings.ToLower(a.MainApplicant.FullName()) < strings.ToLower(b.MainApplicant.FullName())
		}
	}
	sort.SliceStable(apps, func(i, j int) bool {
		if desc {
			return less(apps[j], apps[i])
		}
		return less(apps[i], apps[j])
	})
}

// Paginate slices apps into the requested 1-indexed page. Out-of-range
// pages return an empty data slice with correct totals.
func Paginate(apps []models.Application, page, pageSize int) Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	total := len(apps)
	pages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	data := make([]models.Application, end-start)
	copy(data, apps[start:end])

	return Page{
		Data:     data,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    pages,
	}
}

// Summarize counts applications per status. Every status bucket is
// present, zero-valued when empty.
func Summarize(apps []models.Application) Summary {
	s := Summary{}
	for _, st := range models.Statuses {
		s[st] = 0
	}
	for _, app := range apps {
		s[app.Status]++
	}
	return s
}

// Aggregate computes the money rollups over apps.
func Aggregate(apps []models.Application) Aggregates {
	var agg Aggregates
	for _, app := range apps {
		agg.TotalAmount += app.Amount
	}
	if len(apps) > 0 {
		agg.AverageAmount = agg.TotalAmount / float64(len(apps))
	}
	return agg
}
