// internal/models/application.go
package models

import "time"

// MinLoanAmount is the smallest amount that can be requested.
const MinLoanAmount = 100

// Application is the canonical loan application record. CoApplicant is
// present only while HasCoApplicant is set; clearing the flag discards the
// sub-record rather than hiding it, so a submitted application never
// carries orphaned co-applicant data.
type Application struct {
	ID              string     `json:"id,omitempty"`
	MainApplicant   Applicant  `json:"main_applicant"`
	CoApplicant     *Applicant `json:"co_applicant,omitempty"`
	HasCoApplicant  bool       `json:"has_co_applicant"`
	Amount          float64    `json:"amount"`
	Security        Security   `json:"security"`
	Status          Status     `json:"status"`
	Notes           string     `json:"notes,omitempty"`
	Reason          string     `json:"reason,omitempty"`
	ApplicationDate time.Time  `json:"application_date"`
}

// ApplicationUpdate carries the fields that remain editable after
// creation. Applicant sub-records are write-once; nil fields are left
// untouched by an update.
type ApplicationUpdate struct {
	Status   *Status   `json:"status,omitempty"`
	Amount   *float64  `json:"amount,omitempty"`
	Security *Security `json:"security,omitempty"`
	Notes    *string   `json:"notes,omitempty"`
	Reason   *string   `json:"reason,omitempty"`
}

// ApplyTo copies the set fields of u onto app. ApplicationDate and the
// applicant sub-records are never touched.
func (u ApplicationUpdate) ApplyTo(app *Application) {
	if u.Status != nil {
		app.Status = *u.Status
	}
	if u.Amount != nil {
		app.Amount = *u.Amount
	}
	if u.Security != nil {
		app.Security = *u.Security
	}
	if u.Notes != nil {
		app.Notes = *u.Notes
	}
	if u.Reason != nil {
		app.Reason = *u.Reason
	}
}
