// internal/intake/form.go
package intake

import (
	"loantracker/internal/finance"
	"loantracker/internal/models"
	"loantracker/internal/validation"
)

// Form is the state of an in-progress application. It mirrors the intake
// flow: populate fields interactively, watch live totals, then Submit,
// which runs the full rule set and either yields the record or the field
// errors to flag.
type Form struct {
	app    models.Application
	result *validation.Result
}

// New returns an empty form. Status starts at APPLIED and security at
// None; both remain editable before submission.
func New() *Form {
	return &Form{
		app: models.Application{
			Status:   models.StatusApplied,
			Security: models.SecurityNone,
		},
	}
}

// Main returns the main applicant sub-record for editing.
func (f *Form) Main() *models.Applicant {
	return &f.app.MainApplicant
}

// Co returns the co-applicant sub-record for editing, or nil while the
// toggle is off.
func (f *Form) Co() *models.Applicant {
	return f.app.CoApplicant
}

// HasCoApplicant reports the toggle state.
func (f *Form) HasCoApplicant() bool {
	return f.app.HasCoApplicant
}

// SetCoApplicant flips the co-applicant toggle. Turning it off discards
// the sub-record entirely, so previously entered data can never block a
// later submission. Turning it on starts from an empty sub-record;
// required-field validation applies again from that point.
func (f *Form) SetCoApplicant(on bool) {
	f.app.HasCoApplicant = on
	if on {
		if f.app.CoApplicant == nil {
			f.app.CoApplicant = &models.Applicant{}
		}
	} else {
		f.app.CoApplicant = nil
	}
}

func (f *Form) SetAmount(amount float64)      { f.app.Amount = amount }
func (f *Form) SetSecurity(s models.Security) { f.app.Security = s }
func (f *Form) SetNotes(notes string)         { f.app.Notes = notes }
func (f *Form) SetReason(reason string)       { f.app.Reason = reason }

// AddLoanRow appends an existing-loan row to the given applicant
// sub-record. Rows are free to append and remove before submission.
func (f *Form) AddLoanRow(a *models.Applicant, institution string, monthlyPayment float64) {
	a.Loans = append(a.Loans, models.LoanEntry{
		FinancialInstitution: institution,
		MonthlyPayment:       monthlyPayment,
	})
}

// RemoveLoanRow deletes the i-th loan row, preserving order of the rest.
func (f *Form) RemoveLoanRow(a *models.Applicant, i int) {
	if i < 0 || i >= len(a.Loans) {
		return
	}
	a.Loans = append(a.Loans[:i], a.Loans[i+1:]...)
}

// Totals recomputes the main applicant's derived values. Purely derived;
// never cached.
func (f *Form) Totals() finance.Totals {
	return finance.Derive(f.app.MainApplicant)
}

// Validate runs the full rule set without submitting and records the
// outcome for FieldInvalid lookups.
func (f *Form) Validate() *validation.Result {
	f.result = validation.ValidateApplication(&f.app)
	return f.result
}

// FieldInvalid reports whether the last Validate/Submit flagged the given
// field path for display.
func (f *Form) FieldInvalid(path string) bool {
	return f.result != nil && f.result.HasField(path)
}

// Submit validates and, when clean, returns a copy of the assembled
// application ready for the create call. The creation timestamp is
// stamped by the service, not here.
func (f *Form) Submit() (*models.Application, []validation.Error) {
	res := f.Validate()
	if !res.OK() {
		return nil, res.Errors
	}
	app := f.app
	if app.CoApplicant != nil {
		co := *app.CoApplicant
		app.CoApplicant = &co
	}
	return &app, nil
}
