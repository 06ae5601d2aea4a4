// internal/validation/validation.go
package validation

import (
	"fmt"
	"regexp"
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"loantracker/internal/models"
)

// Error is a single field-scoped violation.
type Error struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Violation codes.
const (
	CodeRequired      = "REQUIRED"
	CodeInvalidFormat = "INVALID_FORMAT"
	CodeMin           = "MIN"
	CodeMax           = "MAX"
	CodeInvalidValue  = "INVALID_VALUE"
)

const (
	MaxDependents  = 20
	MinVehicleYear = 1900
	MinLoanPayment = 1
)

var (
	// Canadian postal code, case-insensitive, optional space or hyphen.
	postalCodeRegex = regexp.MustCompile(`(?i)^[A-Z]\d[A-Z][ -]?\d[A-Z]\d$`)
	// 10-digit national number, optional separators/parentheses/+1 prefix.
	phoneRegex = regexp.MustCompile(`^(\+?1[-. ]?)?(\(\d{3}\)|\d{3})[-. ]?\d{3}[-. ]?\d{4}$`)
	// 9-digit SIN, optionally grouped in threes.
	sinRegex = regexp.MustCompile(`^\d{3}[- ]?\d{3}[- ]?\d{3}$`)
)

// Result collects violations while walking a record.
type Result struct {
	Errors []Error
}

// OK reports whether no violations were recorded.
func (r *Result) OK() bool { return len(r.Errors) == 0 }

// HasField reports whether any violation targets the given field path.
func (r *Result) HasField(path string) bool {
	for _, e := range r.Errors {
		if e.Field == path {
			return true
		}
	}
	return false
}

func (r *Result) add(field, code, message string) {
	r.Errors = append(r.Errors, Error{Field: field, Code: code, Message: message})
}

// check runs ozzo rules against a single value and records a violation
// under the given field path and code.
func (r *Result) check(field, code, message string, value interface{}, rules ...ozzo.Rule) {
	if err := ozzo.Validate(value, rules...); err != nil {
		r.add(field, code, message)
	}
}

// ValidateApplication runs the whole rule set: the main applicant always,
// the co-applicant only when the toggle is set. Validation failures block
// submission; they never reach the network layer.
func ValidateApplication(app *models.Application) *Result {
	res := &Result{}

	// Checked directly: ozzo threshold rules skip zero values, and a zero
	// amount must fail.
	if app.Amount < models.MinLoanAmount {
		res.add("amount", CodeMin,
			fmt.Sprintf("Amount must be at least %d", models.MinLoanAmount))
	}

	if !app.Security.IsValid() {
		res.add("security", CodeInvalidValue, "Security must be one of Vehicle, Property, Co-Signer, None")
	}
	if !app.Status.IsValid() {
		res.add("status", CodeInvalidValue, "Status must be one of APPLIED, APPROVED, FUNDED, DECLINED")
	}

	validateApplicant(res, "main_applicant", &app.MainApplicant)

	if app.HasCoApplicant {
		if app.CoApplicant == nil {
			res.add("co_applicant", CodeRequired, "Co-applicant data is required when the co-applicant toggle is on")
		} else {
			validateApplicant(res, "co_applicant", app.CoApplicant)
		}
	} else if app.CoApplicant != nil {
		// No orphaned co-applicant data may ride along on submission.
		res.add("co_applicant", CodeInvalidValue, "Co-applicant data present with the toggle off")
	}

	return res
}

// ValidateApplicant checks a single applicant sub-record under the given
// field-path prefix.
func ValidateApplicant(prefix string, a *models.Applicant) *Result {
	res := &Result{}
	validateApplicant(res, prefix, a)
	return res
}

func validateApplicant(res *Result, prefix string, a *models.Applicant) {
	res.check(prefix+".first_name", CodeRequired, "First name is required",
		a.FirstName, ozzo.Required)
	res.check(prefix+".last_name", CodeRequired, "Last name is required",
		a.LastName, ozzo.Required)
	res.check(prefix+".date_of_birth", CodeRequired, "Date of birth is required",
		a.DateOfBirth, ozzo.Required)

	res.check(prefix+".email", CodeRequired, "Email is required",
		a.Email, ozzo.Required)
	if a.Email != "" {
		res.check(prefix+".email", CodeInvalidFormat, "Invalid email address",
			a.Email, is.Email)
	}

	res.check(prefix+".cell_phone", CodeRequired, "Cell phone is required",
		a.CellPhone, ozzo.Required)
	if a.CellPhone != "" && !phoneRegex.MatchString(a.CellPhone) {
		res.add(prefix+".cell_phone", CodeInvalidFormat, "Invalid phone number. Example: 416-555-1234")
	}

	if a.SIN != "" && !sinRegex.MatchString(a.SIN) {
		res.add(prefix+".SIN", CodeInvalidFormat, "SIN must be 9 digits, optionally grouped")
	}

	if a.MaritalStatus != "" && !models.IsValidMaritalStatus(a.MaritalStatus) {
		res.add(prefix+".marital_status", CodeInvalidValue, "Unknown marital status")
	}
	if a.StatusInCanada != "" && !models.IsValidResidencyStatus(a.StatusInCanada) {
		res.add(prefix+".status_in_canada", CodeInvalidValue, "Unknown status in Canada")
	}

	if a.Dependents < 0 {
		res.add(prefix+".dependents", CodeMin, "Dependents cannot be negative")
	} else if a.Dependents > MaxDependents {
		res.add(prefix+".dependents", CodeMax,
			fmt.Sprintf("Dependents cannot exceed %d", MaxDependents))
	}

	if a.Rent < 0 {
		res.add(prefix+".rent", CodeMin, "Rent cannot be negative")
	}
	if a.DurationAtAddress < 0 {
		res.add(prefix+".duration_at_address", CodeMin, "Duration at address cannot be negative")
	}

	validateAddress(res, prefix+".address", a.Address)

	if a.Employment != nil {
		validateAddress(res, prefix+".employment.company_address", a.Employment.CompanyAddress)
		if a.Employment.CompanyPhone != "" && !phoneRegex.MatchString(a.Employment.CompanyPhone) {
			res.add(prefix+".employment.company_phone", CodeInvalidFormat, "Invalid phone number. Example: 416-555-1234")
		}
		if a.Employment.GrossIncome < 0 {
			res.add(prefix+".employment.gross_income", CodeMin, "Gross income cannot be negative")
		}
		if a.Employment.LengthOfService < 0 {
			res.add(prefix+".employment.length_of_service", CodeMin, "Length of service cannot be negative")
		}
	}

	validateVehicle(res, prefix+".vehicle1", a.Vehicle1)
	validateVehicle(res, prefix+".vehicle2", a.Vehicle2)

	validateMoney(res, prefix+".monthly_income", incomeFields(a.MonthlyIncome))
	validateMoney(res, prefix+".monthly_expenses", expenseFields(a.MonthlyExpenses))

	for i, l := range a.Loans {
		field := fmt.Sprintf("%s.loan.%d.monthly_pymnt", prefix, i)
		if l.MonthlyPayment < MinLoanPayment {
			res.add(field, CodeMin,
				fmt.Sprintf("Monthly payment must be at least %d", MinLoanPayment))
		}
	}
}

func validateAddress(res *Result, prefix string, addr models.Address) {
	res.check(prefix+".postal_code", CodeRequired, "Postal code is required",
		addr.PostalCode, ozzo.Required)
	if addr.PostalCode != "" && !postalCodeRegex.MatchString(addr.PostalCode) {
		res.add(prefix+".postal_code", CodeInvalidFormat, "Invalid Canadian postal code. Example: M5H 2N2")
	}
	if addr.Province != "" && !models.IsValidProvince(addr.Province) {
		res.add(prefix+".province", CodeInvalidValue, "Unknown province code. Example: ON")
	}
}

func validateVehicle(res *Result, prefix string, v models.Vehicle) {
	if v.IsEmpty() {
		return
	}
	maxYear := time.Now().Year() + 1
	if v.Year < MinVehicleYear {
		res.add(prefix+".year", CodeMin,
			fmt.Sprintf("Vehicle year must be %d or later", MinVehicleYear))
	} else if v.Year > maxYear {
		res.add(prefix+".year", CodeMax,
			fmt.Sprintf("Vehicle year cannot exceed %d", maxYear))
	}
}

func validateMoney(res *Result, prefix string, fields map[string]float64) {
	for name, v := range fields {
		if v < 0 {
			res.add(prefix+"."+name, CodeMin, "Value cannot be negative")
		}
	}
}

func incomeFields(mi models.MonthlyIncome) map[string]float64 {
	return map[string]float64{
		"ft_income":    mi.FTIncome,
		"pt_income":    mi.PTIncome,
		"child_tax":    mi.ChildTax,
		"govt_support": mi.GovtSupport,
		"pension":      mi.Pension,
	}
}

func expenseFields(me models.MonthlyExpenses) map[string]float64 {
	return map[string]float64{
		"utilities":      me.Utilities,
		"property_taxes": me.PropertyTaxes,
		"child_support":  me.ChildSupport,
		"groceries":      me.Groceries,
		"car_insurance":  me.CarInsurance,
		"car_payment":    me.CarPayment,
		"phone_bill":     me.PhoneBill,
		"internet":       me.Internet,
	}
}
