// internal/models/applicant.go
package models

import "strings"

// Address is a mailing address. The same shape is used for the applicant's
// home address and for company addresses on employment records.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
}

// Employment describes the applicant's current job.
type Employment struct {
	CompanyName     string  `json:"company_name"`
	Position        string  `json:"position"`
	LengthOfService int     `json:"length_of_service"` // months
	GrossIncome     float64 `json:"gross_income"`
	CompanyAddress  Address `json:"company_address"`
	CompanyPhone    string  `json:"company_phone"`
}

// Vehicle is one of up to two vehicle slots on an applicant. A zero Year
// means the slot is empty.
type Vehicle struct {
	Year  int    `json:"year"`
	Make  string `json:"make"`
	Model string `json:"model"`
}

// IsEmpty reports whether the vehicle slot holds no data.
func (v Vehicle) IsEmpty() bool {
	return v.Year == 0 && v.Make == "" && v.Model == ""
}

// MonthlyIncome is the applicant's monthly income breakdown.
type MonthlyIncome struct {
	FTIncome    float64 `json:"ft_income"`
	PTIncome    float64 `json:"pt_income"`
	ChildTax    float64 `json:"child_tax"`
	GovtSupport float64 `json:"govt_support"`
	Pension     float64 `json:"pension"`
}

// MonthlyExpenses is the applicant's monthly expense breakdown.
type MonthlyExpenses struct {
	Utilities     float64 `json:"utilities"`
	PropertyTaxes float64 `json:"property_taxes"`
	ChildSupport  float64 `json:"child_support"`
	Groceries     float64 `json:"groceries"`
	CarInsurance  float64 `json:"car_insurance"`
	CarPayment    float64 `json:"car_payment"`
	PhoneBill     float64 `json:"phone_bill"`
	Internet      float64 `json:"internet"`
}

// LoanEntry is one existing loan held by the applicant.
type LoanEntry struct {
	FinancialInstitution string  `json:"financial_institution"`
	MonthlyPayment       float64 `json:"monthly_pymnt"`
}

// Applicant is a person (main or co-) whose personal and financial data
// backs a loan application.
type Applicant struct {
	FirstName   string `json:"first_name"`
	MiddleName  string `json:"middle_name,omitempty"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
	SIN         string `json:"SIN,omitempty"`
	Email       string `json:"email"`
	CellPhone   string `json:"cell_phone"`

	MaritalStatus  string `json:"marital_status,omitempty"`
	Dependents     int    `json:"dependents"`
	StatusInCanada string `json:"status_in_canada,omitempty"`

	Address           Address `json:"address"`
	Rent              float64 `json:"rent"`
	DurationAtAddress int     `json:"duration_at_address"` // months

	Employment *Employment `json:"employment,omitempty"`

	Vehicle1 Vehicle `json:"vehicle1"`
	Vehicle2 Vehicle `json:"vehicle2"`

	MonthlyIncome   MonthlyIncome   `json:"monthly_income"`
	MonthlyExpenses MonthlyExpenses `json:"monthly_expenses"`

	Loans []LoanEntry `json:"loan"`
}

// FullName joins first and last name for display and export.
func (a Applicant) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}
