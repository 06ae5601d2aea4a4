// internal/finance/finance.go
package finance

import (
	"strconv"
	"strings"

	"loantracker/internal/models"
)

// Totals are the three values derived from an applicant's monthly
// breakdowns. They carry no independent storage; callers recompute on
// every read.
type Totals struct {
	TotalIncome   float64 `json:"total_income"`
	TotalExpenses float64 `json:"total_expenses"`
	NetIncome     float64 `json:"net_income"`
}

// TotalIncome sums the monthly income breakdown.
func TotalIncome(mi models.MonthlyIncome) float64 {
	return mi.FTIncome + mi.PTIncome + mi.ChildTax + mi.GovtSupport + mi.Pension
}

// TotalExpenses sums the monthly expense breakdown.
func TotalExpenses(me models.MonthlyExpenses) float64 {
	return me.Utilities + me.PropertyTaxes + me.ChildSupport + me.Groceries +
		me.CarInsurance + me.CarPayment + me.PhoneBill + me.Internet
}

// Derive computes all three totals for an applicant.
func Derive(a models.Applicant) Totals {
	income := TotalIncome(a.MonthlyIncome)
	expenses := TotalExpenses(a.MonthlyExpenses)
	return Totals{
		TotalIncome:   income,
		TotalExpenses: expenses,
		NetIncome:     income - expenses,
	}
}

// Coerce converts raw intake input to a number; missing or non-numeric
// input counts as zero rather than failing.
func Coerce(raw interface{}) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	case nil:
		return 0
	default:
		return 0
	}
}

// SumRaw totals a set of raw intake values with Coerce applied to each.
func SumRaw(values ...interface{}) float64 {
	var sum float64
	for _, v := range values {
		sum += Coerce(v)
	}
	return sum
}
