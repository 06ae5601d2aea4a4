// internal/finance/finance_test.go
package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"loantracker/internal/models"
)

func TestDerive(t *testing.T) {
	a := models.Applicant{
		MonthlyIncome: models.MonthlyIncome{
			FTIncome:    4000,
			PTIncome:    500,
			ChildTax:    200,
			GovtSupport: 100,
			Pension:     0,
		},
		MonthlyExpenses: models.MonthlyExpenses{
			Utilities:  250,
			Groceries:  600,
			CarPayment: 350,
			PhoneBill:  80,
		},
	}

	totals := Derive(a)
	assert.Equal(t, 4800.0, totals.TotalIncome)
	assert.Equal(t, 1280.0, totals.TotalExpenses)
	assert.Equal(t, 3520.0, totals.NetIncome)
}

func TestDerive_ZeroApplicant(t *testing.T) {
	totals := Derive(models.Applicant{})
	assert.Zero(t, totals.TotalIncome)
	assert.Zero(t, totals.TotalExpenses)
	assert.Zero(t, totals.NetIncome)
}

func TestDerive_NegativeNet(t *testing.T) {
	a := models.Applicant{
		MonthlyIncome:   models.MonthlyIncome{FTIncome: 1000},
		MonthlyExpenses: models.MonthlyExpenses{Utilities: 400, Groceries: 900},
	}
	assert.Equal(t, -300.0, Derive(a).NetIncome)
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want float64
	}{
		{"float64", 12.5, 12.5},
		{"int", 7, 7.0},
		{"numeric string", "1200.50", 1200.5},
		{"padded string", "  42 ", 42.0},
		{"non-numeric string", "abc", 0},
		{"empty string", "", 0},
		{"nil", nil, 0},
		{"unsupported type", struct{}{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Coerce(tt.raw))
		})
	}
}

func TestSumRaw(t *testing.T) {
	// Non-numeric entries count as zero, identical to a blank field.
	assert.Equal(t, 150.0, SumRaw(100, "50", "oops", nil))
	assert.Zero(t, SumRaw())
}
