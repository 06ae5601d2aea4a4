// internal/models/status_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"applied to approved", StatusApplied, StatusApproved, true},
		{"applied to declined", StatusApplied, StatusDeclined, true},
		{"applied to funded skips approval", StatusApplied, StatusFunded, false},
		{"approved to funded", StatusApproved, StatusFunded, true},
		{"approved to declined", StatusApproved, StatusDeclined, true},
		{"approved back to applied", StatusApproved, StatusApplied, false},
		{"funded is terminal", StatusFunded, StatusApproved, false},
		{"declined is terminal", StatusDeclined, StatusApplied, false},
		{"declined cannot fund", StatusDeclined, StatusFunded, false},
		{"self transition applied", StatusApplied, StatusApplied, true},
		{"self transition funded", StatusFunded, StatusFunded, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusApplied.IsTerminal())
	assert.False(t, StatusApproved.IsTerminal())
	assert.True(t, StatusFunded.IsTerminal())
	assert.True(t, StatusDeclined.IsTerminal())
}

func TestStatus_IsValid(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, s.IsValid(), string(s))
	}
	assert.False(t, Status("PENDING").IsValid())
	assert.False(t, Status("applied").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestApplicationUpdate_ApplyTo(t *testing.T) {
	app := Application{
		Amount:   5000,
		Security: SecurityNone,
		Status:   StatusApplied,
		Notes:    "original",
	}

	status := StatusApproved
	amount := 7500.0
	upd := ApplicationUpdate{Status: &status, Amount: &amount}
	upd.ApplyTo(&app)

	assert.Equal(t, StatusApproved, app.Status)
	assert.Equal(t, 7500.0, app.Amount)
	// Unset fields stay untouched.
	assert.Equal(t, SecurityNone, app.Security)
	assert.Equal(t, "original", app.Notes)
}
