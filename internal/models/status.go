// internal/models/status.go
package models

// Status is the lifecycle stage of a loan application.
type Status string

const (
	StatusApplied  Status = "APPLIED"
	StatusApproved Status = "APPROVED"
	StatusFunded   Status = "FUNDED"
	StatusDeclined Status = "DECLINED"
)

// Statuses lists every valid lifecycle stage in display order.
var Statuses = []Status{StatusApplied, StatusApproved, StatusFunded, StatusDeclined}

// allowedTransitions is the lifecycle graph. APPLIED may be approved or
// declined, APPROVED may be funded or declined, FUNDED and DECLINED are
// terminal. Re-asserting the current status is always a no-op update.
var allowedTransitions = map[Status][]Status{
	StatusApplied:  {StatusApproved, StatusDeclined},
	StatusApproved: {StatusFunded, StatusDeclined},
	StatusFunded:   {},
	StatusDeclined: {},
}

// IsValid reports whether s is one of the four lifecycle stages.
func (s Status) IsValid() bool {
	switch s {
	case StatusApplied, StatusApproved, StatusFunded, StatusDeclined:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	if !s.IsValid() || !next.IsValid() {
		return false
	}
	if s == next {
		return true
	}
	for _, t := range allowedTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions exist from s.
func (s Status) IsTerminal() bool {
	return s.IsValid() && len(allowedTransitions[s]) == 0
}
