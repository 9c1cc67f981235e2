package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent   Status = "present"
	StatusLate      Status = "late"
	StatusHalfday   Status = "halfday"
	StatusAbsent    Status = "absent"
	StatusNotMarked Status = "not-marked"
)

// KnownStatuses are the persisted statuses; not-marked is a synthetic
// placeholder and never stored.
var KnownStatuses = []string{
	string(StatusPresent),
	string(StatusLate),
	string(StatusHalfday),
	string(StatusAbsent),
}

// Record is one employee's attendance for one calendar day, keyed by
// (EmployeeID, DayKey). It is created on first check-in or by the absence
// sweep, mutated in place by check-out, and never deleted.
type Record struct {
	ID         string
	EmployeeID string
	DayKey     string
	CheckIn    *time.Time
	CheckOut   *time.Time
	Status     Status
	TotalHours decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Joined credential-store fields for manager views and export.
	EmployeeName       *string
	EmployeeCode       *string
	EmployeeDepartment *string
	EmployeeEmail      *string
}

// HasCheckedIn reports whether a check-in has been recorded.
func (r *Record) HasCheckedIn() bool {
	return r.CheckIn != nil
}

// HasCheckedOut reports whether a check-out has been recorded.
func (r *Record) HasCheckedOut() bool {
	return r.CheckOut != nil
}
