package attendance

import (
	"context"

	"github.com/shopspring/decimal"
)

// Filter narrows record queries. All fields combine with AND; day keys use
// inclusive lexical comparison, which matches chronological order for the
// canonical key format.
type Filter struct {
	EmployeeID *string
	DayKey     *string
	Status     *Status
	StartDay   *string
	EndDay     *string
	// MonthPrefix is a YYYY-MM lexical prefix over the day key.
	MonthPrefix *string
	// Ascending orders by day key ascending (export); default is descending
	// (history views).
	Ascending bool
}

// RecordRepository is the persistence contract for daily attendance
// records. Uniqueness of (employee_id, day_key) is enforced here.
type RecordRepository interface {
	// Create inserts a new record, returning ErrDuplicateRecord when one
	// already exists for the same employee and day.
	Create(ctx context.Context, rec Record) (Record, error)

	// Update rewrites the mutable fields (times, status, hours) of an
	// existing record.
	Update(ctx context.Context, rec Record) error

	// GetByEmployeeAndDay returns the record for one employee and day, or
	// (nil, nil) when none exists.
	GetByEmployeeAndDay(ctx context.Context, employeeID, dayKey string) (*Record, error)

	// List returns records matching the filter with employee fields joined.
	List(ctx context.Context, filter Filter) ([]Record, error)

	// CountByStatus returns per-status record counts for one day.
	CountByStatus(ctx context.Context, dayKey string) (map[Status]int64, error)

	// Summarize returns record count and summed hours for the filter.
	Summarize(ctx context.Context, filter Filter) (totalDays int64, totalHours decimal.Decimal, err error)

	// CreateAbsencesIfMissing inserts absent placeholder records, silently
	// skipping any (employee, day) that already has a record. Returns the
	// number actually inserted.
	CreateAbsencesIfMissing(ctx context.Context, recs []Record) (int64, error)
}
