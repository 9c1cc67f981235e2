package attendance

import "context"

// AttendanceService is the business contract behind the attendance API.
// Employee-facing operations resolve the acting employee from the request
// claims; manager operations take explicit filters.
type AttendanceService interface {
	// CheckIn records today's check-in for the authenticated employee and
	// derives the initial status. Fails with ErrAlreadyCheckedIn on repeat.
	CheckIn(ctx context.Context) (RecordResponse, error)

	// CheckOut records today's check-out, recomputing status and total
	// hours. Fails with ErrNoCheckInFound or ErrAlreadyCheckedOut.
	CheckOut(ctx context.Context) (RecordResponse, error)

	// Today returns today's record, or a not-marked placeholder.
	Today(ctx context.Context) (RecordResponse, error)

	// MyHistory returns the employee's records, newest day first.
	MyHistory(ctx context.Context, q HistoryQuery) ([]RecordResponse, error)

	// MySummary totals the employee's days and hours over the query range.
	MySummary(ctx context.Context, q HistoryQuery) (SummaryResponse, error)

	// ListAll returns team-wide records for managers, newest day first.
	ListAll(ctx context.Context, q ListQuery) ([]RecordResponse, error)

	// EmployeeHistory returns one employee plus their full history.
	EmployeeHistory(ctx context.Context, employeeID string) (EmployeeHistoryResponse, error)

	// TeamSummary aggregates team-wide totals over the query range.
	TeamSummary(ctx context.Context, q HistoryQuery) (TeamSummaryResponse, error)

	// TodayOverview lists everyone's record for today with status counts.
	TodayOverview(ctx context.Context) (TodayOverviewResponse, error)

	// DailyCounts returns per-status record counts for one day.
	DailyCounts(ctx context.Context, dayKey string) (map[string]int64, error)

	// ExportCSV renders the filtered records in the fixed 9-column CSV
	// format, oldest day first.
	ExportCSV(ctx context.Context, q ExportQuery) ([]byte, error)
}
