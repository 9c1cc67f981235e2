package attendance

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

// csvHeader is the fixed 9-column export header. Consumers key on these
// exact names; the order never changes.
const csvHeader = "EmployeeName,EmployeeId,Department,Email,Date,Status,CheckInTime,CheckOutTime,TotalHours"

// isoMillisUTC matches the timestamp format of the exported check-in and
// check-out columns.
const isoMillisUTC = "2006-01-02T15:04:05.000Z"

// ExportCSV implements attendance.AttendanceService. Rows come out oldest
// day first; optional fields render as empty cells. Values never contain
// commas or quotes, so no CSV escaping is applied.
func (s *AttendanceServiceImpl) ExportCSV(ctx context.Context, q attendance.ExportQuery) ([]byte, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	filter := attendance.Filter{
		StartDay:  q.Start,
		EndDay:    q.End,
		Ascending: true,
	}

	if q.EmployeeCode != nil && *q.EmployeeCode != "" {
		employee, err := s.UserRepository.GetByEmployeeCode(ctx, *q.EmployeeCode)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return nil, attendance.ErrEmployeeNotFound
			}
			return nil, err
		}
		filter.EmployeeID = &employee.ID
	}

	records, err := s.RecordRepository.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(records)+1)
	lines = append(lines, csvHeader)
	for _, rec := range records {
		lines = append(lines, csvRow(rec))
	}

	return []byte(strings.Join(lines, "\n")), nil
}

func csvRow(rec attendance.Record) string {
	fields := []string{
		deref(rec.EmployeeName),
		deref(rec.EmployeeCode),
		deref(rec.EmployeeDepartment),
		deref(rec.EmployeeEmail),
		rec.DayKey,
		string(rec.Status),
		csvInstant(rec.CheckIn),
		csvInstant(rec.CheckOut),
		formatHours(rec.TotalHours),
	}
	return strings.Join(fields, ",")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func csvInstant(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(isoMillisUTC)
}

// formatHours renders total hours without trailing zeros: 8.50 exports as
// "8.5" and 3.00 as "3".
func formatHours(d decimal.Decimal) string {
	s := d.Round(2).String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return s
}
