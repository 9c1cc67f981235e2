package attendance

import (
	"strconv"
	"time"

	"github.com/attendly/attendance-backend-go/internal/pkg/daykey"
	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
)

// isoMillis matches the wire format of check-in/check-out instants:
// UTC ISO-8601 with milliseconds.
const isoMillis = "2006-01-02T15:04:05.000Z"

// ========================================
// ATTENDANCE DTOs
// ========================================

type RecordResponse struct {
	ID           string  `json:"id,omitempty"`
	EmployeeID   string  `json:"employee_id"`
	Date         string  `json:"date"`
	Status       string  `json:"status"`
	CheckInTime  *string `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
	TotalHours   float64 `json:"total_hours"`

	EmployeeName       *string `json:"employee_name,omitempty"`
	EmployeeCode       *string `json:"employee_code,omitempty"`
	EmployeeDepartment *string `json:"employee_department,omitempty"`
	EmployeeEmail      *string `json:"employee_email,omitempty"`
}

// NewRecordResponse maps a record to its wire shape.
func NewRecordResponse(rec Record) RecordResponse {
	return RecordResponse{
		ID:                 rec.ID,
		EmployeeID:         rec.EmployeeID,
		Date:               rec.DayKey,
		Status:             string(rec.Status),
		CheckInTime:        formatInstant(rec.CheckIn),
		CheckOutTime:       formatInstant(rec.CheckOut),
		TotalHours:         rec.TotalHours.InexactFloat64(),
		EmployeeName:       rec.EmployeeName,
		EmployeeCode:       rec.EmployeeCode,
		EmployeeDepartment: rec.EmployeeDepartment,
		EmployeeEmail:      rec.EmployeeEmail,
	}
}

func formatInstant(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(isoMillis)
	return &s
}

// NotMarkedResponse is the synthetic placeholder returned when an employee
// has no record for a day. It is never persisted.
func NotMarkedResponse(employeeID, dayKey string) RecordResponse {
	return RecordResponse{
		EmployeeID: employeeID,
		Date:       dayKey,
		Status:     string(StatusNotMarked),
		TotalHours: 0,
	}
}

// HistoryQuery is the optional month+year scoping shared by history and
// summary endpoints. Month and year come together or not at all.
type HistoryQuery struct {
	Month *string
	Year  *string
}

func (q *HistoryQuery) Validate() error {
	var errs validator.ValidationErrors

	if (q.Month == nil) != (q.Year == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month and year must be provided together",
		})
	}
	if q.Month != nil && !validator.IsValidMonth(*q.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}
	if q.Year != nil && !validator.IsValidYear(*q.Year) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be four digits",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// MonthPrefix returns the YYYY-MM day-key prefix for the query, or nil when
// the query is unscoped.
func (q *HistoryQuery) MonthPrefix() *string {
	if q.Month == nil || q.Year == nil {
		return nil
	}
	m, _ := strconv.Atoi(*q.Month)
	y, _ := strconv.Atoi(*q.Year)
	prefix := daykey.MonthPrefix(y, m)
	return &prefix
}

// ListQuery filters the manager-wide record listing.
type ListQuery struct {
	EmployeeCode *string
	Date         *string
	Status       *string
}

func (q *ListQuery) Validate() error {
	var errs validator.ValidationErrors

	if q.Date != nil && !daykey.IsValid(*q.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be a YYYY-MM-DD day key",
		})
	}
	if q.Status != nil && !validator.IsInSlice(*q.Status, KnownStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of present, late, halfday, absent",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ExportQuery filters the CSV export. Start and end come together.
type ExportQuery struct {
	Start        *string
	End          *string
	EmployeeCode *string
}

func (q *ExportQuery) Validate() error {
	var errs validator.ValidationErrors

	if (q.Start == nil) != (q.End == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "start",
			Message: "start and end must be provided together",
		})
	}
	if q.Start != nil && !daykey.IsValid(*q.Start) {
		errs = append(errs, validator.ValidationError{
			Field:   "start",
			Message: "start must be a YYYY-MM-DD day key",
		})
	}
	if q.End != nil && !daykey.IsValid(*q.End) {
		errs = append(errs, validator.ValidationError{
			Field:   "end",
			Message: "end must be a YYYY-MM-DD day key",
		})
	}
	if q.Start != nil && q.End != nil && *q.End < *q.Start {
		errs = append(errs, validator.ValidationError{
			Field:   "end",
			Message: "end must not be before start",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SummaryResponse struct {
	TotalDays  int64   `json:"total_days"`
	TotalHours float64 `json:"total_hours"`
}

type TeamSummaryResponse struct {
	TotalEmployees         int64   `json:"total_employees"`
	TotalAttendanceRecords int64   `json:"total_attendance_records"`
	TotalHours             float64 `json:"total_hours"`
}

// EmployeeInfo is the credential-store excerpt attached to manager views.
type EmployeeInfo struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	Department   *string `json:"department,omitempty"`
}

type EmployeeHistoryResponse struct {
	Employee EmployeeInfo     `json:"employee"`
	Records  []RecordResponse `json:"records"`
}

// TodayOverviewResponse lists everyone's record for today plus per-status
// counts for calendar-cell coloring.
type TodayOverviewResponse struct {
	Date         string           `json:"date"`
	Count        int              `json:"count"`
	StatusCounts map[string]int64 `json:"status_counts"`
	Records      []RecordResponse `json:"records"`
}
