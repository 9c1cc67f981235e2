package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/attendly/attendance-backend-go/internal/pkg/daykey"
	"github.com/go-chi/jwtauth/v5"
	"github.com/im7mortal/kmutex"
	"github.com/shopspring/decimal"
)

type AttendanceServiceImpl struct {
	attendance.RecordRepository
	user.UserRepository
	// dayLock serializes check-in/check-out per (employee, day); the unique
	// constraint on attendance_records is the backstop for other writers.
	dayLock *kmutex.Kmutex
	now     func() time.Time
}

func NewAttendanceService(recordRepository attendance.RecordRepository, userRepository user.UserRepository) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		RecordRepository: recordRepository,
		UserRepository:   userRepository,
		dayLock:          kmutex.New(),
		now:              time.Now,
	}
}

// WithClock overrides the service clock. Used by tests and by deployments
// that pin a reporting timezone.
func (s *AttendanceServiceImpl) WithClock(now func() time.Time) *AttendanceServiceImpl {
	s.now = now
	return s
}

func (s *AttendanceServiceImpl) employeeIDFromClaims(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", attendance.ErrEmployeeNotFound
	}
	return userID, nil
}

func lockKey(employeeID, dayKey string) string {
	return employeeID + "|" + dayKey
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context) (attendance.RecordResponse, error) {
	employeeID, err := s.employeeIDFromClaims(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	// Claims can outlive the user row; never attach a record to an id the
	// credential store no longer knows.
	if _, err := s.UserRepository.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return attendance.RecordResponse{}, attendance.ErrEmployeeNotFound
		}
		return attendance.RecordResponse{}, err
	}

	now := s.now()
	today := daykey.FromTime(now)

	key := lockKey(employeeID, today)
	s.dayLock.Lock(key)
	defer s.dayLock.Unlock(key)

	existing, err := s.RecordRepository.GetByEmployeeAndDay(ctx, employeeID, today)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	if existing != nil {
		if existing.HasCheckedIn() {
			return attendance.RecordResponse{}, attendance.ErrAlreadyCheckedIn
		}
		// Absence placeholder from the sweep; claim it in place.
		existing.CheckIn = &now
		existing.Status = attendance.StatusForCheckIn(now)
		if err := s.RecordRepository.Update(ctx, *existing); err != nil {
			return attendance.RecordResponse{}, err
		}
		return attendance.NewRecordResponse(*existing), nil
	}

	created, err := s.RecordRepository.Create(ctx, attendance.Record{
		EmployeeID: employeeID,
		DayKey:     today,
		CheckIn:    &now,
		Status:     attendance.StatusForCheckIn(now),
		TotalHours: decimal.Zero,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrDuplicateRecord) {
			return attendance.RecordResponse{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.RecordResponse{}, err
	}

	return attendance.NewRecordResponse(created), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context) (attendance.RecordResponse, error) {
	employeeID, err := s.employeeIDFromClaims(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	now := s.now()
	today := daykey.FromTime(now)

	key := lockKey(employeeID, today)
	s.dayLock.Lock(key)
	defer s.dayLock.Unlock(key)

	existing, err := s.RecordRepository.GetByEmployeeAndDay(ctx, employeeID, today)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if existing == nil || !existing.HasCheckedIn() {
		return attendance.RecordResponse{}, attendance.ErrNoCheckInFound
	}
	if existing.HasCheckedOut() {
		return attendance.RecordResponse{}, attendance.ErrAlreadyCheckedOut
	}

	status, hours := attendance.ApplyCheckOut(*existing.CheckIn, now, existing.Status)
	existing.CheckOut = &now
	existing.Status = status
	existing.TotalHours = hours

	if err := s.RecordRepository.Update(ctx, *existing); err != nil {
		return attendance.RecordResponse{}, err
	}

	return attendance.NewRecordResponse(*existing), nil
}

// Today implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Today(ctx context.Context) (attendance.RecordResponse, error) {
	employeeID, err := s.employeeIDFromClaims(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	today := daykey.FromTime(s.now())

	rec, err := s.RecordRepository.GetByEmployeeAndDay(ctx, employeeID, today)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if rec == nil {
		return attendance.NotMarkedResponse(employeeID, today), nil
	}

	return attendance.NewRecordResponse(*rec), nil
}

// MyHistory implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MyHistory(ctx context.Context, q attendance.HistoryQuery) ([]attendance.RecordResponse, error) {
	employeeID, err := s.employeeIDFromClaims(ctx)
	if err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	records, err := s.RecordRepository.List(ctx, attendance.Filter{
		EmployeeID:  &employeeID,
		MonthPrefix: q.MonthPrefix(),
	})
	if err != nil {
		return nil, err
	}

	return toResponses(records), nil
}

// MySummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MySummary(ctx context.Context, q attendance.HistoryQuery) (attendance.SummaryResponse, error) {
	employeeID, err := s.employeeIDFromClaims(ctx)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}
	if err := q.Validate(); err != nil {
		return attendance.SummaryResponse{}, err
	}

	totalDays, totalHours, err := s.RecordRepository.Summarize(ctx, attendance.Filter{
		EmployeeID:  &employeeID,
		MonthPrefix: q.MonthPrefix(),
	})
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	return attendance.SummaryResponse{
		TotalDays:  totalDays,
		TotalHours: totalHours.InexactFloat64(),
	}, nil
}

// ListAll implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAll(ctx context.Context, q attendance.ListQuery) ([]attendance.RecordResponse, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	filter := attendance.Filter{DayKey: q.Date}
	if q.Status != nil {
		status := attendance.Status(*q.Status)
		filter.Status = &status
	}

	if q.EmployeeCode != nil && *q.EmployeeCode != "" {
		employee, err := s.UserRepository.GetByEmployeeCode(ctx, *q.EmployeeCode)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				// Unknown code filters everything out rather than erroring.
				return []attendance.RecordResponse{}, nil
			}
			return nil, err
		}
		filter.EmployeeID = &employee.ID
	}

	records, err := s.RecordRepository.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return toResponses(records), nil
}

// EmployeeHistory implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) EmployeeHistory(ctx context.Context, employeeID string) (attendance.EmployeeHistoryResponse, error) {
	employee, err := s.UserRepository.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return attendance.EmployeeHistoryResponse{}, attendance.ErrEmployeeNotFound
		}
		return attendance.EmployeeHistoryResponse{}, err
	}

	records, err := s.RecordRepository.List(ctx, attendance.Filter{EmployeeID: &employeeID})
	if err != nil {
		return attendance.EmployeeHistoryResponse{}, err
	}

	return attendance.EmployeeHistoryResponse{
		Employee: attendance.EmployeeInfo{
			ID:           employee.ID,
			Name:         employee.Name,
			Email:        employee.Email,
			EmployeeCode: employee.EmployeeCode,
			Department:   employee.Department,
		},
		Records: toResponses(records),
	}, nil
}

// TeamSummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) TeamSummary(ctx context.Context, q attendance.HistoryQuery) (attendance.TeamSummaryResponse, error) {
	if err := q.Validate(); err != nil {
		return attendance.TeamSummaryResponse{}, err
	}

	totalEmployees, err := s.UserRepository.CountByRole(ctx, user.RoleEmployee)
	if err != nil {
		return attendance.TeamSummaryResponse{}, err
	}

	totalRecords, totalHours, err := s.RecordRepository.Summarize(ctx, attendance.Filter{
		MonthPrefix: q.MonthPrefix(),
	})
	if err != nil {
		return attendance.TeamSummaryResponse{}, err
	}

	return attendance.TeamSummaryResponse{
		TotalEmployees:         totalEmployees,
		TotalAttendanceRecords: totalRecords,
		TotalHours:             totalHours.InexactFloat64(),
	}, nil
}

// TodayOverview implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) TodayOverview(ctx context.Context) (attendance.TodayOverviewResponse, error) {
	today := daykey.FromTime(s.now())

	records, err := s.RecordRepository.List(ctx, attendance.Filter{DayKey: &today})
	if err != nil {
		return attendance.TodayOverviewResponse{}, err
	}

	counts, err := s.DailyCounts(ctx, today)
	if err != nil {
		return attendance.TodayOverviewResponse{}, err
	}

	return attendance.TodayOverviewResponse{
		Date:         today,
		Count:        len(records),
		StatusCounts: counts,
		Records:      toResponses(records),
	}, nil
}

// DailyCounts implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DailyCounts(ctx context.Context, dayKey string) (map[string]int64, error) {
	byStatus, err := s.RecordRepository.CountByStatus(ctx, dayKey)
	if err != nil {
		return nil, err
	}

	// Every known status appears in the map, zero or not, so callers never
	// need presence checks.
	counts := make(map[string]int64, len(attendance.KnownStatuses))
	for _, status := range attendance.KnownStatuses {
		counts[status] = byStatus[attendance.Status(status)]
	}

	return counts, nil
}

func toResponses(records []attendance.Record) []attendance.RecordResponse {
	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, attendance.NewRecordResponse(rec))
	}
	return responses
}
