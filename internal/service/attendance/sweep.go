package attendance

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/attendly/attendance-backend-go/internal/pkg/daykey"
	"github.com/shopspring/decimal"
)

// Sweeper marks employees with no record for the current day as absent.
// It runs at most once per calendar day; repeated triggers within the same
// day are no-ops. Concurrent check-ins are safe: the repository skips any
// (employee, day) that gained a record between the listing and the insert.
type Sweeper struct {
	records attendance.RecordRepository
	users   user.UserRepository
	logger  *slog.Logger
	now     func() time.Time

	mu      sync.Mutex
	lastRun string // day key of the last completed sweep
}

func NewSweeper(records attendance.RecordRepository, users user.UserRepository, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		records: records,
		users:   users,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock overrides the sweeper clock for tests.
func (s *Sweeper) WithClock(now func() time.Time) *Sweeper {
	s.now = now
	return s
}

// Run performs the daily absence sweep if it has not already run today.
// Errors are logged, not returned: a failed sweep leaves lastRun unset so
// the next trigger retries.
func (s *Sweeper) Run(ctx context.Context) {
	today := daykey.FromTime(s.now())

	// Claim the day before doing any work so a concurrent trigger skips
	// instead of sweeping twice.
	s.mu.Lock()
	if s.lastRun == today {
		s.mu.Unlock()
		return
	}
	s.lastRun = today
	s.mu.Unlock()

	inserted, err := s.sweep(ctx, today)
	if err != nil {
		// Release the claim so the next trigger retries.
		s.mu.Lock()
		if s.lastRun == today {
			s.lastRun = ""
		}
		s.mu.Unlock()
		s.logger.Error("absence sweep failed", "day", today, "error", err)
		return
	}

	s.logger.Info("absence sweep completed", "day", today, "marked_absent", inserted)
}

// Reset clears the run marker so the next trigger sweeps again even within
// the same day.
func (s *Sweeper) Reset() {
	s.mu.Lock()
	s.lastRun = ""
	s.mu.Unlock()
}

func (s *Sweeper) sweep(ctx context.Context, today string) (int64, error) {
	employees, err := s.users.ListByRole(ctx, user.RoleEmployee)
	if err != nil {
		return 0, err
	}

	existing, err := s.records.List(ctx, attendance.Filter{DayKey: &today})
	if err != nil {
		return 0, err
	}

	marked := make(map[string]bool, len(existing))
	for _, rec := range existing {
		marked[rec.EmployeeID] = true
	}

	var absences []attendance.Record
	for _, emp := range employees {
		if marked[emp.ID] {
			continue
		}
		absences = append(absences, attendance.Record{
			EmployeeID: emp.ID,
			DayKey:     today,
			Status:     attendance.StatusAbsent,
			TotalHours: decimal.Zero,
		})
	}

	return s.records.CreateAbsencesIfMissing(ctx, absences)
}
