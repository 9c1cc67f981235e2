package attendance

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

// In-memory repositories backing the service tests. They mirror the
// persistence contracts, including the (employee, day) uniqueness rule and
// the joined employee fields.

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]user.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, newUser user.User) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == newUser.Email {
			return user.User{}, user.ErrEmailExists
		}
		if u.EmployeeCode != nil && newUser.EmployeeCode != nil && *u.EmployeeCode == *newUser.EmployeeCode {
			return user.User{}, user.ErrEmployeeCodeExists
		}
	}

	f.seq++
	newUser.ID = fmt.Sprintf("user-%d", f.seq)
	newUser.CreatedAt = time.Now()
	newUser.UpdatedAt = newUser.CreatedAt
	f.users[newUser.ID] = newUser
	return newUser, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmployeeCode(ctx context.Context, employeeCode string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.EmployeeCode != nil && *u.EmployeeCode == employeeCode {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) ListByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []user.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserRepo) CountByRole(ctx context.Context, role user.Role) (int64, error) {
	list, _ := f.ListByRole(ctx, role)
	return int64(len(list)), nil
}

type fakeRecordRepo struct {
	mu      sync.Mutex
	seq     int
	records map[string]attendance.Record // employeeID|dayKey
	users   *fakeUserRepo
}

func newFakeRecordRepo(users *fakeUserRepo) *fakeRecordRepo {
	return &fakeRecordRepo{records: map[string]attendance.Record{}, users: users}
}

func recKey(employeeID, dayKey string) string {
	return employeeID + "|" + dayKey
}

func (f *fakeRecordRepo) join(rec attendance.Record) attendance.Record {
	if f.users == nil {
		return rec
	}
	u, err := f.users.GetByID(context.Background(), rec.EmployeeID)
	if err != nil {
		return rec
	}
	rec.EmployeeName = &u.Name
	rec.EmployeeCode = u.EmployeeCode
	rec.EmployeeDepartment = u.Department
	rec.EmployeeEmail = &u.Email
	return rec
}

func (f *fakeRecordRepo) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := recKey(rec.EmployeeID, rec.DayKey)
	if _, exists := f.records[key]; exists {
		return attendance.Record{}, attendance.ErrDuplicateRecord
	}

	f.seq++
	rec.ID = fmt.Sprintf("rec-%d", f.seq)
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	f.records[key] = rec
	return f.join(rec), nil
}

func (f *fakeRecordRepo) Update(ctx context.Context, rec attendance.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for key, existing := range f.records {
		if existing.ID == rec.ID {
			rec.CreatedAt = existing.CreatedAt
			rec.UpdatedAt = time.Now()
			f.records[key] = rec
			return nil
		}
	}
	return attendance.ErrRecordNotFound
}

func (f *fakeRecordRepo) GetByEmployeeAndDay(ctx context.Context, employeeID, dayKey string) (*attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.records[recKey(employeeID, dayKey)]
	if !ok {
		return nil, nil
	}
	joined := f.join(rec)
	return &joined, nil
}

func matches(rec attendance.Record, filter attendance.Filter) bool {
	if filter.EmployeeID != nil && rec.EmployeeID != *filter.EmployeeID {
		return false
	}
	if filter.DayKey != nil && rec.DayKey != *filter.DayKey {
		return false
	}
	if filter.Status != nil && rec.Status != *filter.Status {
		return false
	}
	if filter.StartDay != nil && rec.DayKey < *filter.StartDay {
		return false
	}
	if filter.EndDay != nil && rec.DayKey > *filter.EndDay {
		return false
	}
	if filter.MonthPrefix != nil && !strings.HasPrefix(rec.DayKey, *filter.MonthPrefix) {
		return false
	}
	return true
}

func (f *fakeRecordRepo) List(ctx context.Context, filter attendance.Filter) ([]attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []attendance.Record{}
	for _, rec := range f.records {
		if matches(rec, filter) {
			out = append(out, f.join(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if filter.Ascending {
			return out[i].DayKey < out[j].DayKey
		}
		return out[i].DayKey > out[j].DayKey
	})
	return out, nil
}

func (f *fakeRecordRepo) CountByStatus(ctx context.Context, dayKey string) (map[attendance.Status]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	counts := map[attendance.Status]int64{}
	for _, rec := range f.records {
		if rec.DayKey == dayKey {
			counts[rec.Status]++
		}
	}
	return counts, nil
}

func (f *fakeRecordRepo) Summarize(ctx context.Context, filter attendance.Filter) (int64, decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var totalDays int64
	totalHours := decimal.Zero
	for _, rec := range f.records {
		if matches(rec, filter) {
			totalDays++
			totalHours = totalHours.Add(rec.TotalHours)
		}
	}
	return totalDays, totalHours, nil
}

func (f *fakeRecordRepo) CreateAbsencesIfMissing(ctx context.Context, recs []attendance.Record) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var inserted int64
	for _, rec := range recs {
		key := recKey(rec.EmployeeID, rec.DayKey)
		if _, exists := f.records[key]; exists {
			continue
		}
		f.seq++
		rec.ID = fmt.Sprintf("rec-%d", f.seq)
		rec.CreatedAt = time.Now()
		rec.UpdatedAt = rec.CreatedAt
		f.records[key] = rec
		inserted++
	}
	return inserted, nil
}
