package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authedCtx(t *testing.T, userID string) context.Context {
	t.Helper()
	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{"user_id": userID})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func seedEmployee(t *testing.T, users *fakeUserRepo, name, email, code string) user.User {
	t.Helper()
	dept := "Engineering"
	u, err := users.Create(context.Background(), user.User{
		Name:         name,
		Email:        email,
		Role:         user.RoleEmployee,
		EmployeeCode: &code,
		Department:   &dept,
	})
	require.NoError(t, err)
	return u
}

func newTestService(t *testing.T, now time.Time) (*AttendanceServiceImpl, *fakeUserRepo, *fakeRecordRepo) {
	t.Helper()
	users := newFakeUserRepo()
	records := newFakeRecordRepo(users)
	svc := NewAttendanceService(records, users).WithClock(func() time.Time { return now })
	return svc, users, records
}

func TestCheckInOnTime(t *testing.T) {
	now := time.Date(2025, 11, 28, 9, 0, 0, 0, time.UTC)
	svc, users, _ := newTestService(t, now)
	emp := seedEmployee(t, users, "Alice", "alice@example.com", "EMP001")

	resp, err := svc.CheckIn(authedCtx(t, emp.ID))
	require.NoError(t, err)

	assert.Equal(t, "present", resp.Status)
	assert.Equal(t, "2025-11-28", resp.Date)
	require.NotNil(t, resp.CheckInTime)
	assert.Equal(t, "2025-11-28T09:00:00.000Z", *resp.CheckInTime)
	assert.Nil(t, resp.CheckOutTime)
	assert.Zero(t, resp.TotalHours)
}

func TestCheckInLate(t *testing.T) {
	now := time.Date(2025, 11, 28, 10, 16, 0, 0, time.UTC)
	svc, users, _ := newTestService(t, now)
	emp := seedEmployee(t, users, "Alice", "alice@example.com", "EMP001")

	resp, err := svc.CheckIn(authedCtx(t, emp.ID))
	require.NoError(t, err)
	assert.Equal(t, "late", resp.Status)
}

func TestCheckInTwiceFails(t *testing.T) {
	now := time.Date(2025, 11, 28, 9, 0, 0, 0, time.UTC)
	svc, users, _ := newTestService(t, now)
	emp := seedEmployee(t, users, "Alice", "alice@example.com", "EMP001")
	ctx := authedCtx(t, emp.ID)

	_, err := svc.CheckIn(ctx)
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckInClaimsAbsencePlaceholder(t *testing.T) {
	now := time.Date(2025, 11, 28, 9, 0, 0, 0, time.UTC)
	svc, users, records := newTestService(t, now)
	emp := seedEmployee(t, users, "Alice", "alice@example.com", "EMP001")

	// A sweep already marked Alice absent today.
	_, err := records.CreateAbsencesIfMissing(context.Background(), []attendance.Record{
		{EmployeeID: emp.ID, DayKey: "2025-11-28", Status: attendance.StatusAbsent},
	})
	require.NoError(t, err)

	resp, err := svc.CheckIn(authedCtx(t, emp.ID))
	require.NoError(t, err)
	assert.Equal(t, "present", resp.Status)

	// No second record appeared.
	stored, err := records.List(context.Background(), attendance.Filter{EmployeeID: &emp.ID})
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestCheckOutFullDay(t *testing.T) {
	checkIn := time.Date(2025, 11, 28, 9, 0, 0, 0, time.UTC)
	svc, users, _ := newTestService(t, checkIn)
	emp := seedEmployee(t, users, "Alice", "alice@example.com", "EMP001")
	ctx := authedCtx(t, emp.ID)

	_, err := svc.CheckIn(ctx)
	require.NoError(t, err)

	svc.WithClock(func() time.Time { return checkIn.Add(8*time.Hour + 30*time.Minute) })
	resp, err := svc.CheckOut(ctx)
	require.NoError(t, err)

	assert.Equal(t, "present", resp.Status)
	assert.InDelta(t, 8.5, resp.TotalHours, 0.001)
	require.NotNil(t, resp.CheckOutTime)
	assert.Equal(t, "2025-11-28T17:30:00.000Z", *resp.CheckOutTime)
}

func TestCheckOutShortDayBecomesHalfday(t *testing.T) {
	// Late check-in demoted further to halfday by the short day.
	checkIn := time.Date(2025, 11, 28, 10, 20, 0, 0, time.UTC)
	svc, users, _ := newTestService(t, checkIn)
	emp := seedEmployee(t, users, "Alice", "alice@example.com", "EMP001")
	ctx := authedCtx(t, emp.ID)

	resp, err := svc.CheckIn(ctx)
	require.NoError(t, err)
	assert.Equal(t, "late", resp.Status)

	svc.WithClock(func() time.Time { return checkIn.Add(3 * time.Hour) })
	resp, err = svc.CheckOut(ctx)
	require.NoError(t, err)

	assert.Equal(t, "halfday", resp.Status)
	assert.InDelta(t, 3.0, resp.TotalHours, 0.001)
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	now := time.Date(2025, 11, 28, 17, 0, 0, 0, time.UTC)
	svc, users, _ := newTestService(t, now)
	emp := seedEmployee(t, users, "Alice", "alice@example.com", "EMP001")

	_, err := svc.CheckOut(authedCtx(t, emp.ID))
	assert.ErrorIs(t, err, attendance.ErrNoCheckInFound)
}

func TestCheckOutOnAbsencePlaceholderFails(t *testing.T) {
	now := time.Date(2025, 11, 28, 17, 0, 0, 0, time.UTC)
	svc, users, records := newTestService(t, now)
	emp := seedEmployee(t, users, "Alice", "alice@example.com", "EMP001")

	_, err := records.CreateAbsencesIfMissing(context.Background(), []attendance.Record{
		{EmployeeID: emp.ID, DayKey: "2025-11-28", Status: attendance.StatusAbsent},
	})
	require.NoError(t, err)

	_, err = svc.CheckOut(authedCtx(t, emp.ID))
	assert.ErrorIs(t, err, attendance.ErrNoCheckInFound)
}

func TestCheckOutTwiceFails(t *testing.T) {
	checkIn := time.Date(2025, 11, 28, 9, 0, 0, 0, time.UTC)
	svc, users, _ := newTestService(t, checkIn)
	emp := seedEmployee(t, users, "Alice", "alice@example.com", "EMP001")
	ctx := authedCtx(t, emp.ID)

	_, err := svc.CheckIn(ctx)
	require.NoError(t, err)

	svc.WithClock(func() time.Time { return checkIn.Add(8 * time.Hour) })
	_, err = svc.CheckOut(ctx)
	require.NoError(t, err)

	_, err = svc.CheckOut(ctx)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestTodayWithoutRecord(t *testing.T) {
	now := time.Date(2025, 11, 28, 9, 0, 0, 0, time.UTC)
	svc, users, _ := newTestService(t, now)
	emp := seedEmployee(t, users, "Alice", "alice@example.com", "EMP001")

	resp, err := svc.Today(authedCtx(t, emp.ID))
	require.NoError(t, err)

	assert.Equal(t, "not-marked", resp.Status)
	assert.Equal(t, "2025-11-28", resp.Date)
	assert.Empty(t, resp.ID)
	assert.Nil(t, resp.CheckInTime)
}

func TestMyHistoryMonthFilter(t *testing.T) {
	svc, users, _ := newTestService(t, time.Time{})
	emp := seedEmployee(t, users, "Alice", "alice@example.com", "EMP001")
	ctx := authedCtx(t, emp.ID)

	// One record in October, two in November.
	days := []time.Time{
		time.Date(2025, 10, 3, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 11, 5, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 11, 6, 9, 0, 0, 0, time.UTC),
	}
	for _, day := range days {
		svc.WithClock(func() time.Time { return day })
		_, err := svc.CheckIn(ctx)
		require.NoError(t, err)
	}

	month, year := "11", "2025"
	history, err := svc.MyHistory(ctx, attendance.HistoryQuery{Month: &month, Year: &year})
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Newest day first.
	assert.Equal(t, "2025-11-06", history[0].Date)
	assert.Equal(t, "2025-11-05", history[1].Date)

	all, err := svc.MyHistory(ctx, attendance.HistoryQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMyHistoryRejectsMonthWithoutYear(t *testing.T) {
	svc, users, _ := newTestService(t, time.Now())
	emp := seedEmployee(t, users, "Alice", "alice@example.com", "EMP001")

	month := "11"
	_, err := svc.MyHistory(authedCtx(t, emp.ID), attendance.HistoryQuery{Month: &month})
	assert.Error(t, err)
}

func TestMySummaryAddsUp(t *testing.T) {
	svc, users, _ := newTestService(t, time.Time{})
	emp := seedEmployee(t, users, "Alice", "alice@example.com", "EMP001")
	ctx := authedCtx(t, emp.ID)

	// Two full days of 8h and 8.5h.
	shifts := []struct {
		in  time.Time
		out time.Duration
	}{
		{time.Date(2025, 11, 5, 9, 0, 0, 0, time.UTC), 8 * time.Hour},
		{time.Date(2025, 11, 6, 9, 0, 0, 0, time.UTC), 8*time.Hour + 30*time.Minute},
	}
	for _, shift := range shifts {
		in := shift.in
		svc.WithClock(func() time.Time { return in })
		_, err := svc.CheckIn(ctx)
		require.NoError(t, err)
		svc.WithClock(func() time.Time { return in.Add(shift.out) })
		_, err = svc.CheckOut(ctx)
		require.NoError(t, err)
	}

	summary, err := svc.MySummary(ctx, attendance.HistoryQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalDays)
	assert.InDelta(t, 16.5, summary.TotalHours, 0.001)
}

func TestTeamSummaryIsAdditiveAcrossEmployees(t *testing.T) {
	svc, users, _ := newTestService(t, time.Time{})
	alice := seedEmployee(t, users, "Alice", "alice@example.com", "EMP001")
	bob := seedEmployee(t, users, "Bob", "bob@example.com", "EMP002")

	shifts := []struct {
		who   string
		in    time.Time
		hours time.Duration
	}{
		{alice.ID, time.Date(2025, 11, 5, 9, 0, 0, 0, time.UTC), 8 * time.Hour},
		{alice.ID, time.Date(2025, 11, 6, 9, 0, 0, 0, time.UTC), 6 * time.Hour},
		{bob.ID, time.Date(2025, 11, 5, 10, 0, 0, 0, time.UTC), 7*time.Hour + 30*time.Minute},
	}
	for _, shift := range shifts {
		ctx := authedCtx(t, shift.who)
		in := shift.in
		svc.WithClock(func() time.Time { return in })
		_, err := svc.CheckIn(ctx)
		require.NoError(t, err)
		svc.WithClock(func() time.Time { return in.Add(shift.hours) })
		_, err = svc.CheckOut(ctx)
		require.NoError(t, err)
	}

	team, err := svc.TeamSummary(context.Background(), attendance.HistoryQuery{})
	require.NoError(t, err)

	var sumHours float64
	var sumDays int64
	for _, id := range []string{alice.ID, bob.ID} {
		summary, err := svc.MySummary(authedCtx(t, id), attendance.HistoryQuery{})
		require.NoError(t, err)
		sumHours += summary.TotalHours
		sumDays += summary.TotalDays
	}

	assert.Equal(t, int64(2), team.TotalEmployees)
	assert.Equal(t, sumDays, team.TotalAttendanceRecords)
	assert.InDelta(t, sumHours, team.TotalHours, 0.001)
	assert.InDelta(t, 21.5, team.TotalHours, 0.001)
}

func TestListAllFiltersByEmployeeCode(t *testing.T) {
	now := time.Date(2025, 11, 28, 9, 0, 0, 0, time.UTC)
	svc, users, _ := newTestService(t, now)
	alice := seedEmployee(t, users, "Alice", "alice@example.com", "EMP001")
	bob := seedEmployee(t, users, "Bob", "bob@example.com", "EMP002")

	_, err := svc.CheckIn(authedCtx(t, alice.ID))
	require.NoError(t, err)
	_, err = svc.CheckIn(authedCtx(t, bob.ID))
	require.NoError(t, err)

	code := "EMP001"
	records, err := svc.ListAll(context.Background(), attendance.ListQuery{EmployeeCode: &code})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, alice.ID, records[0].EmployeeID)
}

func TestListAllUnknownCodeReturnsEmpty(t *testing.T) {
	svc, _, _ := newTestService(t, time.Now())

	code := "EMP999"
	records, err := svc.ListAll(context.Background(), attendance.ListQuery{EmployeeCode: &code})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestListAllRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newTestService(t, time.Now())

	status := "vacation"
	_, err := svc.ListAll(context.Background(), attendance.ListQuery{Status: &status})
	assert.Error(t, err)
}

func TestEmployeeHistoryUnknownEmployee(t *testing.T) {
	svc, _, _ := newTestService(t, time.Now())

	_, err := svc.EmployeeHistory(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, attendance.ErrEmployeeNotFound)
}

func TestTodayOverviewCountsEveryStatus(t *testing.T) {
	now := time.Date(2025, 11, 28, 9, 0, 0, 0, time.UTC)
	svc, users, _ := newTestService(t, now)
	alice := seedEmployee(t, users, "Alice", "alice@example.com", "EMP001")

	_, err := svc.CheckIn(authedCtx(t, alice.ID))
	require.NoError(t, err)

	overview, err := svc.TodayOverview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2025-11-28", overview.Date)
	assert.Equal(t, 1, overview.Count)
	assert.Equal(t, int64(1), overview.StatusCounts["present"])
	// Zero-valued statuses are present in the map too.
	assert.Contains(t, overview.StatusCounts, "absent")
	assert.Contains(t, overview.StatusCounts, "late")
	assert.Contains(t, overview.StatusCounts, "halfday")
}

func TestCheckInUnknownUser(t *testing.T) {
	now := time.Date(2025, 11, 28, 9, 0, 0, 0, time.UTC)
	svc, _, records := newTestService(t, now)

	// Valid token for a user the credential store no longer has.
	_, err := svc.CheckIn(authedCtx(t, "ghost-user"))
	assert.ErrorIs(t, err, attendance.ErrEmployeeNotFound)

	id := "ghost-user"
	stored, err := records.List(context.Background(), attendance.Filter{EmployeeID: &id})
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestCheckInWithoutClaims(t *testing.T) {
	svc, _, _ := newTestService(t, time.Now())

	_, err := svc.CheckIn(context.Background())
	assert.Error(t, err)
}
