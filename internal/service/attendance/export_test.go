package attendance

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSV(t *testing.T) {
	svc, users, _ := newTestService(t, time.Time{})
	alice := seedEmployee(t, users, "Alice", "alice@example.com", "EMP001")
	ctx := authedCtx(t, alice.ID)

	// Day one: a full 8.5h shift. Day two: checked in, never out.
	in1 := time.Date(2025, 11, 5, 9, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return in1 })
	_, err := svc.CheckIn(ctx)
	require.NoError(t, err)
	svc.WithClock(func() time.Time { return in1.Add(8*time.Hour + 30*time.Minute) })
	_, err = svc.CheckOut(ctx)
	require.NoError(t, err)

	in2 := time.Date(2025, 11, 6, 10, 30, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return in2 })
	_, err = svc.CheckIn(ctx)
	require.NoError(t, err)

	out, err := svc.ExportCSV(context.Background(), attendance.ExportQuery{})
	require.NoError(t, err)

	lines := strings.Split(string(out), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "EmployeeName,EmployeeId,Department,Email,Date,Status,CheckInTime,CheckOutTime,TotalHours", lines[0])
	// Oldest day first.
	assert.Equal(t, "Alice,EMP001,Engineering,alice@example.com,2025-11-05,present,2025-11-05T09:00:00.000Z,2025-11-05T17:30:00.000Z,8.5", lines[1])
	// Missing check-out renders as an empty cell, hours stay 0.
	assert.Equal(t, "Alice,EMP001,Engineering,alice@example.com,2025-11-06,late,2025-11-06T10:30:00.000Z,,0", lines[2])
}

func TestExportCSVDateRange(t *testing.T) {
	svc, users, _ := newTestService(t, time.Time{})
	alice := seedEmployee(t, users, "Alice", "alice@example.com", "EMP001")
	ctx := authedCtx(t, alice.ID)

	for _, day := range []int{3, 10, 20} {
		in := time.Date(2025, 11, day, 9, 0, 0, 0, time.UTC)
		svc.WithClock(func() time.Time { return in })
		_, err := svc.CheckIn(ctx)
		require.NoError(t, err)
	}

	start, end := "2025-11-05", "2025-11-15"
	out, err := svc.ExportCSV(context.Background(), attendance.ExportQuery{Start: &start, End: &end})
	require.NoError(t, err)

	lines := strings.Split(string(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "2025-11-10")
}

func TestExportCSVUnknownEmployeeCode(t *testing.T) {
	svc, _, _ := newTestService(t, time.Now())

	code := "EMP999"
	_, err := svc.ExportCSV(context.Background(), attendance.ExportQuery{EmployeeCode: &code})
	assert.ErrorIs(t, err, attendance.ErrEmployeeNotFound)
}

func TestExportCSVRejectsLoneStart(t *testing.T) {
	svc, _, _ := newTestService(t, time.Now())

	start := "2025-11-05"
	_, err := svc.ExportCSV(context.Background(), attendance.ExportQuery{Start: &start})
	assert.Error(t, err)
}

func TestExportCSVEmpty(t *testing.T) {
	svc, _, _ := newTestService(t, time.Now())

	out, err := svc.ExportCSV(context.Background(), attendance.ExportQuery{})
	require.NoError(t, err)
	assert.Equal(t, "EmployeeName,EmployeeId,Department,Email,Date,Status,CheckInTime,CheckOutTime,TotalHours", string(out))
}

func TestFormatHours(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"8.50", "8.5"},
		{"3.00", "3"},
		{"0", "0"},
		{"7.49", "7.49"},
		{"4.00", "4"},
	}
	for _, c := range cases {
		got := formatHours(decimal.RequireFromString(c.in))
		assert.Equal(t, c.want, got, "formatHours(%s)", c.in)
	}
}
