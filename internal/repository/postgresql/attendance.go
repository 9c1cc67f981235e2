package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.RecordRepository {
	return &attendanceRepository{db: db}
}

const recordColumns = `a.id, a.employee_id, a.day_key, a.check_in, a.check_out,
	   a.status, a.total_hours, a.created_at, a.updated_at,
	   u.name AS employee_name, u.employee_code, u.department, u.email AS employee_email`

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.DayKey, &rec.CheckIn, &rec.CheckOut,
		&rec.Status, &rec.TotalHours, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName, &rec.EmployeeCode, &rec.EmployeeDepartment, &rec.EmployeeEmail,
	)
	return rec, err
}

// Create implements attendance.RecordRepository.
func (a *attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (id, employee_id, day_key, check_in, check_out, status, total_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		uuid.NewString(),
		rec.EmployeeID,
		rec.DayKey,
		rec.CheckIn,
		rec.CheckOut,
		rec.Status,
		rec.TotalHours,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return attendance.Record{}, attendance.ErrDuplicateRecord
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return rec, nil
}

// Update implements attendance.RecordRepository.
func (a *attendanceRepository) Update(ctx context.Context, rec attendance.Record) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET check_in = $1, check_out = $2, status = $3, total_hours = $4, updated_at = NOW()
		WHERE id = $5
	`

	tag, err := q.Exec(ctx, query, rec.CheckIn, rec.CheckOut, rec.Status, rec.TotalHours, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to update attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}

	return nil
}

// GetByEmployeeAndDay implements attendance.RecordRepository.
func (a *attendanceRepository) GetByEmployeeAndDay(ctx context.Context, employeeID, dayKey string) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records a
		LEFT JOIN users u ON u.id = a.employee_id
		WHERE a.employee_id = $1 AND a.day_key = $2
		LIMIT 1
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, employeeID, dayKey))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No record for this day
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}

	return &rec, nil
}

// buildWhere turns a filter into a WHERE clause plus its args.
func buildWhere(filter attendance.Filter) (string, []interface{}) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.DayKey != nil && *filter.DayKey != "" {
		conditions = append(conditions, fmt.Sprintf("a.day_key = $%d", argIdx))
		args = append(args, *filter.DayKey)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.StartDay != nil && *filter.StartDay != "" {
		conditions = append(conditions, fmt.Sprintf("a.day_key >= $%d", argIdx))
		args = append(args, *filter.StartDay)
		argIdx++
	}
	if filter.EndDay != nil && *filter.EndDay != "" {
		conditions = append(conditions, fmt.Sprintf("a.day_key <= $%d", argIdx))
		args = append(args, *filter.EndDay)
		argIdx++
	}
	if filter.MonthPrefix != nil && *filter.MonthPrefix != "" {
		conditions = append(conditions, fmt.Sprintf("a.day_key LIKE $%d", argIdx))
		args = append(args, *filter.MonthPrefix+"%")
		argIdx++
	}

	return strings.Join(conditions, " AND "), args
}

// List implements attendance.RecordRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.Filter) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	whereClause, args := buildWhere(filter)

	sortOrder := "DESC"
	if filter.Ascending {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendance_records a
		LEFT JOIN users u ON u.id = a.employee_id
		WHERE %s
		ORDER BY a.day_key %s, u.name ASC
	`, recordColumns, whereClause, sortOrder)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	records := []attendance.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	return records, nil
}

// CountByStatus implements attendance.RecordRepository.
func (a *attendanceRepository) CountByStatus(ctx context.Context, dayKey string) (map[attendance.Status]int64, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT status, COUNT(*)
		FROM attendance_records
		WHERE day_key = $1
		GROUP BY status
	`

	rows, err := q.Query(ctx, query, dayKey)
	if err != nil {
		return nil, fmt.Errorf("failed to count records by status: %w", err)
	}
	defer rows.Close()

	counts := map[attendance.Status]int64{}
	for rows.Next() {
		var status attendance.Status
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status counts: %w", err)
	}

	return counts, nil
}

// Summarize implements attendance.RecordRepository.
func (a *attendanceRepository) Summarize(ctx context.Context, filter attendance.Filter) (int64, decimal.Decimal, error) {
	q := GetQuerier(ctx, a.db)

	whereClause, args := buildWhere(filter)

	query := fmt.Sprintf(`
		SELECT COUNT(*), COALESCE(SUM(a.total_hours), 0)
		FROM attendance_records a
		WHERE %s
	`, whereClause)

	var totalDays int64
	var totalHours decimal.Decimal
	err := q.QueryRow(ctx, query, args...).Scan(&totalDays, &totalHours)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("failed to summarize attendance records: %w", err)
	}

	return totalDays, totalHours, nil
}

// CreateAbsencesIfMissing implements attendance.RecordRepository.
// The whole batch runs in one transaction so a partial sweep never
// commits; ON CONFLICT DO NOTHING makes the insert idempotent per
// (employee, day).
func (a *attendanceRepository) CreateAbsencesIfMissing(ctx context.Context, recs []attendance.Record) (int64, error) {
	if len(recs) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO attendance_records (id, employee_id, day_key, status, total_hours)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, day_key) DO NOTHING
	`

	var inserted int64
	err := WithTransaction(ctx, a.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		q := GetQuerier(txCtx, a.db)

		for _, rec := range recs {
			tag, err := q.Exec(txCtx, query, uuid.NewString(), rec.EmployeeID, rec.DayKey, rec.Status, rec.TotalHours)
			if err != nil {
				return fmt.Errorf("failed to insert absence record: %w", err)
			}
			inserted += tag.RowsAffected()
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}
