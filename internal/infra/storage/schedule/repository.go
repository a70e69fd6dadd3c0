package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/tenantguard"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий расписания: окна доступности и выходные сотрудников
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListAvailabilityByStaff получает все неудаленные окна доступности сотрудника
// в рамках тенанта
func (r *Repository) ListAvailabilityByStaff(ctx context.Context, staffID int64) ([]*domain.Availability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"tenant_id",
		"staff_id",
		"kind",
		"day_of_week",
		"start_time",
		"end_time",
		"start_date",
		"end_date",
		"created_at",
		"updated_at",
	).
		From("availability").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"deleted_at": nil}).
		OrderBy("id ASC")

	selectBuilder, err := tenantguard.FenceSelect(ctx, selectBuilder)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAvailabilityByStaff - %v", ErrTenantScope, err)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListAvailabilityByStaff - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		// Ошибка драйвера сохраняется в цепочке: менеджер транзакций
		// распознает по ней конфликт сериализации (40001) для повтора
		return nil, fmt.Errorf("%w: ListAvailabilityByStaff - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	records := make([]*domain.Availability, 0)
	for rows.Next() {
		var rec domain.Availability
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&rec.ID,
			&rec.TenantID,
			&rec.StaffID,
			&rec.Kind,
			&rec.DayOfWeek,
			&rec.StartTime,
			&rec.EndTime,
			&rec.StartDate,
			&rec.EndDate,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListAvailabilityByStaff - scan row: %v", ErrScanRow, err)
		}

		rec.CreatedAt = createdAt.Time
		rec.UpdatedAt = updatedAt.Time
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListAvailabilityByStaff - rows error: %w", ErrScanRow, err)
	}

	return records, nil
}

// CreateAvailability создает окно доступности сотрудника
func (r *Repository) CreateAvailability(ctx context.Context, rec *domain.Availability) (*domain.Availability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder, err := tenantguard.FenceInsert(ctx, psqlbuilder.Insert("availability"), map[string]interface{}{
		"staff_id":    rec.StaffID,
		"kind":        rec.Kind,
		"day_of_week": rec.DayOfWeek,
		"start_time":  rec.StartTime,
		"end_time":    rec.EndTime,
		"start_date":  rec.StartDate,
		"end_date":    rec.EndDate,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: CreateAvailability - %v", ErrTenantScope, err)
	}

	query, args, err := builder.
		Suffix("RETURNING id, tenant_id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateAvailability - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rec.ID,
		&rec.TenantID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateAvailability - execute insert: %v", ErrExecQuery, err)
	}

	rec.CreatedAt = createdAt.Time
	rec.UpdatedAt = updatedAt.Time

	return rec, nil
}

// DeleteAvailability мягко удаляет окно доступности
func (r *Repository) DeleteAvailability(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("availability").
		Set("deleted_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"deleted_at": nil})

	updateBuilder, err := tenantguard.FenceUpdate(ctx, updateBuilder)
	if err != nil {
		return fmt.Errorf("%w: DeleteAvailability - %v", ErrTenantScope, err)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteAvailability - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteAvailability - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteAvailability - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAvailabilityNotFound
	}

	return nil
}

// FirstTimeOffOverlapping ищет первый выходной сотрудника, пересекающий интервал [start, end].
// Тест пересечения с включенными границами: start_at <= end AND end_at >= start,
// касание концов тоже блокирует. Возвращает (nil, nil), если пересечений нет.
func (r *Repository) FirstTimeOffOverlapping(ctx context.Context, staffID int64, start, end time.Time) (*domain.TimeOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"tenant_id",
		"staff_id",
		"start_at",
		"end_at",
		"reason",
		"created_at",
		"updated_at",
	).
		From("time_off").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"deleted_at": nil}).
		Where(squirrel.LtOrEq{"start_at": end}).
		Where(squirrel.GtOrEq{"end_at": start}).
		OrderBy("start_at ASC").
		Limit(1)

	selectBuilder, err := tenantguard.FenceSelect(ctx, selectBuilder)
	if err != nil {
		return nil, fmt.Errorf("%w: FirstTimeOffOverlapping - %v", ErrTenantScope, err)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FirstTimeOffOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	var rec domain.TimeOff
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rec.ID,
		&rec.TenantID,
		&rec.StaffID,
		&rec.StartAt,
		&rec.EndAt,
		&rec.Reason,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FirstTimeOffOverlapping - scan row: %w", ErrScanRow, err)
	}

	rec.CreatedAt = createdAt.Time
	rec.UpdatedAt = updatedAt.Time

	return &rec, nil
}

// ListTimeOffByStaff получает все неудаленные выходные сотрудника
func (r *Repository) ListTimeOffByStaff(ctx context.Context, staffID int64) ([]*domain.TimeOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"tenant_id",
		"staff_id",
		"start_at",
		"end_at",
		"reason",
		"created_at",
		"updated_at",
	).
		From("time_off").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"deleted_at": nil}).
		OrderBy("start_at ASC")

	selectBuilder, err := tenantguard.FenceSelect(ctx, selectBuilder)
	if err != nil {
		return nil, fmt.Errorf("%w: ListTimeOffByStaff - %v", ErrTenantScope, err)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListTimeOffByStaff - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListTimeOffByStaff - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	records := make([]*domain.TimeOff, 0)
	for rows.Next() {
		var rec domain.TimeOff
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&rec.ID,
			&rec.TenantID,
			&rec.StaffID,
			&rec.StartAt,
			&rec.EndAt,
			&rec.Reason,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListTimeOffByStaff - scan row: %v", ErrScanRow, err)
		}

		rec.CreatedAt = createdAt.Time
		rec.UpdatedAt = updatedAt.Time
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListTimeOffByStaff - rows error: %v", ErrScanRow, err)
	}

	return records, nil
}

// CreateTimeOff создает выходной сотрудника
func (r *Repository) CreateTimeOff(ctx context.Context, rec *domain.TimeOff) (*domain.TimeOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder, err := tenantguard.FenceInsert(ctx, psqlbuilder.Insert("time_off"), map[string]interface{}{
		"staff_id": rec.StaffID,
		"start_at": rec.StartAt,
		"end_at":   rec.EndAt,
		"reason":   rec.Reason,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: CreateTimeOff - %v", ErrTenantScope, err)
	}

	query, args, err := builder.
		Suffix("RETURNING id, tenant_id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateTimeOff - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rec.ID,
		&rec.TenantID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateTimeOff - execute insert: %v", ErrExecQuery, err)
	}

	rec.CreatedAt = createdAt.Time
	rec.UpdatedAt = updatedAt.Time

	return rec, nil
}
