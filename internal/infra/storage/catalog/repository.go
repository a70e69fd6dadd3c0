package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/tenantguard"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий справочников тенанта: услуги, сотрудники, клиенты
// и связи сотрудник-услуга
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория справочников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetServiceByID получает неудаленную услугу по ID в рамках тенанта
func (r *Repository) GetServiceByID(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"tenant_id",
		"name",
		"duration_minutes",
		"price",
		"currency",
		"active",
		"deleted_at",
		"created_at",
		"updated_at",
	).
		From("services").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"deleted_at": nil})

	selectBuilder, err := tenantguard.FenceSelect(ctx, selectBuilder)
	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceByID - %v", ErrTenantScope, err)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceByID - build select query: %v", ErrBuildQuery, err)
	}

	var svc domain.Service
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&svc.ID,
		&svc.TenantID,
		&svc.Name,
		&svc.DurationMinutes,
		&svc.Price,
		&svc.Currency,
		&svc.Active,
		&svc.DeletedAt,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceByID - scan service: %v", ErrScanRow, err)
	}

	svc.CreatedAt = createdAt.Time
	svc.UpdatedAt = updatedAt.Time

	return &svc, nil
}

// GetStaffByID получает неудаленного сотрудника по ID в рамках тенанта
func (r *Repository) GetStaffByID(ctx context.Context, id int64) (*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"tenant_id",
		"user_id",
		"name",
		"deleted_at",
		"created_at",
		"updated_at",
	).
		From("staff").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"deleted_at": nil})

	selectBuilder, err := tenantguard.FenceSelect(ctx, selectBuilder)
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffByID - %v", ErrTenantScope, err)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffByID - build select query: %v", ErrBuildQuery, err)
	}

	var staff domain.Staff
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&staff.ID,
		&staff.TenantID,
		&staff.UserID,
		&staff.Name,
		&staff.DeletedAt,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffByID - scan staff: %v", ErrScanRow, err)
	}

	staff.CreatedAt = createdAt.Time
	staff.UpdatedAt = updatedAt.Time

	return &staff, nil
}

// GetClientByID получает неудаленного клиента по ID в рамках тенанта
func (r *Repository) GetClientByID(ctx context.Context, id int64) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"tenant_id",
		"name",
		"email",
		"deleted_at",
		"created_at",
		"updated_at",
	).
		From("clients").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"deleted_at": nil})

	selectBuilder, err := tenantguard.FenceSelect(ctx, selectBuilder)
	if err != nil {
		return nil, fmt.Errorf("%w: GetClientByID - %v", ErrTenantScope, err)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetClientByID - build select query: %v", ErrBuildQuery, err)
	}

	client, err := scanClient(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetClientByID - scan client: %v", ErrScanRow, err)
	}

	return client, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanClient сканирует строку клиента в доменную модель
// email в схеме nullable: NULL читается как пустая строка
func scanClient(row rowScanner) (*domain.Client, error) {
	var client domain.Client
	var email sql.NullString
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&client.ID,
		&client.TenantID,
		&client.Name,
		&email,
		&client.DeletedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	client.Email = email.String
	client.CreatedAt = createdAt.Time
	client.UpdatedAt = updatedAt.Time

	return &client, nil
}

// StaffAssignedToService проверяет наличие связи сотрудник-услуга в рамках тенанта
func (r *Repository) StaffAssignedToService(ctx context.Context, staffID, serviceID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("1").
		From("staff_services").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"service_id": serviceID})

	selectBuilder, err := tenantguard.FenceSelect(ctx, selectBuilder)
	if err != nil {
		return false, fmt.Errorf("%w: StaffAssignedToService - %v", ErrTenantScope, err)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: StaffAssignedToService - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: StaffAssignedToService - scan row: %v", ErrScanRow, err)
	}

	return true, nil
}
