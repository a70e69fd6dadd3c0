package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/tenantguard"
)

// Коды ошибок PostgreSQL, которые мы превращаем в конфликт бронирования
const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

// appointmentColumns колонки записи с денормализованными именами из JOIN
var appointmentColumns = []string{
	"a.id",
	"a.tenant_id",
	"a.service_id",
	"a.staff_id",
	"a.client_id",
	"a.start_at",
	"a.end_at",
	"a.status",
	"a.service_price",
	"a.currency",
	"a.notes",
	"a.cancellation_reason",
	"a.cancelled_at",
	"a.created_at",
	"a.updated_at",
	"COALESCE(s.name, '')",
	"COALESCE(st.name, '')",
	"COALESCE(c.name, '')",
}

// Repository репозиторий для работы с записями на приём
// Все запросы огорожены по тенанту через tenantguard
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись на приём
// tenant_id берется из контекста; вставка вне тенантного scope невозможна.
// Если в контексте передана активная транзакция, использует её: при создании
// бронирования вставка выполняется в одной сериализуемой транзакции с проверками
// и вставкой уведомления.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder, err := tenantguard.FenceInsert(ctx, psqlbuilder.Insert("appointments"), map[string]interface{}{
		"service_id":    appt.ServiceID,
		"staff_id":      appt.StaffID,
		"client_id":     appt.ClientID,
		"start_at":      appt.StartAt,
		"end_at":        appt.EndAt,
		"status":        appt.Status,
		"service_price": appt.ServicePrice,
		"currency":      appt.Currency,
		"notes":         appt.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: Create - %v", ErrTenantScope, err)
	}

	query, args, err := builder.
		Suffix("RETURNING id, tenant_id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&appt.TenantID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if isOverlapViolation(err) {
			return nil, ErrOverlapConstraint
		}
		// Ошибка драйвера сохраняется в цепочке: менеджер транзакций
		// распознает по ней конфликт сериализации (40001) для повтора
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID получает запись по ID в рамках тенанта
// Возвращает запись вместе с именами услуги, сотрудника и клиента
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments a").
		LeftJoin("services s ON s.id = a.service_id AND s.tenant_id = a.tenant_id").
		LeftJoin("staff st ON st.id = a.staff_id AND st.tenant_id = a.tenant_id").
		LeftJoin("clients c ON c.id = a.client_id AND c.tenant_id = a.tenant_id").
		Where(squirrel.Eq{"a.id": id})

	selectBuilder, err := tenantguard.FenceSelectTable(ctx, selectBuilder, "a")
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - %v", ErrTenantScope, err)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appt, nil
}

// ListWithFilter получает записи тенанта с фильтрацией и пагинацией
// Фильтры: сотрудник, клиент, статус, период по start_at, все опциональны
func (r *Repository) ListWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments a").
		LeftJoin("services s ON s.id = a.service_id AND s.tenant_id = a.tenant_id").
		LeftJoin("staff st ON st.id = a.staff_id AND st.tenant_id = a.tenant_id").
		LeftJoin("clients c ON c.id = a.client_id AND c.tenant_id = a.tenant_id")

	selectBuilder, err := tenantguard.FenceSelectTable(ctx, selectBuilder, "a")
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - %v", ErrTenantScope, err)
	}

	if filter.StaffID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.staff_id": *filter.StaffID})
	}
	if filter.ClientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.client_id": *filter.ClientID})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.status": *filter.Status})
	}
	if filter.StartFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"a.start_at": *filter.StartFrom})
	}
	if filter.StartTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"a.start_at": *filter.StartTo})
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = domain.DefaultPageSize
	}
	if limit > domain.MaxPageSize {
		limit = domain.MaxPageSize
	}
	selectBuilder = selectBuilder.
		OrderBy("a.start_at ASC, a.id ASC").
		Limit(uint64(limit)).
		Offset(uint64(filter.Offset))

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// FindFirstOverlapping ищет первую активную запись субъекта (сотрудника или клиента),
// интервал которой строго пересекает [start, end): existing.start_at < end AND existing.end_at > start.
// Касание концов пересечением не считается. excludeID исключает запись из поиска (перенос).
// Внутри транзакции добавляет FOR UPDATE OF a для блокировки конкурирующих бронирований.
// Возвращает (nil, nil), если пересечений нет.
func (r *Repository) FindFirstOverlapping(
	ctx context.Context,
	subject domain.ConflictSubject,
	subjectID int64,
	start, end time.Time,
	excludeID *int64,
) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	subjectColumn := "a.staff_id"
	if subject == domain.SubjectClient {
		subjectColumn = "a.client_id"
	}

	activeStatuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStatuses[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments a").
		LeftJoin("services s ON s.id = a.service_id AND s.tenant_id = a.tenant_id").
		LeftJoin("staff st ON st.id = a.staff_id AND st.tenant_id = a.tenant_id").
		LeftJoin("clients c ON c.id = a.client_id AND c.tenant_id = a.tenant_id").
		Where(squirrel.Eq{subjectColumn: subjectID}).
		Where(squirrel.Eq{"a.status": activeStatuses}).
		Where(squirrel.Lt{"a.start_at": end}).
		Where(squirrel.Gt{"a.end_at": start})

	selectBuilder, err := tenantguard.FenceSelectTable(ctx, selectBuilder, "a")
	if err != nil {
		return nil, fmt.Errorf("%w: FindFirstOverlapping - %v", ErrTenantScope, err)
	}

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"a.id": *excludeID})
	}

	selectBuilder = selectBuilder.OrderBy("a.start_at ASC").Limit(1)

	// Внутри транзакции блокируем найденные строки до конца бронирования
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF a")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindFirstOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindFirstOverlapping - scan appointment: %w", ErrScanRow, err)
	}

	return appt, nil
}

// UpdateSchedule обновляет интервал и статус записи (перенос)
func (r *Repository) UpdateSchedule(ctx context.Context, id int64, start, end time.Time, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("appointments").
		Set("start_at", start).
		Set("end_at", end).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	updateBuilder, err := tenantguard.FenceUpdate(ctx, updateBuilder)
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - %v", ErrTenantScope, err)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isOverlapViolation(err) {
			return ErrOverlapConstraint
		}
		return fmt.Errorf("%w: UpdateSchedule - execute update: %w", ErrExecQuery, err)
	}

	return checkAffected(result, "UpdateSchedule")
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	updateBuilder, err := tenantguard.FenceUpdate(ctx, updateBuilder)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - %v", ErrTenantScope, err)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "UpdateStatus")
}

// UpdateNotes обновляет заметки записи без перепроверки интервала
func (r *Repository) UpdateNotes(ctx context.Context, id int64, notes *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("appointments").
		Set("notes", notes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	updateBuilder, err := tenantguard.FenceUpdate(ctx, updateBuilder)
	if err != nil {
		return fmt.Errorf("%w: UpdateNotes - %v", ErrTenantScope, err)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateNotes - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateNotes - execute update: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "UpdateNotes")
}

// Cancel отменяет запись одним условным UPDATE.
// Обновляет только записи в отменяемых статусах: ноль затронутых строк означает
// "не найдена или уже отменена", это ошибка, а не тихий успех.
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	cancellable := []string{
		string(domain.StatusPending),
		string(domain.StatusConfirmed),
		string(domain.StatusRescheduled),
	}

	updateBuilder := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": cancellable})

	updateBuilder, err := tenantguard.FenceUpdate(ctx, updateBuilder)
	if err != nil {
		return fmt.Errorf("%w: Cancel - %v", ErrTenantScope, err)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "Cancel")
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanAppointment сканирует одну строку результата в доменную модель
func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.TenantID,
		&appt.ServiceID,
		&appt.StaffID,
		&appt.ClientID,
		&appt.StartAt,
		&appt.EndAt,
		&appt.Status,
		&appt.ServicePrice,
		&appt.Currency,
		&appt.Notes,
		&appt.CancellationReason,
		&appt.CancelledAt,
		&createdAt,
		&updatedAt,
		&appt.ServiceName,
		&appt.StaffName,
		&appt.ClientName,
	)
	if err != nil {
		return nil, err
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

// checkAffected превращает ноль затронутых строк в ErrAppointmentNotFound
func checkAffected(result sql.Result, method string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// isOverlapViolation проверяет, что ошибка вызвана нарушением exclusion/unique constraint
func isOverlapViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgExclusionViolation || string(pqErr.Code) == pgUniqueViolation
	}
	return false
}
