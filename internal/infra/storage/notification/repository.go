package notification

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/tenantguard"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий очереди уведомлений
// Запись уведомления вставляется в одной транзакции с записью на приём:
// бронирование без поставленного в очередь уведомления невозможно
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория уведомлений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create ставит уведомление в очередь
// Доставкой занимается внешний воркер; здесь только запись со статусом queued
func (r *Repository) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder, err := tenantguard.FenceInsert(ctx, psqlbuilder.Insert("notifications"), map[string]interface{}{
		"user_id":        n.UserID,
		"appointment_id": n.AppointmentID,
		"type":           n.Type,
		"channel":        n.Channel,
		"payload":        n.Payload,
		"status":         n.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: Create - %v", ErrTenantScope, err)
	}

	query, args, err := builder.
		Suffix("RETURNING id, tenant_id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&n.ID,
		&n.TenantID,
		&createdAt,
	)
	if err != nil {
		// Ошибка драйвера сохраняется в цепочке: менеджер транзакций
		// распознает по ней конфликт сериализации (40001) для повтора
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	n.CreatedAt = createdAt.Time

	return n, nil
}
