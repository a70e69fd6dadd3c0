package reschedule_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	UpdateSchedule(ctx context.Context, id int64, start, end time.Time, status domain.AppointmentStatus) error
}

// CatalogRepository интерфейс репозитория справочников
type CatalogRepository interface {
	GetServiceByID(ctx context.Context, id int64) (*domain.Service, error)
}

// NotificationRepository интерфейс репозитория очереди уведомлений
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
}

// IntervalChecker интерфейс проверки интервала против расписания и существующих записей
type IntervalChecker interface {
	ValidateInterval(ctx context.Context, staffID, clientID int64, start, end time.Time, excludeID *int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
