package schedule

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	ListAvailabilityByStaff(ctx context.Context, staffID int64) ([]*domain.Availability, error)
	CreateAvailability(ctx context.Context, rec *domain.Availability) (*domain.Availability, error)
	DeleteAvailability(ctx context.Context, id int64) error
	ListTimeOffByStaff(ctx context.Context, staffID int64) ([]*domain.TimeOff, error)
	CreateTimeOff(ctx context.Context, rec *domain.TimeOff) (*domain.TimeOff, error)
}

// CatalogRepository интерфейс репозитория справочников
type CatalogRepository interface {
	GetStaffByID(ctx context.Context, id int64) (*domain.Staff, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
