package update_staff_schedule

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

type ScheduleService interface {
	AddAvailability(ctx context.Context, staffID int64, req *models.CreateAvailabilityRequest) (*models.AvailabilityResponse, error)
	RemoveAvailability(ctx context.Context, id int64) error
	AddTimeOff(ctx context.Context, staffID int64, req *models.CreateTimeOffRequest) (*models.TimeOffResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
