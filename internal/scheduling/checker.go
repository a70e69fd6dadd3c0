package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписания (доступность и выходные)
type ScheduleRepository interface {
	ListAvailabilityByStaff(ctx context.Context, staffID int64) ([]*domain.Availability, error)
	FirstTimeOffOverlapping(ctx context.Context, staffID int64, start, end time.Time) (*domain.TimeOff, error)
}

// AppointmentRepository интерфейс репозитория записей для поиска пересечений
type AppointmentRepository interface {
	FindFirstOverlapping(ctx context.Context, subject domain.ConflictSubject, subjectID int64, start, end time.Time, excludeID *int64) (*domain.Appointment, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Checker проверяет интервал-кандидат против расписания сотрудника и существующих записей.
// Используется и при создании записи, и при переносе (с исключением собственного ID).
type Checker struct {
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	logger          Logger
}

// NewChecker создает новый Checker
func NewChecker(scheduleRepo ScheduleRepository, appointmentRepo AppointmentRepository, logger Logger) *Checker {
	return &Checker{
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// ValidateInterval выполняет все проверки интервала для пары сотрудник/клиент.
// Порядок фиксирован: блэкаут → доступность → пересечения сотрудника → пересечения клиента.
// Блэкаут проверяется первым: выходной отклоняет интервал даже при совпадении окна доступности.
// excludeID исключает запись из проверки пересечений (для переноса самой записи).
func (c *Checker) ValidateInterval(ctx context.Context, staffID, clientID int64, start, end time.Time, excludeID *int64) error {
	// 1. Блэкаут
	timeOff, err := c.scheduleRepo.FirstTimeOffOverlapping(ctx, staffID, start, end)
	if err != nil {
		c.logger.Error("ValidateInterval: failed to check time off for staff=%d: %v", staffID, err)
		return fmt.Errorf("%w: failed to check time off: %w", ErrInternal, err)
	}
	if timeOff != nil {
		reason := ""
		if timeOff.Reason != nil {
			reason = *timeOff.Reason
		}
		c.logger.Warn("ValidateInterval: staff=%d blocked by time off id=%d (%s)", staffID, timeOff.ID, reason)
		if reason != "" {
			return fmt.Errorf("%w: %s", ErrTimeOffBlocked, reason)
		}
		return ErrTimeOffBlocked
	}

	// 2. Доступность
	availability, err := c.scheduleRepo.ListAvailabilityByStaff(ctx, staffID)
	if err != nil {
		c.logger.Error("ValidateInterval: failed to load availability for staff=%d: %v", staffID, err)
		return fmt.Errorf("%w: failed to load availability: %w", ErrInternal, err)
	}
	if !IntervalPermitted(availability, start, end) {
		c.logger.Warn("ValidateInterval: interval outside availability for staff=%d (%d records)", staffID, len(availability))
		return ErrOutsideAvailability
	}

	// 3. Пересечения по сотруднику
	conflict, err := c.appointmentRepo.FindFirstOverlapping(ctx, domain.SubjectStaff, staffID, start, end, excludeID)
	if err != nil {
		c.logger.Error("ValidateInterval: failed to check staff conflicts for staff=%d: %v", staffID, err)
		return fmt.Errorf("%w: failed to check staff conflicts: %w", ErrInternal, err)
	}
	if conflict != nil {
		c.logger.Warn("ValidateInterval: staff=%d already booked, appointment id=%d", staffID, conflict.ID)
		return ErrStaffConflict
	}

	// 4. Пересечения по клиенту
	conflict, err = c.appointmentRepo.FindFirstOverlapping(ctx, domain.SubjectClient, clientID, start, end, excludeID)
	if err != nil {
		c.logger.Error("ValidateInterval: failed to check client conflicts for client=%d: %v", clientID, err)
		return fmt.Errorf("%w: failed to check client conflicts: %w", ErrInternal, err)
	}
	if conflict != nil {
		c.logger.Warn("ValidateInterval: client=%d already booked, appointment id=%d", clientID, conflict.ID)
		return ErrClientConflict
	}

	return nil
}
