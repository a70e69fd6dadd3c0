package reschedule_appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
)

// Request модель запроса на перенос записи
type Request struct {
	AppointmentID int64
	NewStart      time.Time
	NewEnd        time.Time
}

// UseCase use case переноса записи на новый интервал
// Повторяет все проверки создания против нового интервала, исключая саму
// запись из проверки пересечений
type UseCase struct {
	appointmentRepo  AppointmentRepository
	catalogRepo      CatalogRepository
	notificationRepo NotificationRepository
	checker          IntervalChecker
	txManager        TransactionManager
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	notificationRepo NotificationRepository,
	checker IntervalChecker,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:  appointmentRepo,
		catalogRepo:      catalogRepo,
		notificationRepo: notificationRepo,
		checker:          checker,
		txManager:        txManager,
		logger:           logger,
	}
}

// Execute выполняет перенос записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	uc.logger.Info("RescheduleAppointment: id=%d, newStart=%s, newEnd=%s",
		req.AppointmentID, req.NewStart.Format("2006-01-02T15:04"), req.NewEnd.Format("2006-01-02T15:04"))

	// 1. Валидация входных данных
	if req.AppointmentID <= 0 {
		return nil, fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}
	if req.NewStart.IsZero() || req.NewEnd.IsZero() {
		return nil, fmt.Errorf("%w: newStart and newEnd are required", ErrInvalidInput)
	}
	if !req.NewEnd.After(req.NewStart) {
		return nil, fmt.Errorf("%w: newEnd must be after newStart", ErrInvalidInput)
	}

	// 2. Загружаем запись (в рамках тенанта)
	appt, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	// 3. Конечные статусы не переносятся
	if !appt.CanBeRescheduled() {
		uc.logger.Warn("RescheduleAppointment: appointment id=%d in status=%s cannot be rescheduled", appt.ID, appt.Status)
		return nil, ErrCannotReschedule
	}

	// 4. Перепроверяем закон длительности против услуги записи
	// Исчезнувшая услуга это нарушение целостности данных, не not-found
	service, err := uc.catalogRepo.GetServiceByID(ctx, appt.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Error("RescheduleAppointment: appointment id=%d references missing service id=%d", appt.ID, appt.ServiceID)
			return nil, fmt.Errorf("%w: appointment references missing service", ErrInternal)
		}
		uc.logger.Error("RescheduleAppointment: failed to get service id=%d: %v", appt.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if req.NewEnd.Sub(req.NewStart) != time.Duration(service.DurationMinutes)*time.Minute {
		uc.logger.Warn("RescheduleAppointment: duration mismatch for appointment id=%d, expected %d minutes", appt.ID, service.DurationMinutes)
		return nil, fmt.Errorf("%w: expected %d minutes", ErrDurationMismatch, service.DurationMinutes)
	}

	// 5. Проверки нового интервала и обновление идут в одной сериализуемой транзакции
	// Сама запись исключается из проверки пересечений: перенос на интервал,
	// конфликтующий только с ней самой, допустим
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.checker.ValidateInterval(txCtx, appt.StaffID, appt.ClientID, req.NewStart, req.NewEnd, &appt.ID); err != nil {
			return err
		}

		if err := uc.appointmentRepo.UpdateSchedule(txCtx, appt.ID, req.NewStart, req.NewEnd, domain.StatusRescheduled); err != nil {
			if errors.Is(err, appointmentRepo.ErrOverlapConstraint) {
				uc.logger.Warn("RescheduleAppointment: overlap constraint fired for appointment id=%d", appt.ID)
				return ErrStaffConflict
			}
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			uc.logger.Error("RescheduleAppointment: failed to update appointment id=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: failed to update appointment: %w", ErrInternal, err)
		}

		payload, err := json.Marshal(map[string]interface{}{
			"eventId":       uuid.NewString(),
			"appointmentId": appt.ID,
			"oldStartAt":    appt.StartAt,
			"oldEndAt":      appt.EndAt,
			"newStartAt":    req.NewStart,
			"newEndAt":      req.NewEnd,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to marshal notification payload: %v", ErrInternal, err)
		}

		if _, err := uc.notificationRepo.Create(txCtx, &domain.Notification{
			UserID:        appt.ClientID,
			AppointmentID: appt.ID,
			Type:          domain.NotificationTypeBookingRescheduled,
			Channel:       domain.NotificationChannelEmail,
			Payload:       payload,
			Status:        domain.NotificationQueued,
		}); err != nil {
			uc.logger.Error("RescheduleAppointment: failed to enqueue notification: %v", err)
			return fmt.Errorf("%w: failed to enqueue notification: %w", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleAppointment: successfully rescheduled appointment id=%d", appt.ID)

	appt.StartAt = req.NewStart
	appt.EndAt = req.NewEnd
	appt.Status = domain.StatusRescheduled

	return appt, nil
}
