package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Service сервис управления жизненным циклом записей
type Service struct {
	appointmentRepo  AppointmentRepository
	notificationRepo NotificationRepository
	txManager        TransactionManager
	logger           Logger
}

// NewService создает новый экземпляр сервиса
func NewService(
	appointmentRepo AppointmentRepository,
	notificationRepo NotificationRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo:  appointmentRepo,
		notificationRepo: notificationRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

// GetByID возвращает запись по ID в рамках тенанта из контекста
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: failed to get appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - failed to get appointment: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appt), nil
}

// List возвращает список записей тенанта с фильтрацией и пагинацией
func (s *Service) List(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}

	if filter.Limit <= 0 {
		filter.Limit = domain.DefaultPageSize
	}
	if filter.Limit > domain.MaxPageSize {
		filter.Limit = domain.MaxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.StartFrom != nil && filter.StartTo != nil && filter.StartTo.Before(*filter.StartFrom) {
		return nil, fmt.Errorf("%w: startTo must not be before startFrom", ErrInvalidInput)
	}

	appts, err := s.appointmentRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("List: failed to list appointments: %v", err)
		return nil, fmt.Errorf("%w: List - failed to list appointments: %v", ErrInternal, err)
	}

	return models.FromDomainAppointmentList(appts, filter.Limit, filter.Offset), nil
}

// UpdateStatus переводит запись в новый статус по таблице допустимых переходов
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}

	newStatus, err := models.ToDomainStatus(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: failed to get appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - failed to get appointment: %v", ErrInternal, err)
	}

	if !appt.CanTransitionTo(newStatus) {
		s.logger.Warn("UpdateStatus: illegal transition %s -> %s for appointment id=%d", appt.Status, newStatus, id)
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, appt.Status, newStatus)
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, id, newStatus); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: failed to update appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - failed to update appointment: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: appointment id=%d moved %s -> %s", id, appt.Status, newStatus)

	appt.Status = newStatus
	return models.FromDomainAppointment(appt), nil
}

// UpdateNotes обновляет заметки записи
func (s *Service) UpdateNotes(ctx context.Context, id int64, notes *string) (*models.AppointmentResponse, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}
	if notes != nil && len(*notes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if err := s.appointmentRepo.UpdateNotes(ctx, id, notes); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("UpdateNotes: failed to update appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateNotes - failed to update appointment: %v", ErrInternal, err)
	}

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("UpdateNotes: failed to reload appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateNotes - failed to reload appointment: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appt), nil
}

// Cancel отменяет запись. Операция идемпотентна на уровне условного UPDATE:
// повторная отмена или отмена завершенной записи вернет ErrAlreadyCancelled.
// Уведомление об отмене ставится в очередь в той же транзакции.
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelAppointmentRequest) (*models.AppointmentResponse, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}

	var reason *string
	if req != nil {
		reason = req.CancellationReason
	}

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.appointmentRepo.Cancel(ctx, id, reason); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAlreadyCancelled
			}
			return fmt.Errorf("%w: Cancel - failed to cancel appointment: %v", ErrInternal, err)
		}

		appt, err := s.appointmentRepo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("%w: Cancel - failed to reload appointment: %v", ErrInternal, err)
		}

		if err := s.enqueueCancelNotification(ctx, appt); err != nil {
			return fmt.Errorf("%w: Cancel - failed to enqueue notification: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyCancelled) {
			s.logger.Warn("Cancel: appointment id=%d not found or already cancelled", id)
			return nil, ErrAlreadyCancelled
		}
		s.logger.Error("Cancel: transaction failed for appointment id=%d: %v", id, err)
		return nil, err
	}

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Cancel: failed to reload appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - failed to reload appointment: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: appointment id=%d cancelled", id)

	return models.FromDomainAppointment(appt), nil
}

type cancelNotificationPayload struct {
	EventID       string    `json:"eventId"`
	AppointmentID int64     `json:"appointmentId"`
	ClientID      int64     `json:"clientId"`
	StaffID       int64     `json:"staffId"`
	StartAt       time.Time `json:"startAt"`
	EndAt         time.Time `json:"endAt"`
	Reason        *string   `json:"reason,omitempty"`
}

func (s *Service) enqueueCancelNotification(ctx context.Context, appt *domain.Appointment) error {
	payload, err := json.Marshal(cancelNotificationPayload{
		EventID:       uuid.NewString(),
		AppointmentID: appt.ID,
		ClientID:      appt.ClientID,
		StaffID:       appt.StaffID,
		StartAt:       appt.StartAt,
		EndAt:         appt.EndAt,
		Reason:        appt.CancellationReason,
	})
	if err != nil {
		return err
	}

	_, err = s.notificationRepo.Create(ctx, &domain.Notification{
		UserID:        appt.ClientID,
		AppointmentID: appt.ID,
		Type:          domain.NotificationTypeBookingCancelled,
		Channel:       domain.NotificationChannelEmail,
		Status:        domain.NotificationQueued,
		Payload:       payload,
	})
	return err
}
