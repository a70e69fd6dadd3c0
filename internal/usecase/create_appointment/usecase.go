package create_appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
)

// UseCase use case создания записи на приём
type UseCase struct {
	catalogRepo      CatalogRepository
	appointmentRepo  AppointmentRepository
	notificationRepo NotificationRepository
	checker          IntervalChecker
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	catalogRepo CatalogRepository,
	appointmentRepo AppointmentRepository,
	notificationRepo NotificationRepository,
	checker IntervalChecker,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalogRepo:      catalogRepo,
		appointmentRepo:  appointmentRepo,
		notificationRepo: notificationRepo,
		checker:          checker,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case создания записи
// Проверки интервала и обе вставки (запись + уведомление) выполняются в одной
// сериализуемой транзакции: две конкурирующие заявки на один слот не могут
// пройти проверку пересечений одновременно
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: service=%d, staff=%d, client=%d, start=%s, end=%s",
		req.ServiceID, req.StaffID, req.ClientID, req.StartAt.Format("2006-01-02T15:04"), req.EndAt.Format("2006-01-02T15:04"))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Запись в прошлое не создается
	now := uc.timeProvider.Now()
	if req.StartAt.Before(now) {
		uc.logger.Warn("CreateAppointment: start %s is in the past", req.StartAt.Format("2006-01-02T15:04"))
		return nil, ErrPastStart
	}

	// 3. Загружаем услугу, сотрудника и клиента параллельно
	var (
		service *domain.Service
		staff   *domain.Staff
		client  *domain.Client
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		service, err = uc.catalogRepo.GetServiceByID(gCtx, req.ServiceID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				return ErrServiceNotFound
			}
			return fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		staff, err = uc.catalogRepo.GetStaffByID(gCtx, req.StaffID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrStaffNotFound) {
				return ErrStaffNotFound
			}
			return fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		client, err = uc.catalogRepo.GetClientByID(gCtx, req.ClientID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrClientNotFound) {
				return ErrClientNotFound
			}
			return fmt.Errorf("%w: failed to get client: %v", ErrInternal, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		uc.logger.Warn("CreateAppointment: lookup failed: %v", err)
		return nil, err
	}

	// 4. Неактивная услуга недоступна для записи
	if !service.IsBookable() {
		uc.logger.Warn("CreateAppointment: service id=%d is not bookable", service.ID)
		return nil, ErrServiceNotFound
	}

	// 5. Сотрудник должен быть назначен на услугу
	assigned, err := uc.catalogRepo.StaffAssignedToService(ctx, req.StaffID, req.ServiceID)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to check staff assignment: %v", err)
		return nil, fmt.Errorf("%w: failed to check staff assignment: %v", ErrInternal, err)
	}
	if !assigned {
		uc.logger.Warn("CreateAppointment: staff=%d not assigned to service=%d", req.StaffID, req.ServiceID)
		return nil, ErrStaffNotAssigned
	}

	// 6. Закон длительности
	if err := validateDuration(req.StartAt, req.EndAt, service); err != nil {
		uc.logger.Warn("CreateAppointment: duration mismatch: %v", err)
		return nil, err
	}

	var result *domain.Appointment

	// 7. Проверки интервала и обе вставки идут в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Блэкаут → доступность → пересечения сотрудника → пересечения клиента
		if err := uc.checker.ValidateInterval(txCtx, req.StaffID, req.ClientID, req.StartAt, req.EndAt, nil); err != nil {
			return err
		}

		// 7.2. Создаем запись со снимком цены услуги
		appt := &domain.Appointment{
			ServiceID:    req.ServiceID,
			StaffID:      req.StaffID,
			ClientID:     req.ClientID,
			StartAt:      req.StartAt,
			EndAt:        req.EndAt,
			Status:       domain.StatusPending,
			ServicePrice: service.Price,
			Currency:     service.Currency,
			Notes:        req.Notes,
			ServiceName:  service.Name,
			StaffName:    staff.Name,
			ClientName:   client.Name,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			// Exclusion constraint как вторая линия защиты от гонки: наружу как конфликт
			if errors.Is(err, appointmentRepo.ErrOverlapConstraint) {
				uc.logger.Warn("CreateAppointment: overlap constraint fired for staff=%d", req.StaffID)
				return ErrStaffConflict
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		// 7.3. Ставим уведомление в очередь в той же транзакции
		if err := uc.enqueueNotification(txCtx, created, domain.NotificationTypeBookingCreated); err != nil {
			uc.logger.Error("CreateAppointment: failed to enqueue notification: %v", err)
			return fmt.Errorf("%w: failed to enqueue notification: %w", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	return fromDomain(result), nil
}

// enqueueNotification вставляет запись уведомления для созданного бронирования
func (uc *UseCase) enqueueNotification(ctx context.Context, appt *domain.Appointment, notificationType string) error {
	payload, err := json.Marshal(notificationPayload{
		EventID:       uuid.NewString(),
		AppointmentID: appt.ID,
		ServiceName:   appt.ServiceName,
		StaffName:     appt.StaffName,
		ClientName:    appt.ClientName,
		StartAt:       appt.StartAt,
		EndAt:         appt.EndAt,
		Price:         appt.ServicePrice,
		Currency:      appt.Currency,
	})
	if err != nil {
		return err
	}

	_, err = uc.notificationRepo.Create(ctx, &domain.Notification{
		UserID:        appt.ClientID,
		AppointmentID: appt.ID,
		Type:          notificationType,
		Channel:       domain.NotificationChannelEmail,
		Payload:       payload,
		Status:        domain.NotificationQueued,
	})
	return err
}

// Компилятор проверяет, что scheduling.Checker реализует IntervalChecker
var _ IntervalChecker = (*scheduling.Checker)(nil)
