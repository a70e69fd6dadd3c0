package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// UseCase use case получения свободных слотов сотрудника на дату
type UseCase struct {
	catalogRepo     CatalogRepository
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	catalogRepo CatalogRepository,
	scheduleRepo ScheduleRepository,
	appointmentRepo AppointmentRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalogRepo:     catalogRepo,
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute возвращает свободные слоты сотрудника на дату для указанной услуги
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: staff=%d, service=%d, date=%s",
		req.StaffID, req.ServiceID, req.Date.Format(domain.DateFormat))

	if req.StaffID <= 0 || req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: staffID and serviceID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	service, err := uc.catalogRepo.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsBookable() {
		return nil, ErrServiceNotFound
	}

	if _, err := uc.catalogRepo.GetStaffByID(ctx, req.StaffID); err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	availability, err := uc.scheduleRepo.ListAvailabilityByStaff(ctx, req.StaffID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to load availability: %v", err)
		return nil, fmt.Errorf("%w: failed to load availability: %v", ErrInternal, err)
	}

	timeOffs, err := uc.scheduleRepo.ListTimeOffByStaff(ctx, req.StaffID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to load time off: %v", err)
		return nil, fmt.Errorf("%w: failed to load time off: %v", ErrInternal, err)
	}

	dayStart := req.Date.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.AddDate(0, 0, 1)
	appointments, err := uc.appointmentRepo.ListWithFilter(ctx, domain.AppointmentsFilter{
		StaffID:   ptr.Ptr(req.StaffID),
		StartFrom: &dayStart,
		StartTo:   &dayEnd,
		Limit:     domain.MaxPageSize,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to load appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to load appointments: %v", ErrInternal, err)
	}

	slots := buildSlots(req.Date.UTC(), service.DurationMinutes, availability, timeOffs, appointments, uc.timeProvider.Now())

	uc.logger.Info("GetAvailableSlots: staff=%d has %d free slots on %s", req.StaffID, len(slots), req.Date.Format(domain.DateFormat))

	return &Response{
		StaffID:         req.StaffID,
		ServiceID:       req.ServiceID,
		Date:            req.Date,
		DurationMinutes: service.DurationMinutes,
		Slots:           slots,
	}, nil
}
