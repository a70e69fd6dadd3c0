package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/tenantguard"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Service сервис управления расписанием сотрудников: окна доступности и выходные.
// Мутации доступны только ролям admin и manager; чтение доступно всем ролям тенанта.
type Service struct {
	scheduleRepo ScheduleRepository
	catalogRepo  CatalogRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса
func NewService(scheduleRepo ScheduleRepository, catalogRepo CatalogRepository, logger Logger) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		catalogRepo:  catalogRepo,
		logger:       logger,
	}
}

// GetStaffSchedule возвращает полное расписание сотрудника
func (s *Service) GetStaffSchedule(ctx context.Context, staffID int64) (*models.StaffScheduleResponse, error) {
	if staffID <= 0 {
		return nil, fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if _, err := s.catalogRepo.GetStaffByID(ctx, staffID); err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			return nil, ErrStaffNotFound
		}
		s.logger.Error("GetStaffSchedule: failed to get staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: GetStaffSchedule - failed to get staff: %v", ErrInternal, err)
	}

	availability, err := s.scheduleRepo.ListAvailabilityByStaff(ctx, staffID)
	if err != nil {
		s.logger.Error("GetStaffSchedule: failed to load availability for staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: GetStaffSchedule - failed to load availability: %v", ErrInternal, err)
	}

	timeOff, err := s.scheduleRepo.ListTimeOffByStaff(ctx, staffID)
	if err != nil {
		s.logger.Error("GetStaffSchedule: failed to load time off for staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: GetStaffSchedule - failed to load time off: %v", ErrInternal, err)
	}

	return models.FromDomainSchedule(staffID, availability, timeOff), nil
}

// AddAvailability добавляет окно доступности сотрудника
func (s *Service) AddAvailability(ctx context.Context, staffID int64, req *models.CreateAvailabilityRequest) (*models.AvailabilityResponse, error) {
	if err := s.requireScheduleManager(ctx); err != nil {
		return nil, err
	}
	if staffID <= 0 {
		return nil, fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	rec, err := buildAvailability(staffID, req)
	if err != nil {
		return nil, err
	}

	if _, err := s.catalogRepo.GetStaffByID(ctx, staffID); err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			return nil, ErrStaffNotFound
		}
		s.logger.Error("AddAvailability: failed to get staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: AddAvailability - failed to get staff: %v", ErrInternal, err)
	}

	created, err := s.scheduleRepo.CreateAvailability(ctx, rec)
	if err != nil {
		s.logger.Error("AddAvailability: failed to create availability for staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: AddAvailability - failed to create availability: %v", ErrInternal, err)
	}

	s.logger.Info("AddAvailability: created %s window id=%d for staff id=%d", created.Kind, created.ID, staffID)

	return models.FromDomainAvailability(created), nil
}

// RemoveAvailability мягко удаляет окно доступности
func (s *Service) RemoveAvailability(ctx context.Context, id int64) error {
	if err := s.requireScheduleManager(ctx); err != nil {
		return err
	}
	if id <= 0 {
		return fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}

	if err := s.scheduleRepo.DeleteAvailability(ctx, id); err != nil {
		if errors.Is(err, scheduleRepo.ErrAvailabilityNotFound) {
			return ErrAvailabilityNotFound
		}
		s.logger.Error("RemoveAvailability: failed to delete availability id=%d: %v", id, err)
		return fmt.Errorf("%w: RemoveAvailability - failed to delete availability: %v", ErrInternal, err)
	}

	s.logger.Info("RemoveAvailability: deleted availability id=%d", id)

	return nil
}

// AddTimeOff добавляет выходной сотрудника
func (s *Service) AddTimeOff(ctx context.Context, staffID int64, req *models.CreateTimeOffRequest) (*models.TimeOffResponse, error) {
	if err := s.requireScheduleManager(ctx); err != nil {
		return nil, err
	}
	if staffID <= 0 {
		return nil, fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}
	if req.StartAt.IsZero() || req.EndAt.IsZero() {
		return nil, fmt.Errorf("%w: startAt and endAt are required", ErrInvalidInput)
	}
	if !req.EndAt.After(req.StartAt) {
		return nil, fmt.Errorf("%w: endAt must be after startAt", ErrInvalidInput)
	}

	if _, err := s.catalogRepo.GetStaffByID(ctx, staffID); err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			return nil, ErrStaffNotFound
		}
		s.logger.Error("AddTimeOff: failed to get staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: AddTimeOff - failed to get staff: %v", ErrInternal, err)
	}

	created, err := s.scheduleRepo.CreateTimeOff(ctx, &domain.TimeOff{
		StaffID: staffID,
		StartAt: req.StartAt.UTC(),
		EndAt:   req.EndAt.UTC(),
		Reason:  req.Reason,
	})
	if err != nil {
		s.logger.Error("AddTimeOff: failed to create time off for staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: AddTimeOff - failed to create time off: %v", ErrInternal, err)
	}

	s.logger.Info("AddTimeOff: created time off id=%d for staff id=%d", created.ID, staffID)

	return models.FromDomainTimeOff(created), nil
}

// requireScheduleManager проверяет, что роль в контексте позволяет управлять расписанием
func (s *Service) requireScheduleManager(ctx context.Context) error {
	scope, err := tenantguard.FromContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	}
	if !scope.CanManageSchedule() {
		s.logger.Warn("schedule mutation denied for role=%q user=%d", scope.Role, scope.UserID)
		return ErrAccessDenied
	}
	return nil
}

// buildAvailability валидирует запрос и собирает domain-модель окна доступности
func buildAvailability(staffID int64, req *models.CreateAvailabilityRequest) (*domain.Availability, error) {
	switch domain.AvailabilityKind(req.Kind) {
	case domain.AvailabilityRecurring:
		if req.DayOfWeek == nil || *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
			return nil, fmt.Errorf("%w: dayOfWeek must be in range 0..6", ErrInvalidInput)
		}
		if req.StartTime == nil || req.EndTime == nil {
			return nil, fmt.Errorf("%w: startTime and endTime are required for recurring windows", ErrInvalidInput)
		}

		startTime, err := types.NewTimeStringFromString(*req.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
		}
		endTime, err := types.NewTimeStringFromString(*req.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: endTime: %v", ErrInvalidInput, err)
		}
		if !startTime.IsBefore(endTime) {
			return nil, fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
		}

		return &domain.Availability{
			StaffID:   staffID,
			Kind:      domain.AvailabilityRecurring,
			DayOfWeek: req.DayOfWeek,
			StartTime: &startTime,
			EndTime:   &endTime,
		}, nil

	case domain.AvailabilityOneOff:
		if req.StartDate == nil || req.EndDate == nil {
			return nil, fmt.Errorf("%w: startDate and endDate are required for one_off windows", ErrInvalidInput)
		}
		if req.EndDate.Before(*req.StartDate) {
			return nil, fmt.Errorf("%w: endDate must not be before startDate", ErrInvalidInput)
		}

		startDate := req.StartDate.UTC()
		endDate := req.EndDate.UTC()

		return &domain.Availability{
			StaffID:   staffID,
			Kind:      domain.AvailabilityOneOff,
			StartDate: &startDate,
			EndDate:   &endDate,
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown availability kind %q", ErrInvalidInput, req.Kind)
	}
}
