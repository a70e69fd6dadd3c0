package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модели

// CreateAvailabilityRequest запрос на добавление окна доступности
type CreateAvailabilityRequest struct {
	Kind string `json:"kind"` // recurring | one_off

	// Поля recurring-окна
	DayOfWeek *int    `json:"dayOfWeek,omitempty"` // 0=воскресенье .. 6=суббота
	StartTime *string `json:"startTime,omitempty"` // "HH:MM"
	EndTime   *string `json:"endTime,omitempty"`   // "HH:MM"

	// Поля one_off-окна
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// CreateTimeOffRequest запрос на добавление выходного
type CreateTimeOffRequest struct {
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
	Reason  *string   `json:"reason,omitempty"`
}

// Response модели

// AvailabilityResponse окно доступности в ответе
type AvailabilityResponse struct {
	ID        int64      `json:"id"`
	StaffID   int64      `json:"staffId"`
	Kind      string     `json:"kind"`
	DayOfWeek *int       `json:"dayOfWeek,omitempty"`
	StartTime *string    `json:"startTime,omitempty"`
	EndTime   *string    `json:"endTime,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// TimeOffResponse выходной в ответе
type TimeOffResponse struct {
	ID        int64     `json:"id"`
	StaffID   int64     `json:"staffId"`
	StartAt   time.Time `json:"startAt"`
	EndAt     time.Time `json:"endAt"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// StaffScheduleResponse полное расписание сотрудника: окна доступности и выходные
type StaffScheduleResponse struct {
	StaffID      int64                  `json:"staffId"`
	Availability []AvailabilityResponse `json:"availability"`
	TimeOff      []TimeOffResponse      `json:"timeOff"`
}

// Методы конвертации

// FromDomainAvailability конвертирует domain модель в DTO
func FromDomainAvailability(a *domain.Availability) *AvailabilityResponse {
	if a == nil {
		return nil
	}

	resp := &AvailabilityResponse{
		ID:        a.ID,
		StaffID:   a.StaffID,
		Kind:      string(a.Kind),
		DayOfWeek: a.DayOfWeek,
		StartDate: a.StartDate,
		EndDate:   a.EndDate,
		CreatedAt: a.CreatedAt,
	}

	if a.StartTime != nil {
		s := a.StartTime.String()
		resp.StartTime = &s
	}
	if a.EndTime != nil {
		s := a.EndTime.String()
		resp.EndTime = &s
	}

	return resp
}

// FromDomainTimeOff конвертирует domain модель в DTO
func FromDomainTimeOff(t *domain.TimeOff) *TimeOffResponse {
	if t == nil {
		return nil
	}

	return &TimeOffResponse{
		ID:        t.ID,
		StaffID:   t.StaffID,
		StartAt:   t.StartAt,
		EndAt:     t.EndAt,
		Reason:    t.Reason,
		CreatedAt: t.CreatedAt,
	}
}

// FromDomainSchedule собирает полное расписание сотрудника
func FromDomainSchedule(staffID int64, availability []*domain.Availability, timeOff []*domain.TimeOff) *StaffScheduleResponse {
	resp := &StaffScheduleResponse{
		StaffID:      staffID,
		Availability: make([]AvailabilityResponse, 0, len(availability)),
		TimeOff:      make([]TimeOffResponse, 0, len(timeOff)),
	}

	for _, rec := range availability {
		if r := FromDomainAvailability(rec); r != nil {
			resp.Availability = append(resp.Availability, *r)
		}
	}
	for _, rec := range timeOff {
		if r := FromDomainTimeOff(rec); r != nil {
			resp.TimeOff = append(resp.TimeOff, *r)
		}
	}

	return resp
}
