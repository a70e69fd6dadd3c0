package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// ListAppointmentsRequest запрос на получение списка записей тенанта
type ListAppointmentsRequest struct {
	StaffID   *int64     `json:"staffId,omitempty"`
	ClientID  *int64     `json:"clientId,omitempty"`
	Status    *string    `json:"status,omitempty"`
	StartFrom *time.Time `json:"startFrom,omitempty"`
	StartTo   *time.Time `json:"startTo,omitempty"`
	Limit     int        `json:"limit,omitempty"`
	Offset    int        `json:"offset,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListAppointmentsRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		StaffID:   r.StaffID,
		ClientID:  r.ClientID,
		StartFrom: r.StartFrom,
		StartTo:   r.StartTo,
		Limit:     r.Limit,
		Offset:    r.Offset,
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID        int64  `json:"id"`
	ServiceID int64  `json:"serviceId"`
	StaffID   int64  `json:"staffId"`
	ClientID  int64  `json:"clientId"`
	StartAt   string `json:"startAt"` // RFC 3339
	EndAt     string `json:"endAt"`   // RFC 3339
	Status    string `json:"status"`

	// Снимок цены и денормализованные имена
	ServicePrice float64 `json:"servicePrice"`
	Currency     string  `json:"currency"`
	ServiceName  string  `json:"serviceName,omitempty"`
	StaffName    string  `json:"staffName,omitempty"`
	ClientName   string  `json:"clientName,omitempty"`

	Notes              *string `json:"notes,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // RFC 3339

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		ServiceID:          a.ServiceID,
		StaffID:            a.StaffID,
		ClientID:           a.ClientID,
		StartAt:            a.StartAt.Format(time.RFC3339),
		EndAt:              a.EndAt.Format(time.RFC3339),
		Status:             string(a.Status),
		ServicePrice:       a.ServicePrice,
		Currency:           a.Currency,
		ServiceName:        a.ServiceName,
		StaffName:          a.StaffName,
		ClientName:         a.ClientName,
		Notes:              a.Notes,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		cancelledStr := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment, limit, offset int) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
		Limit:        limit,
		Offset:       offset,
	}

	for _, appt := range appointments {
		if apptResp := FromDomainAppointment(appt); apptResp != nil {
			resp.Appointments = append(resp.Appointments, *apptResp)
		}
	}

	return resp
}

// ToDomainStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	if !domain.ValidStatus(status) {
		return "", ErrInvalidStatus
	}
	return domain.AppointmentStatus(status), nil
}
