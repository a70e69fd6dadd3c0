package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса на создание записи
// Тенант не передается в запросе, он берется из контекста вызова
type Request struct {
	ServiceID int64
	StaffID   int64
	ClientID  int64
	StartAt   time.Time
	EndAt     time.Time
	Notes     *string
}

// Response модель ответа с созданной записью
type Response struct {
	ID        int64
	TenantID  int64
	ServiceID int64
	StaffID   int64
	ClientID  int64
	StartAt   time.Time
	EndAt     time.Time
	Status    string

	// Снимок цены и денормализованные имена
	ServicePrice float64
	Currency     string
	ServiceName  string
	StaffName    string
	ClientName   string
	Notes        *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// fromDomain конвертирует доменную модель в response
func fromDomain(a *domain.Appointment) *Response {
	return &Response{
		ID:           a.ID,
		TenantID:     a.TenantID,
		ServiceID:    a.ServiceID,
		StaffID:      a.StaffID,
		ClientID:     a.ClientID,
		StartAt:      a.StartAt,
		EndAt:        a.EndAt,
		Status:       string(a.Status),
		ServicePrice: a.ServicePrice,
		Currency:     a.Currency,
		ServiceName:  a.ServiceName,
		StaffName:    a.StaffName,
		ClientName:   a.ClientName,
		Notes:        a.Notes,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// notificationPayload денормализованный payload уведомления о бронировании
type notificationPayload struct {
	EventID       string    `json:"eventId"`
	AppointmentID int64     `json:"appointmentId"`
	ServiceName   string    `json:"serviceName"`
	StaffName     string    `json:"staffName"`
	ClientName    string    `json:"clientName"`
	StartAt       time.Time `json:"startAt"`
	EndAt         time.Time `json:"endAt"`
	Price         float64   `json:"price"`
	Currency      string    `json:"currency"`
}
