package create_appointment

import (
	"time"

	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ServiceID int64   `json:"serviceId"`
	StaffID   int64   `json:"staffId"`
	ClientID  int64   `json:"clientId"`
	StartAt   string  `json:"startAt"` // RFC 3339
	EndAt     string  `json:"endAt"`   // RFC 3339
	Notes     *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID           int64   `json:"id"`
	ServiceID    int64   `json:"serviceId"`
	StaffID      int64   `json:"staffId"`
	ClientID     int64   `json:"clientId"`
	StartAt      string  `json:"startAt"`
	EndAt        string  `json:"endAt"`
	Status       string  `json:"status"`
	ServicePrice float64 `json:"servicePrice"`
	Currency     string  `json:"currency"`
	ServiceName  string  `json:"serviceName,omitempty"`
	StaffName    string  `json:"staffName,omitempty"`
	ClientName   string  `json:"clientName,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest() (*createAppointment.Request, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, err
	}
	endAt, err := time.Parse(time.RFC3339, r.EndAt)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		ServiceID: r.ServiceID,
		StaffID:   r.StaffID,
		ClientID:  r.ClientID,
		StartAt:   startAt,
		EndAt:     endAt,
		Notes:     r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:           resp.ID,
		ServiceID:    resp.ServiceID,
		StaffID:      resp.StaffID,
		ClientID:     resp.ClientID,
		StartAt:      resp.StartAt.Format(time.RFC3339),
		EndAt:        resp.EndAt.Format(time.RFC3339),
		Status:       resp.Status,
		ServicePrice: resp.ServicePrice,
		Currency:     resp.Currency,
		ServiceName:  resp.ServiceName,
		StaffName:    resp.StaffName,
		ClientName:   resp.ClientName,
		Notes:        resp.Notes,
		CreatedAt:    resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    resp.UpdatedAt.Format(time.RFC3339),
	}
}
