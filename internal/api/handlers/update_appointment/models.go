package update_appointment

import (
	"time"

	serviceModels "github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	rescheduleAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_appointment"
)

// UpdateAppointmentRequest HTTP request model
// Перенос, смена статуса и правка заметок взаимоисключающие операции:
// ровно одна группа полей должна быть заполнена
type UpdateAppointmentRequest struct {
	NewStartAt *string `json:"newStartAt,omitempty"` // RFC 3339
	NewEndAt   *string `json:"newEndAt,omitempty"`   // RFC 3339
	Status     *string `json:"status,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

// IsReschedule возвращает true, если запрос содержит поля переноса
func (r *UpdateAppointmentRequest) IsReschedule() bool {
	return r.NewStartAt != nil || r.NewEndAt != nil
}

// IsStatusUpdate возвращает true, если запрос содержит смену статуса
func (r *UpdateAppointmentRequest) IsStatusUpdate() bool {
	return r.Status != nil
}

// IsNotesUpdate возвращает true, если запрос содержит правку заметок
func (r *UpdateAppointmentRequest) IsNotesUpdate() bool {
	return r.Notes != nil
}

// ToRescheduleRequest конвертирует HTTP запрос в модель use case переноса
func (r *UpdateAppointmentRequest) ToRescheduleRequest(appointmentID int64) (*rescheduleAppointment.Request, error) {
	if r.NewStartAt == nil || r.NewEndAt == nil {
		return nil, errBothBoundsRequired
	}

	newStart, err := time.Parse(time.RFC3339, *r.NewStartAt)
	if err != nil {
		return nil, err
	}
	newEnd, err := time.Parse(time.RFC3339, *r.NewEndAt)
	if err != nil {
		return nil, err
	}

	return &rescheduleAppointment.Request{
		AppointmentID: appointmentID,
		NewStart:      newStart,
		NewEnd:        newEnd,
	}, nil
}

// ToStatusRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateAppointmentRequest) ToStatusRequest() *serviceModels.UpdateStatusRequest {
	return &serviceModels.UpdateStatusRequest{Status: *r.Status}
}
