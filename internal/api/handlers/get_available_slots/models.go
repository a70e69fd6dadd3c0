package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// SlotResponse свободный слот в ответе
type SlotResponse struct {
	StartAt string `json:"startAt"` // RFC 3339
	EndAt   string `json:"endAt"`   // RFC 3339
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	StaffID         int64          `json:"staffId"`
	ServiceID       int64          `json:"serviceId"`
	Date            string         `json:"date"` // YYYY-MM-DD
	DurationMinutes int            `json:"durationMinutes"`
	Slots           []SlotResponse `json:"slots"`
}

// ToUseCaseRequest собирает запрос use case из параметров URL
func ToUseCaseRequest(staffID, serviceID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		StaffID:   staffID,
		ServiceID: serviceID,
		Date:      date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartAt: slot.StartAt.Format(time.RFC3339),
			EndAt:   slot.EndAt.Format(time.RFC3339),
		})
	}

	return &AvailableSlotsResponse{
		StaffID:         resp.StaffID,
		ServiceID:       resp.ServiceID,
		Date:            resp.Date.Format(domain.DateFormat),
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}
