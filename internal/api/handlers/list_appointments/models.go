package list_appointments

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// ToServiceRequest собирает запрос к сервису из query-параметров
func ToServiceRequest(staffIDStr, clientIDStr, statusStr, startFromStr, startToStr, limitStr, offsetStr string) (*models.ListAppointmentsRequest, error) {
	req := &models.ListAppointmentsRequest{}

	if staffIDStr != "" {
		staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.StaffID = &staffID
	}

	if clientIDStr != "" {
		clientID, err := strconv.ParseInt(clientIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ClientID = &clientID
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if startFromStr != "" {
		startFrom, err := time.Parse(time.RFC3339, startFromStr)
		if err != nil {
			return nil, err
		}
		req.StartFrom = &startFrom
	}

	if startToStr != "" {
		startTo, err := time.Parse(time.RFC3339, startToStr)
		if err != nil {
			return nil, err
		}
		req.StartTo = &startTo
	}

	if limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, err
		}
		req.Limit = limit
	}

	if offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return nil, err
		}
		req.Offset = offset
	}

	return req, nil
}
