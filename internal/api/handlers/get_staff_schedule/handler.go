package get_staff_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
)

const (
	msgInvalidStaffID = "некорректный ID сотрудника"
	msgStaffNotFound  = "сотрудник не найден"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/staff/{staffId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	staffIDStr := vars["staffId"]

	staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /staff/{id}/schedule - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	result, err := h.service.GetStaffSchedule(r.Context(), staffID)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrStaffNotFound):
			h.logger.Warn("GET /staff/{id}/schedule - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("GET /staff/{id}/schedule - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStaffID)

		default:
			h.logger.Error("GET /staff/{id}/schedule - Failed to get schedule: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /staff/{id}/schedule - Schedule retrieved: staff_id=%d, windows=%d, time_off=%d",
		staffID, len(result.Availability), len(result.TimeOff))
	handlers.RespondJSON(w, http.StatusOK, result)
}
