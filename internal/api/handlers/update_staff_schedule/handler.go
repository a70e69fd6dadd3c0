package update_staff_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

const (
	msgInvalidStaffID        = "некорректный ID сотрудника"
	msgInvalidAvailabilityID = "некорректный ID окна доступности"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidParams         = "некорректные параметры расписания"
	msgStaffNotFound         = "сотрудник не найден"
	msgAvailabilityNotFound  = "окно доступности не найдено"
	msgForbidden             = "доступ запрещен: требуется роль администратора или менеджера"
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

// HandleAddAvailability POST /api/v1/staff/{staffId}/schedule/availability
func (h *Handler) HandleAddAvailability(w http.ResponseWriter, r *http.Request) {
	staffID, ok := h.parseStaffID(w, r, "POST /staff/{id}/schedule/availability")
	if !ok {
		return
	}

	var req models.CreateAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /staff/{id}/schedule/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.AddAvailability(r.Context(), staffID, &req)
	if err != nil {
		h.respondServiceError(w, "POST /staff/{id}/schedule/availability", staffID, err)
		return
	}

	h.logger.Info("POST /staff/{id}/schedule/availability - Window created: staff_id=%d, availability_id=%d",
		staffID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// HandleRemoveAvailability DELETE /api/v1/staff/{staffId}/schedule/availability/{availabilityId}
func (h *Handler) HandleRemoveAvailability(w http.ResponseWriter, r *http.Request) {
	staffID, ok := h.parseStaffID(w, r, "DELETE /staff/{id}/schedule/availability/{id}")
	if !ok {
		return
	}

	availabilityIDStr := mux.Vars(r)["availabilityId"]
	availabilityID, err := strconv.ParseInt(availabilityIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /staff/{id}/schedule/availability/{id} - Invalid availability ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAvailabilityID)
		return
	}

	if err := h.service.RemoveAvailability(r.Context(), availabilityID); err != nil {
		switch {
		case errors.Is(err, schedule.ErrAvailabilityNotFound):
			h.logger.Warn("DELETE /staff/{id}/schedule/availability/{id} - Not found: availability_id=%d", availabilityID)
			handlers.RespondNotFound(w, msgAvailabilityNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("DELETE /staff/{id}/schedule/availability/{id} - Access denied: staff_id=%d", staffID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("DELETE /staff/{id}/schedule/availability/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidAvailabilityID)

		default:
			h.logger.Error("DELETE /staff/{id}/schedule/availability/{id} - Failed: availability_id=%d, error=%v",
				availabilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /staff/{id}/schedule/availability/{id} - Window removed: staff_id=%d, availability_id=%d",
		staffID, availabilityID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

// HandleAddTimeOff POST /api/v1/staff/{staffId}/schedule/time-off
func (h *Handler) HandleAddTimeOff(w http.ResponseWriter, r *http.Request) {
	staffID, ok := h.parseStaffID(w, r, "POST /staff/{id}/schedule/time-off")
	if !ok {
		return
	}

	var req models.CreateTimeOffRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /staff/{id}/schedule/time-off - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.AddTimeOff(r.Context(), staffID, &req)
	if err != nil {
		h.respondServiceError(w, "POST /staff/{id}/schedule/time-off", staffID, err)
		return
	}

	h.logger.Info("POST /staff/{id}/schedule/time-off - Time off created: staff_id=%d, time_off_id=%d",
		staffID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

func (h *Handler) parseStaffID(w http.ResponseWriter, r *http.Request, route string) (int64, bool) {
	staffIDStr := mux.Vars(r)["staffId"]
	staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("%s - Invalid staff ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return 0, false
	}
	return staffID, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, route string, staffID int64, err error) {
	switch {
	case errors.Is(err, schedule.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: staff_id=%d", route, staffID)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, schedule.ErrStaffNotFound):
		h.logger.Warn("%s - Staff not found: staff_id=%d", route, staffID)
		handlers.RespondNotFound(w, msgStaffNotFound)

	case errors.Is(err, schedule.ErrInvalidInput):
		h.logger.Warn("%s - Invalid parameters: staff_id=%d, %v", route, staffID, err)
		handlers.RespondBadRequest(w, msgInvalidParams)

	default:
		h.logger.Error("%s - Failed: staff_id=%d, error=%v", route, staffID, err)
		handlers.RespondInternalError(w)
	}
}
