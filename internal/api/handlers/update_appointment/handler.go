package update_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	serviceModels "github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	rescheduleAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDateTime      = "некорректный формат времени, ожидается RFC 3339"
	msgEmptyUpdate          = "запрос не содержит изменений"
	msgNotFound             = "запись не найдена"
	msgCannotReschedule     = "запись в конечном статусе не переносится"
	msgDurationMismatch     = "длительность интервала не совпадает с длительностью услуги"
	msgOutsideAvailability  = "интервал вне рабочего времени сотрудника"
	msgTimeOffBlocked       = "интервал попадает на выходной сотрудника"
	msgStaffAlreadyBooked   = "сотрудник уже занят в это время"
	msgClientAlreadyBooked  = "у клиента уже есть запись в это время"
	msgInvalidStatus        = "некорректный статус записи"
	msgIllegalTransition    = "недопустимый переход статуса"
	msgNotesTooLong         = "заметки превышают допустимую длину"
)

var errBothBoundsRequired = errors.New("update_appointment: newStartAt and newEndAt must be provided together")

type Handler struct {
	rescheduleUseCase RescheduleUseCase
	service           AppointmentService
	logger            Logger
}

func NewHandler(rescheduleUseCase RescheduleUseCase, service AppointmentService, logger Logger) *Handler {
	return &Handler{
		rescheduleUseCase: rescheduleUseCase,
		service:           service,
		logger:            logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}
// Тело запроса определяет операцию: перенос (newStartAt + newEndAt),
// смена статуса (status) или правка заметок (notes)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentIDStr := vars["appointmentId"]

	appointmentID, err := strconv.ParseInt(appointmentIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req UpdateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	switch {
	case req.IsReschedule():
		h.handleReschedule(w, r, appointmentID, &req)
	case req.IsStatusUpdate():
		h.handleStatusUpdate(w, r, appointmentID, &req)
	case req.IsNotesUpdate():
		h.handleNotesUpdate(w, r, appointmentID, &req)
	default:
		h.logger.Warn("PATCH /appointments/{id} - Empty update: appointment_id=%d", appointmentID)
		handlers.RespondBadRequest(w, msgEmptyUpdate)
	}
}

func (h *Handler) handleReschedule(w http.ResponseWriter, r *http.Request, appointmentID int64, req *UpdateAppointmentRequest) {
	useCaseReq, err := req.ToRescheduleRequest(appointmentID)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Failed to parse reschedule request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.rescheduleUseCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleAppointment.ErrInvalidInput):
			h.logger.Warn("PATCH /appointments/{id} - Invalid reschedule input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, rescheduleAppointment.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id} - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleAppointment.ErrCannotReschedule):
			h.logger.Warn("PATCH /appointments/{id} - Cannot reschedule: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgCannotReschedule)

		case errors.Is(err, rescheduleAppointment.ErrDurationMismatch):
			h.logger.Warn("PATCH /appointments/{id} - Duration mismatch: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgDurationMismatch)

		case errors.Is(err, rescheduleAppointment.ErrTimeOffBlocked):
			h.logger.Warn("PATCH /appointments/{id} - Interval blocked by time off: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgTimeOffBlocked)

		case errors.Is(err, rescheduleAppointment.ErrOutsideAvailability):
			h.logger.Warn("PATCH /appointments/{id} - Interval outside availability: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgOutsideAvailability)

		case errors.Is(err, rescheduleAppointment.ErrStaffConflict):
			h.logger.Warn("PATCH /appointments/{id} - Staff conflict: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgStaffAlreadyBooked)

		case errors.Is(err, rescheduleAppointment.ErrClientConflict):
			h.logger.Warn("PATCH /appointments/{id} - Client conflict: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgClientAlreadyBooked)

		default:
			h.logger.Error("PATCH /appointments/{id} - Failed to reschedule: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id} - Appointment rescheduled: appointment_id=%d", appointmentID)
	handlers.RespondJSON(w, http.StatusOK, serviceModels.FromDomainAppointment(result))
}

func (h *Handler) handleStatusUpdate(w http.ResponseWriter, r *http.Request, appointmentID int64, req *UpdateAppointmentRequest) {
	result, err := h.service.UpdateStatus(r.Context(), appointmentID, req.ToStatusRequest())
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id} - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrInvalidStatus):
			h.logger.Warn("PATCH /appointments/{id} - Invalid status: appointment_id=%d, status=%q", appointmentID, *req.Status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, appointments.ErrIllegalTransition):
			h.logger.Warn("PATCH /appointments/{id} - Illegal transition: appointment_id=%d, status=%q", appointmentID, *req.Status)
			handlers.RespondError(w, http.StatusConflict, msgIllegalTransition)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("PATCH /appointments/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /appointments/{id} - Failed to update status: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id} - Status updated: appointment_id=%d, status=%s", appointmentID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleNotesUpdate(w http.ResponseWriter, r *http.Request, appointmentID int64, req *UpdateAppointmentRequest) {
	result, err := h.service.UpdateNotes(r.Context(), appointmentID, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id} - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("PATCH /appointments/{id} - Invalid notes: appointment_id=%d, %v", appointmentID, err)
			handlers.RespondBadRequest(w, msgNotesTooLong)

		default:
			h.logger.Error("PATCH /appointments/{id} - Failed to update notes: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id} - Notes updated: appointment_id=%d", appointmentID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
