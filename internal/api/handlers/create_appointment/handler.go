package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDateTime     = "некорректный формат времени, ожидается RFC 3339"
	msgPastStart           = "время начала записи в прошлом"
	msgServiceNotFound     = "услуга не найдена"
	msgStaffNotFound       = "сотрудник не найден"
	msgClientNotFound      = "клиент не найден"
	msgStaffNotAssigned    = "сотрудник не оказывает эту услугу"
	msgDurationMismatch    = "длительность интервала не совпадает с длительностью услуги"
	msgOutsideAvailability = "интервал вне рабочего времени сотрудника"
	msgTimeOffBlocked      = "интервал попадает на выходной сотрудника"
	msgStaffAlreadyBooked  = "сотрудник уже занят в это время"
	msgClientAlreadyBooked = "у клиента уже есть запись в это время"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, createAppointment.ErrPastStart):
			h.logger.Warn("POST /appointments - Start in the past: staff_id=%d, client_id=%d", req.StaffID, req.ClientID)
			handlers.RespondBadRequest(w, msgPastStart)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrStaffNotFound):
			h.logger.Warn("POST /appointments - Staff not found: staff_id=%d", req.StaffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, createAppointment.ErrClientNotFound):
			h.logger.Warn("POST /appointments - Client not found: client_id=%d", req.ClientID)
			handlers.RespondNotFound(w, msgClientNotFound)

		case errors.Is(err, createAppointment.ErrStaffNotAssigned):
			h.logger.Warn("POST /appointments - Staff not assigned to service: staff_id=%d, service_id=%d", req.StaffID, req.ServiceID)
			handlers.RespondBadRequest(w, msgStaffNotAssigned)

		case errors.Is(err, createAppointment.ErrDurationMismatch):
			h.logger.Warn("POST /appointments - Duration mismatch: service_id=%d", req.ServiceID)
			handlers.RespondBadRequest(w, msgDurationMismatch)

		case errors.Is(err, createAppointment.ErrTimeOffBlocked):
			h.logger.Warn("POST /appointments - Interval blocked by time off: staff_id=%d", req.StaffID)
			handlers.RespondError(w, http.StatusConflict, msgTimeOffBlocked)

		case errors.Is(err, createAppointment.ErrOutsideAvailability):
			h.logger.Warn("POST /appointments - Interval outside availability: staff_id=%d", req.StaffID)
			handlers.RespondError(w, http.StatusConflict, msgOutsideAvailability)

		case errors.Is(err, createAppointment.ErrStaffConflict):
			h.logger.Warn("POST /appointments - Staff conflict: staff_id=%d", req.StaffID)
			handlers.RespondError(w, http.StatusConflict, msgStaffAlreadyBooked)

		case errors.Is(err, createAppointment.ErrClientConflict):
			h.logger.Warn("POST /appointments - Client conflict: client_id=%d", req.ClientID)
			handlers.RespondError(w, http.StatusConflict, msgClientAlreadyBooked)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: staff_id=%d, client_id=%d, error=%v",
				req.StaffID, req.ClientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Appointment created: appointment_id=%d, staff_id=%d, client_id=%d",
		result.ID, req.StaffID, req.ClientID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
