package create_appointment

import (
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrPastStart возвращается, когда начало записи в прошлом
	ErrPastStart = errors.New("create_appointment: start is in the past")

	// ErrServiceNotFound возвращается, когда услуга не найдена, удалена или неактивна
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден
	ErrStaffNotFound = errors.New("create_appointment: staff not found")

	// ErrClientNotFound возвращается, когда клиент не найден
	ErrClientNotFound = errors.New("create_appointment: client not found")

	// ErrStaffNotAssigned возвращается, когда сотрудник не назначен на услугу
	ErrStaffNotAssigned = errors.New("create_appointment: staff is not assigned to this service")

	// ErrDurationMismatch возвращается, когда длительность интервала не равна длительности услуги
	ErrDurationMismatch = errors.New("create_appointment: interval duration does not match service duration")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)

// Ошибки проверки интервала пробрасываются из scheduling без переупаковки:
// handler матчит их через errors.Is
var (
	ErrOutsideAvailability = scheduling.ErrOutsideAvailability
	ErrTimeOffBlocked      = scheduling.ErrTimeOffBlocked
	ErrStaffConflict       = scheduling.ErrStaffConflict
	ErrClientConflict      = scheduling.ErrClientConflict
)
