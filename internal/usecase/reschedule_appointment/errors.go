package reschedule_appointment

import (
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_appointment: invalid input data")

	// ErrAppointmentNotFound возвращается, когда запись не найдена в рамках тенанта
	ErrAppointmentNotFound = errors.New("reschedule_appointment: appointment not found")

	// ErrCannotReschedule возвращается, когда запись в конечном статусе
	ErrCannotReschedule = errors.New("reschedule_appointment: appointment cannot be rescheduled")

	// ErrDurationMismatch возвращается, когда новый интервал не равен длительности услуги
	ErrDurationMismatch = errors.New("reschedule_appointment: interval duration does not match service duration")

	// ErrInternal возвращается при внутренних ошибках usecase
	// В том числе при нарушении целостности: запись ссылается на исчезнувшую услугу
	ErrInternal = errors.New("reschedule_appointment: internal error")
)

// Ошибки проверки интервала пробрасываются из scheduling без переупаковки
var (
	ErrOutsideAvailability = scheduling.ErrOutsideAvailability
	ErrTimeOffBlocked      = scheduling.ErrTimeOffBlocked
	ErrStaffConflict       = scheduling.ErrStaffConflict
	ErrClientConflict      = scheduling.ErrClientConflict
)
