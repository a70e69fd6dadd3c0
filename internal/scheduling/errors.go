package scheduling

import "errors"

var (
	// ErrOutsideAvailability возвращается, когда интервал не попадает ни в одно окно доступности
	ErrOutsideAvailability = errors.New("scheduling: interval is outside staff availability")

	// ErrTimeOffBlocked возвращается, когда интервал пересекается с выходным сотрудника
	// Блэкаут имеет приоритет над любым совпадением доступности
	ErrTimeOffBlocked = errors.New("scheduling: interval is blocked by staff time off")

	// ErrStaffConflict возвращается, когда у сотрудника уже есть активная запись на этот интервал
	ErrStaffConflict = errors.New("scheduling: staff already booked for this interval")

	// ErrClientConflict возвращается, когда у клиента уже есть активная запись на этот интервал
	ErrClientConflict = errors.New("scheduling: client already booked for this interval")

	// ErrInternal возвращается при ошибках репозиториев
	ErrInternal = errors.New("scheduling: internal error")
)
