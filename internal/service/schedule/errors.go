package schedule

import "errors"

var (
	// ErrAccessDenied возвращается, когда роль вызывающего не позволяет управлять расписанием
	ErrAccessDenied = errors.New("access denied: schedule management requires admin or manager role")

	// ErrStaffNotFound возвращается, когда сотрудник не найден в рамках тенанта
	ErrStaffNotFound = errors.New("staff member not found")

	// ErrAvailabilityNotFound возвращается, когда окно доступности не найдено
	ErrAvailabilityNotFound = errors.New("availability record not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedule service: internal error")
)
