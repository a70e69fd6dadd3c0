package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена в рамках тенанта
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrAlreadyCancelled возвращается при попытке отменить запись, которая
	// не найдена или уже отменена (условный UPDATE не затронул строк)
	ErrAlreadyCancelled = errors.New("appointment not found or already cancelled")

	// ErrInvalidStatus возвращается при неизвестном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrIllegalTransition возвращается при недопустимом переходе статуса
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments service: internal error")
)
