package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена в рамках тенанта
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrOverlapConstraint возвращается при срабатывании exclusion constraint на пересечение интервалов
	// Вторая линия защиты от гонки бронирования на уровне хранилища
	ErrOverlapConstraint = errors.New("appointment.repository: overlapping appointment rejected by constraint")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")

	// ErrTenantScope возвращается, когда в контексте отсутствует тенант
	ErrTenantScope = errors.New("appointment.repository: missing tenant scope")
)
