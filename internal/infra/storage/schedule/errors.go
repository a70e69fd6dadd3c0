package schedule

import "errors"

var (
	// ErrAvailabilityNotFound возвращается, когда окно доступности не найдено
	ErrAvailabilityNotFound = errors.New("schedule.repository: availability record not found")

	// ErrTimeOffNotFound возвращается, когда выходной не найден
	ErrTimeOffNotFound = errors.New("schedule.repository: time off record not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")

	// ErrTenantScope возвращается, когда в контексте отсутствует тенант
	ErrTenantScope = errors.New("schedule.repository: missing tenant scope")
)
