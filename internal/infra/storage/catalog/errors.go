package catalog

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена в рамках тенанта
	ErrServiceNotFound = errors.New("catalog.repository: service not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден в рамках тенанта
	ErrStaffNotFound = errors.New("catalog.repository: staff not found")

	// ErrClientNotFound возвращается, когда клиент не найден в рамках тенанта
	ErrClientNotFound = errors.New("catalog.repository: client not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("catalog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("catalog.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("catalog.repository: failed to scan row")

	// ErrTenantScope возвращается, когда в контексте отсутствует тенант
	ErrTenantScope = errors.New("catalog.repository: missing tenant scope")
)
