package notification

import "errors"

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("notification.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("notification.repository: failed to execute query")

	// ErrTenantScope возвращается, когда в контексте отсутствует тенант
	ErrTenantScope = errors.New("notification.repository: missing tenant scope")
)
