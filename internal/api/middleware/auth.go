package middleware

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/pkg/tenantguard"
)

// Заголовки аутентификации, проставляемые API-гейтвеем
const (
	HeaderTenantID = "X-Tenant-ID"
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

const (
	msgMissingTenant = "отсутствует идентификатор тенанта"
	msgInvalidTenant = "некорректный идентификатор тенанта"
	msgInvalidUser   = "некорректный идентификатор пользователя"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Auth извлекает тенанта, пользователя и роль из заголовков запроса и кладет
// scope в контекст. Запросы без тенанта отклоняются: все данные сервиса
// изолированы по тенантам, и ни один запрос не обрабатывается вне scope
func Auth(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenantIDStr := r.Header.Get(HeaderTenantID)
			if tenantIDStr == "" {
				logger.Warn("Auth: missing %s header: %s %s", HeaderTenantID, r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgMissingTenant)
				return
			}

			tenantID, err := strconv.ParseInt(tenantIDStr, 10, 64)
			if err != nil || tenantID <= 0 {
				logger.Warn("Auth: invalid %s header %q: %s %s", HeaderTenantID, tenantIDStr, r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgInvalidTenant)
				return
			}

			var userID int64
			if userIDStr := r.Header.Get(HeaderUserID); userIDStr != "" {
				userID, err = strconv.ParseInt(userIDStr, 10, 64)
				if err != nil || userID <= 0 {
					logger.Warn("Auth: invalid %s header %q: %s %s", HeaderUserID, userIDStr, r.Method, r.URL.Path)
					handlers.RespondUnauthorized(w, msgInvalidUser)
					return
				}
			}

			role := r.Header.Get(HeaderUserRole)
			if role == "" {
				role = tenantguard.RoleClient
			}

			ctx := tenantguard.WithScope(r.Context(), tenantguard.Scope{
				TenantID: tenantID,
				UserID:   userID,
				Role:     role,
			})

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
