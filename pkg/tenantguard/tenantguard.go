package tenantguard

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
)

// Пакет tenantguard задает единую точку изоляции данных по тенантам.
// Каждый запрос к тенантным таблицам строится только через Fence*-хелперы:
// они добавляют предикат tenant_id из контекста и отклоняют вызов, если
// тенант в контексте отсутствует. Репозитории не пишут tenant_id руками.

var (
	// ErrNoTenant возвращается, когда в контексте нет тенанта
	ErrNoTenant = errors.New("tenantguard: no tenant in context")

	// ErrInvalidTenant возвращается при некорректном идентификаторе тенанта
	ErrInvalidTenant = errors.New("tenantguard: invalid tenant id")
)

// Роли вызывающего пользователя
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
	RoleClient  = "client"
)

// Scope контекст вызова: тенант, пользователь и его роль
// Заполняется в middleware аутентификации и передается через context
type Scope struct {
	TenantID int64
	UserID   int64
	Role     string
}

// CanManageSchedule возвращает true, если роль позволяет управлять расписанием и справочниками
func (s Scope) CanManageSchedule() bool {
	return s.Role == RoleAdmin || s.Role == RoleManager
}

type scopeContextKey struct{}

// WithScope кладет scope в контекст
func WithScope(ctx context.Context, scope Scope) context.Context {
	return context.WithValue(ctx, scopeContextKey{}, scope)
}

// FromContext возвращает scope из контекста
func FromContext(ctx context.Context) (Scope, error) {
	scope, ok := ctx.Value(scopeContextKey{}).(Scope)
	if !ok {
		return Scope{}, ErrNoTenant
	}
	if scope.TenantID <= 0 {
		return Scope{}, ErrInvalidTenant
	}
	return scope, nil
}

// TenantID возвращает идентификатор тенанта из контекста
func TenantID(ctx context.Context) (int64, error) {
	scope, err := FromContext(ctx)
	if err != nil {
		return 0, err
	}
	return scope.TenantID, nil
}

// FenceSelect добавляет предикат tenant_id к SELECT
func FenceSelect(ctx context.Context, b squirrel.SelectBuilder) (squirrel.SelectBuilder, error) {
	tenantID, err := TenantID(ctx)
	if err != nil {
		return b, err
	}
	return b.Where(squirrel.Eq{"tenant_id": tenantID}), nil
}

// FenceSelectTable добавляет предикат <table>.tenant_id к SELECT
// Используется в запросах с JOIN, где колонка tenant_id неоднозначна
func FenceSelectTable(ctx context.Context, b squirrel.SelectBuilder, table string) (squirrel.SelectBuilder, error) {
	tenantID, err := TenantID(ctx)
	if err != nil {
		return b, err
	}
	return b.Where(squirrel.Eq{table + ".tenant_id": tenantID}), nil
}

// FenceUpdate добавляет предикат tenant_id к UPDATE
func FenceUpdate(ctx context.Context, b squirrel.UpdateBuilder) (squirrel.UpdateBuilder, error) {
	tenantID, err := TenantID(ctx)
	if err != nil {
		return b, err
	}
	return b.Where(squirrel.Eq{"tenant_id": tenantID}), nil
}

// FenceDelete добавляет предикат tenant_id к DELETE
func FenceDelete(ctx context.Context, b squirrel.DeleteBuilder) (squirrel.DeleteBuilder, error) {
	tenantID, err := TenantID(ctx)
	if err != nil {
		return b, err
	}
	return b.Where(squirrel.Eq{"tenant_id": tenantID}), nil
}

// FenceInsert дописывает tenant_id из контекста к строке вставки (map-форма INSERT)
func FenceInsert(ctx context.Context, b squirrel.InsertBuilder, row map[string]interface{}) (squirrel.InsertBuilder, error) {
	tenantID, err := TenantID(ctx)
	if err != nil {
		return b, err
	}
	row["tenant_id"] = tenantID
	return b.SetMap(row), nil
}
