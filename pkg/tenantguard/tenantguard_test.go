package tenantguard

import (
	"context"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scopedCtx(tenantID int64) context.Context {
	return WithScope(context.Background(), Scope{TenantID: tenantID, UserID: 7, Role: RoleManager})
}

func TestFromContext(t *testing.T) {
	scope, err := FromContext(scopedCtx(42))
	require.NoError(t, err)
	assert.Equal(t, int64(42), scope.TenantID)
	assert.Equal(t, int64(7), scope.UserID)
	assert.Equal(t, RoleManager, scope.Role)

	_, err = FromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoTenant)

	_, err = FromContext(WithScope(context.Background(), Scope{TenantID: 0}))
	assert.ErrorIs(t, err, ErrInvalidTenant)
}

func TestCanManageSchedule(t *testing.T) {
	assert.True(t, Scope{Role: RoleAdmin}.CanManageSchedule())
	assert.True(t, Scope{Role: RoleManager}.CanManageSchedule())
	assert.False(t, Scope{Role: RoleStaff}.CanManageSchedule())
	assert.False(t, Scope{Role: RoleClient}.CanManageSchedule())
	assert.False(t, Scope{}.CanManageSchedule())
}

func TestFenceSelect(t *testing.T) {
	b := squirrel.Select("id").From("appointments").PlaceholderFormat(squirrel.Dollar)

	fenced, err := FenceSelect(scopedCtx(42), b)
	require.NoError(t, err)

	query, args, err := fenced.ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "tenant_id")
	assert.Contains(t, args, int64(42))

	_, err = FenceSelect(context.Background(), b)
	assert.ErrorIs(t, err, ErrNoTenant)
}

func TestFenceSelectTable(t *testing.T) {
	b := squirrel.Select("a.id").From("appointments a").
		LeftJoin("services s ON s.id = a.service_id").
		PlaceholderFormat(squirrel.Dollar)

	fenced, err := FenceSelectTable(scopedCtx(42), b, "a")
	require.NoError(t, err)

	query, _, err := fenced.ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "a.tenant_id")
}

func TestFenceUpdate(t *testing.T) {
	b := squirrel.Update("appointments").Set("status", "cancelled").PlaceholderFormat(squirrel.Dollar)

	fenced, err := FenceUpdate(scopedCtx(42), b)
	require.NoError(t, err)

	query, args, err := fenced.ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "tenant_id")
	assert.Contains(t, args, int64(42))
}

func TestFenceInsert(t *testing.T) {
	b := squirrel.Insert("appointments").PlaceholderFormat(squirrel.Dollar)

	fenced, err := FenceInsert(scopedCtx(42), b, map[string]interface{}{
		"staff_id": int64(1),
	})
	require.NoError(t, err)

	query, args, err := fenced.ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "tenant_id")
	assert.Contains(t, args, int64(42))

	_, err = FenceInsert(context.Background(), b, map[string]interface{}{})
	assert.ErrorIs(t, err, ErrNoTenant)
}
