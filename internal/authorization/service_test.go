package authorization

import (
	"context"
	"testing"

	"github.com/smallbiznis/wasafinance/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) Service {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	enforcer, err := NewEnforcer(conn)
	require.NoError(t, err)

	return NewService(Params{Log: zap.NewNop(), Enforcer: enforcer})
}

func TestAdminCanMutate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, tc := range []struct{ object, action string }{
		{ObjectCustomer, ActionCustomerCreate},
		{ObjectCustomer, ActionCustomerDelete},
		{ObjectPackage, ActionPackageUpdate},
		{ObjectExpense, ActionExpenseCreate},
		{ObjectReport, ActionReportGenerate},
		{ObjectAuditLog, ActionAuditLogView},
	} {
		assert.NoError(t, svc.Authorize(ctx, "1", "admin", tc.object, tc.action), tc.action)
	}
}

func TestViewerIsReadOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	assert.NoError(t, svc.Authorize(ctx, "2", "viewer", ObjectCustomer, ActionCustomerView))
	assert.NoError(t, svc.Authorize(ctx, "2", "viewer", ObjectDashboard, ActionDashboardView))
	assert.NoError(t, svc.Authorize(ctx, "2", "viewer", ObjectReport, ActionReportGenerate))

	assert.ErrorIs(t, svc.Authorize(ctx, "2", "viewer", ObjectCustomer, ActionCustomerCreate), ErrForbidden)
	assert.ErrorIs(t, svc.Authorize(ctx, "2", "viewer", ObjectExpense, ActionExpenseDelete), ErrForbidden)
	assert.ErrorIs(t, svc.Authorize(ctx, "2", "viewer", ObjectAuditLog, ActionAuditLogView), ErrForbidden)
}

func TestRoleChangeReplacesGrouping(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Authorize(ctx, "3", "admin", ObjectCustomer, ActionCustomerDelete))
	assert.ErrorIs(t, svc.Authorize(ctx, "3", "viewer", ObjectCustomer, ActionCustomerDelete), ErrForbidden)
}

func TestAuthorizeValidatesInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Authorize(ctx, "", "admin", ObjectCustomer, ActionCustomerView), ErrInvalidActor)
	assert.ErrorIs(t, svc.Authorize(ctx, "1", "admin", "", ActionCustomerView), ErrInvalidObject)
	assert.ErrorIs(t, svc.Authorize(ctx, "1", "admin", ObjectCustomer, " "), ErrInvalidAction)
}

func TestSeedIsIdempotent(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)

	_, err = NewEnforcer(conn)
	require.NoError(t, err)
	enforcer, err := NewEnforcer(conn)
	require.NoError(t, err)

	policies, err := enforcer.GetPolicy()
	require.NoError(t, err)
	assert.Len(t, policies, 20)
}
