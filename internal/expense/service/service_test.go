package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/wasafinance/internal/audit/domain"
	"github.com/smallbiznis/wasafinance/internal/cache"
	"github.com/smallbiznis/wasafinance/internal/clock"
	"github.com/smallbiznis/wasafinance/internal/config"
	"github.com/smallbiznis/wasafinance/internal/expense/domain"
	"github.com/smallbiznis/wasafinance/internal/expense/repository"
	"github.com/smallbiznis/wasafinance/internal/period"
	"github.com/smallbiznis/wasafinance/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockAuditSvc struct {
	mock.Mock
}

func (m *mockAuditSvc) AuditLog(ctx context.Context, action, targetType string, targetID *string, metadata map[string]any) error {
	args := m.Called(ctx, action, targetType, targetID, metadata)
	return args.Error(0)
}

func (m *mockAuditSvc) List(ctx context.Context, req auditdomain.ListAuditLogRequest) (auditdomain.ListAuditLogResponse, error) {
	return auditdomain.ListAuditLogResponse{}, nil
}

func newTestService(t *testing.T, audit auditdomain.Service) domain.Service {
	t.Helper()
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Expense{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2024, 10, 20, 0, 0, 0, 0, time.UTC))

	collections := cache.NewCollections(cache.CollectionsParams{
		Store: cache.NewMemoryStore(clk),
		Cfg:   config.Config{Cache: config.CacheConfig{TTL: time.Minute}},
		Log:   zap.NewNop(),
	})

	return New(Params{
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    clk,
		Repo:     repository.Provide(conn),
		Cache:    collections,
		AuditSvc: audit,
	})
}

func TestCreateExpenseValidation(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	date := time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC)

	_, err := svc.Create(ctx, domain.CreateExpenseRequest{Description: " ", Amount: 1, Date: date})
	assert.ErrorIs(t, err, domain.ErrInvalidDescription)

	_, err = svc.Create(ctx, domain.CreateExpenseRequest{Description: "Listrik", Amount: -1, Date: date})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Create(ctx, domain.CreateExpenseRequest{Description: "Listrik", Amount: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	zero, err := svc.Create(ctx, domain.CreateExpenseRequest{Description: "Gratis", Amount: 0, Date: date})
	require.NoError(t, err)
	assert.Zero(t, zero.Amount)
}

func TestCreateExpenseWritesAudit(t *testing.T) {
	audit := &mockAuditSvc{}
	audit.On("AuditLog", mock.Anything, auditdomain.ActionExpenseCreate, "expense", mock.Anything,
		mock.MatchedBy(func(md map[string]any) bool { return md["amount"] == int64(200000) }),
	).Return(nil).Once()

	svc := newTestService(t, audit)
	_, err := svc.Create(context.Background(), domain.CreateExpenseRequest{
		Description: "Sewa kantor",
		Amount:      200000,
		Category:    " Operasional ",
		Date:        time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	audit.AssertExpectations(t)
}

func TestListFiltersByPeriodAndCategory(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	for _, req := range []domain.CreateExpenseRequest{
		{Description: "Sewa", Amount: 200000, Category: "Operasional", Date: time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)},
		{Description: "Iklan", Amount: 50000, Category: "Marketing", Date: time.Date(2024, 10, 15, 0, 0, 0, 0, time.UTC)},
		{Description: "Sewa", Amount: 200000, Category: "Operasional", Date: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)},
	} {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, domain.ListExpenseRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	october := period.Period{Year: 2024, Month: 10, Location: time.UTC}
	inOctober, err := svc.List(ctx, domain.ListExpenseRequest{Period: &october})
	require.NoError(t, err)
	assert.Len(t, inOctober, 2)

	operational, err := svc.List(ctx, domain.ListExpenseRequest{Category: "operasional", Period: &october})
	require.NoError(t, err)
	require.Len(t, operational, 1)
	assert.Equal(t, int64(200000), operational[0].Amount)
}

func TestUpdateAndDeleteExpense(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateExpenseRequest{
		Description: "Internet",
		Amount:      300000,
		Date:        time.Date(2024, 10, 3, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = svc.List(ctx, domain.ListExpenseRequest{})
	require.NoError(t, err)

	amount := int64(350000)
	updated, err := svc.Update(ctx, created.ID.String(), domain.UpdateExpenseRequest{Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, amount, updated.Amount)

	listed, err := svc.List(ctx, domain.ListExpenseRequest{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, amount, listed[0].Amount)

	negative := int64(-5)
	_, err = svc.Update(ctx, created.ID.String(), domain.UpdateExpenseRequest{Amount: &negative})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	require.NoError(t, svc.Delete(ctx, created.ID.String()))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID.String()), domain.ErrNotFound)

	listed, err = svc.List(ctx, domain.ListExpenseRequest{})
	require.NoError(t, err)
	assert.Empty(t, listed)
}
