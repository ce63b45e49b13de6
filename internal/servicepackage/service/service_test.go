package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/wasafinance/internal/cache"
	"github.com/smallbiznis/wasafinance/internal/clock"
	"github.com/smallbiznis/wasafinance/internal/config"
	"github.com/smallbiznis/wasafinance/internal/servicepackage/domain"
	"github.com/smallbiznis/wasafinance/internal/servicepackage/repository"
	"github.com/smallbiznis/wasafinance/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Package{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC))

	collections := cache.NewCollections(cache.CollectionsParams{
		Store: cache.NewMemoryStore(clk),
		Cfg:   config.Config{Cache: config.CacheConfig{TTL: time.Minute}},
		Log:   zap.NewNop(),
	})

	return New(Params{
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  repository.Provide(conn),
		Cache: collections,
	})
}

func TestCreateAndGetPackage(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreatePackageRequest{
		Name:     "  Paket Basic ",
		Price:    150000,
		Duration: 1,
		Features: []string{"Laporan bulanan", " ", "Konsultasi"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Paket Basic", created.Name)
	assert.True(t, created.IsActive)
	assert.Equal(t, []string{"Laporan bulanan", "Konsultasi"}, []string(created.Features))

	got, err := svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, []string(created.Features), []string(got.Features))
}

func TestCreatePackageValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreatePackageRequest{Name: " ", Price: 1, Duration: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreatePackageRequest{Name: "x", Price: -1, Duration: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = svc.Create(ctx, domain.CreatePackageRequest{Name: "x", Price: 1, Duration: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)
}

func TestListReflectsMutations(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	inactive := false
	basic, err := svc.Create(ctx, domain.CreatePackageRequest{Name: "Basic", Price: 100000, Duration: 1})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreatePackageRequest{Name: "Legacy", Price: 90000, Duration: 1, IsActive: &inactive})
	require.NoError(t, err)

	all, err := svc.List(ctx, domain.ListPackageRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "Basic", all[0].Name)

	active, err := svc.List(ctx, domain.ListPackageRequest{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Basic", active[0].Name)

	price := int64(175000)
	updated, err := svc.Update(ctx, basic.ID.String(), domain.UpdatePackageRequest{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, price, updated.Price)

	all, err = svc.List(ctx, domain.ListPackageRequest{})
	require.NoError(t, err)
	assert.Equal(t, price, all[0].Price)

	require.NoError(t, svc.Delete(ctx, basic.ID.String()))
	all, err = svc.List(ctx, domain.ListPackageRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = svc.GetByID(ctx, basic.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateCanDeactivate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	pkg, err := svc.Create(ctx, domain.CreatePackageRequest{Name: "Pro", Price: 300000, Duration: 3})
	require.NoError(t, err)

	off := false
	updated, err := svc.Update(ctx, pkg.ID.String(), domain.UpdatePackageRequest{IsActive: &off})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
}

func TestInvalidID(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.GetByID(context.Background(), "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
	assert.ErrorIs(t, svc.Delete(context.Background(), ""), domain.ErrInvalidID)
}
