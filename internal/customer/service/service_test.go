package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/wasafinance/internal/cache"
	"github.com/smallbiznis/wasafinance/internal/clock"
	"github.com/smallbiznis/wasafinance/internal/config"
	"github.com/smallbiznis/wasafinance/internal/customer/domain"
	"github.com/smallbiznis/wasafinance/internal/customer/repository"
	"github.com/smallbiznis/wasafinance/internal/period"
	packagedomain "github.com/smallbiznis/wasafinance/internal/servicepackage/domain"
	packagerepository "github.com/smallbiznis/wasafinance/internal/servicepackage/repository"
	packageservice "github.com/smallbiznis/wasafinance/internal/servicepackage/service"
	"github.com/smallbiznis/wasafinance/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc      domain.Service
	packages packagedomain.Service
	db       *gorm.DB
	clock    *clock.FakeClock
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Customer{}, &packagedomain.Package{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2024, 10, 10, 3, 0, 0, 0, time.UTC))

	collections := cache.NewCollections(cache.CollectionsParams{
		Store: cache.NewMemoryStore(clk),
		Cfg:   config.Config{Cache: config.CacheConfig{TTL: time.Minute}},
		Log:   zap.NewNop(),
	})

	packages := packageservice.New(packageservice.Params{
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  packagerepository.Provide(conn),
		Cache: collections,
	})

	svc := New(Params{
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      clk,
		Repo:       repository.Provide(conn),
		PackageSvc: packages,
		Cache:      collections,
	})
	return fixture{svc: svc, packages: packages, db: conn, clock: clk}
}

func (f fixture) createPackage(t *testing.T, name string, price int64) packagedomain.Package {
	t.Helper()
	pkg, err := f.packages.Create(context.Background(), packagedomain.CreatePackageRequest{
		Name:     name,
		Price:    price,
		Duration: 1,
	})
	require.NoError(t, err)
	return pkg
}

func TestCreateSnapshotsPackagePrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pkg := f.createPackage(t, "Basic", 500000)

	customer, err := f.svc.Create(ctx, domain.CreateCustomerRequest{
		Name:           " Budi ",
		Email:          "Budi@Example.com",
		PackageID:      pkg.ID.String(),
		DiscountAmount: 50000,
	})
	require.NoError(t, err)
	assert.Equal(t, "Budi", customer.Name)
	assert.Equal(t, "budi@example.com", customer.Email)
	assert.Equal(t, int64(500000), customer.PackagePrice)
	assert.Equal(t, "Basic", customer.PackageName)
	assert.Equal(t, domain.StatusActive, customer.Status)
	assert.Equal(t, domain.PaymentTargetWasa, customer.PaymentTarget)

	newPrice := int64(750000)
	_, err = f.packages.Update(ctx, pkg.ID.String(), packagedomain.UpdatePackageRequest{Price: &newPrice})
	require.NoError(t, err)

	got, err := f.svc.GetByID(ctx, customer.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(500000), got.PackagePrice)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pkg := f.createPackage(t, "Basic", 300000)

	cases := []struct {
		name string
		req  domain.CreateCustomerRequest
		want error
	}{
		{"empty name", domain.CreateCustomerRequest{PackageID: pkg.ID.String()}, domain.ErrInvalidName},
		{"bad email", domain.CreateCustomerRequest{Name: "A", Email: "nope", PackageID: pkg.ID.String()}, domain.ErrInvalidEmail},
		{"missing package", domain.CreateCustomerRequest{Name: "A"}, domain.ErrInvalidPackage},
		{"unknown package", domain.CreateCustomerRequest{Name: "A", PackageID: "12345"}, domain.ErrInvalidPackage},
		{"negative discount", domain.CreateCustomerRequest{Name: "A", PackageID: pkg.ID.String(), DiscountAmount: -1}, domain.ErrInvalidDiscount},
		{"discount above price", domain.CreateCustomerRequest{Name: "A", PackageID: pkg.ID.String(), DiscountAmount: 300001}, domain.ErrDiscountExceedsPrice},
		{"bad status", domain.CreateCustomerRequest{Name: "A", PackageID: pkg.ID.String(), Status: "lunas"}, domain.ErrInvalidStatus},
		{"bad target", domain.CreateCustomerRequest{Name: "A", PackageID: pkg.ID.String(), PaymentTarget: "bank"}, domain.ErrInvalidPaymentTarget},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateRejectsInactivePackage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	off := false
	pkg, err := f.packages.Create(ctx, packagedomain.CreatePackageRequest{Name: "Old", Price: 1, Duration: 1, IsActive: &off})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, domain.CreateCustomerRequest{Name: "A", PackageID: pkg.ID.String()})
	assert.ErrorIs(t, err, domain.ErrPackageInactive)
}

func TestDiscountEqualToPriceIsAllowed(t *testing.T) {
	f := newFixture(t)
	pkg := f.createPackage(t, "Promo", 100000)

	customer, err := f.svc.Create(context.Background(), domain.CreateCustomerRequest{
		Name:           "Gratis",
		PackageID:      pkg.ID.String(),
		DiscountAmount: 100000,
	})
	require.NoError(t, err)
	assert.Zero(t, customer.NetPrice())
}

func TestUpdateValidatesDiscountAgainstNewPackage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	premium := f.createPackage(t, "Premium", 1000000)
	basic := f.createPackage(t, "Basic", 200000)

	customer, err := f.svc.Create(ctx, domain.CreateCustomerRequest{
		Name:           "Sari",
		PackageID:      premium.ID.String(),
		DiscountAmount: 300000,
	})
	require.NoError(t, err)

	basicID := basic.ID.String()
	_, err = f.svc.Update(ctx, customer.ID.String(), domain.UpdateCustomerRequest{PackageID: &basicID})
	assert.ErrorIs(t, err, domain.ErrDiscountExceedsPrice)

	discount := int64(0)
	updated, err := f.svc.Update(ctx, customer.ID.String(), domain.UpdateCustomerRequest{
		PackageID:      &basicID,
		DiscountAmount: &discount,
	})
	require.NoError(t, err)
	assert.Equal(t, "Basic", updated.PackageName)
	assert.Equal(t, int64(200000), updated.PackagePrice)
	assert.Zero(t, updated.DiscountAmount)
}

func TestSetStatusTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pkg := f.createPackage(t, "Basic", 100000)

	customer, err := f.svc.Create(ctx, domain.CreateCustomerRequest{Name: "Andi", PackageID: pkg.ID.String()})
	require.NoError(t, err)

	unpaid, err := f.svc.SetStatus(ctx, customer.ID.String(), domain.StatusUnpaid)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnpaid, unpaid.Status)

	off, err := f.svc.SetStatus(ctx, customer.ID.String(), domain.StatusOff)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOff, off.Status)

	_, err = f.svc.SetStatus(ctx, customer.ID.String(), domain.Status("Belum Bayar"))
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestListFiltersAndSeesWrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pkg := f.createPackage(t, "Basic", 100000)

	september := time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC)
	reqs := []domain.CreateCustomerRequest{
		{Name: "Wasa Satu", PackageID: pkg.ID.String()},
		{Name: "Kantor Satu", PackageID: pkg.ID.String(), PaymentTarget: "Kantor"},
		{Name: "Lama", PackageID: pkg.ID.String(), Status: "Off", CreatedAt: &september},
	}
	for _, req := range reqs {
		_, err := f.svc.Create(ctx, req)
		require.NoError(t, err)
	}

	all, err := f.svc.List(ctx, domain.ListCustomerRequest{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Lama", all[0].Name)

	kantor, err := f.svc.List(ctx, domain.ListCustomerRequest{PaymentTarget: "kantor"})
	require.NoError(t, err)
	require.Len(t, kantor, 1)
	assert.Equal(t, "Kantor Satu", kantor[0].Name)

	off, err := f.svc.List(ctx, domain.ListCustomerRequest{Status: "inactive"})
	require.NoError(t, err)
	require.Len(t, off, 1)

	october := period.Period{Year: 2024, Month: 10, Location: time.UTC}
	inOctober, err := f.svc.List(ctx, domain.ListCustomerRequest{Period: &october})
	require.NoError(t, err)
	assert.Len(t, inOctober, 2)

	search, err := f.svc.List(ctx, domain.ListCustomerRequest{Search: "satu"})
	require.NoError(t, err)
	assert.Len(t, search, 2)

	require.NoError(t, f.svc.Delete(ctx, all[0].ID.String()))
	all, err = f.svc.List(ctx, domain.ListCustomerRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.svc.List(ctx, domain.ListCustomerRequest{Status: "lunas"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestLegacyStatusRowsAreNormalized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	now := f.clock.Now()
	require.NoError(t, f.db.Exec(
		`INSERT INTO customers (id, name, package_price, discount_amount, status, payment_target, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(1001), "Legacy", int64(100000), int64(0), "Belum Bayar", "", now, now,
	).Error)

	got, err := f.svc.GetByID(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnpaid, got.Status)

	unpaid, err := f.svc.List(ctx, domain.ListCustomerRequest{Status: "belum bayar"})
	require.NoError(t, err)
	require.Len(t, unpaid, 1)
	assert.Equal(t, "Legacy", unpaid[0].Name)
}

func TestGetByIDErrors(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.GetByID(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
	_, err = f.svc.GetByID(context.Background(), "999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
