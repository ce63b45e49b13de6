package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	authdomain "github.com/smallbiznis/wasafinance/internal/auth/domain"
	"github.com/smallbiznis/wasafinance/internal/config"
	"github.com/smallbiznis/wasafinance/internal/ratelimit"
	"go.uber.org/zap"
)

const (
	adminLockKey        = "wasafinance:seed:admin"
	adminLockTTL        = 30 * time.Second
	defaultAdminDisplay = "Administrator"
)

type Params struct {
	Cfg     config.BootstrapConfig
	AuthSvc authdomain.Service
	// Locker is optional; with several replicas it keeps the bootstrap to
	// one of them.
	Locker *ratelimit.Locker
	Log    *zap.Logger
}

// EnsureAdmin creates the bootstrap admin when the users table is empty and
// ADMIN_EMAIL/ADMIN_PASSWORD are set.
func EnsureAdmin(ctx context.Context, p Params) error {
	if p.AuthSvc == nil {
		return errors.New("seed auth service is required")
	}
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("seed")

	email := strings.TrimSpace(p.Cfg.AdminEmail)
	if email == "" || p.Cfg.AdminPassword == "" {
		log.Info("admin bootstrap skipped, credentials not configured")
		return nil
	}

	if p.Locker != nil {
		token, ok, err := p.Locker.TryLock(ctx, adminLockKey, adminLockTTL)
		if err != nil {
			return err
		}
		if !ok {
			log.Info("admin bootstrap running elsewhere")
			return nil
		}
		defer func() { _ = p.Locker.Release(ctx, adminLockKey, token) }()
	}

	count, err := p.AuthSvc.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	user, err := p.AuthSvc.CreateUser(ctx, authdomain.CreateUserRequest{
		Email:       email,
		Password:    p.Cfg.AdminPassword,
		DisplayName: defaultAdminDisplay,
		Role:        string(authdomain.RoleAdmin),
	})
	if errors.Is(err, authdomain.ErrUserExists) {
		return nil
	}
	if err != nil {
		return err
	}

	log.Info("bootstrap admin created", zap.String("user_id", user.ID.String()))
	return nil
}
