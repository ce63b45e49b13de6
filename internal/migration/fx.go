package migration

import (
	"context"

	authdomain "github.com/smallbiznis/wasafinance/internal/auth/domain"
	"github.com/smallbiznis/wasafinance/internal/config"
	"github.com/smallbiznis/wasafinance/internal/ratelimit"
	"github.com/smallbiznis/wasafinance/internal/seed"
	"github.com/smallbiznis/wasafinance/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, authSvc authdomain.Service, locker *ratelimit.Locker, log *zap.Logger) error {
		if db.IsPostgres(cfg) {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else if err := AutoMigrate(conn); err != nil {
			return err
		}

		return seed.EnsureAdmin(context.Background(), seed.Params{
			Cfg:     cfg.Bootstrap,
			AuthSvc: authSvc,
			Locker:  locker,
			Log:     log,
		})
	}),
)
