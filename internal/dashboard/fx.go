package dashboard

import (
	"github.com/smallbiznis/wasafinance/internal/dashboard/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dashboard.service",
	fx.Provide(service.New),
)
