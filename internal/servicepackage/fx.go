package servicepackage

import (
	"github.com/smallbiznis/wasafinance/internal/servicepackage/repository"
	"github.com/smallbiznis/wasafinance/internal/servicepackage/service"
	"go.uber.org/fx"
)

var Module = fx.Module("package.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
