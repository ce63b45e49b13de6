package providers

import (
	"github.com/smallbiznis/wasafinance/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	pdf.Module,
)
