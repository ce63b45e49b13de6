package pdf

import (
	"context"
	"io"

	"github.com/smallbiznis/wasafinance/internal/report/shaper"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.pdf",
	fx.Provide(New),
)

// Provider renders shaped report documents. reportID is printed in the
// header so a printed copy can be matched to its audit entry.
type Provider interface {
	GenerateReport(ctx context.Context, doc shaper.Document, reportID string) (io.Reader, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) GenerateReport(ctx context.Context, doc shaper.Document, reportID string) (io.Reader, error) {
	return nil, nil
}
