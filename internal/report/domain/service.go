package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/wasafinance/internal/report/shaper"
)

const ContentTypePDF = "application/pdf"

type GenerateRequest struct {
	Type  string
	Year  int
	Month int
}

// Report is a rendered document ready to be streamed as an attachment.
type Report struct {
	ID          string
	Type        shaper.ReportType
	Filename    string
	ContentType string
	GeneratedAt time.Time
	Body        []byte
}

type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (Report, error)
}

var ErrRenderFailed = errors.New("report_render_failed")
