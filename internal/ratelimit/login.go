package ratelimit

import (
	"context"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/wasafinance/internal/config"
	obsmetrics "github.com/smallbiznis/wasafinance/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyLoginIP = "wasafinance:login:ip:%s"

// LoginLimiter throttles login attempts per client IP. A nil or disabled
// limiter allows everything.
type LoginLimiter struct {
	bucket  *TokenBucket
	rate    float64
	burst   int
	log     *zap.Logger
	metrics *obsmetrics.Metrics
}

type LoginLimiterParams struct {
	fx.In

	Cfg     config.Config
	Client  *redis.Client
	Log     *zap.Logger
	Metrics *obsmetrics.Metrics `optional:"true"`
}

func NewLoginLimiter(p LoginLimiterParams) *LoginLimiter {
	limitCfg := p.Cfg.RateLimit
	if p.Client == nil || limitCfg.LoginPerMinute <= 0 || limitCfg.LoginBurst <= 0 {
		return nil
	}
	return &LoginLimiter{
		bucket:  NewTokenBucket(p.Client),
		rate:    limitCfg.LoginPerMinute / 60,
		burst:   limitCfg.LoginBurst,
		log:     p.Log.Named("ratelimit.login"),
		metrics: p.Metrics,
	}
}

func (l *LoginLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

// Allow consumes one token for ip. Redis failures fail open so an outage
// cannot lock every user out.
func (l *LoginLimiter) Allow(ctx context.Context, ip string) *RateLimitResult {
	if !l.Enabled() {
		return &RateLimitResult{Allowed: true}
	}
	ip = strings.TrimSpace(ip)
	if ip == "" {
		ip = "unknown"
	}

	res, err := l.bucket.Allow(ctx, fmt.Sprintf(keyLoginIP, ip), l.rate, l.burst)
	if err != nil {
		l.log.Warn("login rate limit check failed", zap.Error(err))
		return &RateLimitResult{Allowed: true, Limit: l.burst}
	}
	if !res.Allowed {
		l.metrics.RecordRateLimitDenied(ctx, "auth.login", "ip")
	}
	return res
}
