package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	auditdomain "github.com/smallbiznis/wasafinance/internal/audit/domain"
	authdomain "github.com/smallbiznis/wasafinance/internal/auth/domain"
	"github.com/smallbiznis/wasafinance/internal/clock"
	obscontext "github.com/smallbiznis/wasafinance/internal/observability/context"
	obsmetrics "github.com/smallbiznis/wasafinance/internal/observability/metrics"
	"github.com/smallbiznis/wasafinance/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const jobLockKey = "wasafinance:scheduler:%s"

var ErrInvalidConfig = errors.New("invalid_scheduler_config")

type Params struct {
	fx.In

	Log         *zap.Logger
	Clock       clock.Clock
	SessionRepo authdomain.SessionRepository
	Locker      *ratelimit.Locker   `optional:"true"`
	Metrics     *obsmetrics.Metrics `optional:"true"`
	Config      Config              `optional:"true"`
}

// Scheduler runs periodic housekeeping jobs. When a redis locker is
// available only one replica runs a given job per tick.
type Scheduler struct {
	log         *zap.Logger
	cfg         Config
	clock       clock.Clock
	sessionRepo authdomain.SessionRepository
	locker      *ratelimit.Locker
	metrics     *obsmetrics.Metrics
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.SessionRepo == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:         p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:         p.Config.withDefaults(),
		clock:       p.Clock,
		sessionRepo: p.SessionRepo,
		locker:      p.Locker,
		metrics:     p.Metrics,
	}, nil
}

func (s *Scheduler) runJob(parent context.Context, name string, fn func(ctx context.Context) error) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()

	ctx = obscontext.WithActor(ctx, string(auditdomain.ActorTypeSystem), "scheduler")
	log := s.log.With(zap.String("job", name))

	if s.locker != nil {
		token, ok, err := s.locker.TryLock(ctx, fmt.Sprintf(jobLockKey, name), s.cfg.LockTTL)
		if err != nil {
			log.Warn("job lock failed, running unguarded", zap.Error(err))
		} else if !ok {
			s.metrics.RecordJobRun(ctx, name, "skipped")
			return nil
		} else {
			defer func() {
				if err := s.locker.Release(context.Background(), fmt.Sprintf(jobLockKey, name), token); err != nil {
					log.Warn("job lock release failed", zap.Error(err))
				}
			}()
		}
	}

	err := fn(ctx)
	duration := s.clock.Now().Sub(start)
	if err == nil {
		s.metrics.RecordJobRun(ctx, name, "ok")
		log.Debug("job finished", zap.Duration("duration", duration))
		return nil
	}

	// Deadlines are soft: the next tick picks up where this one stopped.
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.metrics.RecordJobRun(ctx, name, "timeout")
		log.Warn("job timed out",
			zap.Duration("timeout", s.cfg.JobTimeout),
			zap.Error(err),
		)
		return nil
	}

	s.metrics.RecordJobRun(ctx, name, "error")
	return fmt.Errorf("%s: %w", name, err)
}

func (s *Scheduler) RunOnce(parent context.Context) error {
	var err error

	jobs := []struct {
		Name string
		Run  func(context.Context) error
	}{
		{"purge_sessions", s.PurgeSessionsJob},
	}

	for _, job := range jobs {
		if parent.Err() != nil {
			return errors.Join(err, parent.Err())
		}
		if jobErr := s.runJob(parent, job.Name, job.Run); jobErr != nil {
			err = errors.Join(err, jobErr)
		}
	}
	return err
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// PurgeSessionsJob deletes sessions that ended more than the retention
// window ago.
func (s *Scheduler) PurgeSessionsJob(ctx context.Context) error {
	cutoff := s.clock.Now().Add(-s.cfg.SessionRetention)
	deleted, err := s.sessionRepo.DeleteSessionsBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		s.log.Info("purged sessions",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff),
		)
	}
	return nil
}
