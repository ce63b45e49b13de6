package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/smallbiznis/wasafinance/internal/config"
	obsmetrics "github.com/smallbiznis/wasafinance/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Collections caches whole record lists keyed by collection name.
// Readers that miss share one fetch per generation; Invalidate bumps the
// generation so any fetch already in flight cannot repopulate the entry.
type Collections struct {
	store   Store
	ttl     time.Duration
	log     *zap.Logger
	metrics *obsmetrics.Metrics
	group   singleflight.Group
}

type CollectionsParams struct {
	fx.In

	Store   Store
	Cfg     config.Config
	Log     *zap.Logger
	Metrics *obsmetrics.Metrics `optional:"true"`
}

func NewCollections(p CollectionsParams) *Collections {
	return newCollections(p.Store, p.Cfg.Cache.TTL, p.Log, p.Metrics)
}

func newCollections(store Store, ttl time.Duration, log *zap.Logger, metrics *obsmetrics.Metrics) *Collections {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collections{
		store:   store,
		ttl:     ttl,
		log:     log.Named("cache"),
		metrics: metrics,
	}
}

func (c *Collections) load(ctx context.Context, key string, fetch func(context.Context) ([]byte, error)) ([]byte, error) {
	if c.ttl <= 0 {
		return fetch(ctx)
	}

	data, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warn("cache read failed", zap.String("collection", key), zap.Error(err))
	} else if ok {
		c.metrics.RecordCacheLookup(ctx, key, true)
		return data, nil
	}
	c.metrics.RecordCacheLookup(ctx, key, false)

	generation, err := c.store.Generation(ctx, key)
	if err != nil {
		c.log.Warn("cache generation read failed", zap.String("collection", key), zap.Error(err))
		return fetch(ctx)
	}

	// The shared fetch outlives any single caller; each caller still stops
	// waiting when its own context ends.
	flight := key + "@" + strconv.FormatUint(generation, 10)
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(flight, func() (any, error) {
		data, err := fetch(shared)
		if err != nil {
			return nil, err
		}
		stored, err := c.store.SetIfGeneration(shared, key, generation, data, c.ttl)
		switch {
		case err != nil:
			c.log.Warn("cache write failed", zap.String("collection", key), zap.Error(err))
		case !stored:
			c.log.Debug("discarded superseded fetch",
				zap.String("collection", key),
				zap.Uint64("generation", generation),
			)
		}
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// Invalidate drops the cached list and advances its generation.
func (c *Collections) Invalidate(ctx context.Context, key string) error {
	if err := c.store.Invalidate(ctx, key); err != nil {
		c.log.Warn("cache invalidate failed", zap.String("collection", key), zap.Error(err))
		return err
	}
	return nil
}

// Collection is a typed view over one cached list.
type Collection[T any] struct {
	collections *Collections
	key         string
}

func NewCollection[T any](collections *Collections, key string) *Collection[T] {
	return &Collection[T]{collections: collections, key: key}
}

// Load returns the cached list, or calls fetch and caches the result.
// Each call decodes a fresh copy so callers may mutate what they get.
func (l *Collection[T]) Load(ctx context.Context, fetch func(context.Context) ([]T, error)) ([]T, error) {
	if l == nil || l.collections == nil {
		return fetch(ctx)
	}
	data, err := l.collections.load(ctx, l.key, func(ctx context.Context) ([]byte, error) {
		items, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []T{}
		}
		return json.Marshal(items)
	})
	if err != nil {
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (l *Collection[T]) Invalidate(ctx context.Context) error {
	if l == nil || l.collections == nil {
		return nil
	}
	return l.collections.Invalidate(ctx, l.key)
}
