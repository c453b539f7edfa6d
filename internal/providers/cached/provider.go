package cached

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/orkg/license-service/internal/domain/dispatch"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	DefaultExpiration      = time.Hour
	DefaultCleanupInterval = 10 * time.Minute
)

type entry[V any] struct {
	value V
	found bool
}

// Stats counts cache lookups.
type Stats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
	Items  int    `json:"items"`
}

// Provider memoises the answers of another provider. Found and absent
// outcomes are cached per key; errors never are. It reports the wrapped
// provider's ID so answers stay attributed to the real source.
type Provider[I, V any] struct {
	inner  dispatch.Provider[I, V]
	key    func(I) string
	cache  *gocache.Cache
	logger *zap.Logger

	hits   atomic.Uint64
	misses atomic.Uint64
}

// Wrap decorates inner with a cache keyed by key(input).
func Wrap[I, V any](inner dispatch.Provider[I, V], key func(I) string, ttl, cleanup time.Duration, logger *zap.Logger) *Provider[I, V] {
	if ttl <= 0 {
		ttl = DefaultExpiration
	}
	if cleanup <= 0 {
		cleanup = DefaultCleanupInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider[I, V]{
		inner:  inner,
		key:    key,
		cache:  gocache.New(ttl, cleanup),
		logger: logger.Named("cache").With(zap.String("provider", inner.ID())),
	}
}

func (p *Provider[I, V]) ID() string { return p.inner.ID() }

func (p *Provider[I, V]) Description() string {
	return p.inner.Description() + " (cached)"
}

func (p *Provider[I, V]) CanProcess(in I) bool {
	return p.inner.CanProcess(in)
}

func (p *Provider[I, V]) Resolve(ctx context.Context, in I) (V, bool, error) {
	k := p.key(in)
	if v, ok := p.cache.Get(k); ok {
		if e, ok := v.(entry[V]); ok {
			p.hits.Add(1)
			p.logger.Debug("cache hit", zap.String("key", k))
			return e.value, e.found, nil
		}
	}
	p.misses.Add(1)

	value, found, err := p.inner.Resolve(ctx, in)
	if err != nil {
		return value, found, err
	}
	p.cache.SetDefault(k, entry[V]{value: value, found: found})
	return value, found, nil
}

// Stats returns lookup counters and the current item count.
func (p *Provider[I, V]) Stats() Stats {
	return Stats{
		Hits:   p.hits.Load(),
		Misses: p.misses.Load(),
		Items:  p.cache.ItemCount(),
	}
}

// Flush drops all cached answers.
func (p *Provider[I, V]) Flush() {
	p.cache.Flush()
}
