package provider

import (
	"context"
	"time"

	"github.com/wonny/g2g/internal/contracts"
	"github.com/wonny/g2g/pkg/logger"
	"github.com/wonny/g2g/pkg/redis"
)

// CachedProvider decorates a MetricsProvider with a short-lived Redis cache
// ⭐ SSOT: metrics bundles are cached here and nowhere else
//
// Only successful bundles are cached. Score results are never cached.
// Cache errors are logged and fall through to the upstream provider.
type CachedProvider struct {
	upstream contracts.MetricsProvider
	cache    *redis.Cache
	ttl      time.Duration
	logger   *logger.Logger
}

// NewCachedProvider wraps upstream. A nil or disabled cache makes it a pass-through.
func NewCachedProvider(upstream contracts.MetricsProvider, cache *redis.Cache, ttl time.Duration, log *logger.Logger) *CachedProvider {
	if ttl <= 0 {
		ttl = redis.TTLQuote
	}
	return &CachedProvider{
		upstream: upstream,
		cache:    cache,
		ttl:      ttl,
		logger:   log,
	}
}

// Resolve implements contracts.MetricsProvider
func (p *CachedProvider) Resolve(ctx context.Context, ticker string) (*contracts.MetricsBundle, error) {
	key := redis.BundleKey(ticker)

	var cached contracts.MetricsBundle
	hit, err := p.cache.Get(ctx, key, &cached)
	if err != nil {
		p.logger.WithTicker(ticker).WithError(err).Warn("Bundle cache read failed")
	}
	if hit {
		return &cached, nil
	}

	return p.fetch(ctx, ticker)
}

// Warm refreshes the cached bundle for each ticker, bypassing any cached value.
// Returns the number of tickers refreshed.
func (p *CachedProvider) Warm(ctx context.Context, tickers []string) (int, error) {
	refreshed := 0
	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			return refreshed, err
		}

		if _, err := p.fetch(ctx, ticker); err != nil {
			p.logger.WithTicker(ticker).WithError(err).Warn("Warm-up fetch failed")
			continue
		}
		refreshed++
	}
	return refreshed, nil
}

func (p *CachedProvider) fetch(ctx context.Context, ticker string) (*contracts.MetricsBundle, error) {
	bundle, err := p.upstream.Resolve(ctx, ticker)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, redis.BundleKey(ticker), bundle, p.ttl); err != nil {
		p.logger.WithTicker(ticker).WithError(err).Warn("Bundle cache write failed")
	}

	return bundle, nil
}
