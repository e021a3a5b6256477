package commands

import (
	"fmt"

	"github.com/wonny/g2g/internal/analysis"
	"github.com/wonny/g2g/internal/catalog"
	"github.com/wonny/g2g/internal/external/screener"
	"github.com/wonny/g2g/internal/external/yahoo"
	"github.com/wonny/g2g/internal/provider"
	"github.com/wonny/g2g/pkg/config"
	"github.com/wonny/g2g/pkg/httputil"
	"github.com/wonny/g2g/pkg/logger"
	"github.com/wonny/g2g/pkg/redis"
)

const redisPrefix = "g2g"

// deps is the object graph shared by every command
type deps struct {
	cfg      *config.Config
	log      *logger.Logger
	redis    *redis.Client
	cache    *redis.Cache
	yahoo    *yahoo.Client
	screener *screener.Client
	provider *provider.CachedProvider
	catalog  *catalog.Catalog
	analyzer *analysis.Analyzer
}

// loadConfig loads the environment and applies global flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if env != "" {
		cfg.Env = env
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, nil
}

// initDeps wires config → logger → redis → HTTP clients → provider → analyzer
func initDeps() (*deps, error) {
	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to Redis (disabled config degrades to no-op cache)
	rdb, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	cache := redis.NewCache(rdb, redisPrefix)
	limiter := redis.NewRateLimiter(rdb, redisPrefix)

	// 4. Create HTTP clients, one per upstream so each carries its own quota
	yahooHTTP := httputil.NewWithTimeout(cfg, log, cfg.Yahoo.Timeout).
		WithRateLimiter(limiter, redis.YahooRateLimit)
	screenerHTTP := httputil.NewWithTimeout(cfg, log, cfg.Screener.Timeout).
		WithRateLimiter(limiter, redis.ScreenerRateLimit)

	// 5. Create external API clients
	yahooClient := yahoo.NewClient(yahooHTTP, cfg.Yahoo, log)
	screenerClient := screener.NewClient(screenerHTTP, cfg.Screener.BaseURL, log)

	// 6. Load reference data
	cat, err := catalog.Load(cfg.Analysis.CatalogPath)
	if err != nil {
		rdb.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	// 7. Create provider and analyzer
	cached := provider.NewCachedProvider(yahooClient, cache, cfg.Analysis.BundleCacheTTL, log)
	analyzer := analysis.NewAnalyzer(cached, cat, cfg.Analysis.Concurrency, log)

	log.WithFields(map[string]interface{}{
		"env":         cfg.Env,
		"redis":       rdb.Enabled(),
		"concurrency": cfg.Analysis.Concurrency,
		"universe":    len(cat.Universe()),
	}).Debug("Dependencies initialized")

	return &deps{
		cfg:      cfg,
		log:      log,
		redis:    rdb,
		cache:    cache,
		yahoo:    yahooClient,
		screener: screenerClient,
		provider: cached,
		catalog:  cat,
		analyzer: analyzer,
	}, nil
}

// Close releases the Redis connection
func (d *deps) Close() {
	if err := d.redis.Close(); err != nil {
		d.log.WithError(err).Warn("Failed to close redis")
	}
}
