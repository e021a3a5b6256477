package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/g2g/internal/catalog"
	"github.com/wonny/g2g/pkg/logger"
)

// DefaultWatchlistSchedule runs every 15 minutes (with seconds)
const DefaultWatchlistSchedule = "0 */15 * * * *"

// Warmer refreshes cached metrics bundles
type Warmer interface {
	Warm(ctx context.Context, tickers []string) (int, error)
}

// WatchlistRefreshJob keeps the bundle cache warm for the dashboard lists
// ⭐ SSOT: cache warm-up schedule is owned by this Job
type WatchlistRefreshJob struct {
	warmer       Warmer
	catalog      *catalog.Catalog
	schedule     string
	withUniverse bool
	logger       *logger.Logger
}

// NewWatchlistRefreshJob creates a new warm-up job.
// withUniverse also refreshes the sector and top-performer pools.
func NewWatchlistRefreshJob(w Warmer, cat *catalog.Catalog, schedule string, withUniverse bool, log *logger.Logger) *WatchlistRefreshJob {
	if schedule == "" {
		schedule = DefaultWatchlistSchedule
	}
	return &WatchlistRefreshJob{
		warmer:       w,
		catalog:      cat,
		schedule:     schedule,
		withUniverse: withUniverse,
		logger:       log,
	}
}

// Name returns the job name
func (j *WatchlistRefreshJob) Name() string {
	return "watchlist_refresh"
}

// Schedule returns the cron schedule
func (j *WatchlistRefreshJob) Schedule() string {
	return j.schedule
}

// Tickers returns the tickers one run refreshes, without duplicates
func (j *WatchlistRefreshJob) Tickers() []string {
	tickers := j.catalog.Watchlist()
	if !j.withUniverse {
		return tickers
	}

	seen := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		seen[t] = true
	}
	for _, pool := range [][]string{j.catalog.Universe(), j.catalog.TopPerformers()} {
		for _, t := range pool {
			if !seen[t] {
				seen[t] = true
				tickers = append(tickers, t)
			}
		}
	}
	return tickers
}

// Run refreshes the cache. It fails only when nothing could be refreshed.
func (j *WatchlistRefreshJob) Run(ctx context.Context) error {
	tickers := j.Tickers()
	j.logger.WithField("tickers", len(tickers)).Info("Refreshing bundle cache")

	refreshed, err := j.warmer.Warm(ctx, tickers)
	if err != nil {
		return fmt.Errorf("warm cache: %w", err)
	}
	if refreshed == 0 && len(tickers) > 0 {
		return fmt.Errorf("no ticker refreshed out of %d", len(tickers))
	}

	j.logger.WithFields(map[string]interface{}{
		"refreshed": refreshed,
		"failed":    len(tickers) - refreshed,
	}).Info("Bundle cache refreshed")

	return nil
}
