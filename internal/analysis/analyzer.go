package analysis

import (
	"context"
	"errors"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/g2g/internal/catalog"
	"github.com/wonny/g2g/internal/contracts"
	"github.com/wonny/g2g/internal/scoring"
	"github.com/wonny/g2g/pkg/logger"
)

// ErrInvalidTicker is returned for an empty ticker after normalisation
var ErrInvalidTicker = errors.New("invalid ticker")

// Analyzer wires a MetricsProvider to the scorer for presentation layers
// ⭐ SSOT: ticker validation, batching, sorting and grouping live here
type Analyzer struct {
	provider    contracts.MetricsProvider
	catalog     *catalog.Catalog
	concurrency int
	logger      *logger.Logger
}

// NewAnalyzer creates a new Analyzer
func NewAnalyzer(provider contracts.MetricsProvider, cat *catalog.Catalog, concurrency int, log *logger.Logger) *Analyzer {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Analyzer{
		provider:    provider,
		catalog:     cat,
		concurrency: concurrency,
		logger:      log,
	}
}

// Catalog returns the reference data the analyzer was built with
func (a *Analyzer) Catalog() *catalog.Catalog {
	return a.catalog
}

// NormalizeTicker trims and upper-cases a ticker
func NormalizeTicker(raw string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(raw))
	if t == "" {
		return "", ErrInvalidTicker
	}
	return t, nil
}

// Analyze resolves and scores one ticker.
//
// Provider faults come back as *contracts.UnavailableError with the fault
// attached. Only context cancellation and ErrInvalidTicker are returned as-is.
func (a *Analyzer) Analyze(ctx context.Context, ticker string) (*contracts.ScoreResult, error) {
	ticker, err := NormalizeTicker(ticker)
	if err != nil {
		return nil, err
	}

	log := a.logger.WithTicker(ticker)

	bundle, err := a.provider.Resolve(ctx, ticker)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.WithError(err).Warn("Provider fault")
		return nil, contracts.Unavailable(ticker, contracts.ReasonProviderFault, err)
	}
	if bundle == nil {
		return nil, contracts.Unavailable(ticker, contracts.ReasonProviderFault, errors.New("empty bundle"))
	}

	b := *bundle
	if b.Ticker == "" {
		b.Ticker = ticker
	}

	result, err := scoring.Score(b)
	if err != nil {
		log.WithError(err).Debug("Score unavailable")
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"total_score": result.TotalScore,
		"rating":      result.Rating,
	}).Debug("Scored")

	return result, nil
}

// AnalyzeBatch scores tickers concurrently and returns the available results
// sorted by TotalScore descending. Blank tickers and unavailable scores are
// skipped; equal scores keep input order.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, tickers []string) ([]*contracts.ScoreResult, error) {
	slots := make([]*contracts.ScoreResult, len(tickers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i, raw := range tickers {
		if strings.TrimSpace(raw) == "" {
			continue
		}

		g.Go(func() error {
			result, err := a.Analyze(gctx, raw)
			if err != nil {
				if errors.Is(err, contracts.ErrUnavailable) {
					return nil
				}
				return err
			}
			slots[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]*contracts.ScoreResult, 0, len(slots))
	for _, r := range slots {
		if r != nil {
			results = append(results, r)
		}
	}

	SortByScore(results)
	return results, nil
}

// Watchlist scores the catalog's default watchlist
func (a *Analyzer) Watchlist(ctx context.Context) ([]*contracts.ScoreResult, error) {
	return a.AnalyzeBatch(ctx, a.catalog.Watchlist())
}

// SortByScore orders results by TotalScore descending, stable on ties
func SortByScore(results []*contracts.ScoreResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalScore > results[j].TotalScore
	})
}

// TopN returns at most n results; n <= 0 returns all
func TopN[T any](items []T, n int) []T {
	if n <= 0 || n >= len(items) {
		return items
	}
	return items[:n]
}
