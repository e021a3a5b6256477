package contracts

import "context"

// MetricsProvider resolves a ticker symbol to its current fundamentals
// ⭐ SSOT: market data source interface
//
// Unknown symbols and upstream outages are reported as errors; a bundle
// with every field nil is also a legal answer.
type MetricsProvider interface {
	Resolve(ctx context.Context, ticker string) (*MetricsBundle, error)
}
