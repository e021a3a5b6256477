package contracts

import "math"

// MetricsBundle is the provider's view of one security at a moment in time
// ⭐ SSOT: Provider → Scorer input
//
// Every numeric field is optional. nil means the provider did not report it
// and must never be read as zero.
type MetricsBundle struct {
	Ticker      string   `json:"ticker"`
	Price       *float64 `json:"price,omitempty"`
	TrailingPE  *float64 `json:"trailing_pe,omitempty"`
	TrailingEPS *float64 `json:"trailing_eps,omitempty"`
	Low52       *float64 `json:"low_52w,omitempty"`
	High52      *float64 `json:"high_52w,omitempty"`
	PriceToBook *float64 `json:"price_to_book,omitempty"`
	MarketCap   *float64 `json:"market_cap,omitempty"`
}

// Float returns a pointer to v, for building bundles inline
func Float(v float64) *float64 {
	return &v
}

// Positive reports whether v is present and strictly greater than zero
func Positive(v *float64) bool {
	return v != nil && *v > 0
}

// Malformed returns the name of the first field holding NaN or ±Inf, or ""
func (b MetricsBundle) Malformed() string {
	fields := []struct {
		name  string
		value *float64
	}{
		{"price", b.Price},
		{"trailing_pe", b.TrailingPE},
		{"trailing_eps", b.TrailingEPS},
		{"low_52w", b.Low52},
		{"high_52w", b.High52},
		{"price_to_book", b.PriceToBook},
		{"market_cap", b.MarketCap},
	}

	for _, f := range fields {
		if f.value != nil && (math.IsNaN(*f.value) || math.IsInf(*f.value, 0)) {
			return f.name
		}
	}

	return ""
}
