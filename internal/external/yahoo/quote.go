package yahoo

import (
	"strings"

	"github.com/wonny/g2g/internal/contracts"
)

type summaryResponse struct {
	QuoteSummary struct {
		Result []quoteResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"quoteSummary"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// module is one quoteSummary module keyed by Yahoo field name.
// Numeric fields arrive as {"raw": 123.4, "fmt": "123.40"}; {} means not reported.
type module map[string]interface{}

type quoteResult struct {
	FinancialData        module `json:"financialData"`
	SummaryDetail        module `json:"summaryDetail"`
	DefaultKeyStatistics module `json:"defaultKeyStatistics"`
}

// number returns the raw numeric value of a field, or nil when absent
func (m module) number(field string) *float64 {
	v, ok := m[field]
	if !ok {
		return nil
	}

	switch t := v.(type) {
	case float64:
		return contracts.Float(t)
	case map[string]interface{}:
		raw, ok := t["raw"].(float64)
		if !ok {
			return nil
		}
		return contracts.Float(raw)
	default:
		return nil
	}
}

// first returns the first module that reports field
func first(field string, modules ...module) *float64 {
	for _, m := range modules {
		if v := m.number(field); v != nil {
			return v
		}
	}
	return nil
}

// bundle maps the summary onto the provider-neutral MetricsBundle
func (q *quoteResult) bundle(ticker string) *contracts.MetricsBundle {
	return &contracts.MetricsBundle{
		Ticker:      strings.ToUpper(ticker),
		Price:       q.FinancialData.number("currentPrice"),
		TrailingPE:  q.SummaryDetail.number("trailingPE"),
		TrailingEPS: q.DefaultKeyStatistics.number("trailingEps"),
		Low52:       q.SummaryDetail.number("fiftyTwoWeekLow"),
		High52:      q.SummaryDetail.number("fiftyTwoWeekHigh"),
		PriceToBook: first("priceToBook", q.DefaultKeyStatistics, q.SummaryDetail),
		MarketCap:   first("marketCap", q.SummaryDetail, q.DefaultKeyStatistics),
	}
}

// flatten merges every module into one map of raw values.
// Later modules do not overwrite earlier ones.
func (q *quoteResult) flatten() map[string]interface{} {
	out := make(map[string]interface{})

	for _, m := range []module{q.FinancialData, q.SummaryDetail, q.DefaultKeyStatistics} {
		for field, v := range m {
			if _, exists := out[field]; exists {
				continue
			}

			switch t := v.(type) {
			case map[string]interface{}:
				if raw, ok := t["raw"]; ok {
					out[field] = raw
				} else if len(t) == 0 {
					out[field] = nil
				} else {
					out[field] = t
				}
			default:
				out[field] = t
			}
		}
	}

	return out
}
