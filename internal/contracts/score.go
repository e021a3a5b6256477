package contracts

// ScoreResult is the G2G evaluation of one ticker
// ⭐ SSOT: Scorer → presentation output
//
// A ScoreResult is built once per request and never mutated afterwards.
type ScoreResult struct {
	Ticker string  `json:"ticker"`
	Price  float64 `json:"price"`

	PE              *float64 `json:"pe"`
	EPSFinal        *float64 `json:"eps_final"`
	PEG             *float64 `json:"peg"`
	Low52           *float64 `json:"low_52w"`
	High52          *float64 `json:"high_52w"`
	PriceToLowRatio *float64 `json:"price_to_low_ratio"`
	PB              *float64 `json:"pb"`
	MarketCap       *float64 `json:"market_cap"`

	PEScore       SubScore `json:"pe_score"`
	PEGScore      SubScore `json:"peg_score"`
	UndervalScore SubScore `json:"underval_score"`

	TotalScore int    `json:"total_score"`
	MaxScore   int    `json:"max_score"`
	Rating     Rating `json:"rating"`
}

// SubScore is one binary component of the composite score
type SubScore struct {
	Points    int     `json:"points"`
	Max       int     `json:"max"`
	Threshold float64 `json:"threshold"`
	Verdict   Verdict `json:"verdict"`
	Status    string  `json:"status"`
}

// Verdict classifies why a sub-score came out the way it did
type Verdict string

const (
	VerdictPass   Verdict = "pass"
	VerdictFail   Verdict = "fail"
	VerdictNoData Verdict = "no_data"
)

// Icon returns the glyph dashboards print next to a sub-score status
func (v Verdict) Icon() string {
	switch v {
	case VerdictPass:
		return "✅"
	case VerdictFail:
		return "❌"
	default:
		return "⚠️"
	}
}

// Rating is the qualitative label attached to a full ScoreResult
type Rating string

const (
	RatingPerfect  Rating = "Perfect — Strong Buy"
	RatingVeryGood Rating = "Very Good — Watchlist"
	RatingModerate Rating = "Moderate — Hold"
	RatingPoor     Rating = "Poor — Avoid"
	RatingVeryPoor Rating = "Very Poor — Avoid"
)

// Icon returns the traffic-light glyph used by the dashboard
func (r Rating) Icon() string {
	switch r {
	case RatingPerfect:
		return "🟢"
	case RatingVeryGood:
		return "🟡"
	case RatingModerate:
		return "🟠"
	case RatingPoor:
		return "🔴"
	default:
		return "❌"
	}
}

// ScoreBand is the standalone label for a bare numeric score.
// Separate scale from Rating; see scoring.RateScore.
type ScoreBand struct {
	Label string `json:"label"`
	Color string `json:"color"`
}
