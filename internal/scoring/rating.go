package scoring

import "github.com/wonny/g2g/internal/contracts"

// RateTotal maps a full-result G2G total to its rating.
// Bands are inclusive on their lower edge and checked top-down.
func RateTotal(total int) contracts.Rating {
	switch {
	case total >= 100:
		return contracts.RatingPerfect
	case total >= 70:
		return contracts.RatingVeryGood
	case total >= 40:
		return contracts.RatingModerate
	case total >= 20:
		return contracts.RatingPoor
	default:
		return contracts.RatingVeryPoor
	}
}

// RateScore labels a bare numeric score for simple views.
// Bands are 80/60/40/20, not the RateTotal bands. Keep the two separate.
func RateScore(score float64) contracts.ScoreBand {
	switch {
	case score >= 80:
		return contracts.ScoreBand{Label: "Strong Buy", Color: "#00aa00"}
	case score >= 60:
		return contracts.ScoreBand{Label: "Watchlist", Color: "#ffaa00"}
	case score >= 40:
		return contracts.ScoreBand{Label: "Hold/Avoid", Color: "#dd0000"}
	case score >= 20:
		return contracts.ScoreBand{Label: "Keep Watching", Color: "#666666"}
	default:
		return contracts.ScoreBand{Label: "Avoid", Color: "#990000"}
	}
}
