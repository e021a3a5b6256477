package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/g2g/internal/contracts"
)

func TestRateTotal(t *testing.T) {
	tests := []struct {
		total int
		want  contracts.Rating
	}{
		{100, contracts.RatingPerfect},
		{99, contracts.RatingVeryGood},
		{70, contracts.RatingVeryGood},
		{69, contracts.RatingModerate},
		{40, contracts.RatingModerate},
		{39, contracts.RatingPoor},
		{30, contracts.RatingPoor},
		{20, contracts.RatingPoor},
		{19, contracts.RatingVeryPoor},
		{0, contracts.RatingVeryPoor},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RateTotal(tt.total), "total=%d", tt.total)
	}
}

func TestRateTotal_Exhaustive(t *testing.T) {
	for total := 0; total <= 100; total++ {
		assert.NotEmpty(t, RateTotal(total))
	}
}

func TestRateScore(t *testing.T) {
	tests := []struct {
		score     float64
		wantLabel string
		wantColor string
	}{
		{100, "Strong Buy", "#00aa00"},
		{80, "Strong Buy", "#00aa00"},
		{79.9, "Watchlist", "#ffaa00"},
		{60, "Watchlist", "#ffaa00"},
		{40, "Hold/Avoid", "#dd0000"},
		{20, "Keep Watching", "#666666"},
		{19, "Avoid", "#990000"},
		{0, "Avoid", "#990000"},
	}

	for _, tt := range tests {
		got := RateScore(tt.score)
		assert.Equal(t, tt.wantLabel, got.Label, "score=%v", tt.score)
		assert.Equal(t, tt.wantColor, got.Color, "score=%v", tt.score)
	}
}

func TestRatingScalesDiverge(t *testing.T) {
	// 70 is "Very Good" on the full-result scale but only "Watchlist" here
	assert.Equal(t, contracts.RatingVeryGood, RateTotal(70))
	assert.Equal(t, "Watchlist", RateScore(70).Label)

	// 90 does not reach Perfect but is already Strong Buy on the bare scale
	assert.Equal(t, contracts.RatingVeryGood, RateTotal(90))
	assert.Equal(t, "Strong Buy", RateScore(90).Label)
}
