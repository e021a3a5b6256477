package scoring

import (
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/g2g/internal/contracts"
)

func bundle(price, pe, eps, low52 *float64) contracts.MetricsBundle {
	return contracts.MetricsBundle{
		Ticker:      "TEST.NS",
		Price:       price,
		TrailingPE:  pe,
		TrailingEPS: eps,
		Low52:       low52,
	}
}

var f = contracts.Float

func TestScore_UnavailableWithoutPrice(t *testing.T) {
	tests := []struct {
		name  string
		price *float64
	}{
		{"absent", nil},
		{"zero", f(0)},
		{"negative", f(-12.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Score(bundle(tt.price, f(12), f(50), f(900)))
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, contracts.ErrUnavailable))

			var ue *contracts.UnavailableError
			require.True(t, errors.As(err, &ue))
			assert.Equal(t, contracts.ReasonNoPrice, ue.Reason)
			assert.Equal(t, "TEST.NS", ue.Ticker)
		})
	}
}

func TestScore_UnavailableOnNonFinite(t *testing.T) {
	result, err := Score(bundle(f(100), f(math.NaN()), f(5), nil))
	require.Error(t, err)
	assert.Nil(t, result)

	var ue *contracts.UnavailableError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, contracts.ReasonMalformed, ue.Reason)
	assert.Contains(t, err.Error(), "trailing_pe")
}

func TestScore_PerfectScenario(t *testing.T) {
	b := bundle(f(1000), f(12), f(50), f(900))
	b.High52 = f(1200)

	result, err := Score(b)
	require.NoError(t, err)

	require.NotNil(t, result.PE)
	assert.Equal(t, 12.0, *result.PE)
	assert.Equal(t, 30, result.PEScore.Points)
	assert.Equal(t, "Good (PE: 12.00)", result.PEScore.Status)

	require.NotNil(t, result.PEG)
	assert.InDelta(t, 0.048, *result.PEG, 1e-9)
	assert.Equal(t, 30, result.PEGScore.Points)
	assert.Equal(t, "Growth-Adjusted (0.048)", result.PEGScore.Status)

	require.NotNil(t, result.PriceToLowRatio)
	assert.InDelta(t, 1.111, *result.PriceToLowRatio, 1e-3)
	assert.Equal(t, 40, result.UndervalScore.Points)
	assert.Equal(t, "Undervalued (1.11x)", result.UndervalScore.Status)

	assert.Equal(t, 100, result.TotalScore)
	assert.Equal(t, 100, result.MaxScore)
	assert.Equal(t, contracts.RatingPerfect, result.Rating)
	assert.Equal(t, 1200.0, *result.High52)
}

func TestScore_MixedScenario(t *testing.T) {
	result, err := Score(bundle(f(1000), f(20), f(10), f(500)))
	require.NoError(t, err)

	assert.Equal(t, 0, result.PEScore.Points)
	assert.Equal(t, contracts.VerdictFail, result.PEScore.Verdict)
	assert.Equal(t, "Expensive (PE: 20.00)", result.PEScore.Status)

	assert.InDelta(t, 0.4, *result.PEG, 1e-9)
	assert.Equal(t, 30, result.PEGScore.Points)

	assert.Equal(t, 0, result.UndervalScore.Points)
	assert.Equal(t, "High (2.00x)", result.UndervalScore.Status)

	assert.Equal(t, 30, result.TotalScore)
	assert.Equal(t, contracts.RatingPoor, result.Rating)
}

func TestScore_FallbackDerivation(t *testing.T) {
	fromEPS, err := Score(bundle(f(100), nil, f(5), nil))
	require.NoError(t, err)
	require.NotNil(t, fromEPS.PE)
	require.NotNil(t, fromEPS.EPSFinal)
	assert.InDelta(t, 20.0, *fromEPS.PE, 1e-9)
	assert.InDelta(t, 5.0, *fromEPS.EPSFinal, 1e-9)

	fromPE, err := Score(bundle(f(100), f(20), nil, nil))
	require.NoError(t, err)
	require.NotNil(t, fromPE.PE)
	require.NotNil(t, fromPE.EPSFinal)
	assert.InDelta(t, 20.0, *fromPE.PE, 1e-9)
	assert.InDelta(t, 5.0, *fromPE.EPSFinal, 1e-9)

	assert.InDelta(t, *fromEPS.PEG, *fromPE.PEG, 1e-12)
}

func TestScore_NonPositiveInputsIgnored(t *testing.T) {
	// negative P/E falls through to EPS derivation
	result, err := Score(bundle(f(100), f(-8), f(10), nil))
	require.NoError(t, err)
	assert.InDelta(t, 10.0, *result.PE, 1e-9)

	// neither usable: no P/E, no EPS, no PEG
	result, err = Score(bundle(f(100), f(0), f(-2), f(-5)))
	require.NoError(t, err)
	assert.Nil(t, result.PE)
	assert.Nil(t, result.EPSFinal)
	assert.Nil(t, result.PEG)
	assert.Nil(t, result.PriceToLowRatio)
	assert.Equal(t, "No Data", result.PEScore.Status)
	assert.Equal(t, "Cannot Calculate", result.PEGScore.Status)
	assert.Equal(t, "No Data", result.UndervalScore.Status)
	assert.Equal(t, contracts.VerdictNoData, result.PEScore.Verdict)
	assert.Equal(t, contracts.VerdictNoData, result.PEGScore.Verdict)
	assert.Equal(t, contracts.VerdictNoData, result.UndervalScore.Verdict)
	assert.Equal(t, 0, result.TotalScore)
	assert.Equal(t, contracts.RatingVeryPoor, result.Rating)
}

func TestScore_Boundaries(t *testing.T) {
	t.Run("pe equal to threshold fails", func(t *testing.T) {
		result, err := Score(bundle(f(150), f(15), f(10), nil))
		require.NoError(t, err)
		assert.Equal(t, 0, result.PEScore.Points)
	})

	t.Run("peg equal to threshold fails", func(t *testing.T) {
		// pe=10, eps=2 -> peg = 10/(2*5) = 1
		result, err := Score(bundle(f(20), f(10), f(2), nil))
		require.NoError(t, err)
		assert.InDelta(t, 1.0, *result.PEG, 1e-12)
		assert.Equal(t, 0, result.PEGScore.Points)
		assert.Equal(t, "Overvalued (1.000)", result.PEGScore.Status)
	})

	t.Run("price at undervaluation ceiling fails", func(t *testing.T) {
		result, err := Score(bundle(f(120), nil, nil, f(100)))
		require.NoError(t, err)
		assert.Equal(t, 0, result.UndervalScore.Points)
	})

	t.Run("price just under ceiling passes", func(t *testing.T) {
		result, err := Score(bundle(f(119.99), nil, nil, f(100)))
		require.NoError(t, err)
		assert.Equal(t, 40, result.UndervalScore.Points)
		assert.Equal(t, 40, result.TotalScore)
		assert.Equal(t, contracts.RatingModerate, result.Rating)
	})
}

func TestScore_TotalIsAlwaysAllowedValue(t *testing.T) {
	allowed := map[int]bool{0: true, 30: true, 40: true, 60: true, 70: true, 100: true}
	rng := rand.New(rand.NewSource(42))

	optional := func() *float64 {
		switch rng.Intn(4) {
		case 0:
			return nil
		case 1:
			return f(-rng.Float64() * 100)
		default:
			return f(rng.Float64() * 200)
		}
	}

	for i := 0; i < 5000; i++ {
		b := bundle(f(rng.Float64()*2000+0.01), optional(), optional(), optional())

		result, err := Score(b)
		require.NoError(t, err)
		assert.True(t, allowed[result.TotalScore], "unexpected total %d", result.TotalScore)
		assert.Equal(t, result.PEScore.Points+result.PEGScore.Points+result.UndervalScore.Points, result.TotalScore)
		assert.Equal(t, RateTotal(result.TotalScore), result.Rating)
	}
}

func TestScore_CheapPEWithLowPEG(t *testing.T) {
	// pe=12 with peg<1 always earns both P/E and PEG points
	for _, eps := range []float64{3, 10, 50, 400} {
		result, err := Score(bundle(f(12*eps), f(12), f(eps), nil))
		require.NoError(t, err)
		assert.Equal(t, 30, result.PEScore.Points, "eps=%v", eps)
		assert.Equal(t, 30, result.PEGScore.Points, "eps=%v", eps)
	}
}

func TestScore_Idempotent(t *testing.T) {
	b := bundle(f(1000), f(12), f(50), f(900))
	b.PriceToBook = f(3.2)
	b.MarketCap = f(1.5e12)

	first, err := Score(b)
	require.NoError(t, err)
	second, err := Score(b)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	c, err := json.Marshal(second)
	require.NoError(t, err)

	assert.Equal(t, string(a), string(c))
	assert.Equal(t, first, second)
}

func TestScore_ResultDoesNotAliasBundle(t *testing.T) {
	b := bundle(f(1000), f(12), f(50), f(900))
	b.High52 = f(1500)
	b.PriceToBook = f(3.2)
	b.MarketCap = f(5e11)

	result, err := Score(b)
	require.NoError(t, err)

	*b.Low52 = 1
	*b.High52 = 2
	*b.PriceToBook = 3
	*b.MarketCap = 999
	*b.TrailingPE = 99

	assert.Equal(t, 900.0, *result.Low52)
	assert.Equal(t, 1500.0, *result.High52)
	assert.Equal(t, 3.2, *result.PB)
	assert.Equal(t, 5e11, *result.MarketCap)
	assert.Equal(t, 12.0, *result.PE)
	assert.InDelta(t, 1000.0/900.0, *result.PriceToLowRatio, 1e-9)
}
