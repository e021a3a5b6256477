package scoring

import (
	"fmt"

	"github.com/wonny/g2g/internal/contracts"
)

// G2G model constants
const (
	PEThreshold  = 15.0 // P/E strictly below this is "good"
	PEGThreshold = 1.0  // PEG strictly below this is "growth-adjusted"

	// UndervalMultiplier scales the 52-week low into the undervaluation ceiling
	UndervalMultiplier = 1.2

	// GrowthProxy stands in for an assumed five-year earnings growth rate.
	// No growth estimate is consulted; keep it literal.
	GrowthProxy = 5.0

	PEMaxPoints       = 30
	PEGMaxPoints      = 30
	UndervalMaxPoints = 40
	MaxScore          = PEMaxPoints + PEGMaxPoints + UndervalMaxPoints
)

// Score evaluates a metrics bundle into a G2G ScoreResult
// ⭐ SSOT: the G2G model is implemented here and nowhere else
//
// Score is pure: no I/O, no shared state, safe for concurrent use. When no
// result can be produced it returns a *contracts.UnavailableError and a nil
// result; a partially filled result is never returned.
func Score(b contracts.MetricsBundle) (*contracts.ScoreResult, error) {
	if field := b.Malformed(); field != "" {
		return nil, contracts.Unavailable(b.Ticker, contracts.ReasonMalformed,
			fmt.Errorf("field %s is not a finite number", field))
	}

	if !contracts.Positive(b.Price) {
		return nil, contracts.Unavailable(b.Ticker, contracts.ReasonNoPrice, nil)
	}
	price := *b.Price

	pe := resolvePE(price, b.TrailingPE, b.TrailingEPS)
	eps := resolveEPS(price, b.TrailingEPS, pe)

	result := &contracts.ScoreResult{
		Ticker:    b.Ticker,
		Price:     price,
		PE:        pe,
		EPSFinal:  eps,
		Low52:     clone(b.Low52),
		High52:    clone(b.High52),
		PB:        clone(b.PriceToBook),
		MarketCap: clone(b.MarketCap),
		MaxScore:  MaxScore,
	}

	result.PEScore = scorePE(pe)
	result.PEG, result.PEGScore = scorePEG(pe, eps)
	result.PriceToLowRatio, result.UndervalScore = scoreUnderval(price, b.Low52)

	result.TotalScore = result.PEScore.Points + result.PEGScore.Points + result.UndervalScore.Points
	result.Rating = RateTotal(result.TotalScore)

	return result, nil
}

// clone copies v so results never alias the caller's bundle
func clone(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return contracts.Float(*v)
}

// resolvePE prefers the reported P/E and back-derives it from EPS otherwise
func resolvePE(price float64, trailingPE, trailingEPS *float64) *float64 {
	if contracts.Positive(trailingPE) {
		return contracts.Float(*trailingPE)
	}
	if contracts.Positive(trailingEPS) {
		return contracts.Float(price / *trailingEPS)
	}
	return nil
}

// resolveEPS prefers the reported EPS and back-derives it from the resolved P/E otherwise
func resolveEPS(price float64, trailingEPS, pe *float64) *float64 {
	if contracts.Positive(trailingEPS) {
		return contracts.Float(*trailingEPS)
	}
	if contracts.Positive(pe) {
		return contracts.Float(price / *pe)
	}
	return nil
}

func scorePE(pe *float64) contracts.SubScore {
	s := contracts.SubScore{Max: PEMaxPoints, Threshold: PEThreshold}

	switch {
	case !contracts.Positive(pe):
		s.Verdict = contracts.VerdictNoData
		s.Status = "No Data"
	case *pe < PEThreshold:
		s.Points = PEMaxPoints
		s.Verdict = contracts.VerdictPass
		s.Status = fmt.Sprintf("Good (PE: %.2f)", *pe)
	default:
		s.Verdict = contracts.VerdictFail
		s.Status = fmt.Sprintf("Expensive (PE: %.2f)", *pe)
	}

	return s
}

func scorePEG(pe, eps *float64) (*float64, contracts.SubScore) {
	s := contracts.SubScore{Max: PEGMaxPoints, Threshold: PEGThreshold}

	if !contracts.Positive(pe) || !contracts.Positive(eps) {
		s.Verdict = contracts.VerdictNoData
		s.Status = "Cannot Calculate"
		return nil, s
	}

	peg := *pe / (*eps * GrowthProxy)
	if peg < PEGThreshold {
		s.Points = PEGMaxPoints
		s.Verdict = contracts.VerdictPass
		s.Status = fmt.Sprintf("Growth-Adjusted (%.3f)", peg)
	} else {
		s.Verdict = contracts.VerdictFail
		s.Status = fmt.Sprintf("Overvalued (%.3f)", peg)
	}

	return &peg, s
}

func scoreUnderval(price float64, low52 *float64) (*float64, contracts.SubScore) {
	s := contracts.SubScore{Max: UndervalMaxPoints, Threshold: UndervalMultiplier}

	if !contracts.Positive(low52) {
		s.Verdict = contracts.VerdictNoData
		s.Status = "No Data"
		return nil, s
	}

	ratio := price / *low52
	if price < *low52*UndervalMultiplier {
		s.Points = UndervalMaxPoints
		s.Verdict = contracts.VerdictPass
		s.Status = fmt.Sprintf("Undervalued (%.2fx)", ratio)
	} else {
		s.Verdict = contracts.VerdictFail
		s.Status = fmt.Sprintf("High (%.2fx)", ratio)
	}

	return &ratio, s
}
