package analysis

import (
	"context"

	"gonum.org/v1/gonum/stat"

	"github.com/wonny/g2g/internal/contracts"
)

// Default list sizes
const (
	DefaultSectorLeaders = 3
	DefaultTopPerformers = 15
)

// SectorScore is a ScoreResult tagged with its sector
type SectorScore struct {
	*contracts.ScoreResult
	Sector string `json:"sector"`
}

// SectorLeaders is the ranked head of one sector universe
type SectorLeaders struct {
	Sector       string        `json:"sector"`
	AverageScore float64       `json:"average_score"`
	Scored       int           `json:"scored"`
	Leaders      []SectorScore `json:"leaders"`
}

// SectorLeaders scores every sector universe and keeps the top limit of each.
// Sectors come back in catalog order; a sector with nothing scorable has no leaders.
func (a *Analyzer) SectorLeaders(ctx context.Context, limit int) ([]SectorLeaders, error) {
	if limit <= 0 {
		limit = DefaultSectorLeaders
	}

	scored, err := a.AnalyzeBatch(ctx, a.catalog.Universe())
	if err != nil {
		return nil, err
	}

	byTicker := make(map[string]*contracts.ScoreResult, len(scored))
	for _, r := range scored {
		byTicker[r.Ticker] = r
	}

	universes := a.catalog.SectorUniverses()
	out := make([]SectorLeaders, 0, len(universes))

	for _, u := range universes {
		var results []*contracts.ScoreResult
		for _, t := range u.Tickers {
			if r, ok := byTicker[t]; ok {
				results = append(results, r)
			}
		}
		SortByScore(results)

		group := SectorLeaders{
			Sector:       u.Sector,
			Scored:       len(results),
			AverageScore: averageScore(results),
			Leaders:      []SectorScore{},
		}
		for _, r := range TopN(results, limit) {
			group.Leaders = append(group.Leaders, SectorScore{ScoreResult: r, Sector: u.Sector})
		}

		out = append(out, group)
	}

	return out, nil
}

// TopPerformers ranks the catalog's top-performer pool and tags each result with its sector
func (a *Analyzer) TopPerformers(ctx context.Context, limit int) ([]SectorScore, error) {
	if limit <= 0 {
		limit = DefaultTopPerformers
	}

	scored, err := a.AnalyzeBatch(ctx, a.catalog.TopPerformers())
	if err != nil {
		return nil, err
	}

	top := TopN(scored, limit)
	out := make([]SectorScore, 0, len(top))
	for _, r := range top {
		out = append(out, SectorScore{ScoreResult: r, Sector: a.catalog.SectorOf(r.Ticker)})
	}

	return out, nil
}

func averageScore(results []*contracts.ScoreResult) float64 {
	if len(results) == 0 {
		return 0
	}

	totals := make([]float64, len(results))
	for i, r := range results {
		totals[i] = float64(r.TotalScore)
	}
	return stat.Mean(totals, nil)
}
