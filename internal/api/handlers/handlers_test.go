package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/g2g/internal/analysis"
	"github.com/wonny/g2g/internal/catalog"
	"github.com/wonny/g2g/internal/contracts"
	"github.com/wonny/g2g/internal/external/screener"
	"github.com/wonny/g2g/internal/scheduler"
	"github.com/wonny/g2g/pkg/logger"
)

var f = contracts.Float

type stubProvider map[string]contracts.MetricsBundle

func (p stubProvider) Resolve(ctx context.Context, ticker string) (*contracts.MetricsBundle, error) {
	b, ok := p[ticker]
	if !ok {
		return nil, errors.New("unknown symbol")
	}
	return &b, nil
}

type stubRaw struct {
	info map[string]interface{}
	err  error
}

func (s stubRaw) RawInfo(ctx context.Context, ticker string) (map[string]interface{}, error) {
	return s.info, s.err
}

const testCatalog = `
watchlist: [GOOD, OK]
ticker_sectors:
  GOOD: Tech
sector_universes:
  - {sector: Tech, tickers: [GOOD, OK]}
  - {sector: Energy, tickers: [NOPRICE]}
`

func newScoreHandler(t *testing.T, raw RawInfoSource) *ScoreHandler {
	t.Helper()

	cat, err := catalog.Parse([]byte(testCatalog))
	require.NoError(t, err)

	p := stubProvider{
		"GOOD":    {Price: f(1000), TrailingPE: f(12), TrailingEPS: f(50), Low52: f(900)},
		"OK":      {Price: f(1000), TrailingPE: f(20), TrailingEPS: f(10), Low52: f(500)},
		"NOPRICE": {TrailingPE: f(12)},
	}

	a := analysis.NewAnalyzer(p, cat, 2, logger.Nop())
	return NewScoreHandler(a, raw, logger.Nop())
}

func doJSON(t *testing.T, h http.HandlerFunc, method, target string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(method, target, &buf))

	var out map[string]interface{}
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestScoreHandler_GetWatchlist(t *testing.T) {
	h := newScoreHandler(t, nil)

	rec, body := doJSON(t, h.GetWatchlist, http.MethodGet, "/api/watchlist", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	results := body["results"].([]interface{})
	require.Len(t, results, 2)
	assert.Equal(t, "GOOD", results[0].(map[string]interface{})["ticker"])
	assert.Equal(t, []interface{}{"GOOD", "OK"}, body["stocks"])
}

func TestScoreHandler_Analyze(t *testing.T) {
	h := newScoreHandler(t, nil)

	rec := httptest.NewRecorder()
	h.Analyze(rec, httptest.NewRequest(http.MethodGet, "/api/analyze?tickers=ok,,good,NOPRICE,MISSING", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var results []contracts.ScoreResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "GOOD", results[0].Ticker)
	assert.Equal(t, 100, results[0].TotalScore)
	assert.Equal(t, "OK", results[1].Ticker)
	assert.Equal(t, 30, results[1].TotalScore)
}

func TestScoreHandler_GetScore(t *testing.T) {
	h := newScoreHandler(t, nil)

	tests := []struct {
		name   string
		ticker string
		status int
	}{
		{"scored", "good", http.StatusOK},
		{"no price", "NOPRICE", http.StatusNotFound},
		{"provider fault", "MISSING", http.StatusNotFound},
		{"blank", " ", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/score/x", nil)
			req = mux.SetURLVars(req, map[string]string{"ticker": tt.ticker})

			rec := httptest.NewRecorder()
			h.GetScore(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestScoreHandler_AddStock(t *testing.T) {
	h := newScoreHandler(t, stubRaw{info: map[string]interface{}{"symbol": "NOPRICE"}})

	t.Run("appends to given list", func(t *testing.T) {
		rec, body := doJSON(t, h.AddStock, http.MethodPost, "/api/stocks", map[string]interface{}{
			"ticker":      " good ",
			"stocks_list": []string{"OK"},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, []interface{}{"OK", "GOOD"}, body["stocks"])
		assert.Equal(t, float64(100), body["result"].(map[string]interface{})["total_score"])
	})

	t.Run("already listed", func(t *testing.T) {
		rec, body := doJSON(t, h.AddStock, http.MethodPost, "/api/stocks", map[string]interface{}{
			"ticker": "OK",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []interface{}{"GOOD", "OK"}, body["stocks"])
	})

	t.Run("unavailable includes raw info", func(t *testing.T) {
		rec, body := doJSON(t, h.AddStock, http.MethodPost, "/api/stocks", map[string]interface{}{
			"ticker": "NOPRICE",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Could not fetch data for ticker", body["message"])
		assert.Equal(t, "NOPRICE", body["info"].(map[string]interface{})["symbol"])
	})

	t.Run("blank ticker", func(t *testing.T) {
		rec, body := doJSON(t, h.AddStock, http.MethodPost, "/api/stocks", map[string]interface{}{
			"ticker": "  ",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid ticker", body["message"])
	})

	t.Run("unknown field", func(t *testing.T) {
		rec, body := doJSON(t, h.AddStock, http.MethodPost, "/api/stocks", map[string]interface{}{
			"ticker": "GOOD",
			"extra":  1,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, body["error"], "invalid JSON")
	})

	t.Run("oversized list entry", func(t *testing.T) {
		rec, body := doJSON(t, h.AddStock, http.MethodPost, "/api/stocks", map[string]interface{}{
			"ticker":      "GOOD",
			"stocks_list": []string{strings.Repeat("X", 21)},
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid stocks_list", body["error"])
	})
}

func TestScoreHandler_RemoveStock(t *testing.T) {
	h := newScoreHandler(t, nil)

	rec, body := doJSON(t, h.RemoveStock, http.MethodDelete, "/api/stocks", map[string]interface{}{
		"ticker":      "ok",
		"stocks_list": []string{"GOOD", "OK", "TCS.NS"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{"GOOD", "TCS.NS"}, body["stocks"])
	assert.Equal(t, "✅ OK removed from dashboard", body["message"])

	// defaults to the watchlist
	rec, body = doJSON(t, h.RemoveStock, http.MethodDelete, "/api/stocks", map[string]interface{}{
		"ticker": "GOOD",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{"OK"}, body["stocks"])

	rec, body = doJSON(t, h.RemoveStock, http.MethodDelete, "/api/stocks", map[string]interface{}{
		"ticker":      "INFY.NS",
		"stocks_list": []string{"GOOD"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Stock not found", body["message"])
}

func TestScoreHandler_CheckTicker(t *testing.T) {
	info := map[string]interface{}{"currentPrice": 1000.0}

	t.Run("with analysis", func(t *testing.T) {
		h := newScoreHandler(t, stubRaw{info: info})
		rec, body := doJSON(t, h.CheckTicker, http.MethodGet, "/api/check-ticker?ticker=good", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "GOOD", body["ticker"])
		assert.Equal(t, info, body["info"])
		assert.NotNil(t, body["analysis"])
	})

	t.Run("unscorable", func(t *testing.T) {
		h := newScoreHandler(t, stubRaw{info: info})
		rec, body := doJSON(t, h.CheckTicker, http.MethodGet, "/api/check-ticker?ticker=NOPRICE", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, body["analysis"])
	})

	t.Run("missing ticker", func(t *testing.T) {
		h := newScoreHandler(t, stubRaw{info: info})
		rec, body := doJSON(t, h.CheckTicker, http.MethodGet, "/api/check-ticker", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "No ticker provided", body["error"])
	})

	t.Run("provider error", func(t *testing.T) {
		h := newScoreHandler(t, stubRaw{err: errors.New("boom")})
		rec, body := doJSON(t, h.CheckTicker, http.MethodGet, "/api/check-ticker?ticker=GOOD", nil)
		require.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "boom", body["error"])
	})
}

func TestScoreHandler_GetRating(t *testing.T) {
	h := newScoreHandler(t, nil)

	rec, body := doJSON(t, h.GetRating, http.MethodGet, "/api/rating?score=65", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 65.0, body["score"])
	assert.NotEmpty(t, body["label"])
	assert.NotEmpty(t, body["color"])

	rec, _ = doJSON(t, h.GetRating, http.MethodGet, "/api/rating?score=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarketHandler(t *testing.T) {
	sh := newScoreHandler(t, nil)
	h := NewMarketHandler(sh.analyzer, logger.Nop())

	rec := httptest.NewRecorder()
	h.GetSectorLeaders(rec, httptest.NewRequest(http.MethodGet, "/api/sector-leaders?limit=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var groups []analysis.SectorLeaders
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groups))
	require.Len(t, groups, 2)
	assert.Equal(t, "Tech", groups[0].Sector)
	require.Len(t, groups[0].Leaders, 1)
	assert.Equal(t, "GOOD", groups[0].Leaders[0].Ticker)
	assert.Empty(t, groups[1].Leaders)

	rec = httptest.NewRecorder()
	h.GetTopPerformers(rec, httptest.NewRequest(http.MethodGet, "/api/top-performers?limit=junk", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var top []analysis.SectorScore
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &top))
	require.Len(t, top, 2)
	assert.Equal(t, "Tech", top[0].Sector)
	assert.Equal(t, "Other", top[1].Sector)
}

type stubEPS struct {
	history *screener.EPSHistory
	err     error
}

func (s stubEPS) FetchEPSHistory(ctx context.Context, companyID string) (*screener.EPSHistory, error) {
	return s.history, s.err
}

func TestEPSHandler(t *testing.T) {
	history := &screener.EPSHistory{
		CompanyID: "TCS",
		Label:     "EPS in Rs",
		Periods:   []string{"Mar 2023", "Mar 2024"},
		Values:    []*float64{f(115.19), f(125.88)},
	}

	tests := []struct {
		name   string
		source stubEPS
		id     string
		status int
	}{
		{"found", stubEPS{history: history}, "tcs", http.StatusOK},
		{"not found", stubEPS{err: screener.ErrNotFound}, "NOPE", http.StatusNotFound},
		{"upstream error", stubEPS{err: errors.New("timeout")}, "TCS", http.StatusBadGateway},
		{"blank id", stubEPS{history: history}, " ", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewEPSHandler(tt.source, nil, logger.Nop())

			req := httptest.NewRequest(http.MethodGet, "/api/eps-history/x", nil)
			req = mux.SetURLVars(req, map[string]string{"id": tt.id})
			rec := httptest.NewRecorder()
			h.GetEPSHistory(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

type stubJobs struct {
	stats  map[string]scheduler.JobStats
	runErr error
}

func (s stubJobs) GetJobStats() map[string]scheduler.JobStats { return s.stats }
func (s stubJobs) RunJob(jobName string) error                { return s.runErr }

func TestJobsHandler(t *testing.T) {
	h := NewJobsHandler(stubJobs{stats: map[string]scheduler.JobStats{
		"watchlist_refresh": {JobName: "watchlist_refresh", TotalRuns: 3},
	}})

	rec, body := doJSON(t, h.GetJobs, http.MethodGet, "/api/jobs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "watchlist_refresh")
}

func TestJobsHandler_RunJob(t *testing.T) {
	tests := []struct {
		name   string
		runErr error
		status int
	}{
		{"started", nil, http.StatusAccepted},
		{"unknown job", fmt.Errorf("%w: nope", scheduler.ErrJobNotFound), http.StatusNotFound},
		{"failure", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewJobsHandler(stubJobs{runErr: tt.runErr})

			req := httptest.NewRequest(http.MethodPost, "/api/jobs/x/run", nil)
			req = mux.SetURLVars(req, map[string]string{"name": "watchlist_refresh"})
			rec := httptest.NewRecorder()
			h.RunJob(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 7},
		{"limit=3", 3},
		{"limit=0", 7},
		{"limit=-2", 7},
		{"limit=x", 7},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
		assert.Equal(t, tt.want, queryInt(r, "limit", 7), tt.query)
	}
}
