package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/wonny/g2g/internal/analysis"
	"github.com/wonny/g2g/internal/contracts"
	"github.com/wonny/g2g/internal/scoring"
	"github.com/wonny/g2g/pkg/logger"
)

// RawInfoSource exposes the provider's raw payload for diagnostics
type RawInfoSource interface {
	RawInfo(ctx context.Context, ticker string) (map[string]interface{}, error)
}

// ScoreHandler handles G2G scoring endpoints
// ⭐ SSOT: score API handlers live in this struct
type ScoreHandler struct {
	analyzer *analysis.Analyzer
	raw      RawInfoSource
	logger   *logger.Logger
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(analyzer *analysis.Analyzer, raw RawInfoSource, log *logger.Logger) *ScoreHandler {
	return &ScoreHandler{
		analyzer: analyzer,
		raw:      raw,
		logger:   log,
	}
}

// stockRequest is the body of add/remove stock calls.
// The dashboard keeps its list client-side and sends it with every call.
type stockRequest struct {
	Ticker     string   `json:"ticker" validate:"required,max=20"`
	StocksList []string `json:"stocks_list" validate:"omitempty,max=200,dive,max=20"`
}

// stockResponse mirrors the dashboard's success/message envelope
type stockResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Result  *contracts.ScoreResult `json:"result,omitempty"`
	Stocks  []string               `json:"stocks"`
	Info    map[string]interface{} `json:"info,omitempty"`
}

// GetWatchlist scores the default watchlist
// GET /api/watchlist
func (h *ScoreHandler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	results, err := h.analyzer.Watchlist(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to score watchlist")
		respondError(w, http.StatusInternalServerError, "Failed to score watchlist")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"stocks":  h.analyzer.Catalog().Watchlist(),
	})
}

// Analyze scores a comma-separated ticker list
// GET /api/analyze?tickers=TCS.NS,INFY.NS
func (h *ScoreHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	tickers := strings.Split(r.URL.Query().Get("tickers"), ",")

	results, err := h.analyzer.AnalyzeBatch(r.Context(), tickers)
	if err != nil {
		h.logger.WithError(err).Error("Failed to analyze tickers")
		respondError(w, http.StatusInternalServerError, "Failed to analyze tickers")
		return
	}

	respondJSON(w, http.StatusOK, results)
}

// GetScore scores a single ticker
// GET /api/score/{ticker}
func (h *ScoreHandler) GetScore(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]

	result, err := h.analyzer.Analyze(r.Context(), ticker)
	switch {
	case errors.Is(err, analysis.ErrInvalidTicker):
		respondError(w, http.StatusBadRequest, "invalid ticker")
	case errors.Is(err, contracts.ErrUnavailable):
		respondError(w, http.StatusNotFound, "no data")
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Failed to score ticker")
	default:
		respondJSON(w, http.StatusOK, result)
	}
}

// AddStock scores a ticker and appends it to the caller's list
// POST /api/stocks
func (h *ScoreHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeStockRequest(w, r)
	if !ok {
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), req.Ticker)
	if err != nil {
		if !errors.Is(err, contracts.ErrUnavailable) {
			respondError(w, http.StatusInternalServerError, "Failed to score ticker")
			return
		}

		info := h.rawInfo(r.Context(), req.Ticker)
		respondJSON(w, http.StatusBadRequest, stockResponse{
			Message: "Could not fetch data for ticker",
			Info:    info,
		})
		return
	}

	stocks := req.StocksList
	if !contains(stocks, req.Ticker) {
		stocks = append(stocks, req.Ticker)
	}

	respondJSON(w, http.StatusOK, stockResponse{
		Success: true,
		Result:  result,
		Stocks:  stocks,
	})
}

// RemoveStock removes a ticker from the caller's list
// DELETE /api/stocks
func (h *ScoreHandler) RemoveStock(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeStockRequest(w, r)
	if !ok {
		return
	}

	stocks := make([]string, 0, len(req.StocksList))
	found := false
	for _, s := range req.StocksList {
		if !found && s == req.Ticker {
			found = true
			continue
		}
		stocks = append(stocks, s)
	}

	if !found {
		respondJSON(w, http.StatusBadRequest, stockResponse{Message: "Stock not found"})
		return
	}

	respondJSON(w, http.StatusOK, stockResponse{
		Success: true,
		Stocks:  stocks,
		Message: fmt.Sprintf("✅ %s removed from dashboard", req.Ticker),
	})
}

// CheckTicker returns the raw provider payload next to the analysis
// GET /api/check-ticker?ticker=TCS.NS
func (h *ScoreHandler) CheckTicker(w http.ResponseWriter, r *http.Request) {
	ticker, err := analysis.NormalizeTicker(r.URL.Query().Get("ticker"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "No ticker provided")
		return
	}

	info, err := h.raw.RawInfo(r.Context(), ticker)
	if err != nil {
		h.logger.WithTicker(ticker).WithError(err).Warn("Raw info lookup failed")
		respondJSON(w, http.StatusBadGateway, map[string]interface{}{
			"success": false,
			"message": "provider error",
			"error":   err.Error(),
		})
		return
	}

	var result *contracts.ScoreResult
	if res, err := h.analyzer.Analyze(r.Context(), ticker); err == nil {
		result = res
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"ticker":   ticker,
		"info":     info,
		"analysis": result,
	})
}

// GetRating labels a bare score on the standalone scale
// GET /api/rating?score=72
func (h *ScoreHandler) GetRating(w http.ResponseWriter, r *http.Request) {
	score, err := strconv.ParseFloat(r.URL.Query().Get("score"), 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "score must be a number")
		return
	}

	band := scoring.RateScore(score)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"score": score,
		"label": band.Label,
		"color": band.Color,
	})
}

// decodeStockRequest decodes, normalises and validates a stock request.
// A missing list means the default watchlist.
func (h *ScoreHandler) decodeStockRequest(w http.ResponseWriter, r *http.Request) (*stockRequest, bool) {
	var req stockRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	req.Ticker = strings.ToUpper(strings.TrimSpace(req.Ticker))
	if err := validate.Struct(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() != "Ticker" {
			respondError(w, http.StatusBadRequest, "invalid stocks_list")
			return nil, false
		}
		respondJSON(w, http.StatusBadRequest, stockResponse{Message: "Invalid ticker"})
		return nil, false
	}

	if req.StocksList == nil {
		req.StocksList = h.analyzer.Catalog().Watchlist()
	}

	return &req, true
}

// rawInfo fetches diagnostics for a failed ticker; failures yield nil
func (h *ScoreHandler) rawInfo(ctx context.Context, ticker string) map[string]interface{} {
	if h.raw == nil {
		return nil
	}
	info, err := h.raw.RawInfo(ctx, ticker)
	if err != nil {
		h.logger.WithTicker(ticker).WithError(err).Debug("Raw info unavailable")
		return nil
	}
	return info
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
