package handlers

import (
	"net/http"

	"github.com/wonny/g2g/internal/analysis"
	"github.com/wonny/g2g/pkg/logger"
)

// MarketHandler handles market-wide ranking endpoints
type MarketHandler struct {
	analyzer *analysis.Analyzer
	logger   *logger.Logger
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(analyzer *analysis.Analyzer, log *logger.Logger) *MarketHandler {
	return &MarketHandler{
		analyzer: analyzer,
		logger:   log,
	}
}

// GetSectorLeaders returns the best scores of each sector
// GET /api/sector-leaders?limit=3
func (h *MarketHandler) GetSectorLeaders(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", analysis.DefaultSectorLeaders)

	groups, err := h.analyzer.SectorLeaders(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to rank sectors")
		respondError(w, http.StatusInternalServerError, "Failed to rank sectors")
		return
	}

	respondJSON(w, http.StatusOK, groups)
}

// GetTopPerformers returns the overall best scores
// GET /api/top-performers?limit=15
func (h *MarketHandler) GetTopPerformers(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", analysis.DefaultTopPerformers)

	top, err := h.analyzer.TopPerformers(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to rank top performers")
		respondError(w, http.StatusInternalServerError, "Failed to rank top performers")
		return
	}

	respondJSON(w, http.StatusOK, top)
}
