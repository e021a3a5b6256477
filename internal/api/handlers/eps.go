package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/wonny/g2g/internal/external/screener"
	"github.com/wonny/g2g/pkg/logger"
	"github.com/wonny/g2g/pkg/redis"
)

// EPSHistorySource fetches a company's EPS history
type EPSHistorySource interface {
	FetchEPSHistory(ctx context.Context, companyID string) (*screener.EPSHistory, error)
}

// EPSHandler serves screener.in EPS history, cached for a day
type EPSHandler struct {
	source EPSHistorySource
	cache  *redis.Cache
	logger *logger.Logger
}

// NewEPSHandler creates a new EPS handler. cache may be nil.
func NewEPSHandler(source EPSHistorySource, cache *redis.Cache, log *logger.Logger) *EPSHandler {
	return &EPSHandler{
		source: source,
		cache:  cache,
		logger: log,
	}
}

// GetEPSHistory returns the EPS row of a company
// GET /api/eps-history/{id}
func (h *EPSHandler) GetEPSHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := strings.ToUpper(strings.TrimSpace(mux.Vars(r)["id"]))
	if id == "" {
		respondError(w, http.StatusBadRequest, "company id is required")
		return
	}

	key := redis.EPSHistoryKey(id)

	var cached screener.EPSHistory
	if hit, err := h.cache.Get(ctx, key, &cached); err != nil {
		h.logger.WithError(err).Warn("EPS cache read failed")
	} else if hit {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	history, err := h.source.FetchEPSHistory(ctx, id)
	if errors.Is(err, screener.ErrNotFound) {
		respondError(w, http.StatusNotFound, "EPS history not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("company", id).Error("Failed to fetch EPS history")
		respondError(w, http.StatusBadGateway, "Failed to fetch EPS history")
		return
	}

	if err := h.cache.Set(ctx, key, history, redis.TTLDaily); err != nil {
		h.logger.WithError(err).Warn("EPS cache write failed")
	}

	respondJSON(w, http.StatusOK, history)
}
