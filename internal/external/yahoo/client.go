package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/wonny/g2g/internal/contracts"
	"github.com/wonny/g2g/pkg/config"
	"github.com/wonny/g2g/pkg/httputil"
	"github.com/wonny/g2g/pkg/logger"
)

// ErrNotFound is returned when Yahoo has no quote for the symbol
var ErrNotFound = errors.New("yahoo: symbol not found")

// summaryModules are the quoteSummary modules that carry every field we read
const summaryModules = "financialData,summaryDetail,defaultKeyStatistics"

// Client handles communication with the Yahoo Finance quote API
// ⭐ SSOT: Yahoo Finance calls go through this client only
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	limiter    *rate.Limiter
}

// NewClient creates a new Yahoo Finance client
func NewClient(httpClient *httputil.Client, cfg config.YahooConfig, log *logger.Logger) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Resolve implements contracts.MetricsProvider
func (c *Client) Resolve(ctx context.Context, ticker string) (*contracts.MetricsBundle, error) {
	summary, err := c.fetchSummary(ctx, ticker)
	if err != nil {
		return nil, err
	}

	bundle := summary.bundle(ticker)
	c.logger.WithTicker(ticker).WithField("has_price", bundle.Price != nil).Debug("Resolved metrics bundle")

	return bundle, nil
}

// RawInfo returns the provider's flattened payload for diagnostics.
// Keys use Yahoo's own field names (currentPrice, trailingPE, ...).
func (c *Client) RawInfo(ctx context.Context, ticker string) (map[string]interface{}, error) {
	summary, err := c.fetchSummary(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return summary.flatten(), nil
}

// fetchSummary calls quoteSummary and decodes the first result
func (c *Client) fetchSummary(ctx context.Context, ticker string) (*quoteResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("modules", summaryModules)
	fullURL := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?%s",
		c.baseURL, url.PathEscape(ticker), params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", ticker, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var envelope summaryResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode quoteSummary: %w", err)
	}

	if e := envelope.QuoteSummary.Error; e != nil {
		if strings.EqualFold(e.Code, "Not Found") {
			return nil, fmt.Errorf("%s: %w", ticker, ErrNotFound)
		}
		return nil, fmt.Errorf("quoteSummary error %s: %s", e.Code, e.Description)
	}
	if len(envelope.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%s: %w", ticker, ErrNotFound)
	}

	return &envelope.QuoteSummary.Result[0], nil
}
