package screener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/g2g/pkg/httputil"
	"github.com/wonny/g2g/pkg/logger"
)

// ErrNotFound is returned when screener.in has no page or no EPS table for the company
var ErrNotFound = errors.New("screener: company not found")

// epsTableIndex is the position of the EPS table on the consolidated page
const epsTableIndex = 2

// Client scrapes company pages from screener.in
// ⭐ SSOT: screener.in calls go through this client only
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// EPSHistory is the first row of the consolidated EPS table
type EPSHistory struct {
	CompanyID string     `json:"company_id"`
	Label     string     `json:"label"`
	Periods   []string   `json:"periods"`
	Values    []*float64 `json:"values"`
}

// NewClient creates a new screener.in client
func NewClient(httpClient *httputil.Client, baseURL string, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://www.screener.in"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// FetchEPSHistory fetches the EPS history row for a company id (e.g. "TCS")
func (c *Client) FetchEPSHistory(ctx context.Context, companyID string) (*EPSHistory, error) {
	companyID = strings.ToUpper(strings.TrimSpace(companyID))
	if companyID == "" {
		return nil, fmt.Errorf("empty company id: %w", ErrNotFound)
	}

	html, err := c.fetchHTML(ctx, fmt.Sprintf("/company/%s/consolidated/", companyID))
	if err != nil {
		return nil, err
	}

	history, err := parseEPSTable(html)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", companyID, err)
	}
	history.CompanyID = companyID

	c.logger.WithFields(map[string]interface{}{
		"company": companyID,
		"periods": len(history.Periods),
	}).Debug("Fetched EPS history")

	return history, nil
}

// fetchHTML fetches a page from screener.in
func (c *Client) fetchHTML(ctx context.Context, path string) (string, error) {
	resp, err := c.httpClient.Get(ctx, c.baseURL+path)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}

// parseEPSTable reads the header and first body row of the EPS table
func parseEPSTable(html string) (*EPSHistory, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	tables := doc.Find("table")
	if tables.Length() <= epsTableIndex {
		return nil, ErrNotFound
	}
	table := tables.Eq(epsTableIndex)

	history := &EPSHistory{}

	// Header: first cell is the row label column
	table.Find("thead tr").First().Find("th").Each(func(i int, th *goquery.Selection) {
		if i == 0 {
			return
		}
		history.Periods = append(history.Periods, strings.TrimSpace(th.Text()))
	})

	row := table.Find("tbody tr").First()
	if row.Length() == 0 {
		return nil, ErrNotFound
	}

	row.Find("td").Each(func(i int, td *goquery.Selection) {
		text := strings.TrimSpace(td.Text())
		if i == 0 {
			history.Label = strings.TrimSpace(strings.TrimSuffix(text, "+"))
			return
		}
		history.Values = append(history.Values, parseNumber(text))
	})

	return history, nil
}

// parseNumber parses "1,234.5" style cells; blanks and dashes are nil
func parseNumber(s string) *float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	s = strings.TrimSuffix(s, "%")
	if s == "" || s == "-" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
