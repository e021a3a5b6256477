package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// OtherSector tags tickers missing from the sector table
const OtherSector = "Other"

//go:embed default.yaml
var defaultYAML []byte

// file is the on-disk layout
type file struct {
	Watchlist       []string          `yaml:"watchlist"`
	TickerSectors   map[string]string `yaml:"ticker_sectors"`
	SectorUniverses []SectorUniverse  `yaml:"sector_universes"`
	TopPerformers   []string          `yaml:"top_performers"`
}

// SectorUniverse is the candidate pool of one sector
type SectorUniverse struct {
	Sector  string   `yaml:"sector" json:"sector"`
	Tickers []string `yaml:"tickers" json:"tickers"`
}

// Catalog is the immutable ticker reference data used by presentation layers
// ⭐ SSOT: watchlist, sector table and universes come from here only
//
// Accessors return copies; a Catalog is safe to share across goroutines.
type Catalog struct {
	watchlist []string
	sectors   map[string]string
	universes []SectorUniverse
	universe  []string
	top       []string
}

// ValidationError is a catalog content error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("catalog %s: %s", e.Field, e.Message)
}

// Default returns the embedded catalog
func Default() (*Catalog, error) {
	return Parse(defaultYAML)
}

// Load reads a catalog from path; an empty path yields the embedded default
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates catalog YAML. Unknown fields are rejected.
func Parse(data []byte) (*Catalog, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	return build(f)
}

func build(f file) (*Catalog, error) {
	c := &Catalog{
		sectors: make(map[string]string, len(f.TickerSectors)),
	}

	if len(f.Watchlist) == 0 {
		return nil, ValidationError{"watchlist", "must not be empty"}
	}
	for i, t := range f.Watchlist {
		t = normalize(t)
		if t == "" {
			return nil, ValidationError{fmt.Sprintf("watchlist[%d]", i), "empty ticker"}
		}
		c.watchlist = appendUnique(c.watchlist, t)
	}

	for t, sector := range f.TickerSectors {
		t = normalize(t)
		sector = strings.TrimSpace(sector)
		if t == "" || sector == "" {
			return nil, ValidationError{"ticker_sectors", "ticker and sector are required"}
		}
		c.sectors[t] = sector
	}

	seen := make(map[string]bool)
	for i, u := range f.SectorUniverses {
		name := strings.TrimSpace(u.Sector)
		if name == "" {
			return nil, ValidationError{fmt.Sprintf("sector_universes[%d].sector", i), "required"}
		}
		if seen[name] {
			return nil, ValidationError{fmt.Sprintf("sector_universes[%d].sector", i), "duplicate sector " + name}
		}
		seen[name] = true

		var tickers []string
		for _, t := range u.Tickers {
			if t = normalize(t); t != "" {
				tickers = appendUnique(tickers, t)
				c.universe = appendUnique(c.universe, t)
			}
		}
		if len(tickers) == 0 {
			return nil, ValidationError{fmt.Sprintf("sector_universes[%d].tickers", i), "must not be empty"}
		}

		c.universes = append(c.universes, SectorUniverse{Sector: name, Tickers: tickers})
	}

	for _, t := range f.TopPerformers {
		if t = normalize(t); t != "" {
			c.top = appendUnique(c.top, t)
		}
	}
	if len(c.top) == 0 {
		c.top = c.universe
	}

	return c, nil
}

// Watchlist returns the default dashboard tickers
func (c *Catalog) Watchlist() []string {
	return append([]string(nil), c.watchlist...)
}

// SectorOf returns the dashboard sector tag of a ticker, or OtherSector
func (c *Catalog) SectorOf(ticker string) string {
	if sector, ok := c.sectors[normalize(ticker)]; ok {
		return sector
	}
	return OtherSector
}

// SectorUniverses returns the sector candidate pools in file order
func (c *Catalog) SectorUniverses() []SectorUniverse {
	out := make([]SectorUniverse, len(c.universes))
	for i, u := range c.universes {
		out[i] = SectorUniverse{Sector: u.Sector, Tickers: append([]string(nil), u.Tickers...)}
	}
	return out
}

// Universe returns every sector-universe ticker once, in first-seen order
func (c *Catalog) Universe() []string {
	return append([]string(nil), c.universe...)
}

// TopPerformers returns the candidate pool for the overall ranking
func (c *Catalog) TopPerformers() []string {
	return append([]string(nil), c.top...)
}

func normalize(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
