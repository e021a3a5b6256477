package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/wonny/g2g/internal/analysis"
	"github.com/wonny/g2g/internal/contracts"
	"github.com/wonny/g2g/internal/scheduler"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// Every command prints through these helpers
// ═══════════════════════════════════════════════════════════

const timeLayout = "2006-01-02 15:04:05"

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintHeader prints a titled block header
func PrintHeader(title string) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", title)
	PrintSeparator()
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Println()
	fmt.Printf("⚠️  %s\n", message)
	fmt.Println()
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Printf("❌ %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Printf("ℹ️  %s\n", message)
}

// PrintTableHeader prints a table header
func PrintTableHeader(columns []string, widths []int) {
	PrintTableRow(columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Println(strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row
func PrintTableRow(values []string, widths []int) {
	for i, val := range values {
		fmt.Printf("%-*s", widths[i], val)
		if i < len(values)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()
}

// PrintList prints a bulleted list
func PrintList(items []string) {
	for _, item := range items {
		fmt.Printf("   • %s\n", item)
	}
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}

// PrintJSON writes v as indented JSON to stdout
func PrintJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatOptional renders a nullable metric, "N/A" when absent
func formatOptional(v *float64, format string) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf(format, *v)
}

var scoreColumns = []string{"Ticker", "Price", "PE", "PEG", "Price/Low", "Score", "Rating"}
var scoreWidths = []int{14, 10, 8, 8, 9, 7, 28}

func scoreRow(r *contracts.ScoreResult) []string {
	return []string{
		r.Ticker,
		fmt.Sprintf("%.2f", r.Price),
		formatOptional(r.PE, "%.2f"),
		formatOptional(r.PEG, "%.3f"),
		formatOptional(r.PriceToLowRatio, "%.2fx"),
		fmt.Sprintf("%d/%d", r.TotalScore, r.MaxScore),
		r.Rating.Icon() + " " + string(r.Rating),
	}
}

// PrintScoreTable prints one row per result
func PrintScoreTable(results []*contracts.ScoreResult) {
	PrintTableHeader(scoreColumns, scoreWidths)
	for _, r := range results {
		PrintTableRow(scoreRow(r), scoreWidths)
	}
}

// PrintBreakdown prints the sub-score detail of one result
func PrintBreakdown(r *contracts.ScoreResult) {
	PrintHeader(fmt.Sprintf("%s  %s %s", r.Ticker, r.Rating.Icon(), r.Rating))
	PrintKeyValue("Price", fmt.Sprintf("%.2f", r.Price), 12)
	PrintKeyValue("PE", formatOptional(r.PE, "%.2f"), 12)
	PrintKeyValue("EPS", formatOptional(r.EPSFinal, "%.2f"), 12)
	PrintKeyValue("52W Low", formatOptional(r.Low52, "%.2f"), 12)
	PrintKeyValue("52W High", formatOptional(r.High52, "%.2f"), 12)
	PrintKeyValue("P/B", formatOptional(r.PB, "%.2f"), 12)
	PrintKeyValue("Market Cap", formatOptional(r.MarketCap, "%.0f"), 12)
	PrintSeparator()

	subs := []struct {
		name string
		sub  contracts.SubScore
	}{
		{"PE", r.PEScore},
		{"PEG", r.PEGScore},
		{"Undervalued", r.UndervalScore},
	}
	for _, s := range subs {
		fmt.Printf("   %s %-12s %2d/%-2d  %s\n", s.sub.Verdict.Icon(), s.name, s.sub.Points, s.sub.Max, s.sub.Status)
	}

	PrintSeparator()
	fmt.Printf("   Total: %d/%d\n", r.TotalScore, r.MaxScore)
}

// PrintSectorLeaders prints each sector block with its leaders
func PrintSectorLeaders(groups []analysis.SectorLeaders) {
	for _, g := range groups {
		PrintHeader(fmt.Sprintf("%s  (avg %.1f, %d scored)", g.Sector, g.AverageScore, g.Scored))
		if len(g.Leaders) == 0 {
			PrintInfo("no scorable tickers")
			continue
		}
		results := make([]*contracts.ScoreResult, 0, len(g.Leaders))
		for _, l := range g.Leaders {
			results = append(results, l.ScoreResult)
		}
		PrintScoreTable(results)
	}
}

// PrintTopPerformers prints the ranked list with sectors
func PrintTopPerformers(top []analysis.SectorScore) {
	columns := append([]string{"#", "Sector"}, scoreColumns...)
	widths := append([]int{3, 20}, scoreWidths...)

	PrintTableHeader(columns, widths)
	for i, s := range top {
		PrintTableRow(append([]string{fmt.Sprintf("%d", i+1), s.Sector}, scoreRow(s.ScoreResult)...), widths)
	}
}

// printJobStats prints scheduler statistics ordered by job name
func printJobStats(stats map[string]scheduler.JobStats) {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		stat := stats[name]
		fmt.Printf("📊 %s\n", name)
		PrintKeyValue("Schedule", stat.Schedule, 12)
		PrintKeyValue("Total Runs", fmt.Sprintf("%d", stat.TotalRuns), 12)
		PrintKeyValue("Success", fmt.Sprintf("%d (%.1f%%)", stat.SuccessCount, stat.SuccessRate*100), 12)
		PrintKeyValue("Failures", fmt.Sprintf("%d", stat.FailureCount), 12)

		if stat.LastRun != nil {
			PrintKeyValue("Last Run", stat.LastRun.Format(timeLayout), 12)
		}
		if stat.NextRun != nil {
			PrintKeyValue("Next Run", stat.NextRun.Format(timeLayout), 12)
		}
		fmt.Println()
	}
}
