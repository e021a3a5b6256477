package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/g2g/internal/analysis"
	"github.com/wonny/g2g/internal/contracts"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score [tickers...]",
	Short: "Score tickers",
	Long: `Scores tickers with the G2G model and prints them by score, highest first.
Without tickers the default watchlist is scored.

Example:
  go run ./cmd/g2g score
  go run ./cmd/g2g score TCS.NS INFY.NS --detail
  go run ./cmd/g2g score --sectors --limit 3
  go run ./cmd/g2g score --top --limit 15 --json`,
	RunE: runScore,
}

var (
	scoreJSON    bool
	scoreDetail  bool
	scoreSectors bool
	scoreTop     bool
	scoreLimit   int
)

func init() {
	rootCmd.AddCommand(scoreCmd)

	// Flags
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "print JSON")
	scoreCmd.Flags().BoolVar(&scoreDetail, "detail", false, "print the per-ticker breakdown")
	scoreCmd.Flags().BoolVar(&scoreSectors, "sectors", false, "rank sector leaders")
	scoreCmd.Flags().BoolVar(&scoreTop, "top", false, "rank top performers")
	scoreCmd.Flags().IntVar(&scoreLimit, "limit", 0, "number of results (0 = default)")
	scoreCmd.MarkFlagsMutuallyExclusive("sectors", "top")
}

// signalContext is cancelled on Ctrl+C
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runScore(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, cancel := signalContext()
	defer cancel()

	switch {
	case scoreSectors:
		groups, err := d.analyzer.SectorLeaders(ctx, scoreLimit)
		if err != nil {
			return fmt.Errorf("rank sectors: %w", err)
		}
		if scoreJSON {
			return PrintJSON(groups)
		}
		PrintSectorLeaders(groups)
		return nil

	case scoreTop:
		top, err := d.analyzer.TopPerformers(ctx, scoreLimit)
		if err != nil {
			return fmt.Errorf("rank top performers: %w", err)
		}
		if scoreJSON {
			return PrintJSON(top)
		}
		PrintTopPerformers(top)
		return nil
	}

	tickers := args
	if len(tickers) == 0 {
		tickers = d.catalog.Watchlist()
	}

	results, err := d.analyzer.AnalyzeBatch(ctx, tickers)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	results = analysis.TopN(results, scoreLimit)

	if scoreJSON {
		return PrintJSON(results)
	}

	if len(results) == 0 {
		PrintWarning("No scorable tickers")
		return nil
	}

	if scoreDetail {
		for _, r := range results {
			PrintBreakdown(r)
		}
	} else {
		PrintScoreTable(results)
	}

	if skipped := len(tickers) - len(results); skipped > 0 && scoreLimit == 0 {
		PrintInfo(fmt.Sprintf("%d ticker(s) had no usable data", skipped))
	}
	return nil
}

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [ticker]",
	Short: "Inspect raw Yahoo data for a ticker",
	Long: `Prints the raw Yahoo Finance fields next to the score.
Use it to find out why a ticker has no data.

Example:
  go run ./cmd/g2g check RELIANCE.NS`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

var checkRaw bool

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkRaw, "raw", false, "print every raw field as JSON")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ticker, err := analysis.NormalizeTicker(args[0])
	if err != nil {
		return err
	}

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, cancel := signalContext()
	defer cancel()

	info, err := d.yahoo.RawInfo(ctx, ticker)
	if err != nil {
		PrintError(fmt.Sprintf("%s: %v", ticker, err))
		return err
	}

	if checkRaw {
		if err := PrintJSON(info); err != nil {
			return err
		}
	} else {
		PrintHeader(ticker + " raw fields")
		for _, key := range []string{"currentPrice", "trailingPE", "trailingEps", "fiftyTwoWeekLow", "fiftyTwoWeekHigh", "priceToBook", "marketCap"} {
			PrintKeyValue(key, fmt.Sprintf("%v", info[key]), 16)
		}
	}

	result, err := d.analyzer.Analyze(ctx, ticker)
	var unavailable *contracts.UnavailableError
	switch {
	case errors.As(err, &unavailable):
		PrintWarning(fmt.Sprintf("%s cannot be scored: %s", ticker, unavailable.Reason))
		return nil
	case err != nil:
		return err
	}

	PrintBreakdown(result)
	return nil
}
