package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	env     string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "g2g",
	Short: "G2G - valuation scorer based on PE, PEG and the 52-week low",
	Long: `G2G Unified CLI

Scores tickers out of 100 from Yahoo Finance fundamentals:
PE (30) + PEG (30) + undervaluation against the 52-week low (40).

Usage:
  go run ./cmd/g2g [command]

Examples:
  go run ./cmd/g2g api
  go run ./cmd/g2g score TCS.NS INFY.NS
  go run ./cmd/g2g score --sectors
  go run ./cmd/g2g check RELIANCE.NS
  go run ./cmd/g2g eps TCS`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment override (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logs)")
}
