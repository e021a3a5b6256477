package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// epsCmd represents the eps command
var epsCmd = &cobra.Command{
	Use:   "eps [company_id]",
	Short: "Fetch EPS history from screener.in",
	Long: `Reads the EPS row from the consolidated screener.in company page.
company_id is the company code in the screener.in URL (e.g. TCS, INFY).

Example:
  go run ./cmd/g2g eps TCS
  go run ./cmd/g2g eps INFY --json`,
	Args: cobra.ExactArgs(1),
	RunE: runEPS,
}

var epsJSON bool

func init() {
	rootCmd.AddCommand(epsCmd)
	epsCmd.Flags().BoolVar(&epsJSON, "json", false, "print JSON")
}

func runEPS(cmd *cobra.Command, args []string) error {
	companyID := strings.ToUpper(strings.TrimSpace(args[0]))

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, cancel := signalContext()
	defer cancel()

	history, err := d.screener.FetchEPSHistory(ctx, companyID)
	if err != nil {
		PrintError(fmt.Sprintf("%s: %v", companyID, err))
		return err
	}

	if epsJSON {
		return PrintJSON(history)
	}

	PrintHeader(fmt.Sprintf("%s  %s", history.CompanyID, history.Label))
	for i, period := range history.Periods {
		value := "N/A"
		if i < len(history.Values) {
			value = formatOptional(history.Values[i], "%.2f")
		}
		PrintKeyValue(period, value, 10)
	}
	return nil
}
