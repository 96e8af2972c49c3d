package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/capex-close/internal/closing"
	"github.com/sells-group/capex-close/internal/dataload"
)

var (
	closeBU       string
	closeSeverity string
	closeMonths   int
)

var closeCmd = &cobra.Command{
	Use:   "close",
	Short: "Run close calculations directly",
	Long:  "Runs individual close engine steps against the configured data directory and prints JSON results, bypassing the assistant.",
}

// closeStep wires one engine calculation as a subcommand printing JSON.
func closeStep(use, short string, run func(s *closing.Session) (any, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			out, err := run(s)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}

func init() {
	accruals := closeStep("accruals", "Calculate gross and net accruals", func(s *closing.Session) (any, error) {
		wells, err := s.Wells(closeBU)
		if err != nil {
			return nil, err
		}
		return closing.Accruals(wells, s.Options()), nil
	})

	netdown := closeStep("netdown", "Calculate WI% net-down adjustments", func(s *closing.Session) (any, error) {
		wells, err := s.Wells(closeBU)
		if err != nil {
			return nil, err
		}
		return closing.NetDown(wells), nil
	})

	outlook := closeStep("outlook", "Calculate the forward spend outlook", func(s *closing.Session) (any, error) {
		wells, err := s.Wells(closeBU)
		if err != nil {
			return nil, err
		}
		return closing.Outlook(wells), nil
	})

	exceptions := closeStep("exceptions", "Report close exceptions", func(s *closing.Session) (any, error) {
		wells, err := s.Wells(closeBU)
		if err != nil {
			return nil, err
		}
		return closing.Exceptions(wells, closeSeverity, s.Options()), nil
	})
	exceptions.Flags().StringVar(&closeSeverity, "severity", closing.SeverityAll, "filter by severity (all, HIGH, MEDIUM, LOW)")

	journal := closeStep("journal", "Build the accrual journal entry", func(s *closing.Session) (any, error) {
		wells, err := s.Wells(closeBU)
		if err != nil {
			return nil, err
		}
		return closing.Journal(wells, closeBU, s.Period(), s.Options()), nil
	})

	summary := closeStep("summary", "Summarize the close by business unit", func(s *closing.Session) (any, error) {
		wells, err := s.Wells(closeBU)
		if err != nil {
			return nil, err
		}
		return closing.Summary(wells, s.Period(), s.Options()), nil
	})

	grid := closeStep("grid", "Build the monthly outlook load grid", func(s *closing.Session) (any, error) {
		wells, err := s.Wells(closeBU)
		if err != nil {
			return nil, err
		}
		sched, err := s.Schedule()
		if err != nil {
			return nil, err
		}
		return closing.BuildGrid(wells, sched, s.ClosePeriod(), closeMonths), nil
	})
	grid.Flags().IntVar(&closeMonths, "months", closing.DefaultForecastMonths, "projection months (1-6)")

	closeCmd.PersistentFlags().StringVar(&closeBU, "business-unit", dataload.BUAll, "restrict to one business unit")

	closeCmd.AddCommand(accruals, netdown, outlook, exceptions, journal, summary, grid)
	rootCmd.AddCommand(closeCmd)
}
