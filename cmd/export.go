package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sells-group/capex-close/internal/dataload"
	"github.com/sells-group/capex-close/internal/export"
)

var (
	exportBU  string
	exportCSV bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the close package workbook",
	Long:  "Runs the full close for one business unit and writes the five-sheet Excel close package, optionally with the OneStream load grid as CSV.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}

		pkg, err := export.BuildClosePackage(s, exportBU)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(cfg.Export.Dir, 0o755); err != nil {
			return err
		}

		name := fmt.Sprintf("close-package-%s.xlsx", s.Period())
		path := filepath.Join(cfg.Export.Dir, name)
		if err := export.WriteWorkbook(pkg, path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)

		if exportCSV {
			csvPath := filepath.Join(cfg.Export.Dir, fmt.Sprintf("onestream-load-%s.csv", s.Period()))
			if err := export.WriteGridCSV(pkg.Grid, csvPath); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", csvPath)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportBU, "business-unit", dataload.BUAll, "restrict to one business unit")
	exportCmd.Flags().BoolVar(&exportCSV, "csv", false, "also write the load grid as CSV")
	rootCmd.AddCommand(exportCmd)
}
