package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/capex-close/internal/seed"
)

var (
	seedDir   string
	seedValue int64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate the demo dataset",
	Long:  "Writes a deterministic 18-well registry and drill schedule into the data directory, including the canned exception wells.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir := seedDir
		if dir == "" {
			dir = cfg.Data.Dir
		}
		if err := seed.WriteWithSeed(dir, seedValue); err != nil {
			return err
		}
		fmt.Printf("Wrote wbs_master.csv and drill_schedule.csv to %s\n", dir)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedDir, "dir", "", "output directory (default from config)")
	seedCmd.Flags().Int64Var(&seedValue, "seed", seed.DefaultSeed, "random seed")
	rootCmd.AddCommand(seedCmd)
}
