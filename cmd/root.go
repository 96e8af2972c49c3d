package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/capex-close/internal/closing"
	"github.com/sells-group/capex-close/internal/config"
	"github.com/sells-group/capex-close/internal/dataload"
	"github.com/sells-group/capex-close/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "capex-close",
	Short: "Monthly CapEx close engine for well projects",
	Long:  "Calculates accruals, WI% net-downs, and spend outlooks from the WBS master, flags exceptions, and drives the close through a conversational assistant.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newSession opens a close session over the configured data directory.
func newSession() (*closing.Session, error) {
	period, err := closing.ParsePeriod(cfg.Close.Period)
	if err != nil {
		return nil, err
	}
	opts := closing.AccrualOptions{
		MissingData: closing.MissingDataPolicy(cfg.Close.MissingDataPolicy),
	}
	return closing.NewSession(dataload.New(cfg.Data.Dir), period, opts), nil
}

// initStore opens the audit-log database and runs migrations.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
