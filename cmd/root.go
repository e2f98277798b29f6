package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/fx-ratekeeper/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ratekeeper",
	Short: "SBI forex reference rate collector",
	Long:  "Downloads the SBI forex card rate sheet, extracts the reference rate table (text layer first, vision fallback), and maintains per-currency CSV time series with an archived PDF trail.",
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

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
