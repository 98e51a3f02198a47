package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/tradeflow/internal/logging"
)

type app struct {
	logLevel  string
	logFormat string
	logger    *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "importcalc",
		Short: "Estimate the landed cost of an import",
		Long: `importcalc runs the import cost pipeline from the command line.

Examples:
  importcalc calc --fob 1000 --freight 80 --insurance 5 --set arancel-externo=16
  importcalc calc --fob 1000 --scenario express --classification 8517.12.00
  importcalc classifications 8471
  importcalc rate`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(logging.Config{Level: a.logLevel, Format: a.logFormat, Output: "stderr"})
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "console", "log format (console, json)")

	root.AddCommand(newCalcCmd(a))
	root.AddCommand(newClassificationsCmd())
	root.AddCommand(newRateCmd(a))

	return root
}
