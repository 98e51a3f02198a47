package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Simplici0/tradeflow/internal/exrate"
)

func newRateCmd(a *app) *cobra.Command {
	var (
		url     string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Fetch the current blue-market dollar rate once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := exrate.NewClient(url, timeout, a.logger.Named("exrate"))
			quote, err := client.Latest(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "USD 1 = ARS %.2f\n", quote.Rate)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", exrate.DefaultURL, "quote endpoint")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")

	return cmd
}
