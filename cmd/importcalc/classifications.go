package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Simplici0/tradeflow/internal/tariff"
)

func newClassificationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classifications QUERY",
		Short: "Search the tariff classification catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := tariff.Default()
			out := cmd.OutOrStdout()

			matches := catalog.Lookup(args[0])
			if len(matches) == 0 {
				fmt.Fprintln(out, "sin resultados")
				return nil
			}
			for _, m := range matches {
				r := catalog.RatesFor(m.Code)
				fmt.Fprintf(out, "%s\t%s\t(arancel %.0f%%, IVA %.0f%%)\n", m.Code, m.Description, r.Duty, r.VAT)
			}
			return nil
		},
	}
}
