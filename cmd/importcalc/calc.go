package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Simplici0/tradeflow/internal/config"
	"github.com/Simplici0/tradeflow/internal/tariff"
	"github.com/Simplici0/tradeflow/internal/view"
)

type calcOptions struct {
	fob             string
	freight         string
	insurance       string
	sets            []string
	scenario        string
	classification  string
	rate            float64
	includeNational bool
	format          string
}

func newCalcCmd(a *app) *cobra.Command {
	opts := &calcOptions{}

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Run the cost pipeline and print the summary",
		Long: `Run the cost pipeline and print the summary.

--set takes any page field id, e.g. --set antidumping=45 --set antidumping-tipo=absolute.
A --classification overrides the duty and VAT fields with the catalog rates.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(cmd, a, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.fob, "fob", "", "FOB value in USD")
	flags.StringVar(&opts.freight, "freight", "", "international freight in USD")
	flags.StringVar(&opts.insurance, "insurance", "", "international insurance in USD")
	flags.StringArrayVar(&opts.sets, "set", nil, "field=value pairs (repeatable)")
	flags.StringVar(&opts.scenario, "scenario", "", "preset to apply: base, premium or express")
	flags.StringVar(&opts.classification, "classification", "", "tariff position code")
	flags.Float64Var(&opts.rate, "rate", 0, "USD to ARS rate; shows converted totals when positive")
	flags.BoolVar(&opts.includeNational, "include-national-taxes", false, "add VAT and withholdings to the total")
	flags.StringVar(&opts.format, "format", "text", "output format (text, json)")

	return cmd
}

func runCalc(cmd *cobra.Command, a *app, opts *calcOptions) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unknown format %q", opts.format)
	}

	fields := map[string]string{}
	for _, kv := range opts.sets {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return fmt.Errorf("invalid --set %q: want field=value", kv)
		}
		fields[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	setIfChanged(cmd, fields, "fob", view.FieldFOB, opts.fob)
	setIfChanged(cmd, fields, "freight", view.FieldFreight, opts.freight)
	setIfChanged(cmd, fields, "insurance", view.FieldInsurance, opts.insurance)

	catalog := tariff.Default()
	form := view.NewStandardForm()
	c := view.NewController(form, catalog, view.Options{
		FallbackRate:         config.Defaults().FallbackRate,
		IncludeNationalTaxes: opts.includeNational,
		Logger:               a.logger.Named("calc"),
	})

	c.EditFields(fields)
	if opts.scenario != "" {
		c.SelectScenario(opts.scenario)
	}
	if opts.classification != "" {
		description := ""
		for _, m := range catalog.Lookup(opts.classification) {
			if m.Code == opts.classification {
				description = m.Description
				break
			}
		}
		c.SelectClassification(opts.classification, description)
	}
	if opts.rate > 0 {
		c.ApplyRate(opts.rate)
	}

	v := c.View()
	out := cmd.OutOrStdout()

	if opts.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	for _, id := range view.StandardDisplays() {
		text := v.Surface.Texts[id]
		if text == "" {
			continue
		}
		fmt.Fprintf(out, "%-30s %s\n", id, text)
	}
	return nil
}

func setIfChanged(cmd *cobra.Command, fields map[string]string, flag, id, value string) {
	if cmd.Flags().Changed(flag) {
		fields[id] = value
	}
}
