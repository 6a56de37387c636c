package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/offerscout/offerscout/internal/rates"
	"github.com/offerscout/offerscout/pkg/logger"
)

// ratesCmd fetches the exchange-rate table in-process, bypassing the API
// server. Handy for checking a rates API key.
func init() {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Fetch and print the current exchange-rate table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRates(cmd, jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the raw JSON table")

	rootCmd.AddCommand(cmd)
}

func runRates(cmd *cobra.Command, jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := newLogger(cfg)

	cache := rates.New(cfg.Rates.APIKey, cfg.Search.TargetCurrency,
		rates.WithBaseURL(cfg.Rates.BaseURL),
		rates.WithTTL(cfg.Rates.TTL),
		rates.WithLogger(logger.Component(log, "rates")),
	)

	table := cache.Rates(cmd.Context())

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(table)
	}

	if table.Empty() {
		fmt.Printf("no rates available; conversions to %s fall back to identity\n",
			cfg.Search.TargetCurrency)
		return nil
	}

	currencies := make([]string, 0, len(table.Rates))
	for cur := range table.Rates {
		currencies = append(currencies, cur)
	}
	sort.Strings(currencies)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "CURRENCY\tPER 1 %s\n", table.Target)
	for _, cur := range currencies {
		fmt.Fprintf(tw, "%s\t%.4f\n", cur, table.Rates[cur])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d currencies, fetched %s\n",
		len(table.Rates), table.FetchedAt.Format("2006-01-02 15:04:05 MST"))
	return nil
}
