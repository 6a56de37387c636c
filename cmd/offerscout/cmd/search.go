package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/offerscout/offerscout/internal/aggregator"
	"github.com/offerscout/offerscout/internal/rates"
	"github.com/offerscout/offerscout/pkg/logger"
	domain "github.com/offerscout/offerscout/pkg/types"
)

// searchCmd runs one aggregated search in-process, without the API server.
// Useful for trying out a config before deploying.
func init() {
	var (
		condition  string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a one-shot aggregated search",
		Example: `  offerscout search "buy iPhone 15 Pro cheap"
  offerscout search "Sony WH-1000XM5" --condition new --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args[0], condition, jsonOutput)
		},
	}
	cmd.Flags().StringVar(&condition, "condition", "any", "condition filter (new, used, any)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the raw JSON result")

	rootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, query, condition string, jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	filter, err := domain.ParseConditionFilter(condition)
	if err != nil {
		return err
	}

	log := newLogger(cfg)

	cache := rates.New(cfg.Rates.APIKey, cfg.Search.TargetCurrency,
		rates.WithBaseURL(cfg.Rates.BaseURL),
		rates.WithTTL(cfg.Rates.TTL),
		rates.WithLogger(logger.Component(log, "rates")),
	)

	adapters := buildAdapters(cfg, log)
	if len(adapters) == 0 {
		return errors.New("no offer sources configured")
	}

	agg := aggregator.New(adapters, cache, cfg.Search.TargetCurrency,
		aggregator.WithSourceTimeout(cfg.Search.SourceTimeout),
		aggregator.WithLogger(logger.Component(log, "aggregator")),
	)

	result, err := agg.Search(cmd.Context(), query, filter)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	return printResult(&result, cfg.Search.TargetCurrency)
}

func printResult(res *domain.Result, target string) error {
	if len(res.Offers) == 0 {
		fmt.Printf("no offers found for %q\n", res.NormalizedQuery)
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "SOURCE\tTITLE\tCONDITION\tPRICE\tTOTAL (%s)\n", target)
	for i := range res.Offers {
		o := &res.Offers[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\n",
			o.Source, truncate(o.Title, 50), o.Condition, o.PriceInfo, o.TotalCost)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d offers, best %.2f %s from %s, mean %.2f %s\n",
		res.Stats.Count,
		res.Stats.MinTotal, target, res.Stats.TopSource,
		res.Stats.MeanTotal, target,
	)
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
