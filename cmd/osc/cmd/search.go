package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/offerscout/offerscout/internal/api/client"
)

func searchCmd() *cobra.Command {
	var condition string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search offers across all configured marketplaces",
		Example: `  osc search "buy iPhone 15 Pro cheap"
  osc search "Sony WH-1000XM5" --condition used`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := newClient().Search(cmd.Context(), apiclient.SearchRequest{
				Query:     args[0],
				Condition: condition,
			})
			if err != nil {
				return fmt.Errorf("searching: %w", err)
			}

			if jsonOutput() {
				return outputJSON(result)
			}

			if len(result.Offers) == 0 {
				fmt.Printf("no offers found for %q\n", result.NormalizedQuery)
				return nil
			}
			return printOffersTable(result)
		},
	}
	cmd.Flags().StringVar(&condition, "condition", "", "condition filter (new, used, any)")

	return cmd
}
