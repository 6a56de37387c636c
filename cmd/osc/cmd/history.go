package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var (
		query string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded searches",
		Example: `  osc history
  osc history --query iphone --limit 20`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := newClient().ListHistory(cmd.Context(), query, limit)
			if err != nil {
				return fmt.Errorf("fetching history: %w", err)
			}

			if jsonOutput() {
				return outputJSON(resp)
			}

			if resp.Total == 0 {
				fmt.Println("no recorded searches")
				return nil
			}
			return printHistoryTable(resp.Searches)
		},
	}
	cmd.Flags().StringVar(&query, "query", "", "substring filter on the raw query")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum records to return")

	return cmd
}
