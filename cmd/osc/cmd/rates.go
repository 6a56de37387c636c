package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func ratesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rates",
		Short: "Show the current exchange-rate table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rates, err := newClient().Rates(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching rates: %w", err)
			}

			if jsonOutput() {
				return outputJSON(rates)
			}
			return printRatesTable(rates)
		},
	}
}
