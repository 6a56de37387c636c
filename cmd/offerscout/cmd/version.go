package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is overridden at build time via ldflags.
var Version = "dev"

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("offerscout %s\n", Version)
		},
	}
}
