// Package main is the entry point for the offerscout server.
package main

import (
	"os"

	"github.com/offerscout/offerscout/cmd/offerscout/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
