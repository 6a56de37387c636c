// Package main is the entry point for the osc CLI client.
package main

import "github.com/offerscout/offerscout/cmd/osc/cmd"

func main() {
	cmd.Execute()
}
