// Package main is the entry point for the vat-calc CLI.
package main

import (
	"os"

	"vat-calc/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
