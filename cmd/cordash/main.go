// Package main provides the entry point for the cordash command-line interface.
package main

import (
	"os"

	"github.com/corops/cordash/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
