// Package main provides the entry point for the callsearch CLI.
package main

import (
	"fmt"
	"os"

	"github.com/susanpikesquare/crmoverlay-sub005/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
