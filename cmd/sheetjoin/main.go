// Package main provides the sheetjoin command.
package main

import (
	"os"

	"github.com/leapstack-labs/sheetjoin/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
