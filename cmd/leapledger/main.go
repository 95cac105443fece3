// Package main provides the CLI for the LeapLedger customer billing ledger.
package main

import (
	"os"

	"github.com/leapstack-labs/leapledger/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
