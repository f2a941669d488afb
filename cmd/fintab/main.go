// Command fintab extracts financial tables from HTML filings into
// validated JSON records.
package main

import (
	"os"

	"github.com/custodia-labs/fintab-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
