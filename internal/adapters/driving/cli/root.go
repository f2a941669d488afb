// Package cli implements the fintab command-line interface.
// Commands are thin driving adapters: they parse flags, wire the
// infrastructure adapters to the core services, and print results.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/fintab-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flags shared by all commands.
var (
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "fintab",
	Short: "Extract financial tables from filings into validated JSON",
	Long: `Fintab locates tables in HTML filings, extracts them into structured
records via a language model, and audits every extraction with a
deterministic financial consistency check. Failed extractions are
retried with corrective feedback before being recorded as failures.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.fintab)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion overrides the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}
