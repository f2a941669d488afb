package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	extractOutput string
	extractModel  string
	extractResume bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <path>",
	Short: "Extract financial tables from a filing or directory of filings",
	Long: `Processes a single filing or every filing in a directory. Each
significant table is extracted via the language model and audited for
financial consistency; all results are written to one JSON document.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "output directory (default \"output\")")
	extractCmd.Flags().StringVar(&extractModel, "model", "", "model identifier (default from config)")
	extractCmd.Flags().BoolVar(&extractResume, "resume", false, "resume the newest incomplete run for this input")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	// Usage is only shown for argument errors, which are caught before RunE.
	cmd.SilenceUsage = true

	p, err := buildPipeline(pipelineOptions{
		InputPath: args[0],
		OutputDir: extractOutput,
		Model:     extractModel,
		Resume:    extractResume,
	})
	if err != nil {
		return err
	}
	defer p.Close()

	summary, err := p.extractor.Extract(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if summary.Resumed {
		cmd.Printf("Resumed run %s.\n", summary.RunID)
	}
	cmd.Printf("Processed %d files (%d skipped), %d tables: %d passed, %d failed.\n",
		summary.Files, summary.FilesFailed, summary.Tables, summary.TablesPassed, summary.TablesFailed)
	cmd.Printf("Results written to %s\n", summary.OutputPath)
	return nil
}
