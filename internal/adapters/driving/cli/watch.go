package cli

import (
	"context"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/fintab-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/fintab-cli/internal/core/services"
	"github.com/custodia-labs/fintab-cli/internal/logger"
)

var watchOutput string

// watchSettleDelay gives the writer time to finish before a new filing is
// read. Filings are typically copied into the watched directory, and a
// Create event fires before the copy completes.
const watchSettleDelay = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Process filings as they appear in a directory",
	Long: `Watches a directory and runs the extraction pipeline on every new
filing, one file at a time. Each filing produces its own output document.
Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "output directory (default \"output\")")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	dir := args[0]

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	extensions := watchExtensions()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s for new filings. Press Ctrl-C to stop.\n", dir)

	for {
		select {
		case <-ctx.Done():
			cmd.Println("Stopping watch.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) || !hasExtension(event.Name, extensions) {
				continue
			}

			time.Sleep(watchSettleDelay)
			processWatchedFile(ctx, cmd, event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// processWatchedFile runs the full pipeline for one new filing. Failures are
// reported and swallowed so the watch keeps running.
func processWatchedFile(ctx context.Context, cmd *cobra.Command, path string) {
	name := filepath.Base(path)
	cmd.Printf("New filing: %s\n", name)

	p, err := buildPipeline(pipelineOptions{InputPath: path, OutputDir: watchOutput})
	if err != nil {
		cmd.PrintErrf("Skipping %s: %v\n", name, err)
		return
	}
	defer p.Close()

	summary, err := p.extractor.Extract(ctx, path)
	if err != nil {
		cmd.PrintErrf("Extraction failed for %s: %v\n", name, err)
		return
	}

	cmd.Printf("%s: %d tables (%d passed, %d failed), written to %s\n",
		name, summary.Tables, summary.TablesPassed, summary.TablesFailed, summary.OutputPath)
}

// watchExtensions resolves the filing extension filter from config.
func watchExtensions() []string {
	cfg, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return services.DefaultExtensions
	}
	if exts := cfg.GetStringSlice(cfgExtensions); len(exts) > 0 {
		return exts
	}
	return services.DefaultExtensions
}

func hasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
