package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	configfile "github.com/custodia-labs/fintab-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/fintab-cli/internal/adapters/driven/llm"
	"github.com/custodia-labs/fintab-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/fintab-cli/internal/adapters/driven/storage/jsonfile"
	"github.com/custodia-labs/fintab-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/fintab-cli/internal/core/ports/driven"
	"github.com/custodia-labs/fintab-cli/internal/core/services"
	"github.com/custodia-labs/fintab-cli/internal/locator/htmltable"
	"github.com/custodia-labs/fintab-cli/internal/logger"
)

// Configuration keys understood by fintab.
const (
	cfgAPIKey            = "llm.api_key"
	cfgModel             = "llm.model"
	cfgBaseURL           = "llm.base_url"
	cfgTimeoutSeconds    = "llm.timeout_seconds"
	cfgRequestsPerSecond = "llm.requests_per_second"
	cfgOutputDir         = "output.dir"
	cfgExtensions        = "extract.extensions"
	cfgCheckpoints       = "extract.checkpoints"
)

// apiKeyEnv is the environment fallback when llm.api_key is not configured.
const apiKeyEnv = "OPENAI_API_KEY"

// pipelineOptions carries the per-command overrides for buildPipeline.
type pipelineOptions struct {
	// InputPath is the filing file or directory to process.
	InputPath string

	// OutputDir overrides the configured output directory when non-empty.
	OutputDir string

	// Model overrides the configured model when non-empty.
	Model string

	// Resume replays the newest incomplete checkpointed run.
	Resume bool
}

// pipeline is a fully wired extraction pipeline plus its cleanup.
type pipeline struct {
	extractor   *services.BatchExtractor
	checkpoints driven.CheckpointStore
}

// Close releases pipeline resources.
func (p *pipeline) Close() {
	if p.checkpoints != nil {
		if err := p.checkpoints.Close(); err != nil {
			logger.Warn("Failed to close checkpoint store: %v", err)
		}
	}
}

// buildPipeline wires config, gateway, locator, session, sink and optional
// checkpoint journal into a batch extractor for the given input.
func buildPipeline(opts pipelineOptions) (*pipeline, error) {
	cfg, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	info, err := os.Stat(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("invalid input path: %w", err)
	}

	apiKey := cfg.GetString(cfgAPIKey)
	if apiKey == "" {
		apiKey = os.Getenv(apiKeyEnv)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no API key: set %s in %s or export %s", cfgAPIKey, cfg.Path(), apiKeyEnv)
	}

	model := opts.Model
	if model == "" {
		model = cfg.GetString(cfgModel)
	}

	limiterCfg := llm.DefaultRateLimit
	if rps := cfg.GetFloat(cfgRequestsPerSecond); rps > 0 {
		limiterCfg.RequestsPerSecond = rps
	}

	var timeout time.Duration
	if secs := cfg.GetInt(cfgTimeoutSeconds); secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}

	gateway, err := openai.New(openai.Config{
		APIKey:  apiKey,
		BaseURL: cfg.GetString(cfgBaseURL),
		Model:   model,
		Timeout: timeout,
		Limiter: llm.NewRateLimiterWithConfig(limiterCfg),
	})
	if err != nil {
		return nil, fmt.Errorf("configure model gateway: %w", err)
	}

	prompts, err := configfile.NewPromptStore(promptDir())
	if err != nil {
		return nil, fmt.Errorf("configure prompt store: %w", err)
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = cfg.GetString(cfgOutputDir)
	}
	sink := jsonfile.New(outputDir, opts.InputPath, info.IsDir())

	var checkpoints driven.CheckpointStore
	if opts.Resume || cfg.GetBool(cfgCheckpoints) {
		store, err := sqlite.NewCheckpointStore(dataDir())
		if err != nil {
			return nil, fmt.Errorf("open checkpoint store: %w", err)
		}
		checkpoints = store
	}

	session := services.NewSession(gateway, services.NewFinancialValidator(), prompts)
	extractor := services.NewBatchExtractor(htmltable.New(), session, sink, services.BatchOptions{
		Checkpoints: checkpoints,
		Extensions:  cfg.GetStringSlice(cfgExtensions),
		Resume:      opts.Resume,
	})

	logger.Info("Using model %s", gateway.ModelName())
	return &pipeline{extractor: extractor, checkpoints: checkpoints}, nil
}

// promptDir resolves the prompt template directory, honouring --config-dir.
func promptDir() string {
	if configDir == "" {
		return ""
	}
	return filepath.Join(configDir, "prompts")
}

// dataDir resolves the checkpoint database directory, honouring --config-dir.
func dataDir() string {
	if configDir == "" {
		return ""
	}
	return filepath.Join(configDir, "data")
}
