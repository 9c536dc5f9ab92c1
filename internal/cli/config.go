package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdsync/internal/configloader"
	"github.com/yaklabco/mdsync/internal/logging"
	"github.com/yaklabco/mdsync/pkg/annotate"
	"github.com/yaklabco/mdsync/pkg/config"
	goldmarkparser "github.com/yaklabco/mdsync/pkg/parser/goldmark"
	"github.com/yaklabco/mdsync/pkg/resolve"
)

// ErrConfig wraps configuration failures.
var ErrConfig = errors.New("failed to load configuration")

// loadConfig merges defaults, config files, environment and the flags in
// cliCfg. It returns the working directory alongside the config.
func loadConfig(cmd *cobra.Command, cliCfg *config.Config) (*config.Config, string, error) {
	logger := logging.Default()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("get config flag: %w", err)
	}
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return nil, "", fmt.Errorf("get env-file flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(commandContext(cmd), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		EnvFile:      envFile,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, "", errors.Join(ErrConfig, err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration loaded",
		logging.FieldFlavor, cfg.Flavor,
		logging.FieldJobs, cfg.Jobs,
		"debounce", cfg.Sync.Debounce,
		"highlight", cfg.Sync.Highlight,
	)
	return cfg, workDir, nil
}

// newEngine builds the goldmark engine for cfg.
func newEngine(cfg *config.Config) *goldmarkparser.Parser {
	return goldmarkparser.New(string(cfg.Flavor),
		goldmarkparser.WithUnsafe(cfg.Render.Unsafe),
		goldmarkparser.WithLanguageDetection(cfg.Render.DetectLanguage),
	)
}

func newResolver(cfg *config.Config) *resolve.Resolver {
	return resolve.New(resolve.Options{
		PrefixLength: cfg.Resolver.PrefixLength,
		SkipDistance: cfg.Resolver.SkipDistance,
	})
}

func newAnnotator(cfg *config.Config) *annotate.Annotator {
	return annotate.New(annotate.Options{ClassPrefix: cfg.Render.ClassPrefix})
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
