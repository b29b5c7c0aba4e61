package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/rtftplint/internal/configloader"
	"github.com/yaklabco/rtftplint/internal/logging"
	"github.com/yaklabco/rtftplint/pkg/config"
	"github.com/yaklabco/rtftplint/pkg/navigation"
)

// loaded is the resolved environment of a command.
type loaded struct {
	ctx     context.Context
	logger  *log.Logger
	cfg     *config.Config
	workDir string
}

// load resolves the working directory and the layered configuration, with
// cliCfg holding the values set by command flags.
func load(cmd *cobra.Command, cliCfg *config.Config) (*loaded, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.FromContext(ctx)

	// Get the explicit config path from the root command's persistent flag.
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		Logger:       logger,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, withExitCode(ExitConfigError, errors.Join(errors.New("failed to load configuration"), err))
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	cfg := loadResult.Config
	logger.Debug("configuration loaded",
		logging.FieldConfig, loadResult.LoadedFrom,
		logging.FieldJobs, cfg.Jobs,
		logging.FieldFormat, cfg.Format,
	)

	return &loaded{ctx: ctx, logger: logger, cfg: cfg, workDir: workDir}, nil
}

// navigationOptions converts the navigation section of cfg.
func navigationOptions(cfg *config.Config) (navigation.Options, error) {
	labels, err := navigation.ParseLabelStyle(cfg.Navigation.IterationLabels)
	if err != nil {
		return navigation.Options{}, withExitCode(ExitConfigError, err)
	}

	return navigation.Options{
		Font:            cfg.Navigation.Font,
		FontSize:        cfg.Navigation.FontSize,
		IterationLabels: labels,
	}, nil
}

// colorMode returns the value of the persistent --color flag.
func colorMode(cmd *cobra.Command) string {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return "auto"
	}
	return mode
}

// exactArgs is cobra.ExactArgs with a usage exit code.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return withExitCode(ExitInvalidUsage, cobra.ExactArgs(n)(cmd, args))
	}
}
