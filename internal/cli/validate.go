package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rtftplint/internal/logging"
	"github.com/yaklabco/rtftplint/pkg/config"
	"github.com/yaklabco/rtftplint/pkg/reporter"
	"github.com/yaklabco/rtftplint/pkg/runner"
)

type validateFlags struct {
	format         string
	ignore         []string
	extensions     []string
	noSummary      bool
	verbose        bool
	compact        bool
	followSymlinks bool
}

func newValidateCommand(info BuildInfo) *cobra.Command {
	var cfg config.Config
	flags := &validateFlags{}

	cmd := &cobra.Command{
		Use:     "validate [paths...]",
		Aliases: []string{"check"},
		Short:   "Validate the structure of RTF templates",
		Long:    validateLongDescription,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, &cfg, flags, info)
		},
	}

	addValidateFlags(cmd, &cfg, flags)

	return cmd
}

const validateLongDescription = `Validate the block structure of RTF templates.

By default, validates all .rtf files in the current directory and
subdirectories. Specify paths to validate specific files or directories.
Files named explicitly must carry a template extension.

Examples:
  rtftplint validate                      # Validate current directory
  rtftplint validate letters/             # Validate a directory
  rtftplint validate invoice.rtf          # Validate a single template
  rtftplint validate --format json        # Output as JSON for CI
  rtftplint validate --format sarif       # Output as SARIF for code scanning
  rtftplint validate --format tree a.rtf  # Show the structure of a template`

func runValidate(cmd *cobra.Command, args []string, cliCfg *config.Config, flags *validateFlags, info BuildInfo) error {
	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return usageError("invalid format: %w", err)
	}

	// Only set values that were explicitly provided via CLI flags.
	if cmd.Flags().Changed("format") {
		cliCfg.Format = config.OutputFormat(format)
	}
	cliCfg.Ignore = flags.ignore
	cliCfg.Extensions = flags.extensions
	cliCfg.NoSummary = flags.noSummary

	env, err := load(cmd, cliCfg)
	if err != nil {
		return err
	}

	if env.cfg.Format != "" {
		format = reporter.Format(env.cfg.Format)
	}

	return validateAndReport(cmd, env, args, reportSettings{
		format:         format,
		verbose:        flags.verbose,
		compact:        flags.compact,
		followSymlinks: flags.followSymlinks,
		toolVersion:    info.Version,
	})
}

type reportSettings struct {
	format         reporter.Format
	verbose        bool
	compact        bool
	followSymlinks bool
	toolVersion    string
}

// validateAndReport runs the templates under paths through the runner and
// writes the result. It returns ErrInvalidTemplates when any template failed.
func validateAndReport(cmd *cobra.Command, env *loaded, paths []string, settings reportSettings) error {
	runOpts := runner.OptionsFromConfig(env.cfg, paths)
	runOpts.WorkingDir = env.workDir
	runOpts.FollowSymlinks = settings.followSymlinks
	runOpts.Logger = env.logger

	env.logger.Debug("starting validation run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.Run(env.ctx, runOpts)
	if err != nil {
		return fmt.Errorf("validation run failed: %w", err)
	}

	env.logger.Debug("validation finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesValid, result.Stats.FilesValid,
		logging.FieldFilesInvalid, result.Stats.FilesInvalid,
		logging.FieldFilesErrored, result.Stats.FilesErrored,
	)

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      settings.format,
		Color:       colorMode(cmd),
		ShowSummary: !env.cfg.NoSummary,
		Verbose:     settings.verbose,
		Compact:     settings.compact,
		ToolVersion: settings.toolVersion,
		WorkingDir:  env.workDir,
	})
	if err != nil {
		return usageError("create reporter: %w", err)
	}

	if _, err := rep.Report(env.ctx, result); err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("report results: %w", err))
	}

	if result.HasFailures() {
		return ErrInvalidTemplates
	}
	return nil
}

func addValidateFlags(cmd *cobra.Command, cfg *config.Config, flags *validateFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, sarif, tree")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.extensions, "extension", nil, "template file extensions (default .rtf)")
	cmd.Flags().BoolVar(&flags.noSummary, "no-summary", false, "omit the summary line")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "print the full summary block")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "follow symbolic links while walking directories")
}
