package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rtftplint/internal/logging"
	"github.com/yaklabco/rtftplint/internal/ui/pretty"
	"github.com/yaklabco/rtftplint/pkg/config"
	"github.com/yaklabco/rtftplint/pkg/fsutil"
	"github.com/yaklabco/rtftplint/pkg/navigation"
	"github.com/yaklabco/rtftplint/pkg/runner"
)

// navigationSuffix is appended to the template name of temporary navigation documents.
const navigationSuffix = "_navigation"

type navFlags struct {
	output string
	font   string
	size   int
	labels string
}

func newNavCommand() *cobra.Command {
	flags := &navFlags{}

	cmd := &cobra.Command{
		Use:     "nav FILE",
		Aliases: []string{"navigation"},
		Short:   "Write the navigation document of a template",
		Long: `Validate a template and write its navigation document: an RTF file with
a pair of hyperlinks for every IF and WHILE block, pointing at the block's
bookmarks in the template.

Without --output the document is written to a temporary file named
<template>_navigation*.rtf. The path of the written file is printed.

Examples:
  rtftplint nav invoice.rtf
  rtftplint nav invoice.rtf -o invoice_nav.rtf
  rtftplint nav invoice.rtf --labels while`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNav(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file path (default: a temporary file)")
	cmd.Flags().StringVar(&flags.font, "font", "", "document font (default from config)")
	cmd.Flags().IntVar(&flags.size, "font-size", 0, "font size in half-points (default from config)")
	cmd.Flags().StringVar(&flags.labels, "labels", "", "labels of WHILE links: if or while (default from config)")

	return cmd
}

func runNav(cmd *cobra.Command, path string, flags *navFlags) error {
	env, err := load(cmd, &config.Config{
		Navigation: config.NavigationConfig{
			Font:            flags.font,
			FontSize:        flags.size,
			IterationLabels: flags.labels,
		},
	})
	if err != nil {
		return err
	}

	navOpts, err := navigationOptions(env.cfg)
	if err != nil {
		return err
	}

	runOpts := runner.OptionsFromConfig(env.cfg, []string{path})
	runOpts.WorkingDir = env.workDir
	runOpts.Logger = env.logger

	result, err := runner.Run(env.ctx, runOpts)
	if err != nil {
		return fmt.Errorf("validate %s: %w", path, err)
	}
	if len(result.Files) != 1 {
		// The only way to lose the file is an ignore pattern matching it.
		return usageError("%s is excluded by the ignore patterns", path)
	}

	outcome := result.Files[0]
	if outcome.Status() != runner.StatusValid {
		styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), cmd.ErrOrStderr()))
		outcome.Path = path
		fmt.Fprint(cmd.ErrOrStderr(), styles.FormatOutcome(outcome))
		fmt.Fprint(cmd.ErrOrStderr(), styles.FormatOpenBlocks(outcome))
		return ErrInvalidTemplates
	}

	content := []byte(navigation.Render(outcome.Tree, navigation.FileURL(outcome.Path), navOpts))

	written, err := writeNavigation(cmd, outcome.Path, flags.output, content)
	if err != nil {
		return withExitCode(ExitIOError, err)
	}

	env.logger.Debug("navigation document written",
		logging.FieldPath, outcome.Path,
		logging.FieldOutput, written,
	)
	fmt.Fprintln(cmd.OutOrStdout(), written)

	return nil
}

// writeNavigation writes content to output, or to a new temporary file named
// after the template when output is empty. It returns the written path.
func writeNavigation(cmd *cobra.Command, templatePath, output string, content []byte) (string, error) {
	if output != "" {
		if err := fsutil.WriteAtomic(cmd.Context(), output, content, fsutil.DefaultFileMode); err != nil {
			return "", fmt.Errorf("write navigation document: %w", err)
		}
		return output, nil
	}

	base := strings.TrimSuffix(filepath.Base(templatePath), filepath.Ext(templatePath))
	written, err := fsutil.WriteTemp(cmd.Context(), "", base+navigationSuffix+"*"+config.DefaultExtension, content)
	if err != nil {
		return "", fmt.Errorf("write navigation document: %w", err)
	}
	return written, nil
}
