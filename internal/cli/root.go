// Package cli provides the Cobra command structure for rtftplint.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rtftplint/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root rtftplint command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "rtftplint",
		Short: "Structure validator for RTF merge templates",
		Long: `rtftplint checks the block structure of RTF documents used as merge templates.

Templates mark conditional blocks with IF_<key>/ENDIF_<key> bookmarks, iteration
blocks with WHILE_<key>/ENDWHILE_<key> bookmarks, sort keys with SORT_<key>, and
values with MERGEFIELD fields. rtftplint rebuilds the nesting these directives
imply, reports mismatched or unclosed blocks with their line, and can list the
structure or write a navigation document linking to every block.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "info"
			if debug {
				level = "debug"
			}
			logger := logging.New(level)
			logger.SetOutput(cmd.ErrOrStderr())
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withExitCode(ExitInvalidUsage, err)
	})

	// Add subcommands.
	rootCmd.AddCommand(newValidateCommand(info))
	rootCmd.AddCommand(newTreeCommand())
	rootCmd.AddCommand(newNavCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
