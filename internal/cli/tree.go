package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/rtftplint/pkg/config"
	"github.com/yaklabco/rtftplint/pkg/reporter"
)

func newTreeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tree FILE",
		Short: "Show the block structure of a template",
		Long: `Validate a template and list its structure as a tree.

Conditional blocks are listed as "If", iteration blocks as "Iteration" with
their sort key, and merge fields as "Field". An invalid template is reported
with the line of the offending directive instead.

Examples:
  rtftplint tree invoice.rtf`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := load(cmd, &config.Config{})
			if err != nil {
				return err
			}

			return validateAndReport(cmd, env, args, reportSettings{format: reporter.FormatTree})
		},
	}
}
