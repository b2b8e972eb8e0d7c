package cmd

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/chazu/armature/pkg/arm"
)

func newValidateCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check the arm for broken chains, loops, orientation limits and collisions",
		Long:  `validate reports every problem found in the arm. It exits non-zero when any finding is an error; warnings alone do not fail.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := o.evaluateFile(args[0], false)
			if err != nil {
				return err
			}

			findings := arm.Validate(result.Manipulator)
			renderFindings(cmd.OutOrStdout(), findings)
			return findings.Err()
		},
	}
}

func renderFindings(w io.Writer, findings arm.ValidationErrors) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "no problems found")
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"severity", "link", "problem"})
	for _, f := range findings {
		table.Append([]string{f.Severity.String(), f.Link.String(), f.Message})
	}
	table.Render()
}
