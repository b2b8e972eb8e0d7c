package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/chazu/armature/pkg/app"
)

var exampleForEvalCmd = `armature eval examples/three_link.arm
`

func newEvalCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "eval FILE",
		Short:   "Resolve and print the position of every link",
		Example: exampleForEvalCmd,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := o.evaluateFile(args[0], false)
			if err != nil {
				return err
			}
			renderLinks(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

// renderLinks prints one row per link and one per photo taken.
func renderLinks(w io.Writer, result app.Result) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"link", "kind", "prev", "x", "y", "z", "status"})
	for _, l := range result.Links {
		if l.Error != "" {
			table.Append([]string{strconv.Itoa(l.ID), l.Kind, strconv.Itoa(l.Prev), "-", "-", "-", l.Error})
			continue
		}
		table.Append([]string{
			strconv.Itoa(l.ID), l.Kind, strconv.Itoa(l.Prev),
			formatFloat(l.End.X), formatFloat(l.End.Y), formatFloat(l.End.Z),
			"ok",
		})
	}
	table.Render()

	for _, s := range result.Snapshots {
		fmt.Fprintf(w, "photo %d from link %d at (%s, %s, %s)\n",
			s.Seq, s.Link, formatFloat(s.At.X), formatFloat(s.At.Y), formatFloat(s.At.Z))
	}
}
