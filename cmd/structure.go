package cmd

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/chazu/armature/pkg/arm"
)

var exampleForStructureCmd = `armature structure examples/three_link.arm
armature structure examples/three_link.arm -o yaml
`

func newStructureCmd(o *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "structure FILE",
		Short:   "Describe every link in identifier order",
		Example: exampleForStructureCmd,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := o.evaluateFile(args[0], false)
			if err != nil {
				return err
			}
			return writeStructure(cmd.OutOrStdout(), result.Manipulator.Structure(), output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, yaml or json")
	return cmd
}

func writeStructure(w io.Writer, infos []arm.LinkInfo, format string) error {
	switch format {
	case "table":
		table := tablewriter.NewWriter(w)
		table.SetAutoWrapText(false)
		table.SetHeader([]string{"link", "kind", "prev", "length", "pitch", "yaw", "roll", "description"})
		for _, li := range infos {
			table.Append([]string{
				strconv.Itoa(int(li.ID)), li.Kind, li.Prev.String(), formatFloat(li.Length),
				formatFloat(li.Direction.Pitch), formatFloat(li.Direction.Yaw), formatFloat(li.Direction.Roll),
				li.Description,
			})
		}
		table.Render()
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(infos); err != nil {
			return errors.Wrap(err, "encoding yaml")
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(infos), "encoding json")
	default:
		return errors.Errorf("unknown output format %q (want table, yaml or json)", format)
	}
}
