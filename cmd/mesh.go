package cmd

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var exampleForMeshCmd = `armature mesh examples/three_link.arm -o arm.json
`

func newMeshCmd(o *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "mesh FILE",
		Short:   "Tessellate the arm and write links and meshes as JSON",
		Example: exampleForMeshCmd,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := o.evaluateFile(args[0], true)
			if err != nil {
				return err
			}

			data, err := json.Marshal(result)
			if err != nil {
				return errors.Wrap(err, "encoding meshes")
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrapf(err, "writing %s", output)
			}
			o.log.Infof("wrote %d meshes to %s", len(result.Meshes), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	return cmd
}
