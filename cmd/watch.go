package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chazu/armature/pkg/watcher"
)

func newWatchCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch FILE",
		Short: "Re-evaluate the arm every time FILE changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			out := cmd.OutOrStdout()

			w, err := watcher.New(path, watcher.DefaultDebounce, o.log)
			if err != nil {
				return err
			}
			changes, err := w.Start()
			if err != nil {
				return err
			}
			defer func() { _ = w.Stop() }()

			run := func() {
				result, err := o.evaluateFile(path, false)
				if err != nil {
					o.log.Warn(err)
					return
				}
				renderLinks(out, result)
			}
			run()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sig)

			for {
				select {
				case <-changes:
					fmt.Fprintf(out, "\n%s changed\n", path)
					run()
				case <-sig:
					return nil
				case <-cmd.Context().Done():
					return nil
				}
			}
		},
	}
}
