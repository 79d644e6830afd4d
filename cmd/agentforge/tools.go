package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newToolsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tools offered to the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.setup(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			out := cmd.OutOrStdout()
			for _, spec := range app.Agent.Tools() {
				fmt.Fprintf(out, "%s\n  %s\n", spec.Name, spec.Description)
				for _, p := range spec.Parameters {
					req := ""
					if p.Required {
						req = ", required"
					}
					fmt.Fprintf(out, "    - %s (%s%s): %s\n", p.Name, p.Type, req, p.Description)
				}
			}
			return nil
		},
	}
}
