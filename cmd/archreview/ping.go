package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/archreview/internal/app"
)

func newPingCmd(opts *rootOptions) *cobra.Command {
	var pf providerFlags
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Test the connection to a provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, host, err := pf.resolve()
			if err != nil {
				return err
			}
			ok, msg := app.NewOrchestrator(opts.cfg, opts.log).TestConnection(cmd.Context(), provider, host)
			out := cmd.OutOrStdout()
			if !ok {
				color.New(color.FgRed, color.Bold).Fprint(out, "✗ ")
				fmt.Fprintln(out, msg)
				return fmt.Errorf("%s is not reachable", provider)
			}
			color.New(color.FgGreen, color.Bold).Fprint(out, "✓ ")
			fmt.Fprintln(out, msg)
			return nil
		},
	}
	pf.register(cmd)
	return cmd
}
