package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/archreview/internal/app"
)

func newModelsCmd(opts *rootOptions) *cobra.Command {
	var (
		pf   providerFlags
		live bool
	)
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the models a provider offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, host, err := pf.resolve()
			if err != nil {
				return err
			}
			orch := app.NewOrchestrator(opts.cfg, opts.log)
			out := cmd.OutOrStdout()

			if live {
				list, err := orch.ListModels(cmd.Context(), provider, host)
				if err != nil {
					return err
				}
				for _, m := range list {
					fmt.Fprintln(out, m)
				}
				return nil
			}
			list, warning := orch.AvailableModels(cmd.Context(), provider, host)
			if warning != "" {
				color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "⚠ %s\n", warning)
			}
			for _, m := range list {
				fmt.Fprintln(out, m)
			}
			return nil
		},
	}
	pf.register(cmd)
	cmd.Flags().BoolVar(&live, "live", false, "Query the provider instead of using the configured cloud list")
	return cmd
}
