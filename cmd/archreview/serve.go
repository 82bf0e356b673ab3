package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/archreview/internal/app"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web UI and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				opts.cfg.Addr = addr
			}
			if opts.cfg.GoogleAPIKey == "" {
				opts.log.Warn("GOOGLE_API_KEY not set; only the local provider is available")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.Serve(ctx, opts.cfg, opts.log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides ARCHREVIEW_ADDR)")
	return cmd
}
