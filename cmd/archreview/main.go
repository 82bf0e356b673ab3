package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/archreview/internal/config"
	"github.com/example/archreview/internal/logging"
)

var version = "dev" // Overwritten at build time

// errAnalysisFailed is returned after a failed result has already been printed.
var errAnalysisFailed = errors.New("analysis failed")

type rootOptions struct {
	envFile string
	verbose bool

	cfg *config.Config
	log *zap.Logger
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errAnalysisFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "archreview",
		Short: "AI review of system architecture plans",
		Long: `archreview sends an architecture plan to Google GenAI or a local
LM Studio server and reports strengths, risks ranked by severity and
actionable next steps.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if opts.envFile != "" {
				files = append(files, opts.envFile)
			}
			cfg, err := config.Load(files...)
			if err != nil {
				return err
			}
			level := cfg.LogLevel
			if opts.verbose {
				level = "debug"
			} else if cmd.Name() != "serve" {
				// keep the terminal for the report
				level = "warn"
			}
			log, err := logging.New(level, cfg.LogFormat)
			if err != nil {
				return err
			}
			opts.cfg, opts.log = cfg, log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Load settings from this .env file (default .env)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newAnalyzeCmd(opts),
		newModelsCmd(opts),
		newPingCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "archreview version %s\n", version)
		},
	}
}
