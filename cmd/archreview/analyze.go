package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/archreview/internal/app"
	"github.com/example/archreview/internal/models"
	"github.com/example/archreview/internal/orchestrator"
	"github.com/example/archreview/internal/planfile"
	"github.com/example/archreview/internal/providers/llm"
	"github.com/example/archreview/internal/report"
)

type providerFlags struct {
	provider string
	host     string
}

func (p *providerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&p.provider, "provider", "p", "cloud", "Provider: cloud (Google GenAI) or local (LM Studio)")
	cmd.Flags().StringVar(&p.host, "host", "", "LM Studio host:port (default ARCHREVIEW_LOCAL_HOST)")
}

func (p *providerFlags) resolve() (models.Provider, *models.HostConfig, error) {
	provider, err := models.ParseProvider(p.provider)
	if err != nil {
		return "", nil, err
	}
	if provider != models.ProviderLocal || p.host == "" {
		return provider, nil, nil
	}
	hc, err := llm.ParseHostPort(p.host)
	if err != nil {
		return "", nil, err
	}
	return provider, &hc, nil
}

var stateLabels = map[orchestrator.State]string{
	orchestrator.StateValidating:       " Checking plan...",
	orchestrator.StateDispatching:      " Connecting to provider...",
	orchestrator.StateAwaitingResponse: " Analyzing with AI...",
	orchestrator.StateFormatting:       " Formatting report...",
}

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var (
		pf           providerFlags
		model        string
		outputFormat string
	)
	cmd := &cobra.Command{
		Use:   "analyze [FILE|-]",
		Short: "Review an architecture plan",
		Long: `Review an architecture plan read from FILE (markdown, text, HTML or PDF)
or from standard input.

Examples:
  # Review a markdown plan with Gemini
  archreview analyze plan.md

  # Use a model loaded in LM Studio on another machine
  archreview analyze plan.md -p local --host 192.168.1.20:1234

  # Pipe a plan in and keep the JSON result
  cat plan.md | archreview analyze - -o json > review.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(outputFormat)
			if err != nil {
				return err
			}
			provider, host, err := pf.resolve()
			if err != nil {
				return err
			}
			src := "-"
			if len(args) == 1 {
				src = args[0]
			}
			plan, err := readPlan(cmd.InOrStdin(), src, opts.cfg.MaxUploadBytes)
			if err != nil {
				return err
			}

			s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
			orch := app.NewOrchestrator(opts.cfg, opts.log).WithObserver(func(_ string, st orchestrator.State) {
				if label, ok := stateLabels[st]; ok {
					s.Lock()
					s.Suffix = label
					s.Unlock()
					s.Start()
					return
				}
				s.Stop()
			})
			res := orch.Analyze(cmd.Context(), models.AnalysisRequest{
				PlanText: plan,
				Provider: provider,
				Model:    model,
				Host:     host,
			})
			s.Stop()

			if format == report.FormatHuman && res.OK() {
				color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "✓ Analysis complete in %s\n", time.Duration(res.DurationMS)*time.Millisecond)
			}
			if err := report.Write(cmd.OutOrStdout(), format, res); err != nil {
				return err
			}
			if !res.OK() {
				return errAnalysisFailed
			}
			return nil
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVarP(&model, "model", "m", "", "Model name (default: provider default)")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "human", "Output format (human, json, yaml, markdown, html)")
	return cmd
}

// readPlan loads the plan from a file or, for "-", from stdin.
func readPlan(stdin io.Reader, src string, maxBytes int) (string, error) {
	var (
		data []byte
		err  error
		name = src
	)
	if src == "-" {
		data, err = io.ReadAll(io.LimitReader(stdin, int64(maxBytes)+1))
		name = "stdin.md"
	} else {
		var f *os.File
		f, err = os.Open(src)
		if err != nil {
			return "", err
		}
		defer f.Close()
		data, err = io.ReadAll(io.LimitReader(f, int64(maxBytes)+1))
		name = filepath.Base(src)
	}
	if err != nil {
		return "", fmt.Errorf("read plan: %w", err)
	}
	return planfile.Extract(name, "", data, maxBytes)
}
