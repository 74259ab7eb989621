package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/use-agent/focusmode/config"
	"github.com/use-agent/focusmode/logging"
	"github.com/use-agent/focusmode/models"
	"github.com/use-agent/focusmode/pipeline"
)

var rootCmd = &cobra.Command{
	Use:   "focusmode-cli",
	Short: "Focus Mode: distraction-free, simplified reading from the command line",
	Long: `focusmode-cli fetches a web page, strips navigation, ads and other clutter,
and optionally rewrites the article in plain language with an AI provider.

Usage:
  focusmode-cli extract <url> [--markdown]
  focusmode-cli simplify <url> [--profile light|medium|aggressive] [--api-key KEY]`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newService loads configuration and builds the pipeline. Logs go to stderr
// so stdout holds only JSON.
func newService() (*pipeline.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Init(cfg.Log, os.Stderr)
	return pipeline.NewFromConfig(cfg), nil
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// writeFailure prints err as a failed response and returns an error carrying
// its kind, so the process exits non-zero.
func writeFailure(w io.Writer, err error) error {
	var pe *models.PipelineError
	if !errors.As(err, &pe) {
		pe = models.NewPipelineError(models.ErrKindServer, "", err)
	}
	resp := models.FailureResponse(pe.Kind, pe.Message)
	resp.PageType = pe.PageType
	if werr := writeJSON(w, resp); werr != nil {
		return werr
	}
	return fmt.Errorf("%s: %s", resp.ErrorType, resp.Error)
}
