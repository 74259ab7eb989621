package main

import (
	"github.com/spf13/cobra"
	"github.com/use-agent/focusmode/models"
)

var flagMarkdown bool

var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Extract the main article of a page without calling an AI provider",
	Long: `Extract fetches the page (falling back to the relay on failure), removes
clutter and prints the article text as JSON.

Examples:
  focusmode-cli extract https://en.wikipedia.org/wiki/Dyslexia
  focusmode-cli extract https://example.com/post --markdown`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Include the article as Markdown")
}

func runExtract(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ex, err := svc.Extract(cmd.Context(), args[0], flagMarkdown)
	if err != nil {
		return writeFailure(out, err)
	}

	return writeJSON(out, models.ExtractResponse{
		Success:          true,
		Title:            ex.Title,
		OriginalText:     ex.Text,
		OriginalMarkdown: ex.Markdown,
		Metadata:         &ex.Metadata,
		Strategy:         ex.Strategy,
		UsedFallback:     ex.UsedFallback,
	})
}
