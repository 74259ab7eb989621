package main

import (
	"github.com/spf13/cobra"
	"github.com/use-agent/focusmode/models"
)

var (
	flagProfile         string
	flagAPIKey          string
	flagIncludeMarkdown bool
)

var simplifyCmd = &cobra.Command{
	Use:   "simplify <url>",
	Short: "Extract a page and rewrite it in plain language",
	Long: `Simplify runs the full pipeline: fetch, extract, truncate and ask the
configured AI provider for a plain-language version. When the provider fails
the original text is returned together with ai_error.

The provider key comes from --api-key, or AI_API_KEY when the flag is empty.

Examples:
  focusmode-cli simplify https://example.com/post
  focusmode-cli simplify https://example.com/post --profile aggressive --api-key sk-or-...`,
	Args: cobra.ExactArgs(1),
	RunE: runSimplify,
}

func init() {
	rootCmd.AddCommand(simplifyCmd)
	simplifyCmd.Flags().StringVar(&flagProfile, "profile", "medium", "Simplification level: light, medium or aggressive")
	simplifyCmd.Flags().StringVar(&flagAPIKey, "api-key", "", "Your AI provider API key")
	simplifyCmd.Flags().BoolVar(&flagIncludeMarkdown, "markdown", false, "Include the original article as Markdown")
}

func runSimplify(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	resp, err := svc.Simplify(cmd.Context(), models.SimplifyRequest{
		URL:             args[0],
		APIKey:          flagAPIKey,
		Profile:         flagProfile,
		IncludeMarkdown: flagIncludeMarkdown,
	})
	if err != nil {
		return writeFailure(out, err)
	}
	return writeJSON(out, resp)
}
