package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/use-agent/focusmode/config"
	"github.com/use-agent/focusmode/logging"
	"github.com/use-agent/focusmode/models"
	"github.com/use-agent/focusmode/pipeline"
)

// service is the part of pipeline.Service the tools call.
type service interface {
	Simplify(ctx context.Context, req models.SimplifyRequest) (*models.SimplifyResponse, error)
	Extract(ctx context.Context, rawURL string, markdown bool) (*pipeline.Extraction, error)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	// stdout carries the MCP protocol.
	logging.Init(cfg.Log, os.Stderr)

	svc := pipeline.NewFromConfig(cfg)

	s := server.NewMCPServer(
		"focusmode",
		models.Version,
		server.WithToolCapabilities(false),
	)

	simplifyTool := mcp.NewTool("simplify_url",
		mcp.WithDescription("Fetch a web page, extract its main article and rewrite it in plain, easy-to-read language. If the AI step fails the original article text is returned with a note."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The http(s) URL of the page to simplify"),
		),
		mcp.WithString("profile",
			mcp.Description("Simplification level: 'light', 'medium' (default) or 'aggressive'"),
			mcp.Enum("light", "medium", "aggressive"),
		),
		mcp.WithString("api_key",
			mcp.Description("Your own AI provider API key. Falls back to the server's AI_API_KEY."),
		),
	)
	s.AddTool(simplifyTool, handleSimplifyURL(svc))

	extractTool := mcp.NewTool("extract_url",
		mcp.WithDescription("Fetch a web page and return its main article with navigation, ads and other clutter removed. No AI call."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The http(s) URL of the page to extract"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: 'text' (default) or 'markdown'"),
			mcp.Enum("text", "markdown"),
		),
	)
	s.AddTool(extractTool, handleExtractURL(svc))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleSimplifyURL(svc service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		resp, err := svc.Simplify(ctx, models.SimplifyRequest{
			URL:     url,
			Profile: request.GetString("profile", ""),
			APIKey:  request.GetString("api_key", ""),
		})
		if err != nil {
			return mcp.NewToolResultError(toolError(err)), nil
		}

		var b strings.Builder
		if resp.Title != "" {
			fmt.Fprintf(&b, "Title: %s\n", resp.Title)
		}
		if resp.Metadata != nil && resp.Metadata.SourceURL != "" {
			fmt.Fprintf(&b, "Source: %s\n", resp.Metadata.SourceURL)
		}
		if resp.AIError != "" {
			fmt.Fprintf(&b, "Note: [%s] %s Showing the original text.\n", resp.ErrorType, resp.AIError)
		} else if resp.Truncated {
			b.WriteString("Note: the article was shortened before simplification.\n")
		}
		b.WriteString("\n")
		b.WriteString(resp.SimplifiedText)

		return mcp.NewToolResultText(b.String()), nil
	}
}

func handleExtractURL(svc service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}
		markdown := request.GetString("format", "text") == "markdown"

		ex, err := svc.Extract(ctx, url, markdown)
		if err != nil {
			return mcp.NewToolResultError(toolError(err)), nil
		}

		body := ex.Text
		if markdown && ex.Markdown != "" {
			body = ex.Markdown
		}

		result := fmt.Sprintf("Title: %s\nSource: %s\n\n%s", ex.Title, ex.Metadata.SourceURL, body)
		return mcp.NewToolResultText(result), nil
	}
}

// toolError formats a pipeline failure as "[kind] message".
func toolError(err error) string {
	var pe *models.PipelineError
	if !errors.As(err, &pe) {
		return fmt.Sprintf("[%s] %s", models.ErrKindServer, models.MessageFor(models.ErrKindServer))
	}
	msg := fmt.Sprintf("[%s] %s", pe.Kind, pe.Message)
	if pe.PageType != "" {
		msg += fmt.Sprintf(" (page type: %s)", pe.PageType)
	}
	return msg
}
