package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/use-agent/focusmode/models"
	"github.com/use-agent/focusmode/pipeline"
)

var (
	flagRuns   int
	flagOutput string
)

type benchTarget struct {
	Label string
	URL   string
}

// benchURLs cover the layouts the extraction cascade distinguishes.
var benchURLs = []benchTarget{
	{"Static", "https://example.com"},
	{"Encyclopedia", "https://en.wikipedia.org/wiki/Dyslexia"},
	{"Blog", "https://go.dev/blog/go1.21"},
	{"Docs", "https://go.dev/doc/effective_go"},
	{"News", "https://www.bbc.com/news"},
}

var benchCmd = &cobra.Command{
	Use:   "bench [url...]",
	Short: "Measure fetch and extraction over a set of pages",
	Long: `Bench runs fetch and extraction (no AI call) several times per URL and
reports latency, the strategy that won, fallback use and token savings.
Without arguments a built-in set of site types is used.

Examples:
  focusmode-cli bench
  focusmode-cli bench https://example.com/post --runs 5 --output results.json`,
	RunE: runBench,
}

func init() {
	rootCmd.AddCommand(benchCmd)
	benchCmd.Flags().IntVar(&flagRuns, "runs", 3, "Number of runs per URL for averaging")
	benchCmd.Flags().StringVar(&flagOutput, "output", "", "Write the JSON report to this file")
}

// --- Benchmark result types ---

type runResult struct {
	Run          int     `json:"run"`
	TotalMs      int64   `json:"total_ms"`
	Strategy     string  `json:"strategy,omitempty"`
	UsedFallback bool    `json:"used_fallback"`
	SourceTokens int     `json:"source_tokens"`
	Tokens       int     `json:"tokens"`
	Savings      float64 `json:"savings_percent"`
	TextLength   int     `json:"text_length"`
	HasTitle     bool    `json:"has_title"`
	Success      bool    `json:"success"`
	ErrorType    string  `json:"error_type,omitempty"`
	PageType     string  `json:"page_type,omitempty"`
}

type urlAverages struct {
	TotalMs    float64 `json:"total_ms"`
	Savings    float64 `json:"savings_percent"`
	TextLength float64 `json:"text_length"`
}

type urlResult struct {
	URL      string       `json:"url"`
	Label    string       `json:"label"`
	Runs     []runResult  `json:"runs"`
	Averages *urlAverages `json:"averages,omitempty"`
}

type benchReport struct {
	Timestamp  string      `json:"timestamp"`
	RunsPerURL int         `json:"runs_per_url"`
	Results    []urlResult `json:"results"`
}

// extractor is the part of pipeline.Service the benchmark drives.
type extractor interface {
	Extract(ctx context.Context, rawURL string, markdown bool) (*pipeline.Extraction, error)
}

func runBench(cmd *cobra.Command, args []string) error {
	if flagRuns < 1 {
		return fmt.Errorf("--runs must be at least 1")
	}
	svc, err := newService()
	if err != nil {
		return err
	}

	targets := benchURLs
	if len(args) > 0 {
		targets = make([]benchTarget, 0, len(args))
		for _, u := range args {
			targets = append(targets, benchTarget{Label: "Custom", URL: u})
		}
	}

	out := cmd.OutOrStdout()
	report := benchReport{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		RunsPerURL: flagRuns,
	}

	for _, t := range targets {
		fmt.Fprintf(out, "Benchmarking [%s] %s ...\n", t.Label, t.URL)
		ur := urlResult{URL: t.URL, Label: t.Label}
		for i := 1; i <= flagRuns; i++ {
			rr := benchURL(cmd.Context(), svc, t.URL, i)
			if rr.Success {
				fmt.Fprintf(out, "  Run %d/%d ... OK  %dms  %s  %.1f%% saved\n", i, flagRuns, rr.TotalMs, rr.Strategy, rr.Savings)
			} else {
				fmt.Fprintf(out, "  Run %d/%d ... FAILED: %s %s\n", i, flagRuns, rr.ErrorType, rr.PageType)
			}
			ur.Runs = append(ur.Runs, rr)
		}
		ur.Averages = computeAverages(ur.Runs)
		report.Results = append(report.Results, ur)
	}

	fmt.Fprintln(out)
	printTable(out, report.Results)

	if flagOutput == "" {
		return nil
	}
	f, err := os.Create(flagOutput)
	if err != nil {
		return fmt.Errorf("bench: create report: %w", err)
	}
	defer f.Close()
	if err := writeJSON(f, report); err != nil {
		return fmt.Errorf("bench: write report: %w", err)
	}
	fmt.Fprintf(out, "\nDetailed results written to %s\n", flagOutput)
	return nil
}

func benchURL(ctx context.Context, svc extractor, url string, run int) runResult {
	rr := runResult{Run: run}

	start := time.Now()
	ex, err := svc.Extract(ctx, url, false)
	rr.TotalMs = time.Since(start).Milliseconds()

	if err != nil {
		var pe *models.PipelineError
		if errors.As(err, &pe) {
			rr.ErrorType = pe.Kind
			rr.PageType = pe.PageType
		} else {
			rr.ErrorType = models.ErrKindServer
		}
		return rr
	}

	rr.Success = true
	rr.Strategy = ex.Strategy
	rr.UsedFallback = ex.UsedFallback
	rr.SourceTokens = ex.SourceTokens
	rr.Tokens = ex.Tokens
	rr.TextLength = len([]rune(ex.Text))
	rr.HasTitle = ex.Title != ""
	if ex.SourceTokens > 0 {
		rr.Savings = 100 * float64(ex.SourceTokens-ex.Tokens) / float64(ex.SourceTokens)
	}
	return rr
}

func computeAverages(runs []runResult) *urlAverages {
	var successCount int
	var avg urlAverages

	for _, r := range runs {
		if !r.Success {
			continue
		}
		successCount++
		avg.TotalMs += float64(r.TotalMs)
		avg.Savings += r.Savings
		avg.TextLength += float64(r.TextLength)
	}

	if successCount == 0 {
		return nil
	}

	n := float64(successCount)
	avg.TotalMs /= n
	avg.Savings /= n
	avg.TextLength /= n
	return &avg
}

func printTable(out io.Writer, results []urlResult) {
	fmt.Fprintln(out, strings.Repeat("─", 85))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "URL\tAvg Latency\tTokens Saved\tText Len\tStrategy\n")
	fmt.Fprintf(w, "───\t───────────\t────────────\t────────\t────────\n")

	for _, r := range results {
		if r.Averages == nil {
			fmt.Fprintf(w, "%s\tFAILED\t-\t-\t%s\n", truncateURL(r.URL, 40), lastFailure(r.Runs))
			continue
		}
		fmt.Fprintf(w, "%s\t%dms\t%.1f%%\t%d\t%s\n",
			truncateURL(r.URL, 40),
			int64(r.Averages.TotalMs),
			r.Averages.Savings,
			int(r.Averages.TextLength),
			dominantStrategy(r.Runs),
		)
	}

	w.Flush()
	fmt.Fprintln(out, strings.Repeat("─", 85))
}

// dominantStrategy returns the strategy that won most runs; ties go to the
// earliest run.
func dominantStrategy(runs []runResult) string {
	counts := map[string]int{}
	best, bestCount := "", 0
	for _, r := range runs {
		if !r.Success {
			continue
		}
		counts[r.Strategy]++
		if counts[r.Strategy] > bestCount {
			best, bestCount = r.Strategy, counts[r.Strategy]
		}
	}
	return best
}

func lastFailure(runs []runResult) string {
	for i := len(runs) - 1; i >= 0; i-- {
		if !runs[i].Success {
			if runs[i].PageType != "" {
				return runs[i].ErrorType + "/" + runs[i].PageType
			}
			return runs[i].ErrorType
		}
	}
	return ""
}

func truncateURL(u string, max int) string {
	if len(u) <= max {
		return u
	}
	return u[:max-3] + "..."
}
