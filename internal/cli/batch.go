package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/stylometer/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	reportFile   string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Score many documents and URLs in parallel",
	Long: `Batch scores every source listed in a file, one per line:
- Local paths (txt, md, html, pdf, docx) are extracted and scored
- http(s) URLs are fetched, honoring robots.txt, and scored
- Blank lines and lines starting with # are ignored

Results are written as one JSON report to stdout (or --report), and
optionally one JSON file per source in --output-dir.

Example:
  stylometer batch sources.txt
  stylometer batch sources.txt --concurrency 8 --report scores.json
  stylometer batch sources.txt --output-dir ./reports --offline`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "also write one JSON report per source to this directory")
	batchCmd.Flags().StringVar(&reportFile, "report", "", "write the combined report to a file instead of stdout")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

// BatchReport is the combined batch output
type BatchReport struct {
	GeneratedAt time.Time             `json:"generated_at"`
	Total       int                   `json:"total"`
	Succeeded   int                   `json:"succeeded"`
	Failed      int                   `json:"failed"`
	Results     []*worker.ScoreResult `json:"results"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	workers := concurrency
	if workers <= 0 {
		workers = a.cfg.Concurrency.Workers
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	status := cmd.ErrOrStderr()
	fmt.Fprintf(status, "Input file:   %s\n", file)
	fmt.Fprintf(status, "Workers:      %d\n", workers)
	if name := a.pipeline.ProviderName(); name != "" {
		fmt.Fprintf(status, "Provider:     %s\n", name)
	} else {
		fmt.Fprintf(status, "Provider:     none (local heuristics)\n")
	}

	processor := worker.NewBatchProcessor(a.loader(), a.pipeline, workers)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	report := BatchReport{
		GeneratedAt: time.Now().UTC(),
		Total:       len(results),
		Results:     results,
	}

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	for i, result := range results {
		if result.Error != nil {
			report.Failed++
			fmt.Fprintf(status, "✗ %s: %v\n", result.Source, result.Error)
			continue
		}
		report.Succeeded++
		fmt.Fprintf(status, "✓ %s (%d%%, %s)\n", result.Source, result.Detection.Percent, result.Detection.Source)

		if outputDir != "" {
			name := fmt.Sprintf("%03d-%s.json", i+1, sanitizeFilename(result.Source))
			if err := writeJSONFile(filepath.Join(outputDir, name), result); err != nil {
				fmt.Fprintf(status, "✗ %s: %v\n", result.Source, err)
			}
		}
	}

	fmt.Fprintf(status, "\nTotal: %d  Success: %d  Failures: %d\n", report.Total, report.Succeeded, report.Failed)

	if reportFile != "" {
		return writeJSONFile(reportFile, report)
	}
	return writeJSON(cmd.OutOrStdout(), report)
}

func writeJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// sanitizeFilename turns a path or URL into a safe file name stem
func sanitizeFilename(s string) string {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "https://"), "http://")
	s = strings.TrimSuffix(s, "/")
	if ext := filepath.Ext(s); ext != "" && !strings.ContainsAny(ext, "/\\") {
		s = strings.TrimSuffix(s, ext)
	}

	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = strings.Trim(replacer.Replace(s), "._-")

	// Limit length
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "source"
	}
	return s
}
