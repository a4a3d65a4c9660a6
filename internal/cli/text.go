package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/stylometer/internal/fetch"
	"github.com/ppiankov/stylometer/internal/model"
)

var (
	inputFile  string
	inputURL   string
	jsonOut    bool
	intensity  string
	outputFile string
	opTimeout  time.Duration
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score [text|-]",
	Short: "Estimate how likely a text is machine-generated",
	Long: `Score reports the probability that a text was machine-generated,
with a short explanation of the signals behind it.

Text comes from the arguments, from stdin when the argument is "-" or
absent, from a document (--file: txt, md, html, pdf, docx) or from a web
page (--url).

Example:
  stylometer score "In conclusion, the results are significant."
  stylometer score --file essay.docx --json
  stylometer score --url https://example.com/post
  cat draft.txt | stylometer score -`,
	RunE: runScore,
}

// humanizeCmd represents the humanize command
var humanizeCmd = &cobra.Command{
	Use:   "humanize [text|-]",
	Short: "Rewrite text to sound less formulaic",
	Long: `Humanize rewrites text to read more naturally while keeping its meaning.

Intensity "light" softens connectors and adds contractions; "strong" also
replaces inflated vocabulary and splits long sentences more aggressively.

Example:
  stylometer humanize "Moreover, we utilize a comprehensive approach."
  stylometer humanize --file draft.md --intensity strong -o draft-human.md`,
	RunE: runHumanize,
}

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean [text|-]",
	Short: "Remove formulaic phrasing from text",
	Long: `Clean deletes stock connectors and filler ("In conclusion", "Moreover",
"It is important to note that") and repairs the punctuation around them.

Example:
  stylometer clean --file report.pdf -o report-clean.txt`,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(scoreCmd, humanizeCmd, cleanCmd)

	for _, cmd := range []*cobra.Command{scoreCmd, humanizeCmd, cleanCmd} {
		cmd.Flags().StringVarP(&inputFile, "file", "f", "", "read text from a document (txt, md, html, pdf, docx)")
		cmd.Flags().BoolVar(&jsonOut, "json", false, "print the full result as JSON")
		cmd.Flags().DurationVar(&opTimeout, "timeout", 2*time.Minute, "overall timeout")
	}
	scoreCmd.Flags().StringVar(&inputURL, "url", "", "fetch text from a web page")

	humanizeCmd.Flags().StringVar(&intensity, "intensity", "light", "rewrite intensity: light or strong")
	for _, cmd := range []*cobra.Command{humanizeCmd, cleanCmd} {
		cmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the rewritten text to a file instead of stdout")
	}
}

func runScore(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(cmd.Context(), opTimeout)
	defer cancel()

	input, err := readInput(ctx, cmd, a, args)
	if err != nil {
		return err
	}

	det, err := a.pipeline.Score(ctx, input)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		return writeJSON(out, det)
	}

	fmt.Fprintln(out, det.PlainText())
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "\nSource: %s\n", det.Source)
		if det.Note != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Note: %s\n", det.Note)
		}
		for _, sig := range det.Signals {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %-16s %+.3f  %s\n", sig.Type, sig.Contribution, sig.Description)
		}
	}
	return nil
}

func runHumanize(cmd *cobra.Command, args []string) error {
	level, err := model.ParseIntensity(intensity)
	if err != nil {
		return err
	}

	return runRewrite(cmd, args, func(ctx context.Context, a *app, input string) (*model.Rewrite, error) {
		return a.pipeline.Humanize(ctx, input, level)
	})
}

func runClean(cmd *cobra.Command, args []string) error {
	return runRewrite(cmd, args, func(ctx context.Context, a *app, input string) (*model.Rewrite, error) {
		return a.pipeline.RemovePhrasing(ctx, input)
	})
}

func runRewrite(cmd *cobra.Command, args []string, op func(context.Context, *app, string) (*model.Rewrite, error)) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(cmd.Context(), opTimeout)
	defer cancel()

	input, err := readInput(ctx, cmd, a, args)
	if err != nil {
		return err
	}

	rw, err := op(ctx, a, input)
	if err != nil {
		return err
	}

	if rw.Fallback && verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Note: %s\n", rw.Note)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(rw.Text+"\n"), 0644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", outputFile)
		if !jsonOut {
			return nil
		}
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		return writeJSON(out, rw)
	}
	fmt.Fprintln(out, rw.Text)
	return nil
}

// readInput picks exactly one text source: --file, --url, stdin or arguments
func readInput(ctx context.Context, cmd *cobra.Command, a *app, args []string) (string, error) {
	fromStdin := len(args) == 0 || (len(args) == 1 && args[0] == "-")

	sources := 0
	if inputFile != "" {
		sources++
	}
	if inputURL != "" {
		sources++
	}
	if len(args) > 0 && !fromStdin {
		sources++
	}
	if sources > 1 {
		return "", fmt.Errorf("%w: give text as arguments, --file or --url, not several", model.ErrInvalidInput)
	}

	switch {
	case inputFile != "":
		return a.loader().LoadFile(inputFile)
	case inputURL != "":
		if !fetch.IsURL(inputURL) {
			return "", fmt.Errorf("%w: --url needs an http or https URL", model.ErrInvalidInput)
		}
		return a.loader().Load(ctx, inputURL)
	case fromStdin:
		data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), a.cfg.Server.MaxUploadBytes))
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	default:
		return strings.Join(args, " "), nil
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
