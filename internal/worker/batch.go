package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ppiankov/stylometer/internal/model"
)

// Loader resolves a batch source (file path or URL) to plain text
type Loader interface {
	Load(ctx context.Context, source string) (string, error)
}

// Scorer scores one document
type Scorer interface {
	Score(ctx context.Context, text string) (*model.Detection, error)
}

// ScoreJob loads and scores a single source
type ScoreJob struct {
	Index  int
	Source string
	Loader Loader
	Scorer Scorer
}

// Execute executes the score job
func (j *ScoreJob) Execute(ctx context.Context) Result {
	result := &ScoreResult{Index: j.Index, Source: j.Source}

	text, err := j.Loader.Load(ctx, j.Source)
	if err != nil {
		result.setError(fmt.Errorf("load %s: %w", j.Source, err))
		return result
	}

	detection, err := j.Scorer.Score(ctx, text)
	if err != nil {
		result.setError(fmt.Errorf("score %s: %w", j.Source, err))
		return result
	}

	result.Detection = detection
	return result
}

// ScoreResult represents the result of a score job
type ScoreResult struct {
	Index     int              `json:"-"`
	Source    string           `json:"source"`
	Detection *model.Detection `json:"detection,omitempty"`
	Error     error            `json:"-"`
	Message   string           `json:"error,omitempty"`
}

func (r *ScoreResult) setError(err error) {
	r.Error = err
	r.Message = err.Error()
}

// GetError returns the error from the score result
func (r *ScoreResult) GetError() error {
	return r.Error
}

// BatchProcessor scores multiple sources concurrently
type BatchProcessor struct {
	loader      Loader
	scorer      Scorer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(loader Loader, scorer Scorer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		loader:      loader,
		scorer:      scorer,
		concurrency: concurrency,
	}
}

// ProcessSources scores sources concurrently. Results keep the input order.
func (b *BatchProcessor) ProcessSources(ctx context.Context, sources []string) []*ScoreResult {
	if len(sources) == 0 {
		return []*ScoreResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, source := range sources {
		pool.Submit(&ScoreJob{
			Index:  i,
			Source: source,
			Loader: b.loader,
			Scorer: b.scorer,
		})
	}

	results := pool.Wait()

	scoreResults := make([]*ScoreResult, 0, len(results))
	for _, result := range results {
		scoreResults = append(scoreResults, result.(*ScoreResult))
	}
	sort.Slice(scoreResults, func(i, j int) bool {
		return scoreResults[i].Index < scoreResults[j].Index
	})

	return scoreResults
}

// ProcessFile reads sources from a list file and scores them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ScoreResult, error) {
	sources, err := ReadSourcesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	return b.ProcessSources(ctx, sources), nil
}

// ReadSourcesFromFile reads file paths or URLs from a list file (one per line)
func ReadSourcesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return sources, nil
}
