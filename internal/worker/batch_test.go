package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/stylometer/internal/model"
)

// mockLoader returns the source name as text, or fails for "missing" sources
type mockLoader struct{}

func (mockLoader) Load(ctx context.Context, source string) (string, error) {
	if strings.Contains(source, "missing") {
		return "", errors.New("no such file")
	}
	return "text from " + source, nil
}

// mockScorer implements Scorer
type mockScorer struct {
	ShouldError bool
}

func (m *mockScorer) Score(ctx context.Context, text string) (*model.Detection, error) {
	time.Sleep(5 * time.Millisecond) // Simulate work
	if m.ShouldError {
		return nil, errors.New("score error")
	}
	return &model.Detection{
		Score:  model.Score{AIProbability: 0.5, Percent: 50, Explanation: text},
		Source: model.SourceLocal,
	}, nil
}

func writeList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBatchProcessor_ProcessSources(t *testing.T) {
	processor := NewBatchProcessor(mockLoader{}, &mockScorer{}, 2)

	sources := []string{"a.txt", "https://example.com/post", "b.md", "c.txt", "d.txt"}
	results := processor.ProcessSources(context.Background(), sources)

	if len(results) != len(sources) {
		t.Fatalf("expected %d results, got %d", len(sources), len(results))
	}

	for i, res := range results {
		if res.Source != sources[i] {
			t.Errorf("result %d: expected source %s, got %s", i, sources[i], res.Source)
		}
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Source, res.Error)
			continue
		}
		if res.Detection == nil || res.Detection.Explanation != "text from "+sources[i] {
			t.Errorf("unexpected detection for %s: %+v", res.Source, res.Detection)
		}
	}
}

func TestBatchProcessor_ProcessSources_Errors(t *testing.T) {
	processor := NewBatchProcessor(mockLoader{}, &mockScorer{}, 2)

	results := processor.ProcessSources(context.Background(), []string{"ok.txt", "missing.txt"})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Error != nil {
		t.Errorf("expected success for ok.txt, got %v", results[0].Error)
	}
	if results[1].Error == nil || results[1].Detection != nil {
		t.Error("expected load error and nil detection for missing.txt")
	}
	if !strings.Contains(results[1].Message, "missing.txt") {
		t.Errorf("expected message to name the source, got %q", results[1].Message)
	}

	failing := NewBatchProcessor(mockLoader{}, &mockScorer{ShouldError: true}, 1)
	results = failing.ProcessSources(context.Background(), []string{"a.txt"})
	if results[0].GetError() == nil {
		t.Error("expected score error, got nil")
	}
}

func TestBatchProcessor_ProcessSources_Empty(t *testing.T) {
	processor := NewBatchProcessor(mockLoader{}, &mockScorer{}, 2)

	results := processor.ProcessSources(context.Background(), []string{})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestReadSourcesFromFile(t *testing.T) {
	path := writeList(t, `http://example.com
# comment
./notes/draft.md
   
http://bing.com   
http://example.com`)

	sources, err := ReadSourcesFromFile(path)
	if err != nil {
		t.Fatalf("ReadSourcesFromFile failed: %v", err)
	}

	expected := []string{"http://example.com", "./notes/draft.md", "http://bing.com"}
	if len(sources) != len(expected) {
		t.Fatalf("expected %d sources, got %d: %v", len(expected), len(sources), sources)
	}
	for i, source := range sources {
		if source != expected[i] {
			t.Errorf("expected source %s at index %d, got %s", expected[i], i, source)
		}
	}
}

func TestReadSourcesFromFile_NonExistent(t *testing.T) {
	if _, err := ReadSourcesFromFile("non_existent_file.txt"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writeList(t, "a.txt\nb.txt\n# comment\n\nc.txt\n")
	processor := NewBatchProcessor(mockLoader{}, &mockScorer{}, 2)

	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}

	if _, err := processor.ProcessFile(context.Background(), "no_such_file.txt"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestScoreResult_GetError(t *testing.T) {
	r1 := &ScoreResult{Source: "a.txt"}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("score failed")
	r2 := &ScoreResult{Source: "a.txt", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}
