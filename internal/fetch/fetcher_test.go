package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func noSleep(t *testing.T) {
	t.Helper()
	orig := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	t.Cleanup(func() { fetchSleepFunc = orig })
}

func newTestFetcher(respectRobots bool) *Fetcher {
	return NewFetcher(5*time.Second, "stylometer-test", 1<<20, respectRobots, "", "")
}

func TestFetchWithRetry_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "stylometer-test" {
			t.Errorf("Expected User-Agent stylometer-test, got %s", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html><body>OK</body></html>")
	}))
	defer server.Close()

	result, err := newTestFetcher(false).FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(result.Body) != "<html><body>OK</body></html>" {
		t.Errorf("Unexpected body: %s", result.Body)
	}
	if result.ContentType != "text/html" {
		t.Errorf("Unexpected content type: %s", result.ContentType)
	}
}

func TestFetchWithRetry_TransientThenSuccess(t *testing.T) {
	noSleep(t)
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, "OK")
	}))
	defer server.Close()

	result, err := newTestFetcher(false).FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if string(result.Body) != "OK" {
		t.Errorf("Unexpected body: %s", result.Body)
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_PermanentFailure(t *testing.T) {
	noSleep(t)
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestFetcher(false).FetchWithRetry(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error for 404, got nil")
	}
	if got := err.Error(); got != "unexpected status: 404 404 Not Found" {
		t.Errorf("Unexpected error: %s", got)
	}
	if attempts.Load() != 1 {
		t.Errorf("404 should not be retried, got %d attempts", attempts.Load())
	}
}

func TestFetchWithRetry_AllRetriesExhausted(t *testing.T) {
	noSleep(t)
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestFetcher(false).FetchWithRetry(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error after all retries exhausted")
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_429Retried(t *testing.T) {
	noSleep(t)
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = fmt.Fprint(w, "OK")
	}))
	defer server.Close()

	if _, err := newTestFetcher(false).FetchWithRetry(context.Background(), server.URL); err != nil {
		t.Fatalf("Expected success after 429 retry, got %v", err)
	}
	if attempts.Load() != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts.Load())
	}
}

func TestFetch_BodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, strings.Repeat("a", 100))
	}))
	defer server.Close()

	f := NewFetcher(5*time.Second, "stylometer-test", 10, false, "", "")
	result, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(result.Body) != 10 {
		t.Errorf("Expected body capped at 10 bytes, got %d", len(result.Body))
	}
}

func TestIsRetryableFetchError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"503", &StatusError{Code: 503, Status: "503 Service Unavailable"}, true},
		{"500", &StatusError{Code: 500, Status: "500 Internal Server Error"}, true},
		{"429", &StatusError{Code: 429, Status: "429 Too Many Requests"}, true},
		{"404", &StatusError{Code: 404, Status: "404 Not Found"}, false},
		{"403", &StatusError{Code: 403, Status: "403 Forbidden"}, false},
		{"connection refused", &transportError{err: errors.New("connection refused")}, true},
		{"deadline", &transportError{err: context.DeadlineExceeded}, false},
		{"wrapped status", fmt.Errorf("outer: %w", &StatusError{Code: 502}), true},
		{"create request", errors.New("create request: invalid URL"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableFetchError(tt.err); got != tt.retryable {
				t.Errorf("isRetryableFetchError(%v) = %v, want %v", tt.err, got, tt.retryable)
			}
		})
	}
}

func TestFetchText_HTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /private\n")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprint(w, "<html><body><script>x()</script><p>Moreover, it works.</p></body></html>")
	}))
	defer server.Close()

	f := newTestFetcher(true)

	text, err := f.FetchText(context.Background(), server.URL+"/post")
	if err != nil {
		t.Fatalf("FetchText failed: %v", err)
	}
	if text != "Moreover, it works." {
		t.Errorf("Unexpected text: %q", text)
	}

	_, err = f.FetchText(context.Background(), server.URL+"/private/draft")
	if !errors.Is(err, ErrDisallowed) {
		t.Errorf("Expected ErrDisallowed, got %v", err)
	}
}

type countingLimiter struct {
	calls atomic.Int32
}

func (l *countingLimiter) WaitURL(ctx context.Context, rawURL string) error {
	l.calls.Add(1)
	return nil
}

func TestFetchWithRetry_UsesLimiter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "OK")
	}))
	defer server.Close()

	limiter := &countingLimiter{}
	f := newTestFetcher(false).WithLimiter(limiter)
	if _, err := f.FetchWithRetry(context.Background(), server.URL); err != nil {
		t.Fatalf("FetchWithRetry failed: %v", err)
	}
	if limiter.calls.Load() != 1 {
		t.Errorf("Expected 1 limiter call, got %d", limiter.calls.Load())
	}
}

func TestNameFromURL(t *testing.T) {
	tests := map[string]string{
		"https://example.com/paper.pdf":     "paper.pdf",
		"https://example.com/blog/post":     "",
		"https://example.com/":              "",
		"https://example.com/a/b/notes.txt": "notes.txt",
	}
	for in, want := range tests {
		if got := nameFromURL(in); got != want {
			t.Errorf("nameFromURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoader(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "draft.txt")
	if err := os.WriteFile(txt, []byte("Thus it works."), 0o644); err != nil {
		t.Fatal(err)
	}
	noext := filepath.Join(dir, "README")
	if err := os.WriteFile(noext, []byte("Plain words."), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(nil, 1<<20)

	got, err := l.Load(context.Background(), txt)
	if err != nil || got != "Thus it works." {
		t.Errorf("Load(txt) = %q, %v", got, err)
	}

	got, err = l.Load(context.Background(), noext)
	if err != nil || got != "Plain words." {
		t.Errorf("Load(no extension) = %q, %v", got, err)
	}

	if _, err := l.Load(context.Background(), dir); err == nil {
		t.Error("Expected error for directory")
	}
	if _, err := l.Load(context.Background(), "https://example.com"); err == nil {
		t.Error("Expected error for URL without fetcher")
	}

	small := NewLoader(nil, 4)
	if _, err := small.Load(context.Background(), txt); err == nil {
		t.Error("Expected error for file over the size limit")
	}
}

func TestIsURL(t *testing.T) {
	if !IsURL("HTTPS://example.com") || !IsURL("http://x") {
		t.Error("expected http(s) sources to be URLs")
	}
	if IsURL("./notes.txt") || IsURL("ftp://example.com") {
		t.Error("expected non-http sources not to be URLs")
	}
}
