package llm

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"
)

// ErrMissingCredential is returned when a provider is selected but its credential is not configured.
// Callers treat it as "provider disabled", not as a failure.
var ErrMissingCredential = errors.New("provider credential not configured")

// Provider defines the interface for generative text providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate sends a single prompt and returns the provider's free-form reply
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the prompt and model parameters for one call
type GenerateRequest struct {
	// Prompt is the user prompt (the text under analysis is embedded in it)
	Prompt string

	// System is an optional system instruction
	System string

	// Model overrides the configured model
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature controls sampling
	Temperature float64
}

// GenerateResponse contains the provider's reply
type GenerateResponse struct {
	// Text is the raw reply text
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "gemini", "ollama", "auto", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic/Gemini
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, test servers)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "auto",
		Timeout:   20,
		MaxTokens: 1000,
	}
}

// timeout returns the configured request timeout, or fallback when unset
func (c Config) timeout(fallback time.Duration) time.Duration {
	if c.Timeout <= 0 {
		return fallback
	}
	return time.Duration(c.Timeout) * time.Second
}

// maxTokens resolves the request override, then config, then 1000
func (c Config) maxTokens(req GenerateRequest) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 1000
}

// modelName resolves the request override, then config, then the provider default
func (c Config) modelName(req GenerateRequest, fallback string) string {
	if req.Model != "" {
		return req.Model
	}
	if c.Model != "" {
		return c.Model
	}
	return fallback
}

// newHTTPClient builds a client honoring the configured proxies
func newHTTPClient(config Config, fallback time.Duration) *http.Client {
	return &http.Client{
		Timeout: config.timeout(fallback),
		Transport: &http.Transport{
			Proxy: newProxyFunc(config.HTTPProxy, config.HTTPSProxy),
		},
	}
}

func newProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
