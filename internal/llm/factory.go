package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/stylometer/internal/model"
)

// Environment variables that carry provider credentials
const (
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvAnthropicKey  = "ANTHROPIC_API_KEY"
	EnvGeminiKey     = "GEMINI_API_KEY"
	EnvOllamaBaseURL = "OLLAMA_BASE_URL"
)

// autoOrder is the preference order when the provider is "auto"
var autoOrder = []string{"gemini", "openai", "anthropic", "ollama"}

// NewProvider creates a new provider based on configuration.
// A nil provider with a nil error means generation is disabled.
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(strings.TrimSpace(config.Provider))

	switch provider {
	case "openai":
		return asProvider(NewOpenAIProvider(config))

	case "anthropic", "claude":
		return asProvider(NewAnthropicProvider(config))

	case "gemini", "google":
		return asProvider(NewGeminiProvider(config))

	case "ollama":
		return asProvider(NewOllamaProvider(config))

	case "", "none", "off":
		return nil, nil

	case "auto":
		// ResolveFromEnv should have replaced auto; nothing was found
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: auto, openai, anthropic, gemini, ollama)", config.Provider)
	}
}

// asProvider keeps a failed constructor from producing a non-nil interface
func asProvider[P Provider](p P, err error) (Provider, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ConfigFromModel converts model.Config to llm.Config
func ConfigFromModel(cfg model.Config) Config {
	return Config{
		Provider:   cfg.LLM.Provider,
		Model:      cfg.LLM.Model,
		APIKey:     cfg.LLM.APIKey,
		BaseURL:    cfg.LLM.BaseURL,
		Timeout:    cfg.LLM.Timeout,
		MaxTokens:  cfg.LLM.MaxTokens,
		HTTPProxy:  cfg.HTTP.HTTPProxy,
		HTTPSProxy: cfg.HTTP.HTTPSProxy,
	}
}

// ResolveFromEnv fills missing credentials from the environment and resolves "auto"
// to the first provider whose environment credential is present. When nothing is found the
// provider becomes "" (disabled). getenv is usually os.Getenv.
func ResolveFromEnv(config Config, getenv func(string) string) Config {
	provider := strings.ToLower(strings.TrimSpace(config.Provider))

	if provider == "auto" {
		config.Provider = ""
		for _, candidate := range autoOrder {
			if envCredential(candidate, getenv) != "" {
				provider = candidate
				config.Provider = candidate
				break
			}
		}
		if config.Provider == "" {
			return config
		}
	}

	switch provider {
	case "ollama":
		if config.BaseURL == "" {
			config.BaseURL = getenv(EnvOllamaBaseURL)
		}
	case "openai", "anthropic", "claude", "gemini", "google":
		if config.APIKey == "" {
			config.APIKey = envCredential(provider, getenv)
		}
	}

	return config
}

// envCredential returns the environment credential for provider.
// For ollama the base URL stands in for a credential.
func envCredential(provider string, getenv func(string) string) string {
	switch provider {
	case "openai":
		return getenv(EnvOpenAIKey)
	case "anthropic", "claude":
		return getenv(EnvAnthropicKey)
	case "gemini", "google":
		return getenv(EnvGeminiKey)
	case "ollama":
		return getenv(EnvOllamaBaseURL)
	}
	return ""
}
