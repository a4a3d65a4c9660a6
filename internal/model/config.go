package model

import "time"

// Config is the complete stylometer configuration. It is built once at
// startup and passed into constructors; nothing reads it from globals.
type Config struct {
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Scoring      ScoringConfig      `yaml:"scoring" mapstructure:"scoring"`
	Rewrite      RewriteConfig      `yaml:"rewrite" mapstructure:"rewrite"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Upload       UploadConfig       `yaml:"upload" mapstructure:"upload"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// LLMConfig selects the optional generative text provider
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // auto, openai, anthropic, gemini, ollama, or "" to disable
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"` // Never written to disk
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ScoringConfig holds the score composer weights and reference constants
type ScoringConfig struct {
	Weights ScoringWeights `yaml:"weights" mapstructure:"weights"`

	SentenceBase   float64 `yaml:"sentence_base" mapstructure:"sentence_base"`     // S0
	SentenceScale  float64 `yaml:"sentence_scale" mapstructure:"sentence_scale"`   // S1
	WordBase       float64 `yaml:"word_base" mapstructure:"word_base"`             // W0
	WordScale      float64 `yaml:"word_scale" mapstructure:"word_scale"`           // W1
	PhraseNorm     float64 `yaml:"phrase_norm" mapstructure:"phrase_norm"`         // P0
	LongWordBase   float64 `yaml:"long_word_base" mapstructure:"long_word_base"`   // L0
	LongWordScale  float64 `yaml:"long_word_scale" mapstructure:"long_word_scale"` // L1
	RareWordBase   float64 `yaml:"rare_word_base" mapstructure:"rare_word_base"`   // R0
	RareWordScale  float64 `yaml:"rare_word_scale" mapstructure:"rare_word_scale"` // R1
	PunctuationCap float64 `yaml:"punctuation_cap" mapstructure:"punctuation_cap"` // C0

	// Jitter is the half-width of the uniform perturbation, capped at 0.01
	Jitter float64 `yaml:"jitter" mapstructure:"jitter"`

	// ExtendedNGrams adds 3- and 4-grams to the repeat counter
	ExtendedNGrams bool `yaml:"extended_ngrams" mapstructure:"extended_ngrams"`
}

// ScoringWeights are the linear weights; Punctuation is subtracted
type ScoringWeights struct {
	Repeat         float64 `yaml:"repeat" mapstructure:"repeat"`
	SentenceLength float64 `yaml:"sentence_length" mapstructure:"sentence_length"`
	WordLength     float64 `yaml:"word_length" mapstructure:"word_length"`
	FormalPhrases  float64 `yaml:"formal_phrases" mapstructure:"formal_phrases"`
	LongWords      float64 `yaml:"long_words" mapstructure:"long_words"`
	RareWords      float64 `yaml:"rare_words" mapstructure:"rare_words"`
	Punctuation    float64 `yaml:"punctuation" mapstructure:"punctuation"`
}

// RewriteConfig tunes the lexical rewriter
type RewriteConfig struct {
	LightSplitThreshold  int     `yaml:"light_split_threshold" mapstructure:"light_split_threshold"`
	StrongSplitThreshold int     `yaml:"strong_split_threshold" mapstructure:"strong_split_threshold"`
	LightMaxChars        int     `yaml:"light_max_chars" mapstructure:"light_max_chars"`
	StrongMaxChars       int     `yaml:"strong_max_chars" mapstructure:"strong_max_chars"`
	ReorderChance        float64 `yaml:"reorder_chance" mapstructure:"reorder_chance"`
	MarkerChance         float64 `yaml:"marker_chance" mapstructure:"marker_chance"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// UploadConfig configures the upload store used by document cleaning
type UploadConfig struct {
	Dir       string        `yaml:"dir" mapstructure:"dir"` // Empty keeps uploads in memory only
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// HTTPConfig configures URL fetching for the score command
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// RateLimitingConfig bounds calls to the generative text provider
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// ConcurrencyConfig sizes the batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// LogConfig configures structured logging
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or console
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		LLM: LLMConfig{
			Provider:  "auto",
			Timeout:   20,
			MaxTokens: 1000,
		},
		Scoring: DefaultScoringConfig(),
		Rewrite: DefaultRewriteConfig(),
		Server: ServerConfig{
			Addr:            ":8080",
			MaxUploadBytes:  10 << 20,
			ShutdownTimeout: 10 * time.Second,
		},
		Upload: UploadConfig{
			MemoryTTL: time.Hour,
			DiskTTL:   24 * time.Hour,
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "Stylometer/0.1 (+https://github.com/ppiankov/stylometer)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultScoringConfig returns the reference weights and constants
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Weights: ScoringWeights{
			Repeat:         0.10,
			SentenceLength: 0.10,
			WordLength:     0.10,
			FormalPhrases:  0.40,
			LongWords:      0.15,
			RareWords:      0.10,
			Punctuation:    0.05,
		},
		SentenceBase:   12,
		SentenceScale:  18,
		WordBase:       4,
		WordScale:      5.5,
		PhraseNorm:     2,
		LongWordBase:   0.10,
		LongWordScale:  5,
		RareWordBase:   0.05,
		RareWordScale:  6,
		PunctuationCap: 0.5,
		Jitter:         0.01,
	}
}

// DefaultRewriteConfig returns the reference rewriter thresholds
func DefaultRewriteConfig() RewriteConfig {
	return RewriteConfig{
		LightSplitThreshold:  160,
		StrongSplitThreshold: 80,
		LightMaxChars:        3000,
		StrongMaxChars:       4000,
		ReorderChance:        0.6,
		MarkerChance:         0.4,
	}
}
