package model

import (
	"fmt"
	"math"
)

// Score is the composed authorship estimate for a document
type Score struct {
	AIProbability float64  `json:"ai_probability"` // Clamped to [0,1]
	Percent       int      `json:"percent"`        // round(AIProbability*100)
	Explanation   string   `json:"explanation"`
	Signals       []Signal `json:"signals,omitempty"` // Per-feature contributions
}

// Signal is one weighted term of the composed score with its inputs
type Signal struct {
	Type         SignalType             `json:"type"`
	Fired        bool                   `json:"fired"`
	Contribution float64                `json:"contribution"`
	Description  string                 `json:"description"`
	Data         map[string]interface{} `json:"data,omitempty"`
}

// SignalType classifies a score term
type SignalType string

const (
	SignalRepetition     SignalType = "repetition"
	SignalSentenceLength SignalType = "sentence_length"
	SignalWordLength     SignalType = "word_length"
	SignalFormalPhrases  SignalType = "formal_phrases"
	SignalLongWords      SignalType = "long_words"
	SignalRareWords      SignalType = "rare_words"
	SignalPunctuation    SignalType = "punctuation"
)

// PercentOf converts a probability to a rounded percentage
func PercentOf(p float64) int {
	return int(math.Round(p * 100))
}

// PlainText renders the score the way the text endpoint returns it
func (s Score) PlainText() string {
	return fmt.Sprintf("AI Probability: %d%%\nExplanation: %s", s.Percent, s.Explanation)
}

// SourceLocal marks results produced by the local heuristics
const SourceLocal = "local"

// Detection is the result of the score operation
type Detection struct {
	Score
	Source   string      `json:"source"`             // "local" or provider name
	Fallback bool        `json:"fallback"`           // True when the provider was skipped or failed
	Note     string      `json:"note,omitempty"`     // Why the fallback happened
	Features *FeatureSet `json:"features,omitempty"` // Present for local results
}

// Rewrite is the result of the humanize and remove-phrasing operations
type Rewrite struct {
	Text      string    `json:"text"`
	Operation Operation `json:"operation"`
	Intensity Intensity `json:"intensity,omitempty"`
	Source    string    `json:"source"`
	Fallback  bool      `json:"fallback"`
	Note      string    `json:"note,omitempty"`
}

// ProviderResult is the outcome of consulting a generative text provider
type ProviderResult struct {
	OK     bool
	Text   string
	Reason string
}

// ProviderSuccess wraps provider text
func ProviderSuccess(text string) ProviderResult {
	return ProviderResult{OK: true, Text: text}
}

// ProviderFailure records why the provider could not be used
func ProviderFailure(reason string) ProviderResult {
	return ProviderResult{Reason: reason}
}
