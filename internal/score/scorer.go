package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/ppiankov/stylometer/internal/model"
)

// maxJitter bounds the symmetric perturbation added to every score
const maxJitter = 0.01

// Explanation thresholds
const (
	longSentenceThreshold = 18
	longWordThreshold     = 0.12
	rareWordThreshold     = 0.06
)

// Scorer composes a FeatureSet into an AI probability
type Scorer struct {
	config model.ScoringConfig
	rnd    model.Rand
}

// NewScorer creates a new scorer. A nil rnd uses model.GlobalRand.
func NewScorer(config model.ScoringConfig, rnd model.Rand) *Scorer {
	if rnd == nil {
		rnd = model.GlobalRand
	}
	if config.Jitter > maxJitter || config.Jitter < 0 {
		config.Jitter = maxJitter
	}
	return &Scorer{config: config, rnd: rnd}
}

// Compose combines features with the fixed weights, adds bounded jitter and
// clamps the result to [0,1]
func (s *Scorer) Compose(f model.FeatureSet) model.Score {
	signals := []model.Signal{
		s.repetition(f),
		s.sentenceLength(f),
		s.wordLength(f),
		s.formalPhrases(f),
		s.longWords(f),
		s.rareWords(f),
		s.punctuation(f),
	}

	raw := 0.0
	for _, sig := range signals {
		raw += sig.Contribution
	}

	jitter := (s.rnd.Float64()*2 - 1) * s.config.Jitter
	p := clamp(raw+jitter, 0, 1)

	return model.Score{
		AIProbability: p,
		Percent:       model.PercentOf(p),
		Explanation:   Explain(f),
		Signals:       signals,
	}
}

// Explain lists the cues that fired, in priority order
func Explain(f model.FeatureSet) string {
	var cues []string
	if f.Repeats > 0 || f.RepeatRatio > 0 {
		cues = append(cues, "repeated phrasing")
	}
	if f.FormalPhraseCount > 0 {
		cues = append(cues, "formal connectors")
	}
	if f.AvgSentenceLength > longSentenceThreshold {
		cues = append(cues, "long sentences")
	}
	if f.LongWordRatio > longWordThreshold {
		cues = append(cues, "many long words")
	}
	if f.RareWordRatio > rareWordThreshold {
		cues = append(cues, "uncommon vocabulary")
	}
	if len(cues) == 0 {
		return "style cues analyzed"
	}
	return "Detected " + strings.Join(cues, ", ")
}

func (s *Scorer) repetition(f model.FeatureSet) model.Signal {
	term := math.Min(1, f.RepeatRatio)
	return model.Signal{
		Type:         model.SignalRepetition,
		Fired:        f.Repeats > 0,
		Contribution: s.config.Weights.Repeat * term,
		Description:  fmt.Sprintf("%d repeated n-grams (ratio %.2f)", f.Repeats, f.RepeatRatio),
		Data: map[string]interface{}{
			"repeats": f.Repeats,
			"ratio":   f.RepeatRatio,
			"weight":  s.config.Weights.Repeat,
			"formula": "w * min(1, repeat_ratio)",
		},
	}
}

func (s *Scorer) sentenceLength(f model.FeatureSet) model.Signal {
	term := math.Max(0, (f.AvgSentenceLength-s.config.SentenceBase)/nonZero(s.config.SentenceScale))
	return model.Signal{
		Type:         model.SignalSentenceLength,
		Fired:        f.AvgSentenceLength > longSentenceThreshold,
		Contribution: s.config.Weights.SentenceLength * term,
		Description:  fmt.Sprintf("Average sentence length: %.1f words", f.AvgSentenceLength),
		Data: map[string]interface{}{
			"avg_sentence_length": f.AvgSentenceLength,
			"base":                s.config.SentenceBase,
			"scale":               s.config.SentenceScale,
			"weight":              s.config.Weights.SentenceLength,
			"formula":             "w * max(0, (avg_sentence_length - base) / scale)",
		},
	}
}

func (s *Scorer) wordLength(f model.FeatureSet) model.Signal {
	term := math.Max(0, (f.AvgWordLength-s.config.WordBase)/nonZero(s.config.WordScale))
	return model.Signal{
		Type:         model.SignalWordLength,
		Fired:        term > 0,
		Contribution: s.config.Weights.WordLength * term,
		Description:  fmt.Sprintf("Average word length: %.2f characters", f.AvgWordLength),
		Data: map[string]interface{}{
			"avg_word_length": f.AvgWordLength,
			"base":            s.config.WordBase,
			"scale":           s.config.WordScale,
			"weight":          s.config.Weights.WordLength,
			"formula":         "w * max(0, (avg_word_length - base) / scale)",
		},
	}
}

func (s *Scorer) formalPhrases(f model.FeatureSet) model.Signal {
	term := math.Min(1, float64(f.FormalPhraseCount)/nonZero(s.config.PhraseNorm))
	return model.Signal{
		Type:         model.SignalFormalPhrases,
		Fired:        f.FormalPhraseCount > 0,
		Contribution: s.config.Weights.FormalPhrases * term,
		Description:  fmt.Sprintf("%d formal connector phrases", f.FormalPhraseCount),
		Data: map[string]interface{}{
			"count":   f.FormalPhraseCount,
			"norm":    s.config.PhraseNorm,
			"weight":  s.config.Weights.FormalPhrases,
			"formula": "w * min(1, count / norm)",
		},
	}
}

func (s *Scorer) longWords(f model.FeatureSet) model.Signal {
	term := math.Max(0, (f.LongWordRatio-s.config.LongWordBase)*s.config.LongWordScale)
	return model.Signal{
		Type:         model.SignalLongWords,
		Fired:        f.LongWordRatio > longWordThreshold,
		Contribution: s.config.Weights.LongWords * term,
		Description:  fmt.Sprintf("Long word ratio: %.0f%%", f.LongWordRatio*100),
		Data: map[string]interface{}{
			"ratio":   f.LongWordRatio,
			"base":    s.config.LongWordBase,
			"scale":   s.config.LongWordScale,
			"weight":  s.config.Weights.LongWords,
			"formula": "w * max(0, (long_word_ratio - base) * scale)",
		},
	}
}

func (s *Scorer) rareWords(f model.FeatureSet) model.Signal {
	term := math.Max(0, (f.RareWordRatio-s.config.RareWordBase)*s.config.RareWordScale)
	return model.Signal{
		Type:         model.SignalRareWords,
		Fired:        f.RareWordRatio > rareWordThreshold,
		Contribution: s.config.Weights.RareWords * term,
		Description:  fmt.Sprintf("Rare word ratio: %.0f%%", f.RareWordRatio*100),
		Data: map[string]interface{}{
			"ratio":   f.RareWordRatio,
			"base":    s.config.RareWordBase,
			"scale":   s.config.RareWordScale,
			"weight":  s.config.Weights.RareWords,
			"formula": "w * max(0, (rare_word_ratio - base) * scale)",
		},
	}
}

// punctuation is the only subtractive term: dense punctuation reads as
// conversational
func (s *Scorer) punctuation(f model.FeatureSet) model.Signal {
	term := math.Min(s.config.PunctuationCap, math.Max(0, f.PunctuationRatio))
	return model.Signal{
		Type:         model.SignalPunctuation,
		Fired:        term > 0,
		Contribution: -s.config.Weights.Punctuation * term,
		Description:  fmt.Sprintf("Punctuation per word: %.2f", f.PunctuationRatio),
		Data: map[string]interface{}{
			"ratio":   f.PunctuationRatio,
			"cap":     s.config.PunctuationCap,
			"weight":  s.config.Weights.Punctuation,
			"formula": "-w * min(cap, punctuation_ratio)",
		},
	}
}

func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
