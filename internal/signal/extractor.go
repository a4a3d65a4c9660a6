// Package signal computes the stylistic features used to estimate whether a
// passage was machine-generated.
package signal

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/stylometer/internal/model"
	"github.com/ppiankov/stylometer/internal/text"
)

var rareWordPattern = regexp.MustCompile(`^[a-z]{7,}$`)

// Extractor computes a FeatureSet from tokens
type Extractor struct {
	// Extended adds 3- and 4-grams to the repeat counter
	Extended bool
}

// NewExtractor creates a new extractor
func NewExtractor(extended bool) *Extractor {
	return &Extractor{Extended: extended}
}

// ExtractText tokenizes raw text and extracts its features
func (e *Extractor) ExtractText(raw string) model.FeatureSet {
	return e.Extract(text.Tokenize(raw), raw)
}

// Extract computes every feature. It never fails; degenerate input yields
// near-zero values.
func (e *Extractor) Extract(tokens text.Tokens, raw string) model.FeatureSet {
	wordCount := tokens.WordCount()
	words := float64(wordCount)

	repeats := e.countRepeats(tokens.Words)
	repeatRatio := math.Min(1, float64(repeats)/math.Max(1, math.Log(words+1)))

	totalLen := 0
	longWords := 0
	rareWords := 0
	for _, w := range tokens.Words {
		n := utf8.RuneCountInString(w)
		totalLen += n
		if n >= longWordMin {
			longWords++
		}
		if rareWordPattern.MatchString(w) {
			rareWords++
		}
	}

	return model.FeatureSet{
		RepeatRatio:       repeatRatio,
		AvgSentenceLength: words / float64(tokens.SentenceCount()),
		AvgWordLength:     float64(totalLen) / words,
		FormalPhraseCount: CountFormalPhrases(raw),
		LongWordRatio:     float64(longWords) / words,
		RareWordRatio:     float64(rareWords) / words,
		PunctuationRatio:  float64(countPunctuation(raw)) / words,
		Repeats:           repeats,
		WordCount:         wordCount,
		SentenceCount:     tokens.SentenceCount(),
	}
}

// ngramSizes returns the n-gram lengths walked by the repeat counter
func (e *Extractor) ngramSizes() []int {
	if e.Extended {
		return []int{1, 2, 3, 4}
	}
	return []int{1, 2}
}

// countRepeats walks n-grams left to right and counts every sighting after
// the first one
func (e *Extractor) countRepeats(words []string) int {
	lower := make([]string, len(words))
	for i, w := range words {
		lower[i] = strings.ToLower(w)
	}

	repeats := 0
	for _, n := range e.ngramSizes() {
		seen := make(map[string]int)
		for i := 0; i+n <= len(lower); i++ {
			gram := strings.Join(lower[i:i+n], " ")
			seen[gram]++
			if seen[gram] > 1 {
				repeats++
			}
		}
	}
	return repeats
}

// CountFormalPhrases counts how many lexicon phrases occur in the text
func CountFormalPhrases(raw string) int {
	lower := strings.ToLower(raw)
	count := 0
	for _, phrase := range FormalPhrases {
		if strings.Contains(lower, phrase) {
			count++
		}
	}
	return count
}

func countPunctuation(raw string) int {
	count := 0
	for _, r := range raw {
		if strings.ContainsRune(punctuation, r) {
			count++
		}
	}
	return count
}
