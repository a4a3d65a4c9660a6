// Package text splits raw documents into words and sentences.
package text

import (
	"regexp"
	"strings"
)

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// Tokens are the derived views of a document
type Tokens struct {
	Words     []string
	Sentences []string
}

// Tokenize splits text on whitespace runs into words and on runs of
// terminal punctuation into sentences. Empty segments are dropped.
func Tokenize(text string) Tokens {
	return Tokens{
		Words:     strings.Fields(text),
		Sentences: Sentences(text),
	}
}

// Sentences returns the non-blank segments between terminal punctuation
func Sentences(text string) []string {
	parts := sentenceEnd.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// WordCount is the divisor used by ratio features, floored at 1
func (t Tokens) WordCount() int {
	return max(1, len(t.Words))
}

// SentenceCount is floored at 1 like WordCount
func (t Tokens) SentenceCount() int {
	return max(1, len(t.Sentences))
}

// Normalize collapses whitespace runs to a single space and trims the ends
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
