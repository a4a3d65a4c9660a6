// Package rewrite implements the lexical transforms that soften or strip the
// stylistic cues measured by the signal extractor.
package rewrite

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/stylometer/internal/model"
	"github.com/ppiankov/stylometer/internal/text"
)

var (
	segmentPattern    = regexp.MustCompile(`[^.!?]*[.!?]+|[^.!?]+$`)
	spaceBeforePunct  = regexp.MustCompile(`\s+([,.;:!?])`)
	repeatedCommas    = regexp.MustCompile(`,(\s*,)+`)
	clauseBeforeEnd   = regexp.MustCompile(`[,;:]+\s*([.!?])`)
	clauseAfterEnd    = regexp.MustCompile(`([.!?])\s*[,;:]+`)
	leadingPunct      = regexp.MustCompile(`^[\s,;:]+`)
	sentenceStartChar = regexp.MustCompile(`(?:^|[.!?]\s+)\p{Ll}`)
)

// Rewriter applies the ordered rewrite pipeline
type Rewriter struct {
	config model.RewriteConfig
	rnd    model.Rand
}

// NewRewriter creates a rewriter. Zero thresholds fall back to the defaults
// and a nil rnd uses model.GlobalRand.
func NewRewriter(config model.RewriteConfig, rnd model.Rand) *Rewriter {
	def := model.DefaultRewriteConfig()
	if config.LightSplitThreshold <= 0 {
		config.LightSplitThreshold = def.LightSplitThreshold
	}
	if config.StrongSplitThreshold <= 0 {
		config.StrongSplitThreshold = def.StrongSplitThreshold
	}
	if config.LightMaxChars <= len(truncationMarker) {
		config.LightMaxChars = def.LightMaxChars
	}
	if config.StrongMaxChars <= len(truncationMarker) {
		config.StrongMaxChars = def.StrongMaxChars
	}
	if rnd == nil {
		rnd = model.GlobalRand
	}
	return &Rewriter{config: config, rnd: rnd}
}

// Rewrite runs the humanize pipeline at the given intensity. Strong mode is
// a lossy paraphrase: it may reorder clauses and add a discourse marker.
func (r *Rewriter) Rewrite(input string, intensity model.Intensity) string {
	if strings.TrimSpace(input) == "" {
		return input
	}
	strong := intensity == model.IntensityStrong

	out := text.Normalize(input)
	out = substitute(out, connectors)
	out = substitute(out, contractions)
	out = splitLongSentences(out, r.splitThreshold(strong))
	if strong {
		out = substitute(out, lexicon)
	}
	if out == input && hasWords(out) {
		out = lastResortChange(out)
	}

	if strong {
		// Both rolls are drawn up front so a seeded source gives stable output
		reorderRoll := r.rnd.Float64()
		markerRoll := r.rnd.Float64()
		if reorderRoll < r.config.ReorderChance {
			out = reorderClauses(out)
		}
		if markerRoll < r.config.MarkerChance {
			out = addMarker(out)
		}
	}

	return truncate(out, r.maxChars(strong))
}

// RemovePhrasing deletes formal connectors and filler adverbs instead of
// replacing them, then repairs the punctuation left behind
func (r *Rewriter) RemovePhrasing(input string) string {
	if strings.TrimSpace(input) == "" {
		return input
	}
	normalized := text.Normalize(input)

	out := deletePhrases(normalized, connectors)
	out = deletePhrases(out, lexicon)
	out = text.Normalize(repairPunctuation(out))
	if !hasWords(out) {
		// Nothing but connectors: soften instead of returning an empty string
		out = substitute(normalized, connectors)
	}

	out = substitute(out, contractions)
	out = splitLongSentences(out, r.config.LightSplitThreshold)
	return truncate(out, r.config.LightMaxChars)
}

func (r *Rewriter) splitThreshold(strong bool) int {
	if strong {
		return r.config.StrongSplitThreshold
	}
	return r.config.LightSplitThreshold
}

func (r *Rewriter) maxChars(strong bool) int {
	if strong {
		return r.config.StrongMaxChars
	}
	return r.config.LightMaxChars
}

// substitute applies every rule, keeping the capitalization of the first
// letter of each match
func substitute(s string, rules []rule) string {
	for _, rl := range rules {
		repl := rl.replacement
		s = rl.pattern.ReplaceAllStringFunc(s, func(match string) string {
			return matchCase(match, repl)
		})
	}
	return s
}

// deletePhrases removes filler rules and substitutes the others
func deletePhrases(s string, rules []rule) string {
	for _, rl := range rules {
		if !rl.filler {
			s = substitute(s, []rule{rl})
			continue
		}
		s = rl.parenthetical.ReplaceAllString(s, " ")
		s = rl.trailing.ReplaceAllString(s, "")
	}
	return s
}

func repairPunctuation(s string) string {
	s = spaceBeforePunct.ReplaceAllString(s, "$1")
	s = repeatedCommas.ReplaceAllString(s, ",")
	s = clauseBeforeEnd.ReplaceAllString(s, "$1")
	s = clauseAfterEnd.ReplaceAllString(s, "$1")
	s = leadingPunct.ReplaceAllString(s, "")
	return capitalizeSentences(s)
}

func capitalizeSentences(s string) string {
	return sentenceStartChar.ReplaceAllStringFunc(s, func(m string) string {
		last, size := utf8.DecodeLastRuneInString(m)
		return m[:len(m)-size] + string(unicode.ToUpper(last))
	})
}

// splitLongSentences breaks segments longer than threshold at ", " into
// separately terminated sentences. Text without a long segment is returned
// unchanged.
func splitLongSentences(s string, threshold int) string {
	segments := segmentPattern.FindAllString(s, -1)
	changed := false
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if utf8.RuneCountInString(seg) > threshold && strings.Contains(seg, ", ") {
			seg = splitSegment(seg)
			changed = true
		}
		out = append(out, seg)
	}
	if !changed {
		return s
	}
	return strings.Join(out, " ")
}

func splitSegment(seg string) string {
	core := strings.TrimRight(seg, ".!?")
	term := seg[len(core):]
	if term == "" {
		term = "."
	}

	parts := strings.Split(core, ", ")
	sentences := make([]string, 0, len(parts))
	for i, p := range parts {
		p = strings.TrimRight(strings.TrimSpace(p), ",;:")
		if p == "" {
			continue
		}
		end := "."
		if i == len(parts)-1 {
			end = term
		}
		sentences = append(sentences, capitalize(p)+end)
	}
	return strings.Join(sentences, " ")
}

// reorderClauses moves the final comma-separated clause to the front as its
// own sentence
func reorderClauses(s string) string {
	idx := strings.LastIndex(s, ", ")
	if idx <= 0 {
		return s
	}
	head := strings.TrimSpace(s[:idx])
	tail := strings.TrimSpace(s[idx+2:])
	core := strings.TrimRight(tail, ".!? ")
	if head == "" || core == "" {
		return s
	}
	term := tail[len(core):]
	if term == "" {
		term = "."
	}
	if !endsWithTerminal(head) {
		head = strings.TrimRight(head, ",;:") + "."
	}
	return capitalize(core) + term + " " + head
}

func addMarker(s string) string {
	if strings.Contains(strings.ToLower(s), casualMarker) {
		return s
	}
	return capitalize(casualMarker) + ", " + lowerFirst(s)
}

// lastResortChange is deterministic and always alters text containing a
// letter or digit
func lastResortChange(s string) string {
	if out := substitute(s, lastResort); out != s {
		return out
	}
	if !endsWithTerminal(s) {
		return s + "."
	}
	return "Basically, " + lowerFirst(s)
}

func truncate(s string, maxChars int) string {
	if utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	runes := []rune(s)
	cut := maxChars - len(truncationMarker)
	return strings.TrimRight(string(runes[:cut]), " ") + truncationMarker
}

func matchCase(match, replacement string) string {
	first, _ := utf8.DecodeRuneInString(match)
	if unicode.IsUpper(first) {
		return capitalize(replacement)
	}
	return replacement
}

func capitalize(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(first)) + s[size:]
}

// lowerFirst lowercases the first letter unless the first word is "I", a
// contraction of it, or an acronym
func lowerFirst(s string) string {
	word, _, _ := strings.Cut(s, " ")
	if word == "I" || strings.HasPrefix(word, "I'") || isAcronym(word) {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToLower(first)) + s[size:]
}

func isAcronym(word string) bool {
	letters := 0
	for _, r := range word {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters > 1
}

func endsWithTerminal(s string) bool {
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?")
}

func hasWords(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
