package signal

import (
	"math"
	"strings"
	"testing"
)

func TestExtract_FormalText(t *testing.T) {
	e := NewExtractor(false)
	f := e.ExtractText("In conclusion, therefore, it is clear that the results indicate a strong trend.")

	if f.FormalPhraseCount < 2 {
		t.Errorf("expected formalPhraseCount >= 2, got %d", f.FormalPhraseCount)
	}
	if f.WordCount != 13 {
		t.Errorf("expected 13 words, got %d", f.WordCount)
	}
	if f.SentenceCount != 1 {
		t.Errorf("expected 1 sentence, got %d", f.SentenceCount)
	}
	// conclusion, / therefore, / indicate
	if want := 3.0 / 13.0; math.Abs(f.LongWordRatio-want) > 1e-9 {
		t.Errorf("longWordRatio = %f, want %f", f.LongWordRatio, want)
	}
	// results, indicate (punctuated tokens are not all-lowercase alphabetic)
	if want := 2.0 / 13.0; math.Abs(f.RareWordRatio-want) > 1e-9 {
		t.Errorf("rareWordRatio = %f, want %f", f.RareWordRatio, want)
	}
	if want := 3.0 / 13.0; math.Abs(f.PunctuationRatio-want) > 1e-9 {
		t.Errorf("punctuationRatio = %f, want %f", f.PunctuationRatio, want)
	}
	if f.Repeats != 0 || f.RepeatRatio != 0 {
		t.Errorf("expected no repeats, got %d (%f)", f.Repeats, f.RepeatRatio)
	}
}

func TestExtract_CasualText(t *testing.T) {
	e := NewExtractor(false)
	f := e.ExtractText("Had a great lunch with friends. The weather was perfect and we laughed a lot.")

	if f.FormalPhraseCount != 0 {
		t.Errorf("expected no formal phrases, got %d", f.FormalPhraseCount)
	}
	if f.SentenceCount != 2 {
		t.Errorf("expected 2 sentences, got %d", f.SentenceCount)
	}
	if f.AvgSentenceLength != 7.5 {
		t.Errorf("avgSentenceLength = %f, want 7.5", f.AvgSentenceLength)
	}
	// "a" appears twice
	if f.Repeats != 1 {
		t.Errorf("expected 1 repeat, got %d", f.Repeats)
	}
}

func TestExtract_PhraseCountedOnce(t *testing.T) {
	f := NewExtractor(false).ExtractText("Therefore this. Therefore that. THEREFORE again.")
	if f.FormalPhraseCount != 1 {
		t.Errorf("expected each phrase counted once, got %d", f.FormalPhraseCount)
	}
}

func TestExtract_RepeatsCaseInsensitive(t *testing.T) {
	f := NewExtractor(false).ExtractText("The cat The cat")
	// unigrams: the, cat repeat (2); bigrams: "the cat" repeats (1)
	if f.Repeats != 3 {
		t.Errorf("expected 3 repeats, got %d", f.Repeats)
	}
	if f.RepeatRatio != 1 {
		t.Errorf("expected repeat ratio clamped to 1, got %f", f.RepeatRatio)
	}
}

func TestExtract_ExtendedNGrams(t *testing.T) {
	in := "one two three four one two three four"
	basic := NewExtractor(false).ExtractText(in)
	extended := NewExtractor(true).ExtractText(in)

	if extended.Repeats <= basic.Repeats {
		t.Errorf("expected extended n-grams to find more repeats: basic=%d extended=%d", basic.Repeats, extended.Repeats)
	}
	// 4 unigrams + 3 bigrams + 2 trigrams + 1 fourgram
	if extended.Repeats != 10 {
		t.Errorf("expected 10 extended repeats, got %d", extended.Repeats)
	}
}

func TestExtract_DegenerateInput(t *testing.T) {
	for _, in := range []string{"", "   ", "...", strings.Repeat("!", 10)} {
		f := NewExtractor(true).ExtractText(in)
		values := []float64{f.RepeatRatio, f.AvgSentenceLength, f.AvgWordLength, f.LongWordRatio, f.RareWordRatio, f.PunctuationRatio}
		for _, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("non-finite feature for %q: %+v", in, f)
			}
		}
	}
}
