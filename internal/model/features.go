package model

// FeatureSet holds the stylistic signals extracted from one document.
// Values are always finite; most lie in [0,1].
type FeatureSet struct {
	RepeatRatio       float64 `json:"repeat_ratio"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	AvgWordLength     float64 `json:"avg_word_length"`
	FormalPhraseCount int     `json:"formal_phrase_count"`
	LongWordRatio     float64 `json:"long_word_ratio"`
	RareWordRatio     float64 `json:"rare_word_ratio"`
	PunctuationRatio  float64 `json:"punctuation_ratio"`

	// Repeats is the raw n-gram repeat count behind RepeatRatio
	Repeats int `json:"repeats"`
	// WordCount and SentenceCount are the floored divisors used above
	WordCount     int `json:"word_count"`
	SentenceCount int `json:"sentence_count"`
}
