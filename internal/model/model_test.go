package model

import (
	"errors"
	"testing"
)

func TestValidateText(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t "} {
		if err := ValidateText(in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ValidateText(%q) = %v, want ErrInvalidInput", in, err)
		}
	}
	if err := ValidateText("x"); err != nil {
		t.Errorf("ValidateText(\"x\") = %v", err)
	}
}

func TestParseIntensity(t *testing.T) {
	tests := []struct {
		in      string
		want    Intensity
		wantErr bool
	}{
		{"", IntensityLight, false},
		{"light", IntensityLight, false},
		{" Strong ", IntensityStrong, false},
		{"aggressive", IntensityStrong, false},
		{"medium", "", true},
	}
	for _, tt := range tests {
		got, err := ParseIntensity(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseIntensity(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParseIntensity(%q) error should wrap ErrInvalidInput", tt.in)
		}
		if got != tt.want {
			t.Errorf("ParseIntensity(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPercentOf(t *testing.T) {
	tests := map[float64]int{0: 0, 0.004: 0, 0.005: 1, 0.714: 71, 0.996: 100, 1: 100}
	for in, want := range tests {
		if got := PercentOf(in); got != want {
			t.Errorf("PercentOf(%v) = %d, want %d", in, got, want)
		}
	}
}

func TestScorePlainText(t *testing.T) {
	s := Score{AIProbability: 0.42, Percent: 42, Explanation: "Mostly plain wording."}
	want := "AI Probability: 42%\nExplanation: Mostly plain wording."
	if got := s.PlainText(); got != want {
		t.Errorf("PlainText() = %q, want %q", got, want)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	w := cfg.Scoring.Weights
	positive := w.Repeat + w.SentenceLength + w.WordLength + w.FormalPhrases + w.LongWords + w.RareWords
	if positive < 0.949 || positive > 0.951 {
		t.Errorf("positive weights sum to %v, want 0.95", positive)
	}
	if cfg.Scoring.Jitter > 0.01 {
		t.Errorf("jitter %v exceeds 0.01", cfg.Scoring.Jitter)
	}
	if cfg.LLM.Timeout != 20 || cfg.LLM.MaxTokens != 1000 {
		t.Errorf("unexpected LLM defaults: %+v", cfg.LLM)
	}
}
