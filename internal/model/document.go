package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput is returned when an operation receives missing or blank text.
// No provider call is attempted for such requests.
var ErrInvalidInput = errors.New("invalid input")

// ValidateText rejects empty or whitespace-only text
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: text is empty", ErrInvalidInput)
	}
	return nil
}

// Intensity selects the rule set used by the lexical rewriter
type Intensity string

const (
	IntensityLight  Intensity = "light"
	IntensityStrong Intensity = "strong"
)

// ParseIntensity parses a user-supplied intensity; blank means light
func ParseIntensity(s string) (Intensity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "light", "mild":
		return IntensityLight, nil
	case "strong", "aggressive":
		return IntensityStrong, nil
	default:
		return "", fmt.Errorf("%w: unknown intensity %q (supported: light, strong)", ErrInvalidInput, s)
	}
}

// Operation names the three operations wrapped by the orchestrator
type Operation string

const (
	OperationScore    Operation = "score"
	OperationHumanize Operation = "humanize"
	OperationRemove   Operation = "remove_phrasing"
)
