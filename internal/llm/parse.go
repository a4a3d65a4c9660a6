package llm

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var (
	fencePattern    = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)\\s*```")
	keyValuePattern = regexp.MustCompile(`(?i)"?ai_?probability"?\s*[:=]\s*"?(\d+(?:\.\d+)?|\.\d+)`)
	percentPattern  = regexp.MustCompile(`(\d{1,3}(?:\.\d+)?)\s*%`)
)

// Verdict is a probability recovered from a provider's free-form reply
type Verdict struct {
	Probability float64
	Explanation string
}

// ParseVerdict extracts an AI probability from raw provider text.
// It tries a structured ai_probability field first, then a NN% scan.
// ok is false when neither yields a value in [0, 1].
func ParseVerdict(raw string) (Verdict, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Verdict{}, false
	}

	if v, ok := parseStructured(raw); ok {
		return v, true
	}

	if m := percentPattern.FindStringSubmatch(raw); m != nil {
		pct, err := strconv.ParseFloat(m[1], 64)
		if err == nil && pct >= 0 && pct <= 100 {
			return Verdict{Probability: pct / 100, Explanation: raw}, true
		}
	}

	return Verdict{}, false
}

func parseStructured(raw string) (Verdict, bool) {
	body := raw
	if m := fencePattern.FindStringSubmatch(raw); m != nil {
		body = m[1]
	}

	if start, end := strings.Index(body, "{"), strings.LastIndex(body, "}"); start >= 0 && end > start {
		var payload map[string]any
		if err := json.Unmarshal([]byte(body[start:end+1]), &payload); err == nil {
			for _, key := range []string{"ai_probability", "aiProbability", "probability"} {
				value, present := payload[key]
				if !present {
					continue
				}
				p, ok := toProbability(value)
				if !ok {
					return Verdict{}, false
				}
				explanation, _ := payload["explanation"].(string)
				if explanation == "" {
					explanation = raw
				}
				return Verdict{Probability: p, Explanation: strings.TrimSpace(explanation)}, true
			}
		}
	}

	if m := keyValuePattern.FindStringSubmatch(raw); m != nil {
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return Verdict{}, false
		}
		if p, ok := normalizeProbability(value); ok {
			return Verdict{Probability: p, Explanation: raw}, true
		}
	}

	return Verdict{}, false
}

func toProbability(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return normalizeProbability(v)
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "%"))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		if strings.HasSuffix(strings.TrimSpace(v), "%") {
			f /= 100
		}
		return normalizeProbability(f)
	default:
		return 0, false
	}
}

// normalizeProbability accepts [0,1] as-is and (1,100] as a percentage
func normalizeProbability(v float64) (float64, bool) {
	switch {
	case v >= 0 && v <= 1:
		return v, true
	case v > 1 && v <= 100:
		return v / 100, true
	default:
		return 0, false
	}
}

// CleanRewrite strips code fences and --- delimiters a provider may echo back.
// ok is false when nothing usable remains.
func CleanRewrite(raw string) (string, bool) {
	text := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "---")
	text = strings.TrimSuffix(text, "---")
	text = strings.TrimSpace(text)
	return text, text != ""
}
