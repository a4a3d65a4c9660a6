package llm

import (
	"fmt"

	"github.com/ppiankov/stylometer/internal/model"
)

// Sampling temperatures per operation
const (
	DetectTemperature   = 0.2
	HumanizeTemperature = 0.7
	RemoveTemperature   = 0.5
)

const (
	detectSystem   = "You are a careful stylometry assistant. You estimate how likely a passage was machine-generated and answer in strict JSON."
	rewriteSystem  = "You are a helpful assistant that rewrites text to sound natural, human, and less formulaic. Preserve meaning and shorten where appropriate."
	removeSystem   = "You are an editor who removes stock transitional phrasing from text without changing its meaning."
	noAddedFacts   = "Keep the meaning intact and do not add facts."
	replyTextOnly  = "Reply with the rewritten text only."
	detectTemplate = "Analyze the following text and return ONLY JSON with keys ai_probability (0-1) and explanation:\n\n%s"
)

// DetectRequest builds the detection prompt for text
func DetectRequest(text string) GenerateRequest {
	return GenerateRequest{
		Prompt:      fmt.Sprintf(detectTemplate, text),
		System:      detectSystem,
		Temperature: DetectTemperature,
	}
}

// HumanizeRequest builds the rewrite prompt for text at the given intensity
func HumanizeRequest(text string, intensity model.Intensity) GenerateRequest {
	instruction := "Rewrite the following text to sound more human and natural."
	if intensity == model.IntensityStrong {
		instruction = "Rewrite the following text thoroughly so it reads like a person wrote it: vary sentence length, prefer plain words, and use a relaxed tone."
	}
	return GenerateRequest{
		Prompt:      fmt.Sprintf("%s %s %s\n\n---\n%s\n---", instruction, noAddedFacts, replyTextOnly, text),
		System:      rewriteSystem,
		Temperature: HumanizeTemperature,
	}
}

// RemovePhrasingRequest builds the prompt that strips formulaic connectors from text
func RemovePhrasingRequest(text string) GenerateRequest {
	instruction := "Remove formulaic transitions such as \"in conclusion\", \"moreover\", \"furthermore\" and \"it is important to note\" from the following text."
	return GenerateRequest{
		Prompt:      fmt.Sprintf("%s %s %s\n\n---\n%s\n---", instruction, noAddedFacts, replyTextOnly, text),
		System:      removeSystem,
		Temperature: RemoveTemperature,
	}
}
