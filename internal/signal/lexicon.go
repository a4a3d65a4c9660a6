package signal

// FormalPhrases is the connective lexicon associated with stilted writing.
// Each entry counts at most once per document.
var FormalPhrases = []string{
	"in conclusion",
	"therefore",
	"thus",
	"moreover",
	"furthermore",
	"as a result",
	"in summary",
	"it is important to note",
}

// punctuation counted by the punctuation density feature
const punctuation = ".,!?;:"

const (
	longWordMin = 8
	rareWordMin = 7
)
