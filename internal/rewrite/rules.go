package rewrite

import "regexp"

// rule is one case-insensitive, word-bounded substitution. Filler rules are
// deleted outright by the phrase-removal mode; the rest are substituted in
// both modes.
type rule struct {
	pattern     *regexp.Regexp
	replacement string
	filler      bool

	// parenthetical matches the phrase set off by commas on both sides
	parenthetical *regexp.Regexp
	// trailing matches the phrase plus a directly following comma
	trailing *regexp.Regexp
}

func newRule(phrase, replacement string, filler bool) rule {
	return rule{
		pattern:       regexp.MustCompile(`(?i)\b` + phrase + `\b`),
		replacement:   replacement,
		filler:        filler,
		parenthetical: regexp.MustCompile(`(?i),\s*\b` + phrase + `\b\s*,`),
		trailing:      regexp.MustCompile(`(?i)\b` + phrase + `\b\s*,?`),
	}
}

// connectors soften formal transitions. Longer phrases come first so
// "it is important to note that" wins over the "it is" contraction.
var connectors = []rule{
	newRule(`it is important to note that`, "note that", true),
	newRule(`in conclusion`, "to sum up", true),
	newRule(`in summary`, "to sum up", true),
	newRule(`as a result`, "so", true),
	newRule(`therefore`, "so", true),
	newRule(`thus`, "so", true),
	newRule(`moreover`, "also", true),
	newRule(`furthermore`, "also", true),
}

var contractions = []rule{
	newRule(`i am`, "I'm", false),
	newRule(`it is`, "it's", false),
	newRule(`do not`, "don't", false),
}

// lexicon maps flowery vocabulary to plainer words (strong mode only)
var lexicon = []rule{
	newRule(`utilize`, "use", false),
	newRule(`utilise`, "use", false),
	newRule(`utilizes`, "uses", false),
	newRule(`utilized`, "used", false),
	newRule(`utilization`, "use", false),
	newRule(`commence`, "start", false),
	newRule(`commenced`, "started", false),
	newRule(`elucidate`, "explain", false),
	newRule(`facilitate`, "help", false),
	newRule(`endeavor`, "try", false),
	newRule(`endeavour`, "try", false),
	newRule(`ascertain`, "find out", false),
	newRule(`demonstrate`, "show", false),
	newRule(`demonstrates`, "shows", false),
	newRule(`numerous`, "many", false),
	newRule(`approximately`, "about", false),
	newRule(`leverage`, "use", false),
	newRule(`delve`, "dig", false),
	newRule(`myriad`, "many", false),
	newRule(`plethora`, "lots", false),
	newRule(`paramount`, "key", false),
	newRule(`pivotal`, "key", false),
	newRule(`meticulous`, "careful", false),
	newRule(`comprehensive`, "full", false),
	newRule(`seamless`, "smooth", false),
	newRule(`subsequently`, "later", true),
	newRule(`additionally`, "also", true),
	newRule(`consequently`, "so", true),
	newRule(`nevertheless`, "still", true),
	newRule(`ultimately`, "in the end", true),
	newRule(`indeed`, "really", true),
	newRule(`notably`, "especially", true),
}

// lastResort is the deterministic pass that guarantees the output differs
// when nothing else matched
var lastResort = []rule{
	newRule(`very`, "really", false),
	newRule(`however`, "but", false),
	newRule(`because`, "since", false),
	newRule(`in order to`, "to", false),
	newRule(`is not`, "isn't", false),
	newRule(`are not`, "aren't", false),
	newRule(`cannot`, "can't", false),
	newRule(`will not`, "won't", false),
	newRule(`does not`, "doesn't", false),
	newRule(`we are`, "we're", false),
	newRule(`they are`, "they're", false),
	newRule(`you are`, "you're", false),
	newRule(`that is`, "that's", false),
	newRule(`there is`, "there's", false),
}

// casualMarker is the discourse marker strong mode may lead with
const casualMarker = "honestly"

// truncationMarker ends text cut at the length cap
const truncationMarker = "..."
