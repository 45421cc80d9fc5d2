package ranker

import "regexp"

var (
	obligationPattern = regexp.MustCompile(`(?i)\b(must|required|requires|require|mandatory|shall|procedures?|always|never)\b`)
	quantityPattern   = regexp.MustCompile(`(?i)\b\d+(?:[.,]\d+)?\s*(?:%|percent\b|seconds?\b|secs?\b|minutes?\b|mins?\b|hours?\b|hrs?\b|days?\b|weeks?\b|months?\b|inch(?:es)?\b|in\b|"|feet\b|foot\b|ft\b|cm\b|mm\b|meters?\b|oz\b|ounces?\b|lbs?\b|pounds?\b|grams?\b|g\b|kg\b|degrees?\b|°)`)
	listItemPattern   = regexp.MustCompile(`(?m)^\s*(?:\d+[.)]|[-•*▪]|[a-zA-Z]\))\s+`)
)

const (
	SignalObligation = "obligation"
	SignalQuantity   = "quantity"
	SignalListItem   = "list_item"
)

// Signal is a lexical heuristic that boosts passages reading like
// answer-bearing text.
type Signal struct {
	Name       string
	Predicate  func(content string) bool
	Multiplier float64
}

// DefaultSignals favor mandates, measured quantities and enumerations.
func DefaultSignals() []Signal {
	return []Signal{
		{Name: SignalObligation, Predicate: obligationPattern.MatchString, Multiplier: 1.2},
		{Name: SignalQuantity, Predicate: quantityPattern.MatchString, Multiplier: 1.1},
		{Name: SignalListItem, Predicate: listItemPattern.MatchString, Multiplier: 1.1},
	}
}
