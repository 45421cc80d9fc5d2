package evaluation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/futig/docsearch-backend/internal/entity"
)

const (
	similarityWeight = 0.3
	lengthWeight     = 0.45
	keywordWeight    = 0.25

	minKeywordLength = 4
	verbosityRatio   = 1.5
)

// penalty is a "sounds copy-pasted" smell and its multiplier.
type penalty struct {
	name       string
	matches    func(response string) bool
	multiplier float64
}

var (
	bulletLine       = regexp.MustCompile(`(?m)^\s*[-*]\s`)
	headerVocabulary = regexp.MustCompile(`(?i)\b(specifications|quality control)\b`)
	dimensionPattern = regexp.MustCompile(`\d+\s*[x×]\s*\d+`)
	temperatureUnit  = regexp.MustCompile(`(?i)°\s*[fc]\b|\bdegrees\s+[fc]\b`)
)

var penalties = []penalty{
	{
		name: "bullets",
		matches: func(s string) bool {
			return strings.Contains(s, "•") || bulletLine.MatchString(s)
		},
		multiplier: 0.7,
	},
	{name: "header_vocabulary", matches: headerVocabulary.MatchString, multiplier: 0.8},
	{name: "dimensions", matches: dimensionPattern.MatchString, multiplier: 0.85},
	{name: "temperature_units", matches: temperatureUnit.MatchString, multiplier: 0.85},
}

// EvaluateResponse scores a bot response against the expected answer.
// Conciseness carries the most weight and every score is within [0, 1].
func EvaluateResponse(response, expected string) entity.ScoreBreakdown {
	response = strings.TrimSpace(response)
	expected = strings.TrimSpace(expected)

	if expected == "" {
		if response == "" {
			return entity.ScoreBreakdown{Overall: 1, Similarity: 1, LengthRatio: 1, KeywordCoverage: 1, Penalty: 1}
		}
		return entity.ScoreBreakdown{Penalty: 1}
	}

	respLen := len([]rune(response))
	expLen := len([]rune(expected))

	score := entity.ScoreBreakdown{
		Similarity:      StringSimilarity(response, expected),
		LengthRatio:     1,
		KeywordCoverage: KeywordCoverage(response, expected),
		Penalty:         1,
	}
	if respLen > expLen {
		score.LengthRatio = float64(expLen) / float64(respLen)
	}

	for _, p := range penalties {
		if p.matches(response) {
			score.Penalty *= p.multiplier
		}
	}
	if float64(respLen) > verbosityRatio*float64(expLen) {
		score.Penalty *= 0.3
	}

	base := similarityWeight*score.Similarity + lengthWeight*score.LengthRatio + keywordWeight*score.KeywordCoverage
	score.Overall = clamp01(base * score.Penalty)

	return score
}

// StringSimilarity is one minus the case-insensitive edit distance divided
// by the longer length, both counted in runes.
func StringSimilarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)

	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// KeywordCoverage is the share of distinct expected-answer words longer
// than three characters that also appear in the response.
func KeywordCoverage(response, expected string) float64 {
	keywords := words(expected, minKeywordLength)
	if len(keywords) == 0 {
		return 1
	}

	present := make(map[string]struct{})
	for _, w := range words(response, 1) {
		present[w] = struct{}{}
	}

	hits := 0
	for _, k := range keywords {
		if _, ok := present[k]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(keywords))
}

// words returns distinct lower-cased words of at least minLen runes.
func words(s string, minLen int) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < minLen {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
