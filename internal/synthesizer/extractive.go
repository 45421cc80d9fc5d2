package synthesizer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/futig/docsearch-backend/internal/ranker"
)

var (
	bulletMarker = regexp.MustCompile(`^\s*(?:\d+[.)]|[-•*▪◦]|[a-zA-Z]\))\s+`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Extractive answers from the top candidate alone: the sentence with the
// most query-term hits, followed by the next sentence when that one scores
// too. The returned similarity is the top candidate's raw similarity.
func Extractive(query string, candidates []entity.RankedCandidate) entity.SearchResult {
	if len(candidates) == 0 {
		return entity.NoAnswer()
	}

	top := candidates[0]
	terms := ranker.QueryTerms(query)
	sentences := Sentences(top.Chunk.Content)

	best, bestScore := -1, 0
	for i, s := range sentences {
		if score := termHits(terms, s); score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return entity.NoAnswer()
	}

	answer := sentences[best]
	if next := best + 1; next < len(sentences) && termHits(terms, sentences[next]) > 0 {
		answer += " " + sentences[next]
	}

	return entity.SearchResult{
		Content:    collapseWhitespace(answer),
		Similarity: top.Similarity,
	}
}

// Sentences strips list markers from each line and splits the text after
// '.', '!' or '?' followed by whitespace.
func Sentences(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = bulletMarker.ReplaceAllString(l, "")
	}
	flat := collapseWhitespace(strings.Join(lines, " "))

	var (
		out   []string
		start int
	)
	runes := []rune(flat)
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			out = append(out, s)
		}
		start = i + 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}

	return out
}

func termHits(terms []string, sentence string) int {
	lower := strings.ToLower(sentence)
	hits := 0
	for _, t := range terms {
		hits += strings.Count(lower, t)
	}
	return hits
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}
