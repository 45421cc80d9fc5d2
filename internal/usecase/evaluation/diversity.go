package evaluation

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/futig/docsearch-backend/internal/entity"
)

const minDistinctCategories = 6

// DiversityViolations lists the reasons a generated batch is too uniform.
// An empty result means the batch is accepted.
func DiversityViolations(questions []entity.GeneratedQuestion, count int, categories []string) []string {
	var violations []string

	if len(questions) == 0 {
		return []string{"no questions were returned"}
	}

	known := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		known[normalize(c)] = struct{}{}
	}

	perCategory := make(map[string]int)
	seenQueries := make(map[string]struct{}, len(questions))

	for i, q := range questions {
		query := strings.ToLower(strings.TrimSpace(q.Query))
		if query == "" {
			violations = append(violations, fmt.Sprintf("question %d has an empty query", i+1))
		} else if _, ok := seenQueries[query]; ok {
			violations = append(violations, fmt.Sprintf("question %d duplicates an earlier query: %q", i+1, q.Query))
		} else {
			seenQueries[query] = struct{}{}
		}

		if !entity.Complexity(normalize(q.Complexity)).Valid() {
			violations = append(violations, fmt.Sprintf("question %d has unknown complexity %q (use simple, medium or complex)", i+1, q.Complexity))
		}

		category := normalize(q.Category)
		if _, ok := known[category]; len(known) > 0 && !ok {
			violations = append(violations, fmt.Sprintf("question %d uses category %q, which is not one of the listed categories", i+1, q.Category))
			continue
		}
		perCategory[category]++
	}

	if len(categories) > 0 {
		limit := (count + len(categories) - 1) / len(categories)
		for _, category := range slices.Sorted(maps.Keys(perCategory)) {
			if n := perCategory[category]; n > limit {
				violations = append(violations, fmt.Sprintf("category %q has %d questions, at most %d allowed", category, n, limit))
			}
		}
	}

	wantDistinct := min(minDistinctCategories, count)
	if len(categories) > 0 {
		wantDistinct = min(wantDistinct, len(categories))
	}
	if len(perCategory) < wantDistinct {
		violations = append(violations, fmt.Sprintf("only %d distinct categories used, at least %d required", len(perCategory), wantDistinct))
	}

	return violations
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
