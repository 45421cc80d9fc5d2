package evaluation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/futig/docsearch-backend/internal/entity"
)

const (
	recentGradesLimit = 20
	lowestGradesShown = 3
)

const generationRules = `You write test questions for a customer-support bot that answers from the document below.
Rules:
- Every question must be answerable from the document alone.
- Cover a different narrow topic with each question. Never ask two questions about the same detail.
- Spread the questions across the categories listed below, no category more than %d times, at least %d different categories.
- Mix complexity (simple, medium, complex) and emotional tone (calm, confused, frustrated, in a hurry).
- expectedAnswer is one or two short conversational sentences, no lists.
Respond with a JSON object: {"questions":[{"query":"...","expectedAnswer":"...","category":"...","complexity":"simple|medium|complex","tone":"..."}]}`

// generationPrompt builds the system prompt for one generation attempt.
// violations is non-empty when a previous batch was rejected.
func generationPrompt(count int, categories []string, gradeSummary string, violations []string) string {
	perCategory := count
	if len(categories) > 0 {
		perCategory = (count + len(categories) - 1) / len(categories)
	}
	distinct := min(minDistinctCategories, count, max(len(categories), 1))

	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate exactly %d test questions.\n", count)
	fmt.Fprintf(&sb, generationRules, perCategory, distinct)

	sb.WriteString("\n\nCategories:\n")
	for _, c := range categories {
		fmt.Fprintf(&sb, "- %s\n", c)
	}

	if gradeSummary != "" {
		sb.WriteString("\n")
		sb.WriteString(gradeSummary)
		sb.WriteString("\n")
	}

	if len(violations) > 0 {
		sb.WriteString("\nYour previous batch was rejected:\n")
		for _, v := range violations {
			fmt.Fprintf(&sb, "- %s\n", v)
		}
		sb.WriteString("Fix every problem above in the new batch.\n")
	}

	return sb.String()
}

// gradeSummary describes recent grades so the next batch probes weak spots.
// It returns "" when nothing has been graded yet.
func gradeSummary(grades []entity.GradeRecord) string {
	if len(grades) == 0 {
		return ""
	}

	var total float64
	for _, g := range grades {
		total += g.Score
	}

	lowest := make([]entity.GradeRecord, len(grades))
	copy(lowest, grades)
	sort.SliceStable(lowest, func(i, j int) bool { return lowest[i].Score < lowest[j].Score })
	if len(lowest) > lowestGradesShown {
		lowest = lowest[:lowestGradesShown]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Past results: the last %d graded answers averaged %.2f.\n", len(grades), total/float64(len(grades)))
	sb.WriteString("The bot struggled most with these questions, ask about related topics:\n")
	for _, g := range lowest {
		fmt.Fprintf(&sb, "- %q (score %.2f)\n", g.Query, g.Score)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// documentText joins the chunks in order, capped at maxChars runes.
func documentText(chunks []entity.DocumentChunk, maxChars int) string {
	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		parts = append(parts, c.Content)
	}
	text := strings.Join(parts, "\n\n")

	if maxChars > 0 {
		if r := []rune(text); len(r) > maxChars {
			text = string(r[:maxChars])
		}
	}
	return text
}
