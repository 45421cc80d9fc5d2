package synthesizer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/futig/docsearch-backend/internal/metrics"
	"github.com/futig/docsearch-backend/internal/pkg/cache"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	DefaultResponseCacheTTL = 5 * time.Minute
	// MaxHistoryTurns is how many prior turns are replayed to the model.
	MaxHistoryTurns = 6
)

const styleRules = `You answer questions from staff using the reference passages below.
Rules:
- Keep the answer under 100 words.
- Never mention "documentation", "documents", "policy" or "policies". Speak as someone who simply knows the answer.
- Do not use lists, bullets, numbering or headings. Write one or two short natural paragraphs.
- Sound conversational and direct, as if talking to a coworker.
- Use only facts from the passages. If they do not answer the question, say you are not sure.`

var (
	blankLines = regexp.MustCompile(`\n[ \t]*(?:\n[ \t]*)+`)
	spaceRuns  = regexp.MustCompile(`[ \t]{2,}`)
)

// Generator produces text from a prompt.
type Generator interface {
	Complete(ctx context.Context, req entity.CompletionRequest) (string, error)
}

// Generative phrases an answer with the text-generation service, grounded on
// the ranked passages. Identical requests within the cache TTL are served
// from the response cache.
type Generative struct {
	llm       Generator
	responses *cache.TTL[entity.SearchResult]
	metrics   *metrics.Metrics
}

func NewGenerative(llm Generator, responses *cache.TTL[entity.SearchResult], m *metrics.Metrics) *Generative {
	if responses == nil {
		responses = cache.New[entity.SearchResult](DefaultResponseCacheTTL)
	}
	return &Generative{
		llm:       llm,
		responses: responses,
		metrics:   m,
	}
}

// Synthesize returns the model's answer with the mean candidate similarity
// as its confidence. Generation errors are returned unchanged.
func (g *Generative) Synthesize(
	ctx context.Context,
	query string,
	candidates []entity.RankedCandidate,
	history []entity.Turn,
) (entity.SearchResult, error) {
	if len(candidates) == 0 {
		return entity.NoAnswer(), nil
	}

	history = lastTurns(history, MaxHistoryTurns)
	key := CacheKey(query, candidates, history)

	if cached, ok := g.responses.Get(key); ok {
		g.metrics.CacheLookup("response", true)
		ctxzap.Debug(ctx, "response cache hit")
		return cached, nil
	}
	g.metrics.CacheLookup("response", false)

	confidence := Confidence(candidates)
	contradiction := HasContradiction(candidates)

	ctxzap.Info(ctx, "generating answer",
		zap.Int("candidates", len(candidates)),
		zap.Float64("confidence", confidence),
		zap.Bool("contradiction", contradiction),
		zap.Int("history_turns", len(history)),
	)

	raw, err := g.llm.Complete(ctx, entity.CompletionRequest{
		SystemPrompt: SystemPrompt(candidates, confidence, contradiction),
		Messages:     buildMessages(query, history),
	})
	if err != nil {
		return entity.SearchResult{}, fmt.Errorf("generate answer: %w", err)
	}

	content := PostProcess(raw)
	if content == "" {
		return entity.SearchResult{}, entity.ErrEmptyCompletion
	}

	result := entity.SearchResult{Content: content, Similarity: confidence}
	g.responses.Set(key, result)

	return result, nil
}

// SystemPrompt combines the style rules, the confidence and contradiction
// hints and the numbered passages, best first.
func SystemPrompt(candidates []entity.RankedCandidate, confidence float64, contradiction bool) string {
	var sb strings.Builder
	sb.WriteString(styleRules)
	sb.WriteString("\n\n")

	switch LevelOf(confidence) {
	case ConfidenceHigh:
		sb.WriteString("Match confidence is high: answer plainly.\n")
	case ConfidenceMedium:
		sb.WriteString("Match confidence is medium: answer, but mention anything you are unsure of.\n")
	default:
		sb.WriteString("Match confidence is low: only answer if a passage clearly covers the question.\n")
	}
	if contradiction {
		sb.WriteString("Passages may disagree on specifics. Prefer passage [1] and mention the difference briefly if it matters.\n")
	}

	sb.WriteString("\nPassages:\n")
	for i, c := range candidates {
		fmt.Fprintf(&sb, "[%d] %s\n", i+1, collapseWhitespace(c.Chunk.Content))
	}

	return sb.String()
}

func buildMessages(query string, history []entity.Turn) []entity.CompletionMessage {
	msgs := make([]entity.CompletionMessage, 0, len(history)+1)
	for _, t := range history {
		msgs = append(msgs, entity.CompletionMessage{Role: string(t.Role), Content: t.Content})
	}
	return append(msgs, entity.CompletionMessage{Role: string(entity.TurnRoleUser), Content: query})
}

// PostProcess collapses blank-line runs, joins the remaining lines with
// spaces and trims the result.
func PostProcess(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = blankLines.ReplaceAllString(s, "\n")
	s = strings.ReplaceAll(s, "\n", " ")
	s = spaceRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CacheKey is the query followed by a SHA-256 signature of the passages and
// the conversation history.
func CacheKey(query string, candidates []entity.RankedCandidate, history []entity.Turn) string {
	h := sha256.New()
	for _, c := range candidates {
		h.Write([]byte(c.Chunk.ID))
		h.Write([]byte{0})
		h.Write([]byte(c.Chunk.Content))
		h.Write([]byte{0})
	}
	for _, t := range history {
		h.Write([]byte{1})
		h.Write([]byte(t.Role))
		h.Write([]byte{0})
		h.Write([]byte(t.Content))
	}
	return query + ":" + hex.EncodeToString(h.Sum(nil))
}

func lastTurns(history []entity.Turn, n int) []entity.Turn {
	if len(history) > n {
		return history[len(history)-n:]
	}
	return history
}
