// Package ranker scores candidate chunks against a query embedding and keeps
// the best few.
package ranker

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/futig/docsearch-backend/internal/entity"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultSimilarityThreshold = 0.1
	DefaultTermMatchThreshold  = 0.3
	DefaultTopK                = 3
)

// Ranker keeps a candidate when its raw similarity exceeds
// SimilarityThreshold or its term match ratio exceeds TermMatchThreshold,
// then orders the survivors by signal-adjusted similarity.
type Ranker struct {
	Signals             []Signal
	SimilarityThreshold float64
	TermMatchThreshold  float64
	TopK                int
	// Workers > 1 scores candidates concurrently.
	Workers int
}

func New(workers int) *Ranker {
	return &Ranker{
		Signals:             DefaultSignals(),
		SimilarityThreshold: DefaultSimilarityThreshold,
		TermMatchThreshold:  DefaultTermMatchThreshold,
		TopK:                DefaultTopK,
		Workers:             workers,
	}
}

// Rank returns at most TopK candidates, best first. Equal adjusted scores
// keep their input order. An empty input yields an empty result.
func (r *Ranker) Rank(
	ctx context.Context,
	queryEmbedding []float32,
	queryText string,
	candidates []entity.DocumentChunk,
) ([]entity.RankedCandidate, error) {
	terms := QueryTerms(queryText)
	scored := make([]entity.RankedCandidate, len(candidates))

	if r.Workers > 1 && len(candidates) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.Workers)
		for i := range candidates {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				scored[i] = r.score(queryEmbedding, terms, candidates[i])
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range candidates {
			scored[i] = r.score(queryEmbedding, terms, candidates[i])
		}
	}

	kept := make([]entity.RankedCandidate, 0, len(scored))
	for _, c := range scored {
		if c.Similarity > r.SimilarityThreshold || c.TermMatchRatio > r.TermMatchThreshold {
			kept = append(kept, c)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].AdjustedSimilarity > kept[j].AdjustedSimilarity
	})

	topK := r.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	if len(kept) > topK {
		kept = kept[:topK]
	}

	return kept, nil
}

func (r *Ranker) score(query []float32, terms []string, chunk entity.DocumentChunk) entity.RankedCandidate {
	sim := CosineSimilarity(query, chunk.Embedding)
	c := entity.RankedCandidate{
		Chunk:          chunk,
		Similarity:     sim,
		TermMatchRatio: TermMatchRatio(terms, chunk.Content),
	}

	multiplier := 1.0
	for _, s := range r.Signals {
		if !s.Predicate(chunk.Content) {
			continue
		}
		multiplier *= s.Multiplier

		switch s.Name {
		case SignalObligation:
			c.HasSpecificDetails = true
		case SignalQuantity:
			c.HasNumbers = true
		case SignalListItem:
			c.IsListItem = true
		}
	}
	c.AdjustedSimilarity = sim * multiplier

	return c
}

// CosineSimilarity returns 0 for empty, mismatched or zero-norm vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// rounding can push identical vectors a hair past 1
	return math.Max(-1, math.Min(1, sim))
}

// QueryTerms returns the distinct lower-cased words of the query longer than
// two characters.
func QueryTerms(query string) []string {
	words := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '\''
	})

	seen := make(map[string]bool, len(words))
	terms := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Trim(w, "-'")
		if len([]rune(w)) <= 2 || seen[w] {
			continue
		}
		seen[w] = true
		terms = append(terms, w)
	}
	return terms
}

// TermMatchRatio is the fraction of terms found as substrings of content.
func TermMatchRatio(terms []string, content string) float64 {
	if len(terms) == 0 {
		return 0
	}

	lower := strings.ToLower(content)
	matched := 0
	for _, t := range terms {
		if strings.Contains(lower, t) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}
