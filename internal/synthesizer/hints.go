package synthesizer

import "github.com/futig/docsearch-backend/internal/entity"

type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// contradictionRatio is how close to the top similarity a detailed
// lower-ranked passage has to be before it counts as competing.
const contradictionRatio = 0.9

// ratioEpsilon absorbs float rounding so exactly 90% counts as within.
const ratioEpsilon = 1e-9

// Confidence is the mean raw similarity of the candidates.
func Confidence(candidates []entity.RankedCandidate) float64 {
	if len(candidates) == 0 {
		return 0
	}
	var sum float64
	for _, c := range candidates {
		sum += c.Similarity
	}
	return sum / float64(len(candidates))
}

func LevelOf(confidence float64) ConfidenceLevel {
	switch {
	case confidence >= 0.5:
		return ConfidenceHigh
	case confidence >= 0.3:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// HasContradiction reports whether a lower-ranked passage with specific
// details scores within 90% of the top passage.
func HasContradiction(candidates []entity.RankedCandidate) bool {
	if len(candidates) < 2 {
		return false
	}
	threshold := candidates[0].Similarity*contradictionRatio - ratioEpsilon
	for _, c := range candidates[1:] {
		if c.HasSpecificDetails && c.Similarity >= threshold {
			return true
		}
	}
	return false
}
