package formatter

import (
	"bytes"
	"testing"

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *entity.TestRunResult {
	return &entity.TestRunResult{
		TotalTests:   2,
		PassedTests:  1,
		AverageScore: 0.6,
		DetailedResults: []entity.TestOutcome{
			{
				TestCase: entity.TestCase{
					Query:          "What cheese goes on Detroit-style pizza?",
					ExpectedAnswer: "Wisconsin brick cheese.",
					Category:       "ingredients",
					Complexity:     entity.ComplexitySimple,
				},
				Response: "Wisconsin brick cheese.",
				Score:    entity.ScoreBreakdown{Overall: 1, Similarity: 1, LengthRatio: 1, KeywordCoverage: 1, Penalty: 1},
				Passed:   true,
			},
			{
				TestCase: entity.TestCase{Query: "How hot is the oven?", ExpectedAnswer: "Around 500 degrees."},
				Error:    "search failed",
			},
		},
	}
}

func TestFactory_Create(t *testing.T) {
	f := NewFactory()

	for _, format := range []entity.ResultFormat{entity.FormatMarkdown, entity.FormatPDF, entity.FormatDOCX} {
		got, err := f.Create(format)
		require.NoError(t, err)
		assert.Equal(t, "."+string(format), got.FileExtension())
	}

	_, err := f.Create(entity.FormatJSON)
	assert.ErrorIs(t, err, entity.ErrInvalidFormat)
}

func TestMarkdownFormatter(t *testing.T) {
	data, err := NewMarkdownFormatter().Format(sampleResult())
	require.NoError(t, err)

	md := string(data)
	assert.Contains(t, md, "# Search evaluation report")
	assert.Contains(t, md, "- Passed: 1")
	assert.Contains(t, md, "- Average score: 0.60")
	assert.Contains(t, md, "## 1. [PASS] What cheese goes on Detroit-style pizza?")
	assert.Contains(t, md, "## 2. [FAIL] How hot is the oven?")
	assert.Contains(t, md, "- Error: search failed")
}

func TestPDFFormatter(t *testing.T) {
	data, err := NewPDFFormatter().Format(sampleResult())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Equal(t, "application/pdf", NewPDFFormatter().ContentType())
}
