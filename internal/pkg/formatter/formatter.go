package formatter

import (
	"fmt"

	"github.com/futig/docsearch-backend/internal/entity"
)

const reportTitle = "Search evaluation report"

// Formatter renders a test run into a downloadable document.
type Formatter interface {
	Format(result *entity.TestRunResult) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", entity.ErrInvalidFormat, format)
	}
}

func summaryLines(result *entity.TestRunResult) []string {
	return []string{
		fmt.Sprintf("Total tests: %d", result.TotalTests),
		fmt.Sprintf("Passed: %d", result.PassedTests),
		fmt.Sprintf("Average score: %.2f", result.AverageScore),
	}
}

func outcomeHeading(i int, o entity.TestOutcome) string {
	status := "FAIL"
	if o.Passed {
		status = "PASS"
	}
	return fmt.Sprintf("%d. [%s] %s", i+1, status, o.TestCase.Query)
}

func outcomeLines(o entity.TestOutcome) []string {
	lines := []string{
		fmt.Sprintf("Category: %s, complexity: %s", o.TestCase.Category, o.TestCase.Complexity),
		"Expected: " + o.TestCase.ExpectedAnswer,
		"Response: " + o.Response,
		fmt.Sprintf("Score: %.2f (similarity %.2f, length %.2f, keywords %.2f, penalty %.2f)",
			o.Score.Overall, o.Score.Similarity, o.Score.LengthRatio, o.Score.KeywordCoverage, o.Score.Penalty),
	}
	if o.Error != "" {
		lines = append(lines, "Error: "+o.Error)
	}
	return lines
}
