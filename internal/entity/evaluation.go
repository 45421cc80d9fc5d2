package entity

import "time"

type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

func (c Complexity) Valid() bool {
	switch c {
	case ComplexitySimple, ComplexityMedium, ComplexityComplex:
		return true
	default:
		return false
	}
}

// TestCase is a synthetic query generated from a document. Not persisted.
type TestCase struct {
	Query          string     `json:"query"`
	ExpectedAnswer string     `json:"expectedAnswer,omitempty"`
	Category       string     `json:"category"`
	Complexity     Complexity `json:"complexity"`
	Tone           string     `json:"tone,omitempty"`
}

// GradeRecord is an append-only human or automated grade of a bot response.
type GradeRecord struct {
	ID             string    `json:"id"`
	TestID         string    `json:"test_id"`
	OrganizationID string    `json:"organization_id"`
	Query          string    `json:"query"`
	BotResponse    string    `json:"bot_response"`
	ExpectedAnswer string    `json:"expected_answer"`
	Score          float64   `json:"score"`
	GradedBy       string    `json:"graded_by"`
	GradedAt       time.Time `json:"graded_at"`
}

// ScoreBreakdown holds the components of an automated response score.
type ScoreBreakdown struct {
	Overall         float64 `json:"overall"`
	Similarity      float64 `json:"similarity"`
	LengthRatio     float64 `json:"length_ratio"`
	KeywordCoverage float64 `json:"keyword_coverage"`
	Penalty         float64 `json:"penalty"`
}

type TestOutcome struct {
	TestCase   TestCase       `json:"test_case"`
	Response   string         `json:"response"`
	Similarity float64        `json:"similarity"`
	Score      ScoreBreakdown `json:"score"`
	Passed     bool           `json:"passed"`
	Error      string         `json:"error,omitempty"`
}

type TestRunResult struct {
	TotalTests      int           `json:"totalTests"`
	PassedTests     int           `json:"passedTests"`
	AverageScore    float64       `json:"averageScore"`
	DetailedResults []TestOutcome `json:"detailedResults"`
}

type GenerateQueriesRequest struct {
	OrganizationID string `json:"-"`
	FileName       string `json:"file_name"`
	Count          int    `json:"count"`
}

type RunTestsRequest struct {
	OrganizationID string     `json:"-"`
	TestCases      []TestCase `json:"test_cases"`
}

type ResultFormat string

const (
	FormatJSON     ResultFormat = "json"
	FormatMarkdown ResultFormat = "md"
	FormatPDF      ResultFormat = "pdf"
	FormatDOCX     ResultFormat = "docx"
)

// Report is a rendered TestRunResult ready to be downloaded.
type Report struct {
	Data        []byte
	ContentType string
	FileName    string
}

func (f ResultFormat) Valid() bool {
	switch f {
	case FormatJSON, FormatMarkdown, FormatPDF, FormatDOCX:
		return true
	default:
		return false
	}
}
