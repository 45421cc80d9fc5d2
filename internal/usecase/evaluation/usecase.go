package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/futig/docsearch-backend/internal/config"
	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/futig/docsearch-backend/internal/pkg/validator"
	"github.com/futig/docsearch-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const generationTemperature = 0.8

// DefaultPassThreshold applies when no pass threshold is configured.
const DefaultPassThreshold = 0.85

// EvaluationUsecase generates synthetic test questions, runs them through
// search and scores the answers.
type EvaluationUsecase struct {
	chunkRepo  repository.ChunkRepository
	gradeRepo  repository.GradeRepository
	llm        Generator
	searcher   Searcher
	formatters FormatterFactory
	validator  *validator.Validator
	categories []string
	cfg        config.EvaluationConfig
}

// NewUsecase creates a new evaluation use case
func NewUsecase(
	chunkRepo repository.ChunkRepository,
	gradeRepo repository.GradeRepository,
	llm Generator,
	searcher Searcher,
	formatters FormatterFactory,
	validator *validator.Validator,
	categories []string,
	cfg config.EvaluationConfig,
) *EvaluationUsecase {
	if cfg.MaxGenerationAttempts <= 0 {
		cfg.MaxGenerationAttempts = 1
	}
	if cfg.PassThreshold <= 0 {
		cfg.PassThreshold = DefaultPassThreshold
	}
	if len(categories) == 0 {
		categories = config.DefaultEvaluationCategories
	}
	return &EvaluationUsecase{
		chunkRepo:  chunkRepo,
		gradeRepo:  gradeRepo,
		llm:        llm,
		searcher:   searcher,
		formatters: formatters,
		validator:  validator,
		categories: categories,
		cfg:        cfg,
	}
}

// GenerateTestQueries asks the model for a diverse batch of questions about
// one ingested file. Batches failing the diversity check are re-requested
// with the violations spelled out.
func (uc *EvaluationUsecase) GenerateTestQueries(
	ctx context.Context,
	req *entity.GenerateQueriesRequest,
) ([]entity.TestCase, error) {
	if err := uc.validator.ValidateGenerateQueries(req); err != nil {
		return nil, err
	}

	chunks, err := uc.chunkRepo.ListChunks(ctx, req.OrganizationID, req.FileName)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %s has no ingested content", entity.ErrFileNotFound, req.FileName)
	}
	document := documentText(chunks, uc.cfg.MaxDocumentChars)

	grades, err := uc.gradeRepo.ListRecentGrades(ctx, req.OrganizationID, recentGradesLimit)
	if err != nil {
		return nil, fmt.Errorf("load recent grades: %w", err)
	}
	summary := gradeSummary(grades)

	ctxzap.Info(ctx, "generating test queries",
		zap.String("organization_id", req.OrganizationID),
		zap.String("file_name", req.FileName),
		zap.Int("count", req.Count),
		zap.Int("document_chars", len([]rune(document))),
		zap.Int("past_grades", len(grades)),
	)

	var violations []string
	for attempt := 1; attempt <= uc.cfg.MaxGenerationAttempts; attempt++ {
		questions, err := uc.requestQuestions(ctx, req.Count, document, summary, violations)
		if err != nil {
			return nil, err
		}

		if len(questions) > req.Count {
			questions = questions[:req.Count]
		}

		violations = DiversityViolations(questions, req.Count, uc.categories)
		if len(violations) == 0 {
			return toTestCases(questions), nil
		}

		ctxzap.Warn(ctx, "generated batch rejected",
			zap.Int("attempt", attempt),
			zap.Strings("violations", violations),
		)
	}

	return nil, fmt.Errorf("%w: %s", entity.ErrDiversityViolation, strings.Join(violations, "; "))
}

func (uc *EvaluationUsecase) requestQuestions(
	ctx context.Context,
	count int,
	document string,
	summary string,
	violations []string,
) ([]entity.GeneratedQuestion, error) {
	raw, err := uc.llm.Complete(ctx, entity.CompletionRequest{
		SystemPrompt: generationPrompt(count, uc.categories, summary, violations),
		Messages: []entity.CompletionMessage{
			{Role: string(entity.TurnRoleUser), Content: document},
		},
		Temperature:  generationTemperature,
		MaxTokens:    200 * count,
		JSONResponse: true,
	})
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	var parsed entity.GeneratedQuestions
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		ctxzap.Error(ctx, "failed to parse generated questions",
			zap.String("raw", truncate(raw, 500)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", entity.ErrMalformedCompletion, err)
	}

	return parsed.Questions, nil
}

func toTestCases(questions []entity.GeneratedQuestion) []entity.TestCase {
	cases := make([]entity.TestCase, 0, len(questions))
	for _, q := range questions {
		cases = append(cases, entity.TestCase{
			Query:          strings.TrimSpace(q.Query),
			ExpectedAnswer: strings.TrimSpace(q.ExpectedAnswer),
			Category:       strings.TrimSpace(q.Category),
			Complexity:     entity.Complexity(normalize(q.Complexity)),
			Tone:           strings.TrimSpace(q.Tone),
		})
	}
	return cases
}

// RunSearchTests runs every case through search without history and
// scores each answer. A failed search fails only its own case.
func (uc *EvaluationUsecase) RunSearchTests(
	ctx context.Context,
	req *entity.RunTestsRequest,
) (*entity.TestRunResult, error) {
	if err := uc.validator.ValidateRunTests(req); err != nil {
		return nil, err
	}

	result := &entity.TestRunResult{
		TotalTests:      len(req.TestCases),
		DetailedResults: make([]entity.TestOutcome, 0, len(req.TestCases)),
	}

	var total float64
	for i, tc := range req.TestCases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		outcome := entity.TestOutcome{TestCase: tc}

		answer, err := uc.searcher.Search(ctx, tc.Query, req.OrganizationID, nil)
		if err != nil {
			ctxzap.Warn(ctx, "test case search failed", zap.Int("case", i+1), zap.Error(err))
			outcome.Error = err.Error()
		} else {
			outcome.Response = answer.Content
			outcome.Similarity = answer.Similarity
			outcome.Score = EvaluateResponse(answer.Content, tc.ExpectedAnswer)
			outcome.Passed = outcome.Score.Overall > uc.cfg.PassThreshold
		}

		if outcome.Passed {
			result.PassedTests++
		}
		total += outcome.Score.Overall
		result.DetailedResults = append(result.DetailedResults, outcome)
	}

	result.AverageScore = total / float64(result.TotalTests)

	ctxzap.Info(ctx, "search tests completed",
		zap.String("organization_id", req.OrganizationID),
		zap.Int("total", result.TotalTests),
		zap.Int("passed", result.PassedTests),
		zap.Float64("average_score", result.AverageScore),
	)

	return result, nil
}

// SaveGrade appends a grade, assigning its ID and timestamp when missing.
func (uc *EvaluationUsecase) SaveGrade(ctx context.Context, grade *entity.GradeRecord) (*entity.GradeRecord, error) {
	if err := uc.validator.ValidateGrade(grade); err != nil {
		return nil, err
	}

	record := *grade
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.GradedAt.IsZero() {
		record.GradedAt = time.Now().UTC()
	}

	saved, err := uc.gradeRepo.AddGrade(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("save grade: %w", err)
	}

	ctxzap.Info(ctx, "grade saved",
		zap.String("grade_id", saved.ID),
		zap.Float64("score", saved.Score),
		zap.String("graded_by", saved.GradedBy),
	)
	return saved, nil
}

// RenderReport renders a test run as a markdown, PDF or DOCX document.
func (uc *EvaluationUsecase) RenderReport(result *entity.TestRunResult, format entity.ResultFormat) (*entity.Report, error) {
	f, err := uc.formatters.Create(format)
	if err != nil {
		return nil, err
	}

	data, err := f.Format(result)
	if err != nil {
		return nil, fmt.Errorf("render %s report: %w", format, err)
	}

	return &entity.Report{
		Data:        data,
		ContentType: f.ContentType(),
		FileName:    "evaluation-report" + f.FileExtension(),
	}, nil
}

func truncate(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n]) + "..."
	}
	return s
}
