package evaluation

import (
	"context"

	"github.com/futig/docsearch-backend/internal/entity"
)

type EvaluationUsecase interface {
	GenerateTestQueries(ctx context.Context, req *entity.GenerateQueriesRequest) ([]entity.TestCase, error)
	RunSearchTests(ctx context.Context, req *entity.RunTestsRequest) (*entity.TestRunResult, error)
	SaveGrade(ctx context.Context, grade *entity.GradeRecord) (*entity.GradeRecord, error)
	RenderReport(result *entity.TestRunResult, format entity.ResultFormat) (*entity.Report, error)
}
