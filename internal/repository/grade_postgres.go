package repository

import (
	"context"
	"fmt"

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ GradeRepository = &GradePostgres{}

const gradeColumns = `id, test_id, organization_id, query, bot_response, expected_answer, score, graded_by, graded_at`

// GradePostgres implements GradeRepository using PostgreSQL
type GradePostgres struct {
	db *pgxpool.Pool
}

func NewGradePostgres(db *pgxpool.Pool) *GradePostgres {
	return &GradePostgres{db: db}
}

func (r *GradePostgres) AddGrade(ctx context.Context, grade entity.GradeRecord) (*entity.GradeRecord, error) {
	gradeID, err := uuid.Parse(grade.ID)
	if err != nil {
		return nil, fmt.Errorf("parse grade ID: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO grade_records (id, test_id, organization_id, query, bot_response, expected_answer, score, graded_by, graded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+gradeColumns,
		pgtype.UUID{Bytes: gradeID, Valid: true}, grade.TestID, grade.OrganizationID, grade.Query, grade.BotResponse,
		grade.ExpectedAnswer, grade.Score, grade.GradedBy, grade.GradedAt,
	)

	result, err := scanGrade(row)
	if err != nil {
		return nil, fmt.Errorf("add grade: %w", err)
	}

	return &result, nil
}

// ListRecentGrades returns the newest grades first.
func (r *GradePostgres) ListRecentGrades(ctx context.Context, organizationID string, limit int) ([]entity.GradeRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+gradeColumns+` FROM grade_records
		WHERE organization_id = $1
		ORDER BY graded_at DESC
		LIMIT $2`,
		organizationID, normalizeLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}

	grades, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.GradeRecord, error) {
		return scanGrade(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan grades: %w", err)
	}

	return grades, nil
}
