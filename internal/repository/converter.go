package repository

import (
	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

func scanFile(row pgx.Row) (*entity.SourceFile, error) {
	var (
		f  entity.SourceFile
		id pgtype.UUID
	)
	if err := row.Scan(&id, &f.OrganizationID, &f.FileName, &f.StoragePath, &f.FileType,
		&f.FileSize, &f.HasEmbeddings, &f.CreatedAt); err != nil {
		return nil, err
	}
	f.ID = uuid.UUID(id.Bytes).String()
	return &f, nil
}

func scanGrade(row pgx.Row) (entity.GradeRecord, error) {
	var (
		g  entity.GradeRecord
		id pgtype.UUID
	)
	if err := row.Scan(&id, &g.TestID, &g.OrganizationID, &g.Query, &g.BotResponse,
		&g.ExpectedAnswer, &g.Score, &g.GradedBy, &g.GradedAt); err != nil {
		return entity.GradeRecord{}, err
	}
	g.ID = uuid.UUID(id.Bytes).String()
	return g, nil
}
