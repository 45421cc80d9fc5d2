package validator

import (
	"fmt"
	"strings"

	"github.com/futig/docsearch-backend/internal/entity"
)

const (
	maxQueryLength = 2000
	maxTestCases   = 100
	maxQueryCount  = 50
)

// ValidateSearch validates a search request
func (v *Validator) ValidateSearch(req *entity.SearchRequest) error {
	if strings.TrimSpace(req.OrganizationID) == "" {
		return fmt.Errorf("%w: organization_id", entity.ErrMissingField)
	}
	if strings.TrimSpace(req.Query) == "" {
		return fmt.Errorf("%w: query", entity.ErrMissingField)
	}
	if len([]rune(req.Query)) > maxQueryLength {
		return fmt.Errorf("%w: query longer than %d characters", entity.ErrInvalidParameter, maxQueryLength)
	}

	switch req.Mode {
	case "", entity.SearchModeGenerative, entity.SearchModeExtractive:
	default:
		return fmt.Errorf("%w: unknown mode %q", entity.ErrInvalidParameter, req.Mode)
	}

	for i, turn := range req.History {
		if turn.Role != entity.TurnRoleUser && turn.Role != entity.TurnRoleAssistant {
			return fmt.Errorf("%w: history[%d].role %q", entity.ErrInvalidParameter, i, turn.Role)
		}
	}

	return nil
}

// ValidateGenerateQueries validates a test query generation request
func (v *Validator) ValidateGenerateQueries(req *entity.GenerateQueriesRequest) error {
	if strings.TrimSpace(req.OrganizationID) == "" {
		return fmt.Errorf("%w: organization_id", entity.ErrMissingField)
	}
	if strings.TrimSpace(req.FileName) == "" {
		return fmt.Errorf("%w: file_name", entity.ErrMissingField)
	}
	if req.Count < 1 || req.Count > maxQueryCount {
		return fmt.Errorf("%w: count must be between 1 and %d, got %d", entity.ErrInvalidParameter, maxQueryCount, req.Count)
	}
	return nil
}

// ValidateRunTests validates a test run request
func (v *Validator) ValidateRunTests(req *entity.RunTestsRequest) error {
	if strings.TrimSpace(req.OrganizationID) == "" {
		return fmt.Errorf("%w: organization_id", entity.ErrMissingField)
	}
	if len(req.TestCases) == 0 {
		return fmt.Errorf("%w: test_cases", entity.ErrMissingField)
	}
	if len(req.TestCases) > maxTestCases {
		return fmt.Errorf("%w: at most %d test cases per run", entity.ErrInvalidParameter, maxTestCases)
	}
	for i, tc := range req.TestCases {
		if strings.TrimSpace(tc.Query) == "" {
			return fmt.Errorf("%w: test_cases[%d].query", entity.ErrMissingField, i)
		}
	}
	return nil
}

// ValidateGrade validates a grade record submitted by a reviewer
func (v *Validator) ValidateGrade(grade *entity.GradeRecord) error {
	if strings.TrimSpace(grade.OrganizationID) == "" {
		return fmt.Errorf("%w: organization_id", entity.ErrMissingField)
	}
	if strings.TrimSpace(grade.Query) == "" {
		return fmt.Errorf("%w: query", entity.ErrMissingField)
	}
	if grade.Score < 0 || grade.Score > 1 {
		return fmt.Errorf("%w: score must be within [0, 1]", entity.ErrInvalidParameter)
	}
	if strings.TrimSpace(grade.GradedBy) == "" {
		return fmt.Errorf("%w: graded_by", entity.ErrMissingField)
	}
	return nil
}
