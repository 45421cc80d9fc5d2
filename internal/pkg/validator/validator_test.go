package validator

import (
	"testing"

	"github.com/futig/docsearch-backend/internal/config"
	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/stretchr/testify/assert"
)

func newTestValidator() *Validator {
	return NewValidator(config.FileUploadConfig{MaxFileSize: 1024})
}

func TestValidateUpload(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name    string
		req     entity.UploadFileRequest
		wantErr error
	}{
		{
			name: "valid pdf",
			req:  entity.UploadFileRequest{OrganizationID: "org", FileName: "menu.pdf", ContentType: "application/pdf", Content: []byte("x")},
		},
		{
			name: "octet stream tolerated",
			req:  entity.UploadFileRequest{OrganizationID: "org", FileName: "menu.docx", ContentType: "application/octet-stream", Content: []byte("x")},
		},
		{
			name:    "missing organization",
			req:     entity.UploadFileRequest{FileName: "menu.pdf", Content: []byte("x")},
			wantErr: entity.ErrMissingField,
		},
		{
			name:    "missing file",
			req:     entity.UploadFileRequest{OrganizationID: "org"},
			wantErr: entity.ErrMissingField,
		},
		{
			name:    "wrong extension",
			req:     entity.UploadFileRequest{OrganizationID: "org", FileName: "menu.exe", Content: []byte("x")},
			wantErr: entity.ErrInvalidExtension,
		},
		{
			name:    "wrong mime type",
			req:     entity.UploadFileRequest{OrganizationID: "org", FileName: "menu.pdf", ContentType: "image/png", Content: []byte("x")},
			wantErr: entity.ErrInvalidExtension,
		},
		{
			name:    "too large",
			req:     entity.UploadFileRequest{OrganizationID: "org", FileName: "menu.txt", Content: make([]byte, 2048)},
			wantErr: entity.ErrFileTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpload(&tt.req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateSearch(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.ValidateSearch(&entity.SearchRequest{OrganizationID: "org", Query: "hours?"}))
	assert.ErrorIs(t, v.ValidateSearch(&entity.SearchRequest{Query: "hours?"}), entity.ErrMissingField)
	assert.ErrorIs(t, v.ValidateSearch(&entity.SearchRequest{OrganizationID: "org", Query: "  "}), entity.ErrMissingField)
	assert.ErrorIs(t, v.ValidateSearch(&entity.SearchRequest{OrganizationID: "org", Query: "q", Mode: "magic"}), entity.ErrInvalidParameter)
	assert.ErrorIs(t, v.ValidateSearch(&entity.SearchRequest{
		OrganizationID: "org",
		Query:          "q",
		History:        []entity.Turn{{Role: "system", Content: "x"}},
	}), entity.ErrInvalidParameter)
}

func TestValidateGenerateQueries(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.ValidateGenerateQueries(&entity.GenerateQueriesRequest{OrganizationID: "org", FileName: "a.pdf", Count: 10}))
	assert.ErrorIs(t, v.ValidateGenerateQueries(&entity.GenerateQueriesRequest{OrganizationID: "org", Count: 10}), entity.ErrMissingField)
	assert.ErrorIs(t, v.ValidateGenerateQueries(&entity.GenerateQueriesRequest{OrganizationID: "org", FileName: "a.pdf"}), entity.ErrInvalidParameter)
}

func TestValidateGrade(t *testing.T) {
	v := newTestValidator()

	ok := entity.GradeRecord{OrganizationID: "org", Query: "q", Score: 0.5, GradedBy: "alice"}
	assert.NoError(t, v.ValidateGrade(&ok))

	bad := ok
	bad.Score = 1.5
	assert.ErrorIs(t, v.ValidateGrade(&bad), entity.ErrInvalidParameter)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Policy_Manual_v2.pdf", SanitizeFilename("../docs/Policy Manual (v2).pdf"))
}
