package validator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/futig/docsearch-backend/internal/config"
	"github.com/futig/docsearch-backend/internal/entity"
)

var AllowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
	".md":   true,
}

// allowedContentTypes lists the MIME types accepted for each extension.
// application/octet-stream is tolerated because many clients send it for
// any binary upload.
var allowedContentTypes = map[string][]string{
	".pdf":  {"application/pdf"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	".txt":  {"text/plain"},
	".md":   {"text/markdown", "text/plain", "text/x-markdown"},
}

// Validator validates uploads and request payloads before any external call
type Validator struct {
	cfg config.FileUploadConfig
}

func NewValidator(cfg config.FileUploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateUpload validates a single document upload
func (v *Validator) ValidateUpload(req *entity.UploadFileRequest) error {
	if strings.TrimSpace(req.OrganizationID) == "" {
		return fmt.Errorf("%w: organization_id", entity.ErrMissingField)
	}
	if req.FileName == "" || len(req.Content) == 0 {
		return fmt.Errorf("%w: file", entity.ErrMissingField)
	}

	ext := strings.ToLower(filepath.Ext(req.FileName))
	if _, ok := AllowedExtensions[ext]; !ok {
		return fmt.Errorf("%w: %s (allowed: pdf, docx, txt, md)", entity.ErrInvalidExtension, ext)
	}

	if !contentTypeAllowed(ext, req.ContentType) {
		return fmt.Errorf("%w: content type '%s' does not match %s", entity.ErrInvalidExtension, req.ContentType, ext)
	}

	if int64(len(req.Content)) > v.cfg.MaxFileSize {
		return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, req.FileName, len(req.Content), v.cfg.MaxFileSize)
	}

	return nil
}

func contentTypeAllowed(ext, contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	if mediaType == "application/octet-stream" {
		return true
	}
	for _, allowed := range allowedContentTypes[ext] {
		if mediaType == allowed {
			return true
		}
	}
	return false
}

// SanitizeFilename sanitizes a filename for safe storage
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	replacer := strings.NewReplacer(
		" ", "_",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
	)
	return replacer.Replace(filename)
}
