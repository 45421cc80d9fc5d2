// Package extractor turns uploaded file bytes into plain text.
package extractor

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/ledongthuc/pdf"
	"github.com/unidoc/unioffice/document"
)

// Extractor reads PDF, DOCX and plain-text files.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Extract returns the text of the file. The extension decides the format,
// contentType is consulted only when the name has no extension.
func (e *Extractor) Extract(fileName, contentType string, data []byte) (entity.ExtractedDocument, error) {
	var (
		doc entity.ExtractedDocument
		err error
	)

	switch formatOf(fileName, contentType) {
	case "pdf":
		doc, err = extractPDF(data)
	case "docx":
		doc, err = extractDOCX(data)
	case "txt", "md":
		doc, err = extractPlain(data)
	default:
		return entity.ExtractedDocument{}, fmt.Errorf("%s: %w", fileName, entity.ErrInvalidExtension)
	}
	if err != nil {
		return entity.ExtractedDocument{}, err
	}

	if strings.TrimSpace(doc.Text) == "" {
		return entity.ExtractedDocument{}, fmt.Errorf("%s: %w", fileName, entity.ErrEmptyDocument)
	}

	return doc, nil
}

func formatOf(fileName, contentType string) string {
	if ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), ".")); ext != "" {
		return ext
	}

	switch strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0])) {
	case "application/pdf":
		return "pdf"
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return "docx"
	case "text/plain":
		return "txt"
	case "text/markdown":
		return "md"
	}
	return ""
}

// extractPDF joins page texts with a blank line so page breaks become
// paragraph breaks for the chunker.
func extractPDF(data []byte) (entity.ExtractedDocument, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return entity.ExtractedDocument{}, fmt.Errorf("open pdf: %w: %v", entity.ErrInvalidFile, err)
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return entity.ExtractedDocument{}, fmt.Errorf("read pdf page %d: %w", i, err)
		}

		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}

	return entity.ExtractedDocument{
		Text:      strings.Join(pages, "\n\n"),
		PageCount: numPages,
	}, nil
}

func extractDOCX(data []byte) (entity.ExtractedDocument, error) {
	doc, err := document.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return entity.ExtractedDocument{}, fmt.Errorf("open docx: %w: %v", entity.ErrInvalidFile, err)
	}

	var paragraphs []string
	for _, p := range doc.Paragraphs() {
		var sb strings.Builder
		for _, r := range p.Runs() {
			sb.WriteString(r.Text())
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}

	return entity.ExtractedDocument{
		Text:      strings.Join(paragraphs, "\n\n"),
		PageCount: 1,
	}, nil
}

func extractPlain(data []byte) (entity.ExtractedDocument, error) {
	if !utf8.Valid(data) {
		return entity.ExtractedDocument{}, fmt.Errorf("decode text: %w: not valid UTF-8", entity.ErrInvalidFile)
	}

	return entity.ExtractedDocument{
		Text:      string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))),
		PageCount: 1,
	}, nil
}
