package formatter

import (
	"bytes"

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (df *DOCXFormatter) Format(result *entity.TestRunResult) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	addHeading(doc, "Heading1", reportTitle)
	for _, line := range summaryLines(result) {
		addParagraph(doc, line)
	}

	for i, o := range result.DetailedResults {
		doc.AddParagraph()
		addHeading(doc, "Heading2", outcomeHeading(i, o))
		for _, line := range outcomeLines(o) {
			addParagraph(doc, line)
		}
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addHeading(doc *document.Document, style, text string) {
	p := doc.AddParagraph()
	p.SetStyle(style)
	p.AddRun().AddText(text)
}

func addParagraph(doc *document.Document, text string) {
	doc.AddParagraph().AddRun().AddText(text)
}

func (df *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (df *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
