package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/futig/docsearch-backend/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(result *entity.TestRunResult) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", reportTitle)

	for _, line := range summaryLines(result) {
		fmt.Fprintf(&buf, "- %s\n", line)
	}

	for i, o := range result.DetailedResults {
		fmt.Fprintf(&buf, "\n## %s\n\n", outcomeHeading(i, o))
		for _, line := range outcomeLines(o) {
			// Keep multi-line answers inside one list item.
			fmt.Fprintf(&buf, "- %s\n", strings.ReplaceAll(line, "\n", " "))
		}
	}

	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
