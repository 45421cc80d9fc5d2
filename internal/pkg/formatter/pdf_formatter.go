package formatter

import (
	"bytes"

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"
	pdfFontName      = "Helvetica"
)

type PDFFormatter struct{}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{}
}

func (pf *PDFFormatter) Format(result *entity.TestRunResult) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Core fonts are cp1252, answers are UTF-8.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(pdfFontName, "B", 18)
	pdf.Cell(0, 10, tr(reportTitle))
	pdf.Ln(12)

	pdf.SetFont(pdfFontName, "", 11)
	_, lineHeight := pdf.GetFontSize()
	for _, line := range summaryLines(result) {
		pdf.MultiCell(0, lineHeight*1.5, tr(line), "", "", false)
	}

	for i, o := range result.DetailedResults {
		pdf.Ln(4)
		pdf.SetFont(pdfFontName, "B", 12)
		pdf.MultiCell(0, lineHeight*1.6, tr(outcomeHeading(i, o)), "", "", false)

		pdf.SetFont(pdfFontName, "", 10)
		for _, line := range outcomeLines(o) {
			pdf.MultiCell(0, lineHeight*1.4, tr(line), "", "", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (pf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (pf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
