// Package chunker splits extracted document text into paragraph-aligned
// chunks for embedding.
package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/futig/docsearch-backend/internal/entity"
)

// DefaultMaxChunkSize is the default chunk budget in characters.
const DefaultMaxChunkSize = 1000

const paragraphSeparator = "\n\n"

// A blank line is a line holding nothing but whitespace.
var blankLine = regexp.MustCompile(`\n[ \t\f\v]*\n`)

// Chunker packs consecutive paragraphs into chunks of at most maxChunkSize
// characters. A paragraph longer than the budget is never split and becomes
// its own chunk.
type Chunker struct {
	maxChunkSize int
}

// New creates a Chunker. A non-positive size selects DefaultMaxChunkSize.
func New(maxChunkSize int) *Chunker {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}
	return &Chunker{maxChunkSize: maxChunkSize}
}

// Paragraphs returns the non-blank paragraphs of text in order.
func Paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	parts := blankLine.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Chunk splits text into chunks annotated with a 1-based index and the total
// count. Text with no non-blank content yields no chunks.
func (c *Chunker) Chunk(text string) []entity.TextChunk {
	var (
		texts  []string
		buf    strings.Builder
		bufLen int
	)

	flush := func() {
		if strings.TrimSpace(buf.String()) != "" {
			texts = append(texts, buf.String())
		}
		buf.Reset()
		bufLen = 0
	}

	for _, p := range Paragraphs(text) {
		pLen := utf8.RuneCountInString(p)

		if bufLen > 0 && bufLen+len(paragraphSeparator)+pLen > c.maxChunkSize {
			flush()
		}

		if bufLen > 0 {
			buf.WriteString(paragraphSeparator)
			bufLen += len(paragraphSeparator)
		}
		buf.WriteString(p)
		bufLen += pLen
	}
	flush()

	chunks := make([]entity.TextChunk, len(texts))
	for i, t := range texts {
		chunks[i] = entity.TextChunk{
			Text:  t,
			Index: i + 1,
			Total: len(texts),
		}
	}

	return chunks
}

// Chunk splits text with the given budget.
func Chunk(text string, maxChunkSize int) []entity.TextChunk {
	return New(maxChunkSize).Chunk(text)
}
