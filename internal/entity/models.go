package entity

import "time"

// DocumentChunk is a contiguous slice of a source document's text together
// with its embedding. ChunkIndex is 1-based and unique per
// (OrganizationID, SourceFileName).
type DocumentChunk struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	SourceFileName string    `json:"source_file_name"`
	StoragePath    string    `json:"storage_path"`
	Content        string    `json:"content"`
	Embedding      []float32 `json:"-"`
	ChunkIndex     int       `json:"chunk_index"`
	TotalChunks    int       `json:"total_chunks"`
	PageCount      int       `json:"page_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// SourceFile is the metadata record of an uploaded document.
type SourceFile struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	FileName       string    `json:"file_name"`
	StoragePath    string    `json:"storage_path"`
	FileType       string    `json:"file_type"`
	FileSize       int64     `json:"file_size"`
	HasEmbeddings  bool      `json:"has_embeddings"`
	CreatedAt      time.Time `json:"created_at"`
}

// RankedCandidate is an in-memory ranking result. It is never persisted.
type RankedCandidate struct {
	Chunk              DocumentChunk
	Similarity         float64
	AdjustedSimilarity float64
	TermMatchRatio     float64
	HasSpecificDetails bool
	HasNumbers         bool
	IsListItem         bool
}

// ExtractedDocument is the plain text pulled out of an uploaded file.
type ExtractedDocument struct {
	Text      string
	PageCount int
}

// TextChunk is a chunker output before it is embedded.
type TextChunk struct {
	Text  string
	Index int
	Total int
}
