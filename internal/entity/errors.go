package entity

import "errors"

// Domain errors
var (
	// File errors
	ErrFileNotFound      = errors.New("file not found")
	ErrInvalidFile       = errors.New("invalid file")
	ErrFileTooLarge      = errors.New("file too large")
	ErrInvalidExtension  = errors.New("invalid file extension")
	ErrEmptyDocument     = errors.New("no text extracted from document")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// External service errors
	ErrEmptyEmbedding      = errors.New("embedding service returned no vector")
	ErrEmptyCompletion     = errors.New("text generation returned no content")
	ErrMalformedCompletion = errors.New("malformed structured completion")
	ErrDiversityViolation  = errors.New("generated test batch violates diversity rules")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)
