package service

import (
	"errors"
	"strings"
)

var (
	ErrIDRequired    = errors.New("id is required")
	ErrNotFound      = errors.New("record not found")
	ErrReaderNil     = errors.New("reader is nil")
	ErrValidation    = errors.New("validation failed")
	ErrInvalidFolder = errors.New("invalid upload folder")
	ErrUploadFailed  = errors.New("upload failed")
)

// FieldError describes one invalid field of a submitted record.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationError carries every invalid field. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" ("+f.Tag+")")
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// FieldErrors returns the invalid fields of err, or nil if err is not a validation error.
func FieldErrors(err error) []FieldError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
