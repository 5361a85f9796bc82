package ingestion

import (
	"errors"
	"fmt"
)

var (
	// ErrNoInput means the caller supplied neither text nor file bytes.
	ErrNoInput = errors.New("no program input provided")
	// ErrUnsupportedKind means the file kind is not one of txt/csv/xlsx/xls.
	ErrUnsupportedKind = errors.New("unsupported file kind")
	// ErrEmptyResult means every strategy ran and no usable workout survived.
	ErrEmptyResult = errors.New("no workouts parsed")
)

// DecodeError reports bytes that could not be decoded as the claimed kind,
// such as a corrupt workbook or text that is not valid UTF-8.
type DecodeError struct {
	Kind string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s input: %v", e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
