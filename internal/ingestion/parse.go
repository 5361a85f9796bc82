package ingestion

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/wodwisdom/wodwisdom-backend/internal/ingestion/grid"
)

// Source marks where program text came from. Generated text gets the
// day-block parser tuned for AI output.
const SourceGenerated = "generate"

// File kinds accepted by Parse, matched case-insensitively.
const (
	FileKindTXT  = "txt"
	FileKindCSV  = "csv"
	FileKindXLSX = "xlsx"
	FileKindXLS  = "xls"
)

// Input is one program to ingest: pasted text, an uploaded file, or both.
// When both are present the file wins.
type Input struct {
	Text      string
	FileBytes []byte
	FileKind  string
	Source    string
}

// Parse turns raw program input into the canonical workout records. It is
// pure and deterministic: the same input always yields the same records.
// Returns ErrNoInput when nothing was provided, ErrUnsupportedKind for
// unknown file kinds, a DecodeError when file bytes are unreadable, and
// ErrEmptyResult when nothing parseable survived normalization.
func Parse(in Input) ([]ParsedWorkout, error) {
	// Whitespace-only text is not "no input": it runs the parsers and
	// surfaces ErrEmptyResult instead.
	if len(in.FileBytes) == 0 && in.Text == "" {
		return nil, ErrNoInput
	}

	var records []ParsedWorkout
	if len(in.FileBytes) > 0 {
		kind := strings.ToLower(strings.TrimSpace(in.FileKind))
		switch kind {
		case FileKindXLSX:
			wb, err := grid.DecodeXLSX(in.FileBytes)
			if err != nil {
				return nil, &DecodeError{Kind: kind, Err: err}
			}
			records = parseWorkbook(wb)
		case FileKindXLS:
			wb, err := grid.DecodeXLS(in.FileBytes)
			if err != nil {
				return nil, &DecodeError{Kind: kind, Err: err}
			}
			records = parseWorkbook(wb)
		case FileKindTXT, FileKindCSV:
			body, err := decodeText(in.FileBytes)
			if err != nil {
				return nil, &DecodeError{Kind: kind, Err: err}
			}
			records = parseFreeText(body, in.Source)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, in.FileKind)
		}
	} else {
		records = parseFreeText(in.Text, in.Source)
	}

	return normalizeRecords(records)
}

func parseFreeText(text, source string) []ParsedWorkout {
	if source == SourceGenerated {
		return parseGeneratedText(text)
	}
	return parseManualText(text)
}

func decodeText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("not valid utf-8 text")
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}
