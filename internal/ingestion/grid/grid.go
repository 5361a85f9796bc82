package grid

import (
	"strconv"
	"strings"
)

// CellKind discriminates the scalar variants a decoded cell can hold.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
)

// Cell is one decoded spreadsheet cell. Parsing strategies only ever see this
// model; the spreadsheet libraries stay behind the decoders in this package.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

func TextCell(s string) Cell { return Cell{Kind: CellText, Text: s} }

func NumberCell(v float64) Cell { return Cell{Kind: CellNumber, Number: v} }

// FromString classifies a raw cell string the way the decoders hand them over:
// blank becomes an empty cell, numeric strings keep their parsed value.
func FromString(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Cell{}
	}
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Cell{Kind: CellNumber, Text: raw, Number: v}
	}
	return Cell{Kind: CellText, Text: raw}
}

func (c Cell) IsBlank() bool {
	return c.Kind == CellEmpty || strings.TrimSpace(c.String()) == ""
}

// String renders the cell the way it would read in the sheet. Numeric cells
// keep their original text when the decoder preserved it.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		if c.Text != "" {
			return c.Text
		}
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// Int reports the cell as an integer when it holds one, either as a numeric
// cell or as integer-parsable text.
func (c Cell) Int() (int, bool) {
	switch c.Kind {
	case CellNumber:
		return int(c.Number), true
	case CellText:
		if n, err := strconv.Atoi(strings.TrimSpace(c.Text)); err == nil {
			return n, true
		}
	}
	return 0, false
}

// Sheet is one decoded worksheet. Rows may be ragged; access cells through At.
type Sheet struct {
	Name string
	Rows [][]Cell
}

// At returns the cell at (row, col), or an empty cell when out of range.
func (s Sheet) At(row, col int) Cell {
	if row < 0 || row >= len(s.Rows) {
		return Cell{}
	}
	r := s.Rows[row]
	if col < 0 || col >= len(r) {
		return Cell{}
	}
	return r[col]
}

// Workbook is a fully decoded spreadsheet in sheet order.
type Workbook struct {
	Sheets []Sheet
}
