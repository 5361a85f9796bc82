package grid

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildXLSX(t *testing.T, sheets map[string][][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheets {
		if first {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
			first = false
		} else {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatalf("new sheet: %v", err)
			}
		}
		for r, row := range rows {
			for c, v := range row {
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatalf("cell name: %v", err)
				}
				if err := f.SetCellValue(name, cell, v); err != nil {
					t.Fatalf("set cell: %v", err)
				}
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write xlsx: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeXLSX(t *testing.T) {
	data := buildXLSX(t, map[string][][]any{
		"Week 1": {
			{"", "Monday", "Tuesday"},
			{"Week 1", "5 RFT", 21},
		},
	})

	wb, err := DecodeXLSX(data)
	if err != nil {
		t.Fatalf("DecodeXLSX: %v", err)
	}
	if len(wb.Sheets) != 1 {
		t.Fatalf("sheets = %d, want 1", len(wb.Sheets))
	}
	s := wb.Sheets[0]
	if s.Name != "Week 1" {
		t.Fatalf("sheet name = %q", s.Name)
	}
	if got := s.At(0, 1).String(); got != "Monday" {
		t.Fatalf("At(0,1) = %q", got)
	}
	if c := s.At(1, 2); c.Kind != CellNumber || c.Number != 21 {
		t.Fatalf("At(1,2) = %+v, want number 21", c)
	}
	if !s.At(0, 0).IsBlank() {
		t.Fatalf("empty cell should decode as blank")
	}
}

func TestDecodeXLSXRejectsGarbage(t *testing.T) {
	if _, err := DecodeXLSX([]byte("definitely not a zip archive")); err == nil {
		t.Fatalf("expected decode error for non-xlsx bytes")
	}
}

func TestDecodeXLSRejectsGarbage(t *testing.T) {
	if _, err := DecodeXLS([]byte("not an ole compound document")); err == nil {
		t.Fatalf("expected decode error for non-xls bytes")
	}
}
