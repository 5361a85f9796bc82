package grid

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// DecodeXLSX decodes .xlsx bytes into the neutral workbook model, keeping
// sheets in workbook order.
func DecodeXLSX(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		sheet := Sheet{Name: name, Rows: make([][]Cell, 0, len(rows))}
		for _, raw := range rows {
			cells := make([]Cell, len(raw))
			for i, v := range raw {
				cells[i] = FromString(v)
			}
			sheet.Rows = append(sheet.Rows, cells)
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb, nil
}
