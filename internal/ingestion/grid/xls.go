package grid

import (
	"bytes"
	"fmt"

	xls "github.com/extrame/xls"
)

// DecodeXLS decodes legacy .xls bytes into the neutral workbook model. Row
// gaps become empty rows so row indices stay stable for the strategies.
func DecodeXLS(data []byte) (*Workbook, error) {
	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}

	wb := &Workbook{}
	for i := 0; i < book.NumSheets(); i++ {
		ws := book.GetSheet(i)
		if ws == nil {
			continue
		}
		sheet := Sheet{Name: ws.Name}
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := ws.Row(r)
			if row == nil {
				sheet.Rows = append(sheet.Rows, nil)
				continue
			}
			cells := make([]Cell, row.LastCol())
			for c := 0; c < row.LastCol(); c++ {
				cells[c] = FromString(row.Col(c))
			}
			sheet.Rows = append(sheet.Rows, cells)
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb, nil
}
