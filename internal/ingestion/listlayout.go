package ingestion

import (
	"strings"

	"github.com/wodwisdom/wodwisdom-backend/internal/ingestion/grid"
)

const (
	listHeaderScanRows = 10
	maxListWeek        = 52
)

var workoutColumnNames = map[string]struct{}{
	"workout":     {},
	"wod":         {},
	"exercise":    {},
	"exercises":   {},
	"programming": {},
	"training":    {},
}

type listColumns struct {
	headerRow int
	weekCol   int
	dayCol    int
	textCol   int
}

// findListColumns scans the leading rows for a header naming a workout text
// column. Week and day columns are optional.
func findListColumns(sheet grid.Sheet) (listColumns, bool) {
	limit := len(sheet.Rows)
	if limit > listHeaderScanRows {
		limit = listHeaderScanRows
	}
	for r := 0; r < limit; r++ {
		cols := listColumns{headerRow: r, weekCol: -1, dayCol: -1, textCol: -1}
		for c := range sheet.Rows[r] {
			name := strings.ToLower(strings.TrimSpace(sheet.At(r, c).String()))
			switch {
			case name == "week" || name == "wk":
				if cols.weekCol < 0 {
					cols.weekCol = c
				}
			case name == "day":
				if cols.dayCol < 0 {
					cols.dayCol = c
				}
			default:
				if _, ok := workoutColumnNames[name]; ok && cols.textCol < 0 {
					cols.textCol = c
				}
			}
		}
		if cols.textCol >= 0 {
			return cols, true
		}
	}
	return listColumns{}, false
}

func parseListWeekCell(cell grid.Cell) int {
	n, ok := cell.Int()
	if !ok {
		n, ok = cellWeekLabel(cell)
	}
	if !ok || n < 1 {
		return 1
	}
	if n > maxListWeek {
		return maxListWeek
	}
	return n
}

func parseListDayCell(cell grid.Cell) int {
	if day, ok := weekdayNumber(cell.String()); ok {
		return day
	}
	if n, ok := cell.Int(); ok && n >= 1 && n <= 7 {
		return n
	}
	return 1
}

// parseListSheet reads a row-per-workout sheet. The second return reports
// whether the sheet carried its own week column, which suppresses week
// forcing from the sheet name.
func parseListSheet(sheet grid.Sheet) ([]ParsedWorkout, bool) {
	cols, ok := findListColumns(sheet)
	if !ok {
		return nil, false
	}
	var out []ParsedWorkout
	for r := cols.headerRow + 1; r < len(sheet.Rows); r++ {
		text := strings.TrimSpace(sheet.At(r, cols.textCol).String())
		if text == "" {
			continue
		}
		w := ParsedWorkout{WeekNum: 1, DayNum: 1, WorkoutText: text}
		if cols.weekCol >= 0 {
			w.WeekNum = parseListWeekCell(sheet.At(r, cols.weekCol))
		}
		if cols.dayCol >= 0 {
			w.DayNum = parseListDayCell(sheet.At(r, cols.dayCol))
		}
		out = append(out, w)
	}
	return out, cols.weekCol >= 0
}
