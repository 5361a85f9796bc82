package ingestion

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/wodwisdom/wodwisdom-backend/internal/ingestion/grid"
)

// How many leading rows are scanned for a weekday header row, and the
// thresholds that tip a sheet from stacked-cell (A) to day-per-cell (B)
// extraction.
const (
	headerScanRows    = 20
	newlineFraction   = 0.2
	longCellFraction  = 0.5
	longCellRuneCount = 40
)

var weekCellRe = regexp.MustCompile(`(?i)week\s*(\d+)|wk\s*(\d+)`)

type gridFormat int

const (
	formatA gridFormat = iota // stacked header+movement cells per day column
	formatB                   // one full day write-up per cell
)

type dayColumn struct {
	col     int
	weekday int
}

// sheetGrid is the analyzed shape of one worksheet: where the weekday header
// sits, which columns hold days, the optional week pivot column, and any
// explicit week labels found left of the day columns.
type sheetGrid struct {
	sheet      grid.Sheet
	headerRow  int
	dayCols    []dayColumn
	pivotCol   int
	weekLabels map[int]int
}

func analyzeSheet(sheet grid.Sheet) sheetGrid {
	g := sheetGrid{sheet: sheet, pivotCol: -1, weekLabels: map[int]int{}}
	g.headerRow = findHeaderRow(sheet)

	for col := range sheet.Rows[g.headerRow] {
		cell := sheet.At(g.headerRow, col)
		if day, ok := weekdayNumber(cell.String()); ok {
			g.dayCols = append(g.dayCols, dayColumn{col: col, weekday: day})
			continue
		}
		name := strings.ToLower(strings.TrimSpace(cell.String()))
		if g.pivotCol < 0 && (name == "week" || name == "wk") {
			g.pivotCol = col
		}
	}
	// Canonical Monday..Sunday output order regardless of physical layout.
	sort.SliceStable(g.dayCols, func(i, j int) bool {
		return g.dayCols[i].weekday < g.dayCols[j].weekday
	})

	if len(g.dayCols) > 0 {
		leftmost := g.dayCols[0].col
		for _, dc := range g.dayCols {
			if dc.col < leftmost {
				leftmost = dc.col
			}
		}
		for r := g.headerRow + 1; r < len(sheet.Rows); r++ {
			for c := 0; c < leftmost; c++ {
				if n, ok := cellWeekLabel(sheet.At(r, c)); ok {
					if _, seen := g.weekLabels[r]; !seen {
						g.weekLabels[r] = n
					}
					break
				}
			}
		}
	}
	return g
}

// findHeaderRow picks the first of the leading rows holding at least two
// weekday-vocabulary cells, defaulting to the top row.
func findHeaderRow(sheet grid.Sheet) int {
	limit := len(sheet.Rows)
	if limit > headerScanRows {
		limit = headerScanRows
	}
	for r := 0; r < limit; r++ {
		count := 0
		for c := range sheet.Rows[r] {
			if _, ok := weekdayNumber(sheet.At(r, c).String()); ok {
				count++
			}
		}
		if count >= 2 {
			return r
		}
	}
	return 0
}

func cellWeekLabel(cell grid.Cell) (int, bool) {
	m := weekCellRe.FindStringSubmatch(cell.String())
	if m == nil {
		return 0, false
	}
	digits := m[1]
	if digits == "" {
		digits = m[2]
	}
	n := 0
	for _, r := range digits {
		n = n*10 + int(r-'0')
	}
	if n < 1 {
		return 0, false
	}
	return n, true
}

// sheetNameWeek matches tab names like "Week 3" or "WK3".
func sheetNameWeek(name string) (int, bool) {
	return cellWeekLabel(grid.TextCell(name))
}

func (g *sheetGrid) rowBlank(r int) bool {
	for _, dc := range g.dayCols {
		if !g.sheet.At(r, dc.col).IsBlank() {
			return false
		}
	}
	return true
}

// blocks splits the sheet body into maximal runs of rows with at least one
// non-blank day cell. Each run is one training block, usually one week.
func (g *sheetGrid) blocks() [][]int {
	var blocks [][]int
	var run []int
	for r := g.headerRow + 1; r < len(g.sheet.Rows); r++ {
		if g.rowBlank(r) {
			if len(run) > 0 {
				blocks = append(blocks, run)
				run = nil
			}
			continue
		}
		run = append(run, r)
	}
	if len(run) > 0 {
		blocks = append(blocks, run)
	}
	return blocks
}

// detectFormat classifies the sheet by how its day cells read: mostly short
// single-line cells parse as stacked Format A, cells dominated by embedded
// newlines or long prose parse as one-day-per-cell Format B. Ties on the
// newline fraction stay Format A.
func (g *sheetGrid) detectFormat() gridFormat {
	total, newlines, long := 0, 0, 0
	for r := g.headerRow + 1; r < len(g.sheet.Rows); r++ {
		for _, dc := range g.dayCols {
			cell := g.sheet.At(r, dc.col)
			if cell.IsBlank() {
				continue
			}
			text := strings.TrimSpace(cell.String())
			total++
			if strings.Contains(text, "\n") {
				newlines++
			}
			if utf8.RuneCountInString(text) > longCellRuneCount {
				long++
			}
		}
	}
	if total == 0 {
		return formatA
	}
	if float64(newlines)/float64(total) > newlineFraction {
		return formatB
	}
	if float64(long)/float64(total) > longCellFraction {
		return formatB
	}
	return formatA
}

// blockWeek resolves a block's week number: block ordinal, overridden by an
// explicit week label at the block's start row, overridden by a numeric value
// in the week pivot column.
func (g *sheetGrid) blockWeek(ordinal int, rows []int) int {
	week := ordinal + 1
	if n, ok := g.weekLabels[rows[0]]; ok && n >= 1 {
		week = n
	}
	if g.pivotCol >= 0 {
		if n, ok := g.sheet.At(rows[0], g.pivotCol).Int(); ok && n >= 1 {
			week = n
		}
	}
	return week
}

func (g *sheetGrid) parse() []ParsedWorkout {
	format := g.detectFormat()
	var out []ParsedWorkout
	for i, rows := range g.blocks() {
		week := g.blockWeek(i, rows)
		if format == formatB {
			out = g.extractFormatB(rows, week, out)
		} else {
			out = g.extractFormatA(rows, week, out)
		}
	}
	return out
}

// extractFormatA walks each day column top to bottom, splitting the stacked
// cells into segments at workout-header or strength-notation cells. A
// leading run with no recognized header keeps its first cell as the header.
func (g *sheetGrid) extractFormatA(rows []int, week int, out []ParsedWorkout) []ParsedWorkout {
	for _, dc := range g.dayCols {
		var cells []string
		for _, r := range rows {
			cell := g.sheet.At(r, dc.col)
			if cell.IsBlank() {
				continue
			}
			cells = append(cells, strings.TrimSpace(cell.String()))
		}
		for _, text := range segmentCells(cells) {
			out = append(out, ParsedWorkout{WeekNum: week, DayNum: dc.weekday, WorkoutText: text})
		}
	}
	return out
}

// extractFormatB treats every non-blank day cell as one finished workout,
// flattening internal newlines behind the first line's title.
func (g *sheetGrid) extractFormatB(rows []int, week int, out []ParsedWorkout) []ParsedWorkout {
	for _, dc := range g.dayCols {
		for _, r := range rows {
			cell := g.sheet.At(r, dc.col)
			if cell.IsBlank() {
				continue
			}
			text := flattenCell(cell.String())
			if text == "" {
				continue
			}
			out = append(out, ParsedWorkout{WeekNum: week, DayNum: dc.weekday, WorkoutText: text})
		}
	}
	return out
}

func startsWorkoutSegment(cell string) bool {
	return isWorkoutHeader(cell) || isStrengthLine(cell)
}

func segmentCells(cells []string) []string {
	var segments [][]string
	for _, cell := range cells {
		if startsWorkoutSegment(cell) || len(segments) == 0 {
			segments = append(segments, []string{cell})
			continue
		}
		last := len(segments) - 1
		segments[last] = append(segments[last], cell)
	}
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		out = append(out, joinSegment(seg[0], seg[1:]))
	}
	return out
}

func joinSegment(header string, rest []string) string {
	if len(rest) == 0 {
		return header
	}
	return header + ": " + strings.Join(rest, ", ")
}

func flattenCell(raw string) string {
	var lines []string
	for _, l := range strings.Split(raw, "\n") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		lines = append(lines, l)
	}
	if len(lines) == 0 {
		return ""
	}
	return joinSegment(lines[0], lines[1:])
}

// parseWorkbook runs the per-sheet strategies in workbook order and reassigns
// one dense global sort order. A tab named like "Week 3" pins every record of
// that sheet to the named week unless the sheet carried its own week evidence.
func parseWorkbook(wb *grid.Workbook) []ParsedWorkout {
	var all []ParsedWorkout
	for _, sheet := range wb.Sheets {
		if len(sheet.Rows) == 0 {
			continue
		}
		g := analyzeSheet(sheet)

		var records []ParsedWorkout
		var weekEvidence bool
		if len(g.dayCols) >= 2 {
			records = g.parse()
			weekEvidence = len(g.weekLabels) > 0
		} else {
			records, weekEvidence = parseListSheet(sheet)
		}

		if n, ok := sheetNameWeek(sheet.Name); ok && !weekEvidence {
			for i := range records {
				records[i].WeekNum = n
			}
		}
		all = append(all, records...)
	}
	for i := range all {
		all[i].SortOrder = i
	}
	return all
}
