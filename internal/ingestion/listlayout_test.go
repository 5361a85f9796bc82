package ingestion

import (
	"testing"

	"github.com/wodwisdom/wodwisdom-backend/internal/ingestion/grid"
)

func TestFindListColumns_LocatesHeader(t *testing.T) {
	cols, ok := findListColumns(sheetOf("S",
		[]string{"My Program", "", ""},
		[]string{"Week", "Day", "Workout"},
		[]string{"1", "Monday", "Fran"},
	))
	if !ok {
		t.Fatalf("expected header to be found")
	}
	if cols.headerRow != 1 || cols.weekCol != 0 || cols.dayCol != 1 || cols.textCol != 2 {
		t.Fatalf("unexpected columns: %#v", cols)
	}
}

func TestFindListColumns_RequiresWorkoutColumn(t *testing.T) {
	_, ok := findListColumns(sheetOf("S",
		[]string{"Week", "Day", "Notes"},
		[]string{"1", "Monday", "Fran"},
	))
	if ok {
		t.Fatalf("expected no header without a workout column")
	}
}

func TestParseListSheet_MapsExplicitColumns(t *testing.T) {
	out, hadWeek := parseListSheet(sheetOf("S",
		[]string{"Week", "Day", "WOD"},
		[]string{"1", "Monday", "Fran"},
		[]string{"2", "3", "Helen"},
		[]string{"", "", ""},
		[]string{"2", "Friday", "Cindy"},
	))
	if !hadWeek {
		t.Fatalf("expected week evidence")
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 records got %d: %#v", len(out), out)
	}
	assertRecord(t, out[0], 1, 1, "Fran", 0)
	assertRecord(t, out[1], 2, 3, "Helen", 0)
	assertRecord(t, out[2], 2, 5, "Cindy", 0)
}

func TestParseListSheet_DefaultsAndClamps(t *testing.T) {
	out, _ := parseListSheet(sheetOf("S",
		[]string{"Week", "Day", "Training"},
		[]string{"99", "9", "too big"},
		[]string{"0", "0", "too small"},
		[]string{"", "", "blank cells"},
	))
	if len(out) != 3 {
		t.Fatalf("expected 3 records got %d: %#v", len(out), out)
	}
	if out[0].WeekNum != 52 || out[0].DayNum != 1 {
		t.Fatalf("expected clamp to week 52 day 1, got %#v", out[0])
	}
	if out[1].WeekNum != 1 || out[1].DayNum != 1 {
		t.Fatalf("expected floor to week 1 day 1, got %#v", out[1])
	}
	if out[2].WeekNum != 1 || out[2].DayNum != 1 {
		t.Fatalf("expected defaults for blank cells, got %#v", out[2])
	}
}

func TestParseListSheet_WeekTextAccepted(t *testing.T) {
	out, hadWeek := parseListSheet(sheetOf("S",
		[]string{"Week", "Workout"},
		[]string{"Week 3", "Grace"},
	))
	if !hadWeek {
		t.Fatalf("expected week evidence")
	}
	if len(out) != 1 || out[0].WeekNum != 3 {
		t.Fatalf("expected week 3 from text cell, got %#v", out)
	}
}

func TestParseListSheet_NoWeekColumn(t *testing.T) {
	out, hadWeek := parseListSheet(sheetOf("S",
		[]string{"Exercise"},
		[]string{"Murph"},
	))
	if hadWeek {
		t.Fatalf("expected no week evidence")
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 record got %#v", out)
	}
	assertRecord(t, out[0], 1, 1, "Murph", 0)
}

func TestParseWorkbook_ListSheetNameForcesWeek(t *testing.T) {
	wb := &grid.Workbook{Sheets: []grid.Sheet{sheetOf("Wk 4",
		[]string{"Day", "Workout"},
		[]string{"Tuesday", "Diane"},
	)}}
	out := parseWorkbook(wb)
	if len(out) != 1 {
		t.Fatalf("expected 1 record got %#v", out)
	}
	assertRecord(t, out[0], 4, 2, "Diane", 0)
}

func TestParseWorkbook_ListWeekColumnSuppressesSheetName(t *testing.T) {
	wb := &grid.Workbook{Sheets: []grid.Sheet{sheetOf("Week 7",
		[]string{"Week", "Workout"},
		[]string{"2", "Isabel"},
	)}}
	out := parseWorkbook(wb)
	if len(out) != 1 || out[0].WeekNum != 2 {
		t.Fatalf("expected explicit week 2 to win, got %#v", out)
	}
}
