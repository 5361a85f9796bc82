package ingestion

import "strings"

// ParsedWorkout is the canonical record every parsing strategy emits: one
// workout pinned to a (week, day) slot, with a dense document-order index.
// DayNum is ISO-style, Monday=1 through Sunday=7. SortOrder preserves the
// order workouts appeared in the source document, independent of week/day.
type ParsedWorkout struct {
	WeekNum     int    `json:"week_num"`
	DayNum      int    `json:"day_num"`
	WorkoutText string `json:"workout_text"`
	SortOrder   int    `json:"sort_order"`
}

var weekdayNumbers = map[string]int{
	"monday": 1, "mon": 1,
	"tuesday": 2, "tue": 2,
	"wednesday": 3, "wed": 3,
	"thursday": 4, "thu": 4,
	"friday": 5, "fri": 5,
	"saturday": 6, "sat": 6,
	"sunday": 7, "sun": 7,
}

// weekdayNumber resolves a full or 3-letter weekday name to its day number.
func weekdayNumber(s string) (int, bool) {
	n, ok := weekdayNumbers[strings.ToLower(strings.TrimSpace(s))]
	return n, ok
}
