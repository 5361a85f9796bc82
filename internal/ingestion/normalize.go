package ingestion

import "strings"

// normalizeRecords trims workout text, drops records left empty, and
// reassigns a dense zero-based sort order over the survivors.
func normalizeRecords(records []ParsedWorkout) ([]ParsedWorkout, error) {
	out := make([]ParsedWorkout, 0, len(records))
	for _, w := range records {
		w.WorkoutText = strings.TrimSpace(w.WorkoutText)
		if w.WorkoutText == "" {
			continue
		}
		w.SortOrder = len(out)
		out = append(out, w)
	}
	if len(out) == 0 {
		return nil, ErrEmptyResult
	}
	return out, nil
}
