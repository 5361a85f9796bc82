package ingestion

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	weekLineRe  = regexp.MustCompile(`(?i)week\s*(\d+)`)
	dayHeaderRe = regexp.MustCompile(`(?i)^(monday|tuesday|wednesday|thursday|friday|saturday|sunday|mon|tue|wed|thu|fri|sat|sun)([:\s])\s*(.*)$`)
	coolDownRe  = regexp.MustCompile(`(?i)^cool[\s-]*down\b`)
)

// parseManualText handles programs a user typed or pasted by hand: week
// labels and weekday prefixes move a pair of accumulators, every other
// non-empty line becomes one workout at the current slot. Text with no day
// markers at all reparses as blank-line paragraphs instead.
func parseManualText(text string) []ParsedWorkout {
	currentWeek, currentDay := 1, 1
	sawDayMarker := false
	var records []ParsedWorkout

	emit := func(body string) {
		body = strings.TrimSpace(body)
		if body == "" {
			return
		}
		records = append(records, ParsedWorkout{
			WeekNum:     currentWeek,
			DayNum:      currentDay,
			WorkoutText: body,
			SortOrder:   len(records),
		})
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if m := weekLineRe.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 {
				currentWeek = n
			}
			continue
		}
		if m := dayHeaderRe.FindStringSubmatch(line); m != nil {
			sawDayMarker = true
			if day, ok := weekdayNumber(m[1]); ok {
				currentDay = day
			}
			emit(m[3])
			continue
		}
		emit(line)
	}

	if len(records) == 0 || !sawDayMarker {
		return paragraphFallback(text)
	}
	return records
}

// parseGeneratedText handles AI-generated day-grouped programs. Lines after a
// day header accumulate into one block; a weekday header only closes the open
// block once a cool-down line marked the day as finished, so weekday-like
// tokens inside a day do not fragment it.
func parseGeneratedText(text string) []ParsedWorkout {
	currentWeek, currentDay := 1, 1
	sawDayMarker := false
	var records []ParsedWorkout
	var block []string

	flush := func() {
		if len(block) == 0 {
			return
		}
		body := strings.TrimSpace(strings.Join(block, "\n"))
		block = block[:0]
		if body == "" {
			return
		}
		records = append(records, ParsedWorkout{
			WeekNum:     currentWeek,
			DayNum:      currentDay,
			WorkoutText: body,
			SortOrder:   len(records),
		})
	}

	blockFinished := func() bool {
		for _, l := range block {
			if coolDownRe.MatchString(l) {
				return true
			}
		}
		return false
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if m := weekLineRe.FindStringSubmatch(line); m != nil {
			flush()
			if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 {
				currentWeek = n
			}
			continue
		}
		if m := dayHeaderRe.FindStringSubmatch(line); m != nil {
			if len(block) == 0 || blockFinished() {
				sawDayMarker = true
				flush()
				if day, ok := weekdayNumber(m[1]); ok {
					currentDay = day
				}
				if rest := strings.TrimSpace(m[3]); rest != "" {
					block = append(block, rest)
				}
				continue
			}
			block = append(block, line)
			continue
		}
		block = append(block, line)
	}
	flush()

	if len(records) == 0 || !sawDayMarker {
		return paragraphFallback(text)
	}
	return records
}

// paragraphFallback guarantees output for unstructured input: blank-line
// paragraphs map onto a rolling 7-day schedule.
func paragraphFallback(text string) []ParsedWorkout {
	var records []ParsedWorkout
	var buf []string

	flush := func() {
		if len(buf) == 0 {
			return
		}
		body := strings.TrimSpace(strings.Join(buf, "\n"))
		buf = buf[:0]
		if body == "" {
			return
		}
		i := len(records)
		records = append(records, ParsedWorkout{
			WeekNum:     i/7 + 1,
			DayNum:      i%7 + 1,
			WorkoutText: body,
			SortOrder:   i,
		})
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			flush()
			continue
		}
		buf = append(buf, line)
	}
	flush()
	return records
}
