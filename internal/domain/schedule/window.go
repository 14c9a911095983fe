package schedule

import (
	"fmt"
	"sort"
	"time"
)

// Window is a working interval within one day, in minutes since midnight.
type Window struct {
	Start int
	End   int
}

func (w Window) Valid() bool {
	return w.Start >= 0 && w.End <= 24*60 && w.Start < w.End
}

// TimeSlot is one bookable candidate, HH:MM in the business timezone.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(hm string) (int, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", hm, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Merge unions a set of windows: sorted, with overlapping or touching
// windows collapsed into one. Invalid windows are dropped.
func Merge(windows []Window) []Window {
	valid := make([]Window, 0, len(windows))
	for _, w := range windows {
		if w.Valid() {
			valid = append(valid, w)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	sort.Slice(valid, func(i, j int) bool {
		if valid[i].Start == valid[j].Start {
			return valid[i].End < valid[j].End
		}
		return valid[i].Start < valid[j].Start
	})

	merged := []Window{valid[0]}
	for _, w := range valid[1:] {
		last := &merged[len(merged)-1]
		if w.Start <= last.End {
			if w.End > last.End {
				last.End = w.End
			}
			continue
		}
		merged = append(merged, w)
	}

	return merged
}

// At anchors a minutes-of-day value on a calendar date.
func At(date time.Time, minutes int, loc *time.Location) time.Time {
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		minutes/60, minutes%60, 0, 0,
		loc,
	)
}
