package tickets

import (
	"fmt"
	"time"
)

type RangeKey string

const (
	RangeAll       RangeKey = "all"
	RangeToday     RangeKey = "today"
	RangeThisWeek  RangeKey = "thisWeek"
	RangeLastWeek  RangeKey = "lastWeek"
	RangeThisMonth RangeKey = "thisMonth"
	RangeLastMonth RangeKey = "lastMonth"
)

// ParseRangeKey maps the query value to a key. Empty means all.
func ParseRangeKey(s string) (RangeKey, error) {
	switch k := RangeKey(s); k {
	case "":
		return RangeAll, nil
	case RangeAll, RangeToday, RangeThisWeek, RangeLastWeek, RangeThisMonth, RangeLastMonth:
		return k, nil
	}
	return "", fmt.Errorf("unknown time range %q", s)
}

// Range is the half-open interval [Start, End). Unbounded covers every
// parseable timestamp and ignores Start/End.
type Range struct {
	Start     time.Time
	End       time.Time
	Unbounded bool
}

func (r Range) Contains(t time.Time) bool {
	if r.Unbounded {
		return true
	}
	return !t.Before(r.Start) && t.Before(r.End)
}

// RangeFor computes the bucket for key relative to now, in now's location.
func RangeFor(key RangeKey, now time.Time) Range {
	loc := now.Location()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch key {
	case RangeToday:
		return Range{Start: midnight, End: midnight.AddDate(0, 0, 1)}
	case RangeThisWeek, RangeLastWeek:
		// Weekday() is 0 for Sunday; weeks here start on Monday.
		offset := (int(now.Weekday()) + 6) % 7
		monday := midnight.AddDate(0, 0, -offset)
		if key == RangeLastWeek {
			monday = monday.AddDate(0, 0, -7)
		}
		return Range{Start: monday, End: monday.AddDate(0, 0, 7)}
	case RangeThisMonth, RangeLastMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		if key == RangeLastMonth {
			first = first.AddDate(0, -1, 0)
		}
		return Range{Start: first, End: first.AddDate(0, 1, 0)}
	}
	return Range{Unbounded: true}
}
