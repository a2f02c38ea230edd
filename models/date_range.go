package models

import (
	"fmt"
	"strings"
	"time"
)

// DateRange is an inclusive range of calendar days
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange builds a range from one or two days. A single day selects just that day.
func NewDateRange(days ...time.Time) (DateRange, error) {
	switch len(days) {
	case 1:
		return DateRange{Start: DayOf(days[0]), End: DayOf(days[0])}, nil
	case 2:
		return DateRange{Start: DayOf(days[0]), End: DayOf(days[1])}, nil
	default:
		return DateRange{}, fmt.Errorf("date range needs one or two days, got %d", len(days))
	}
}

// FullRange returns the range spanning every day present in the table
func FullRange(table RecordTable) (DateRange, bool) {
	first, last, ok := table.DayBounds()
	if !ok {
		return DateRange{}, false
	}
	return DateRange{Start: first, End: last}, true
}

// ParseDateRange parses "2024-01-15" or "2024-01-15:2024-01-20"
func ParseDateRange(s string) (DateRange, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) > 2 {
		return DateRange{}, fmt.Errorf("invalid date range %q", s)
	}

	days := make([]time.Time, 0, len(parts))
	for _, part := range parts {
		day, err := ParseDay(part)
		if err != nil {
			return DateRange{}, err
		}
		days = append(days, day)
	}
	return NewDateRange(days...)
}

// ParseDay parses a calendar day in YYYY-MM-DD form
func ParseDay(s string) (time.Time, error) {
	day, err := time.Parse(DayLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q (expected YYYY-MM-DD): %w", s, err)
	}
	return day, nil
}

// Contains reports whether day falls inside the range. A range with Start after End contains nothing.
func (r DateRange) Contains(day time.Time) bool {
	day = DayOf(day)
	return !day.Before(r.Start) && !day.After(r.End)
}

// SingleDay reports whether the range covers exactly one day
func (r DateRange) SingleDay() bool {
	return r.Start.Equal(r.End)
}

func (r DateRange) String() string {
	if r.SingleDay() {
		return r.Start.Format(DayLayout)
	}
	return r.Start.Format(DayLayout) + " to " + r.End.Format(DayLayout)
}
