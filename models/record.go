package models

import (
	"time"
)

// TimestampLayout is the logger's date and time columns joined by a single space
const TimestampLayout = "01.02.2006 15:04:05"

// DayLayout is the display format for calendar days
const DayLayout = "2006-01-02"

// Record is one timestamped temperature reading taken from a logger export
type Record struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
}

// Day returns the calendar day of the reading (timestamp truncated to midnight)
func (r Record) Day() time.Time {
	return DayOf(r.Timestamp)
}

// HourFraction returns hour + minute/60, used to plot readings of one day on a 0-24 axis
func (r Record) HourFraction() float64 {
	return float64(r.Timestamp.Hour()) + float64(r.Timestamp.Minute())/60.0
}

// DayOf truncates t to midnight of its calendar day, keeping its location
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// RecordTable is the ordered set of readings parsed from one export, in file order
type RecordTable []Record

// Len returns the number of records
func (t RecordTable) Len() int {
	return len(t)
}

// Head returns at most n records from the start of the table
func (t RecordTable) Head(n int) RecordTable {
	if n < 0 || n >= len(t) {
		return t
	}
	return t[:n]
}

// Temperatures returns the temperature column
func (t RecordTable) Temperatures() []float64 {
	values := make([]float64, len(t))
	for i, r := range t {
		values[i] = r.Temperature
	}
	return values
}

// DayBounds returns the earliest and latest calendar day in the table.
// ok is false for an empty table.
func (t RecordTable) DayBounds() (first, last time.Time, ok bool) {
	if len(t) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first = t[0].Day()
	last = first
	for _, r := range t[1:] {
		day := r.Day()
		if day.Before(first) {
			first = day
		}
		if day.After(last) {
			last = day
		}
	}
	return first, last, true
}
