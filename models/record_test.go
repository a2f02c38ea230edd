package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(s string) time.Time {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRecordDerivedFields(t *testing.T) {
	r := Record{Timestamp: at("01.15.2024 08:30:00"), Temperature: 22.5}

	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), r.Day())
	assert.InDelta(t, 8.5, r.HourFraction(), 1e-12)

	late := Record{Timestamp: at("01.15.2024 23:59:59")}
	assert.Less(t, late.HourFraction(), 24.0)
	assert.Equal(t, r.Day(), late.Day())
}

func TestRecordTableDayBounds(t *testing.T) {
	_, _, ok := RecordTable{}.DayBounds()
	assert.False(t, ok)

	table := RecordTable{
		{Timestamp: at("01.16.2024 00:10:00")},
		{Timestamp: at("01.14.2024 12:00:00")},
		{Timestamp: at("01.20.2024 07:00:00")},
	}
	first, last, ok := table.DayBounds()
	require.True(t, ok)
	assert.Equal(t, "2024-01-14", first.Format(DayLayout))
	assert.Equal(t, "2024-01-20", last.Format(DayLayout))
}

func TestRecordTableHead(t *testing.T) {
	table := RecordTable{{Temperature: 1}, {Temperature: 2}, {Temperature: 3}}
	assert.Len(t, table.Head(2), 2)
	assert.Len(t, table.Head(10), 3)
	assert.Equal(t, []float64{1, 2, 3}, table.Temperatures())
}

func TestParseDateRange(t *testing.T) {
	t.Run("single day", func(t *testing.T) {
		r, err := ParseDateRange("2024-01-15")
		require.NoError(t, err)
		assert.True(t, r.SingleDay())
		assert.Equal(t, "2024-01-15", r.String())
	})

	t.Run("two days", func(t *testing.T) {
		r, err := ParseDateRange("2024-01-15:2024-01-20")
		require.NoError(t, err)
		assert.False(t, r.SingleDay())
		assert.Equal(t, "2024-01-15 to 2024-01-20", r.String())
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := ParseDateRange("15.01.2024")
		assert.Error(t, err)
		_, err = ParseDateRange("2024-01-01:2024-01-02:2024-01-03")
		assert.Error(t, err)
	})
}

func TestDateRangeContains(t *testing.T) {
	r, err := NewDateRange(at("01.15.2024 10:00:00"), at("01.16.2024 00:00:00"))
	require.NoError(t, err)

	assert.True(t, r.Contains(at("01.15.2024 00:00:00")))
	assert.True(t, r.Contains(at("01.16.2024 23:59:59")))
	assert.False(t, r.Contains(at("01.17.2024 00:00:00")))
	assert.False(t, r.Contains(at("01.14.2024 23:59:59")))

	inverted := DateRange{Start: r.End, End: r.Start}
	assert.False(t, inverted.Contains(at("01.15.2024 12:00:00")))
	assert.False(t, inverted.Contains(at("01.16.2024 12:00:00")))
}

func TestNewTemperatureReadings(t *testing.T) {
	table := RecordTable{{Timestamp: at("01.15.2024 08:30:00"), Temperature: 22.5}}
	readings := NewTemperatureReadings("logger_a.csv", table)

	require.Len(t, readings, 1)
	assert.Equal(t, "logger_a.csv", readings[0].Source)
	assert.Equal(t, 0, readings[0].Seq)
	assert.Equal(t, table[0], readings[0].Record())
}

func TestNewTemperatureReadingsKeepsRepeatedTimestamps(t *testing.T) {
	table := RecordTable{
		{Timestamp: at("01.15.2024 08:30:00"), Temperature: 22.5},
		{Timestamp: at("01.15.2024 08:30:00"), Temperature: 22.7},
	}
	readings := NewTemperatureReadings("logger_a.csv", table)

	require.Len(t, readings, 2)
	assert.Equal(t, 0, readings[0].Seq)
	assert.Equal(t, 1, readings[1].Seq)
}
