package analysis

import (
	"errors"
	"math"
	"time"

	"temperature_report/models"
)

// DefaultVariationThreshold is the max-min spread (degrees) above which a range counts as unstable
const DefaultVariationThreshold = 5.0

// ErrEmptyRange is returned when statistics are requested for a range without readings
var ErrEmptyRange = errors.New("no readings in the selected date range")

// Summary holds the statistics of a filtered table
type Summary struct {
	Count     int
	Max       float64
	Min       float64
	Mean      float64
	MaxRecord models.Record
	MinRecord models.Record
}

// Spread is Max - Min
func (s Summary) Spread() float64 {
	return s.Max - s.Min
}

// DayGroup is the readings of one calendar day in file order
type DayGroup struct {
	Day     time.Time
	Records models.RecordTable
}

// DailyMean is the average temperature of one day
type DailyMean struct {
	Day   time.Time
	Count int
	Mean  float64
}

// Filter returns the records whose day falls in rng, in their original order
func Filter(table models.RecordTable, rng models.DateRange) models.RecordTable {
	filtered := models.RecordTable{}
	for _, r := range table {
		if rng.Contains(r.Day()) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Mean returns the average temperature, or NaN for an empty table
func Mean(table models.RecordTable) float64 {
	if len(table) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, r := range table {
		sum += r.Temperature
	}
	return sum / float64(len(table))
}

// Summarize computes extrema and mean. Ties resolve to the first record in the table.
func Summarize(table models.RecordTable) (Summary, error) {
	if len(table) == 0 {
		return Summary{Mean: math.NaN()}, ErrEmptyRange
	}

	s := Summary{
		Count:     len(table),
		MaxRecord: table[0],
		MinRecord: table[0],
	}
	for _, r := range table[1:] {
		if r.Temperature > s.MaxRecord.Temperature {
			s.MaxRecord = r
		}
		if r.Temperature < s.MinRecord.Temperature {
			s.MinRecord = r
		}
	}
	s.Max = s.MaxRecord.Temperature
	s.Min = s.MinRecord.Temperature
	s.Mean = Mean(table)

	return s, nil
}

// LargeVariation reports whether the spread strictly exceeds threshold
func LargeVariation(s Summary, threshold float64) bool {
	return s.Spread() > threshold
}

// GroupByDay partitions the table by calendar day, ordered by first appearance
func GroupByDay(table models.RecordTable) []DayGroup {
	var groups []DayGroup
	index := make(map[time.Time]int)

	for _, r := range table {
		day := r.Day()
		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, DayGroup{Day: day})
		}
		groups[i].Records = append(groups[i].Records, r)
	}

	return groups
}

// DailyMeans averages each group. Days without readings never appear.
func DailyMeans(groups []DayGroup) []DailyMean {
	means := make([]DailyMean, 0, len(groups))
	for _, g := range groups {
		if len(g.Records) == 0 {
			continue
		}
		means = append(means, DailyMean{
			Day:   g.Day,
			Count: len(g.Records),
			Mean:  Mean(g.Records),
		})
	}
	return means
}
