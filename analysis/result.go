package analysis

import (
	"fmt"
	"strings"

	"temperature_report/models"
)

// ChartMode selects one of the three chart views
type ChartMode string

const (
	ModeByDay        ChartMode = "by day"
	ModeByHour       ChartMode = "by hour/temperature"
	ModeDailyAverage ChartMode = "daily average"
)

// ChartModes lists the modes in menu order
var ChartModes = []ChartMode{ModeByDay, ModeByHour, ModeDailyAverage}

// ParseChartMode accepts a mode name or a short alias (day, hour, average)
func ParseChartMode(s string) (ChartMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(ModeByDay), "day", "":
		return ModeByDay, nil
	case string(ModeByHour), "hour", "continuous":
		return ModeByHour, nil
	case string(ModeDailyAverage), "average", "avg":
		return ModeDailyAverage, nil
	default:
		return "", fmt.Errorf("unknown chart mode %q (expected one of: day, hour, average)", s)
	}
}

// Result is everything the presentation layer needs for one selected range
type Result struct {
	Range      models.DateRange
	Filtered   models.RecordTable
	Groups     []DayGroup
	DailyMeans []DailyMean
}

// Analyze filters the table to rng and derives the per-day views
func Analyze(table models.RecordTable, rng models.DateRange) Result {
	filtered := Filter(table, rng)
	groups := GroupByDay(filtered)

	return Result{
		Range:      rng,
		Filtered:   filtered,
		Groups:     groups,
		DailyMeans: DailyMeans(groups),
	}
}

// Count is the number of readings in range
func (r Result) Count() int {
	return r.Filtered.Len()
}

// Empty reports whether no reading fell in range
func (r Result) Empty() bool {
	return r.Filtered.Len() == 0
}

// SingleDay reports whether the filtered readings cover exactly one day
func (r Result) SingleDay() bool {
	return len(r.Groups) == 1
}

// Stats summarizes the filtered table; ErrEmptyRange when nothing is in range
func (r Result) Stats() (Summary, error) {
	return Summarize(r.Filtered)
}
