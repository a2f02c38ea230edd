// Package charts renders the three chart views of a filtered range as PNG.
package charts

import (
	"fmt"
	"io"
	"math"
	"time"

	"temperature_report/analysis"
	"temperature_report/models"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Options controls the rendered image size
type Options struct {
	Width  int
	Height int
}

const (
	defaultWidth  = 1000
	defaultHeight = 400
	yAxisName     = "Temperature (°C)"
)

// one color per day series, reused in order when there are more days than colors
var seriesColors = []drawing.Color{
	drawing.ColorFromHex("1f77b4"),
	drawing.ColorFromHex("ff7f0e"),
	drawing.ColorFromHex("2ca02c"),
	drawing.ColorFromHex("d62728"),
	drawing.ColorFromHex("9467bd"),
	drawing.ColorFromHex("8c564b"),
	drawing.ColorFromHex("e377c2"),
	drawing.ColorFromHex("7f7f7f"),
	drawing.ColorFromHex("bcbd22"),
	drawing.ColorFromHex("17becf"),
}

// Render draws the chart for mode into w as PNG
func Render(w io.Writer, result analysis.Result, mode analysis.ChartMode, opts Options) error {
	if result.Empty() {
		return analysis.ErrEmptyRange
	}
	result = plottable(result)
	if result.Empty() {
		return fmt.Errorf("no finite readings to plot: %w", analysis.ErrEmptyRange)
	}
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}

	switch mode {
	case analysis.ModeByDay:
		if result.SingleDay() {
			return renderHourly(w, result.Groups[0], opts)
		}
		return renderPerDay(w, result.Groups, opts)
	case analysis.ModeByHour:
		return renderContinuous(w, result.Filtered, opts)
	case analysis.ModeDailyAverage:
		return renderDailyAverage(w, result.DailyMeans, opts)
	default:
		return fmt.Errorf("unknown chart mode %q", mode)
	}
}

// plottable drops ±Inf readings, which would give the temperature axis an infinite span
func plottable(result analysis.Result) analysis.Result {
	finite := make(models.RecordTable, 0, len(result.Filtered))
	for _, r := range result.Filtered {
		if !math.IsInf(r.Temperature, 0) {
			finite = append(finite, r)
		}
	}
	if len(finite) == len(result.Filtered) {
		return result
	}
	return analysis.Analyze(finite, result.Range)
}

// renderHourly plots one day on a 0-24 hour axis
func renderHourly(w io.Writer, group analysis.DayGroup, opts Options) error {
	xs := make([]float64, len(group.Records))
	for i, r := range group.Records {
		xs[i] = r.HourFraction()
	}

	ticks := make([]chart.Tick, 0, 25)
	for h := 0; h <= 24; h++ {
		ticks = append(ticks, chart.Tick{Value: float64(h), Label: fmt.Sprintf("%d", h)})
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("Hourly temperature (%s)", group.Day.Format(models.DayLayout)),
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "Hour of day",
			Range: &chart.ContinuousRange{Min: 0, Max: 24},
			Ticks: ticks,
		},
		YAxis: temperatureAxis(group.Records),
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: group.Day.Format(models.DayLayout),
				Style: chart.Style{
					StrokeColor: chart.ColorOrange,
					StrokeWidth: 1.5,
					DotColor:    chart.ColorOrange,
					DotWidth:    4,
				},
				XValues: xs,
				YValues: group.Records.Temperatures(),
			},
		},
	}

	return ch.Render(chart.PNG, w)
}

// renderPerDay draws one time series per day with a legend keyed by date
func renderPerDay(w io.Writer, groups []analysis.DayGroup, opts Options) error {
	var all models.RecordTable
	series := make([]chart.Series, 0, len(groups))
	for i, g := range groups {
		color := seriesColors[i%len(seriesColors)]
		series = append(series, chart.TimeSeries{
			Name:    g.Day.Format(models.DayLayout),
			Style:   chart.Style{StrokeColor: color, StrokeWidth: 1.5, DotColor: color, DotWidth: 2},
			XValues: timestamps(g.Records),
			YValues: g.Records.Temperatures(),
		})
		all = append(all, g.Records...)
	}

	ch := chart.Chart{
		Title:      "Temperature by day and time",
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 48}},
		XAxis:      timeAxis(all),
		YAxis:      temperatureAxis(all),
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return ch.Render(chart.PNG, w)
}

// renderContinuous draws every reading as a single line over time
func renderContinuous(w io.Writer, table models.RecordTable, opts Options) error {
	ch := chart.Chart{
		Title:      "Temperature over time",
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 48}},
		XAxis:      timeAxis(table),
		YAxis:      temperatureAxis(table),
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Temperature",
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 1},
				XValues: timestamps(table),
				YValues: table.Temperatures(),
			},
		},
	}

	return ch.Render(chart.PNG, w)
}

// renderDailyAverage draws one bar per day
func renderDailyAverage(w io.Writer, means []analysis.DailyMean, opts Options) error {
	bars := make([]chart.Value, len(means))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, m := range means {
		bars[i] = chart.Value{Label: m.Day.Format("01-02"), Value: m.Mean}
		lo = math.Min(lo, m.Mean)
		hi = math.Max(hi, m.Mean)
	}

	barWidth := opts.Width / (2*len(bars) + 1)
	if barWidth > 60 {
		barWidth = 60
	}
	if barWidth < 4 {
		barWidth = 4
	}

	// Bars grow from the lower bound, so keep zero in view unless every mean is negative.
	yMin := math.Min(0, math.Floor(lo)-1)
	yMax := math.Max(0, math.Ceil(hi)+1)

	bc := chart.BarChart{
		Title:      "Daily average temperature",
		Width:      opts.Width,
		Height:     opts.Height,
		BarWidth:   barWidth,
		BarSpacing: barWidth,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Name:  "Average temperature (°C)",
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Bars: bars,
	}

	return bc.Render(chart.PNG, w)
}

func timestamps(table models.RecordTable) []time.Time {
	xs := make([]time.Time, len(table))
	for i, r := range table {
		xs[i] = r.Timestamp
	}
	return xs
}

// timeAxis spans the readings, widened by half an hour when they share a timestamp
func timeAxis(table models.RecordTable) chart.XAxis {
	first, last := table[0].Timestamp, table[0].Timestamp
	for _, r := range table[1:] {
		if r.Timestamp.Before(first) {
			first = r.Timestamp
		}
		if r.Timestamp.After(last) {
			last = r.Timestamp
		}
	}
	if !last.After(first) {
		first = first.Add(-30 * time.Minute)
		last = last.Add(30 * time.Minute)
	}

	format := "01-02 15:04"
	if last.Sub(first) > 14*24*time.Hour {
		format = "2006-01-02"
	}

	return chart.XAxis{
		Name:           "Date and time",
		ValueFormatter: chart.TimeValueFormatterWithFormat(format),
		Range: &chart.ContinuousRange{
			Min: chart.TimeToFloat64(first),
			Max: chart.TimeToFloat64(last),
		},
	}
}

// temperatureAxis pads the temperature range by one degree on each side
func temperatureAxis(table models.RecordTable) chart.YAxis {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range table {
		lo = math.Min(lo, r.Temperature)
		hi = math.Max(hi, r.Temperature)
	}
	return chart.YAxis{
		Name:  yAxisName,
		Range: &chart.ContinuousRange{Min: math.Floor(lo) - 1, Max: math.Ceil(hi) + 1},
	}
}
