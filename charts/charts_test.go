package charts

import (
	"bytes"
	"image/png"
	"math"
	"testing"
	"time"

	"temperature_report/analysis"
	"temperature_report/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(ts string, temp float64) models.Record {
	t, err := time.Parse(models.TimestampLayout, ts)
	if err != nil {
		panic(err)
	}
	return models.Record{Timestamp: t, Temperature: temp}
}

func multiDay() models.RecordTable {
	return models.RecordTable{
		rec("01.15.2024 08:30:00", 22.5),
		rec("01.15.2024 09:00:00", 23.1),
		rec("01.16.2024 08:00:00", 18.0),
		rec("01.16.2024 14:00:00", 26.0),
		rec("01.17.2024 08:00:00", -2.0),
	}
}

func analyze(t *testing.T, table models.RecordTable) analysis.Result {
	t.Helper()
	rng, ok := models.FullRange(table)
	require.True(t, ok)
	return analysis.Analyze(table, rng)
}

func assertPNG(t *testing.T, buf *bytes.Buffer, width, height int) {
	t.Helper()
	cfg, err := png.DecodeConfig(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, width, cfg.Width)
	assert.Equal(t, height, cfg.Height)
}

func TestRenderModes(t *testing.T) {
	tests := []struct {
		name  string
		table models.RecordTable
		mode  analysis.ChartMode
	}{
		{"by day multi", multiDay(), analysis.ModeByDay},
		{"by day single", multiDay()[:2], analysis.ModeByDay},
		{"continuous", multiDay(), analysis.ModeByHour},
		{"daily average", multiDay(), analysis.ModeDailyAverage},
		{"single reading by day", multiDay()[:1], analysis.ModeByDay},
		{"single reading continuous", multiDay()[:1], analysis.ModeByHour},
		{"single reading average", multiDay()[:1], analysis.ModeDailyAverage},
		{"flat temperatures", models.RecordTable{rec("01.15.2024 08:00:00", 20), rec("01.15.2024 09:00:00", 20)}, analysis.ModeByHour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := Render(&buf, analyze(t, tt.table), tt.mode, Options{Width: 640, Height: 320})
			require.NoError(t, err)
			assertPNG(t, &buf, 640, 320)
		})
	}
}

func TestRenderDefaultSize(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, analyze(t, multiDay()), analysis.ModeByHour, Options{}))
	assertPNG(t, &buf, defaultWidth, defaultHeight)
}

func TestRenderEmpty(t *testing.T) {
	rng, err := models.ParseDateRange("2024-02-01")
	require.NoError(t, err)

	var buf bytes.Buffer
	err = Render(&buf, analysis.Analyze(multiDay(), rng), analysis.ModeByDay, Options{})
	assert.ErrorIs(t, err, analysis.ErrEmptyRange)
	assert.Zero(t, buf.Len())
}

func TestRenderUnknownMode(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, analyze(t, multiDay()), analysis.ChartMode("scatter"), Options{})
	assert.Error(t, err)
}

func TestRenderSkipsInfiniteReadings(t *testing.T) {
	table := append(multiDay(),
		rec("01.16.2024 15:00:00", math.Inf(1)),
		rec("01.17.2024 09:00:00", math.Inf(-1)),
	)

	for _, mode := range analysis.ChartModes {
		t.Run(string(mode), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(&buf, analyze(t, table), mode, Options{Width: 640, Height: 320}))
			assertPNG(t, &buf, 640, 320)
		})
	}
}

func TestRenderOnlyInfiniteReadings(t *testing.T) {
	table := models.RecordTable{rec("01.15.2024 08:00:00", math.Inf(1))}

	var buf bytes.Buffer
	err := Render(&buf, analyze(t, table), analysis.ModeByHour, Options{})
	assert.ErrorIs(t, err, analysis.ErrEmptyRange)
	assert.Zero(t, buf.Len())
}
