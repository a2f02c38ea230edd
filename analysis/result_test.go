package analysis

import (
	"testing"

	"temperature_report/models"
	"temperature_report/scanner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	table := sampleTable()

	t.Run("multi day", func(t *testing.T) {
		rng, ok := models.FullRange(table)
		require.True(t, ok)

		result := Analyze(table, rng)
		assert.Equal(t, 6, result.Count())
		assert.False(t, result.SingleDay())
		assert.Len(t, result.Groups, 3)
		assert.Len(t, result.DailyMeans, 3)

		stats, err := result.Stats()
		require.NoError(t, err)
		assert.Equal(t, 26.0, stats.Max)
		assert.Equal(t, 18.0, stats.Min)
		assert.True(t, LargeVariation(stats, DefaultVariationThreshold))
	})

	t.Run("single day", func(t *testing.T) {
		rng, err := models.ParseDateRange("2024-01-15")
		require.NoError(t, err)

		result := Analyze(table, rng)
		assert.True(t, result.SingleDay())
		assert.Equal(t, 2, result.Count())

		stats, err := result.Stats()
		require.NoError(t, err)
		assert.Equal(t, 23.10, stats.Max)
		assert.Equal(t, 22.50, stats.Min)
		assert.InEpsilon(t, 22.80, stats.Mean, 1e-9)
		assert.False(t, LargeVariation(stats, DefaultVariationThreshold))
	})

	t.Run("empty range", func(t *testing.T) {
		rng, err := models.ParseDateRange("2024-02-01:2024-02-03")
		require.NoError(t, err)

		result := Analyze(table, rng)
		assert.True(t, result.Empty())
		assert.False(t, result.SingleDay())
		assert.Empty(t, result.DailyMeans)

		_, err = result.Stats()
		assert.ErrorIs(t, err, ErrEmptyRange)
	})
}

func TestParseChartMode(t *testing.T) {
	tests := []struct {
		in   string
		want ChartMode
	}{
		{"by day", ModeByDay},
		{"", ModeByDay},
		{"Day", ModeByDay},
		{"by hour/temperature", ModeByHour},
		{"hour", ModeByHour},
		{"daily average", ModeDailyAverage},
		{" average ", ModeDailyAverage},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseChartMode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseChartMode("pie")
	assert.Error(t, err)
}

func TestHeaderOnlyExportHasNoStatistics(t *testing.T) {
	table, err := scanner.Parse([]byte("MM.DD.YYYY  HH:MM:SS   T\n\n# nothing recorded\n"))
	require.NoError(t, err)
	require.Empty(t, table)

	_, ok := models.FullRange(table)
	assert.False(t, ok)

	rng, err := models.ParseDateRange("2024-01-15")
	require.NoError(t, err)

	result := Analyze(table, rng)
	assert.True(t, result.Empty())
	_, err = result.Stats()
	assert.ErrorIs(t, err, ErrEmptyRange)
}
