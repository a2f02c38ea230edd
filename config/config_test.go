package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
  sqlite:
    path: readings.db
logging:
  log_level: debug
report:
  title: Cold Room
  variation_threshold: 2.5
import:
  workers: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "readings.db", cfg.GetDSN())
	assert.Equal(t, "debug", cfg.Logging.LogLevel)
	assert.Equal(t, "result.log", cfg.Logging.LogFile)
	assert.Equal(t, "Cold Room", cfg.Report.Title)
	assert.Equal(t, 2.5, cfg.Report.VariationThreshold)
	assert.Equal(t, 1000, cfg.Report.ChartWidth)
	assert.Equal(t, 400, cfg.Report.ChartHeight)
	assert.Equal(t, 3, cfg.Import.Workers)
	assert.Equal(t, []string{".csv", ".txt"}, cfg.Import.Extensions)
}

func TestLoadWithoutDatabase(t *testing.T) {
	path := writeConfig(t, "report:\n  title: Lab\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Lab", cfg.Report.Title)
	assert.Error(t, cfg.ValidateDatabase())
}

func TestLoadVariationThreshold(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected float64
	}{
		{"absent", "report:\n  title: Lab\n", DefaultVariationThreshold},
		{"explicit zero", "report:\n  variation_threshold: 0\n", 0},
		{"explicit value", "report:\n  variation_threshold: 1.5\n", 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.Report.VariationThreshold)
		})
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"bad yaml", "database: [", "failed to parse config file"},
		{"unknown driver", "database:\n  driver: oracle\n", "unsupported database driver"},
		{"mysql without host", "database:\n  driver: mysql\n", "mysql host is required"},
		{"sqlite without path", "database:\n  driver: sqlite\n", "sqlite path is required"},
		{"bad log level", "logging:\n  log_level: verbose\n", "unsupported log level"},
		{"negative threshold", "report:\n  variation_threshold: -1\n", "variation_threshold must be zero or positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 5.0, cfg.Report.VariationThreshold)
	assert.Empty(t, cfg.Database.Driver)

	_, err = LoadOrDefault(writeConfig(t, "database: ["))
	assert.Error(t, err)
}

func TestGetDSN(t *testing.T) {
	cfg := Default()
	cfg.Database.Driver = "postgres"
	cfg.Database.PostgreSQL = PostgresConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", DBName: "temps", SSLMode: "disable", TimeZone: "UTC",
	}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=temps sslmode=disable TimeZone=UTC", cfg.GetDSN())
}
