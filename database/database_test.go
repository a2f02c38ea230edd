package database

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"temperature_report/config"
	"temperature_report/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Database.Driver = "sqlite"
	cfg.Database.SQLite.Path = filepath.Join(dir, "readings.db")
	cfg.Logging.LogLevel = "error"
	cfg.Migration.AutoMigrate = true
	cfg.Migration.Directory = filepath.Join(dir, "migrations")
	return cfg
}

func openTestDB(t *testing.T) (*gorm.DB, *config.Config) {
	t.Helper()
	cfg := testConfig(t)
	db, err := Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close() })

	require.NoError(t, NewMigrationRunner(db, cfg).RunMigrations())
	return db, cfg
}

func ts(s string) time.Time {
	t, err := time.Parse(models.TimestampLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestConnectRequiresDriver(t *testing.T) {
	_, err := Connect(config.Default())
	assert.ErrorContains(t, err, "database driver is required")
}

func TestConnectInfo(t *testing.T) {
	_, cfg := openTestDB(t)

	assert.True(t, IsConnected())
	info := GetDatabaseInfo(cfg)
	assert.Equal(t, "sqlite", info["driver"])
	assert.Equal(t, cfg.Database.SQLite.Path, info["path"])
	assert.Equal(t, true, info["connected"])
}

func TestSaveAndLoadReadings(t *testing.T) {
	db, _ := openTestDB(t)
	repo := NewReadingRepository(db)

	table := models.RecordTable{
		{Timestamp: ts("01.15.2024 08:30:00"), Temperature: 22.5},
		{Timestamp: ts("01.15.2024 09:00:00"), Temperature: 23.1},
		{Timestamp: ts("01.16.2024 09:00:00"), Temperature: 19.0},
	}

	inserted, err := repo.SaveReadings("lab.csv", table)
	require.NoError(t, err)
	assert.Equal(t, int64(3), inserted)

	// Re-importing the same export adds nothing.
	inserted, err = repo.SaveReadings("lab.csv", table)
	require.NoError(t, err)
	assert.Equal(t, int64(0), inserted)

	_, err = repo.SaveReadings("fridge.csv", table[:1])
	require.NoError(t, err)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	all, err := repo.LoadReadings("lab.csv", nil)
	require.NoError(t, err)
	assert.Equal(t, table, all)

	rng, err := models.ParseDateRange("2024-01-15")
	require.NoError(t, err)
	day, err := repo.LoadReadings("lab.csv", &rng)
	require.NoError(t, err)
	assert.Equal(t, table[:2], day)

	sources, err := repo.Sources()
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "fridge.csv", sources[0].Source)
	assert.Equal(t, int64(1), sources[0].Count)
	assert.Equal(t, "lab.csv", sources[1].Source)
	assert.Equal(t, int64(3), sources[1].Count)
	assert.Equal(t, table[0].Timestamp, sources[1].First)
	assert.Equal(t, table[2].Timestamp, sources[1].Last)
}

func TestSaveKeepsRepeatedTimestamps(t *testing.T) {
	db, _ := openTestDB(t)
	repo := NewReadingRepository(db)

	table := models.RecordTable{
		{Timestamp: ts("01.15.2024 08:30:00"), Temperature: 22.5},
		{Timestamp: ts("01.15.2024 08:30:00"), Temperature: 30.0},
		{Timestamp: ts("01.15.2024 08:00:00"), Temperature: 21.0},
	}

	inserted, err := repo.SaveReadings("dup.csv", table)
	require.NoError(t, err)
	assert.Equal(t, int64(3), inserted)

	inserted, err = repo.SaveReadings("dup.csv", table)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	loaded, err := repo.LoadReadings("dup.csv", nil)
	require.NoError(t, err)
	assert.Equal(t, table, loaded)
}

func TestSaveEmptyTable(t *testing.T) {
	db, _ := openTestDB(t)
	inserted, err := NewReadingRepository(db).SaveReadings("empty.csv", models.RecordTable{})
	require.NoError(t, err)
	assert.Zero(t, inserted)
}

func TestMigrationFiles(t *testing.T) {
	db, cfg := openTestDB(t)
	runner := NewMigrationRunner(db, cfg)

	path, err := runner.CreateMigration("Add temperature index")
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(path), "_add_temperature_index.sql")

	require.NoError(t, os.WriteFile(path,
		[]byte("CREATE INDEX idx_readings_temperature ON temperature_readings (temperature);"), 0644))

	pending, err := runner.GetPendingMigrations()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "add temperature index", pending[0].Name)

	require.NoError(t, runner.RunMigrations())

	status, err := runner.GetMigrationStatus()
	require.NoError(t, err)
	require.Len(t, status, 1)
	assert.True(t, status[0].Applied)

	pending, err = runner.GetPendingMigrations()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestParseMigrationFileName(t *testing.T) {
	file, err := parseMigrationFileName("20240115_083000_seed_sources.sql")
	require.NoError(t, err)
	assert.Equal(t, "20240115_083000", file.Version)
	assert.Equal(t, "seed sources", file.Name)

	_, err = parseMigrationFileName("seed.sql")
	assert.Error(t, err)
}
