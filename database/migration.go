package database

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"temperature_report/config"
	"temperature_report/logger"
	"temperature_report/models"

	"gorm.io/gorm"
)

// Migration is a row of the migration table
type Migration struct {
	ID          uint   `gorm:"primaryKey"`
	Version     string `gorm:"unique;not null"`
	Name        string `gorm:"not null"`
	Applied     bool   `gorm:"default:false"`
	AppliedAt   *time.Time
	Description string
}

// MigrationFile represents a migration file
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	FilePath    string
	Applied     bool
}

// MigrationRunner applies model schema and SQL migration files
type MigrationRunner struct {
	db             *gorm.DB
	migrationTable string
	migrationDir   string
	autoMigrate    bool
}

// NewMigrationRunner creates a new migration runner
func NewMigrationRunner(db *gorm.DB, cfg *config.Config) *MigrationRunner {
	dir := cfg.Migration.Directory
	if dir == "" {
		dir = "migrations"
	}
	return &MigrationRunner{
		db:             db,
		migrationTable: cfg.Migration.MigrationTable,
		migrationDir:   dir,
		autoMigrate:    cfg.Migration.AutoMigrate,
	}
}

func (mr *MigrationRunner) table() *gorm.DB {
	return mr.db.Table(mr.migrationTable)
}

// InitializeMigrationTable creates the migration table if it doesn't exist
func (mr *MigrationRunner) InitializeMigrationTable() error {
	return mr.table().AutoMigrate(&Migration{})
}

// GetMigrationFiles returns the SQL files of the migration directory sorted by version
func (mr *MigrationRunner) GetMigrationFiles() ([]MigrationFile, error) {
	var migrationFiles []MigrationFile

	if _, err := os.Stat(mr.migrationDir); os.IsNotExist(err) {
		return migrationFiles, nil
	}

	err := filepath.WalkDir(mr.migrationDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".sql") {
			return nil
		}

		file, err := parseMigrationFileName(d.Name())
		if err != nil {
			return err
		}
		file.FilePath = path
		migrationFiles = append(migrationFiles, file)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	sort.Slice(migrationFiles, func(i, j int) bool {
		return migrationFiles[i].Version < migrationFiles[j].Version
	})

	return migrationFiles, nil
}

// parseMigrationFileName splits YYYYMMDD_HHMMSS_description.sql
func parseMigrationFileName(filename string) (MigrationFile, error) {
	parts := strings.SplitN(filename, "_", 3)
	if len(parts) < 3 {
		return MigrationFile{}, fmt.Errorf("invalid migration filename format: %s (expected: YYYYMMDD_HHMMSS_description.sql)", filename)
	}

	description := strings.TrimSuffix(parts[2], ".sql")
	return MigrationFile{
		Version:     parts[0] + "_" + parts[1],
		Name:        strings.ReplaceAll(description, "_", " "),
		Description: description,
	}, nil
}

// appliedVersions returns the versions recorded as applied
func (mr *MigrationRunner) appliedVersions() (map[string]bool, error) {
	if err := mr.InitializeMigrationTable(); err != nil {
		return nil, fmt.Errorf("failed to initialize migration table: %w", err)
	}

	var applied []Migration
	if err := mr.table().Where("applied = ?", true).Order("version ASC").Find(&applied).Error; err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	versions := make(map[string]bool, len(applied))
	for _, m := range applied {
		versions[m.Version] = true
	}
	return versions, nil
}

// GetMigrationStatus returns every migration file with its applied flag set
func (mr *MigrationRunner) GetMigrationStatus() ([]MigrationFile, error) {
	files, err := mr.GetMigrationFiles()
	if err != nil {
		return nil, err
	}

	applied, err := mr.appliedVersions()
	if err != nil {
		return nil, err
	}

	for i := range files {
		files[i].Applied = applied[files[i].Version]
	}
	return files, nil
}

// GetPendingMigrations returns migrations that haven't been applied yet
func (mr *MigrationRunner) GetPendingMigrations() ([]MigrationFile, error) {
	files, err := mr.GetMigrationStatus()
	if err != nil {
		return nil, err
	}

	var pending []MigrationFile
	for _, f := range files {
		if !f.Applied {
			pending = append(pending, f)
		}
	}
	return pending, nil
}

// RunMigrations syncs the reading schema (when auto_migrate is on) and then
// executes all pending SQL migrations
func (mr *MigrationRunner) RunMigrations() error {
	if mr.autoMigrate {
		logger.Println("Auto-migrating models...")
		if err := mr.db.AutoMigrate(models.GetAllModels()...); err != nil {
			return fmt.Errorf("failed to auto-migrate models: %w", err)
		}
	}

	pending, err := mr.GetPendingMigrations()
	if err != nil {
		return fmt.Errorf("failed to get pending migrations: %w", err)
	}

	if len(pending) == 0 {
		logger.Println("No pending migrations to run")
		return nil
	}

	logger.Printf("Running %d pending migration(s)...\n", len(pending))

	for _, migration := range pending {
		if err := mr.runSingleMigration(migration); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", migration.Version, err)
		}
	}

	logger.Println("All migrations completed successfully")
	return nil
}

// runSingleMigration executes one file and records it in the same transaction
func (mr *MigrationRunner) runSingleMigration(file MigrationFile) error {
	logger.Printf("Running migration: %s - %s\n", file.Version, file.Name)

	content, err := os.ReadFile(file.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	return mr.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(string(content)).Error; err != nil {
			return fmt.Errorf("failed to execute migration SQL: %w", err)
		}

		now := time.Now()
		record := Migration{
			Version:     file.Version,
			Name:        file.Name,
			Applied:     true,
			AppliedAt:   &now,
			Description: file.Description,
		}
		if err := tx.Table(mr.migrationTable).Create(&record).Error; err != nil {
			return fmt.Errorf("failed to record migration: %w", err)
		}

		return nil
	})
}

// CreateMigration writes an empty migration file and returns its path
func (mr *MigrationRunner) CreateMigration(name string) (string, error) {
	if err := os.MkdirAll(mr.migrationDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create migrations directory: %w", err)
	}

	now := time.Now()
	version := now.Format("20060102_150405")

	cleanName := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	filePath := filepath.Join(mr.migrationDir, fmt.Sprintf("%s_%s.sql", version, cleanName))

	template := fmt.Sprintf(`-- Migration: %s
-- Created: %s

-- Add your migration SQL here
-- Example:
-- CREATE INDEX idx_temperature_readings_temperature ON temperature_readings (temperature);
`, name, now.Format("2006-01-02 15:04:05"))

	if err := os.WriteFile(filePath, []byte(template), 0644); err != nil {
		return "", fmt.Errorf("failed to create migration file: %w", err)
	}

	return filePath, nil
}
