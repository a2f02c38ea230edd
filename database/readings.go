package database

import (
	"fmt"
	"time"

	"temperature_report/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const insertBatchSize = 1000

// ReadingRepository stores and reloads imported temperature readings
type ReadingRepository struct {
	db *gorm.DB
}

// NewReadingRepository wraps an open connection
func NewReadingRepository(db *gorm.DB) *ReadingRepository {
	return &ReadingRepository{db: db}
}

// SaveReadings inserts the table under source. Rows already stored for the same
// source and position are skipped; the count of new rows is returned.
func (r *ReadingRepository) SaveReadings(source string, table models.RecordTable) (int64, error) {
	if table.Len() == 0 {
		return 0, nil
	}

	readings := models.NewTemperatureReadings(source, table)
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&readings, insertBatchSize)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to insert readings for %s: %w", source, result.Error)
	}

	return result.RowsAffected, nil
}

// LoadReadings returns the readings of source within rng (everything when nil)
// in export order. With an empty source every reading is returned ordered by timestamp.
func (r *ReadingRepository) LoadReadings(source string, rng *models.DateRange) (models.RecordTable, error) {
	query := r.db.Model(&models.TemperatureReading{})
	if source != "" {
		query = query.Where("source = ?", source)
	}
	if rng != nil {
		query = query.Where("timestamp >= ? AND timestamp < ?", rng.Start, rng.End.AddDate(0, 0, 1))
	}

	var rows []models.TemperatureReading
	if source == "" {
		query = query.Order("timestamp ASC").Order("source ASC")
	}
	if err := query.Order("seq ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load readings: %w", err)
	}

	table := make(models.RecordTable, len(rows))
	for i, row := range rows {
		table[i] = row.Record()
	}
	return table, nil
}

// SourceSummary describes the stored readings of one source file
type SourceSummary struct {
	Source string
	Count  int64
	First  time.Time
	Last   time.Time
}

// Sources lists every imported source with its reading count
func (r *ReadingRepository) Sources() ([]SourceSummary, error) {
	var names []string
	if err := r.db.Model(&models.TemperatureReading{}).Distinct("source").Order("source ASC").Pluck("source", &names).Error; err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}

	summaries := make([]SourceSummary, 0, len(names))
	for _, name := range names {
		s := SourceSummary{Source: name}
		base := r.db.Model(&models.TemperatureReading{}).Where("source = ?", name).Session(&gorm.Session{})

		if err := base.Count(&s.Count).Error; err != nil {
			return nil, fmt.Errorf("failed to count readings for %s: %w", name, err)
		}

		var first, last models.TemperatureReading
		if err := base.Order("timestamp ASC").First(&first).Error; err != nil {
			return nil, fmt.Errorf("failed to load first reading for %s: %w", name, err)
		}
		if err := base.Order("timestamp DESC").First(&last).Error; err != nil {
			return nil, fmt.Errorf("failed to load last reading for %s: %w", name, err)
		}
		s.First = first.Timestamp.UTC()
		s.Last = last.Timestamp.UTC()

		summaries = append(summaries, s)
	}

	return summaries, nil
}

// Count returns the number of stored readings
func (r *ReadingRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.TemperatureReading{}).Count(&count).Error
	return count, err
}
