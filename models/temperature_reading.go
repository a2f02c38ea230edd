package models

import (
	"time"
)

// TemperatureReading is an imported record as stored in the database
type TemperatureReading struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Source      string    `gorm:"uniqueIndex:idx_source_seq;not null;size:255" json:"source"`
	Seq         int       `gorm:"uniqueIndex:idx_source_seq;not null" json:"seq"` // position in the source export
	Timestamp   time.Time `gorm:"not null;index" json:"timestamp"`
	Temperature float64   `gorm:"not null" json:"temperature"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName customizes the table name
func (TemperatureReading) TableName() string {
	return "temperature_readings"
}

// Record converts the stored row back into a parsed record
func (tr TemperatureReading) Record() Record {
	return Record{Timestamp: tr.Timestamp.UTC(), Temperature: tr.Temperature}
}

// NewTemperatureReadings tags every record of a table with its source file and
// position, so repeated timestamps within one export are all kept
func NewTemperatureReadings(source string, table RecordTable) []TemperatureReading {
	readings := make([]TemperatureReading, len(table))
	for i, r := range table {
		readings[i] = TemperatureReading{
			Source:      source,
			Seq:         i,
			Timestamp:   r.Timestamp,
			Temperature: r.Temperature,
		}
	}
	return readings
}

// GetAllModels returns all models for migration
func GetAllModels() []interface{} {
	return []interface{}{
		&TemperatureReading{},
	}
}
