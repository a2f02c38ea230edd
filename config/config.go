package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// DatabaseConfig holds all database configuration
type DatabaseConfig struct {
	Driver         string         `yaml:"driver"`
	MySQL          MySQLConfig    `yaml:"mysql"`
	PostgreSQL     PostgresConfig `yaml:"postgres"`
	SQLite         SQLiteConfig   `yaml:"sqlite"`
	ConnectionPool PoolConfig     `yaml:"connection_pool"`
}

// MySQLConfig holds MySQL specific configuration
type MySQLConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
	DBName    string `yaml:"dbname"`
	Charset   string `yaml:"charset"`
	ParseTime bool   `yaml:"parse_time"`
	Loc       string `yaml:"loc"`
}

// PostgresConfig holds PostgreSQL specific configuration
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
	TimeZone string `yaml:"timezone"`
}

// SQLiteConfig holds SQLite specific configuration
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// PoolConfig holds connection pool configuration
type PoolConfig struct {
	MaxIdleConns    int `yaml:"max_idle_conns"`
	MaxOpenConns    int `yaml:"max_open_conns"`
	ConnMaxLifetime int `yaml:"conn_max_lifetime"`
}

// MigrationConfig holds migration specific configuration
type MigrationConfig struct {
	AutoMigrate    bool   `yaml:"auto_migrate"`
	MigrationTable string `yaml:"migration_table"`
	Directory      string `yaml:"directory"`
}

// LoggingConfig holds logging specific configuration
type LoggingConfig struct {
	LogFile      string `yaml:"log_file"`
	LogToConsole bool   `yaml:"log_to_console"`
	LogLevel     string `yaml:"log_level"`
}

// ReportConfig holds chart and report output settings
type ReportConfig struct {
	Title              string  `yaml:"title"`
	OutputDir          string  `yaml:"output_dir"`
	ChartWidth         int     `yaml:"chart_width"`
	ChartHeight        int     `yaml:"chart_height"`
	VariationThreshold float64 `yaml:"variation_threshold"`
	PreviewRows        int     `yaml:"preview_rows"`
}

// ImportConfig holds directory import settings
type ImportConfig struct {
	Workers    int      `yaml:"workers"`
	Extensions []string `yaml:"extensions"`
}

// Config holds the complete application configuration
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Migration MigrationConfig `yaml:"migration"`
	Logging   LoggingConfig   `yaml:"logging"`
	Report    ReportConfig    `yaml:"report"`
	Import    ImportConfig    `yaml:"import"`
}

// DefaultPath is used when no config path is given
const DefaultPath = "config.yaml"

// DefaultVariationThreshold applies when report.variation_threshold is absent.
// An explicit 0 flags any spread at all.
const DefaultVariationThreshold = 5.0

// Default returns the configuration used when no config file exists.
// It has no database driver, so only file-based commands can run with it.
func Default() *Config {
	cfg := newConfig()
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from the specified YAML file
func Load(configPath string) (*Config, error) {
	// Set default config path if not provided
	if configPath == "" {
		configPath = DefaultPath
	}

	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse the YAML
	config := newConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()

	// Validate the configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// newConfig holds the defaults whose zero value is a valid setting,
// so they only apply when the YAML leaves the key out
func newConfig() *Config {
	return &Config{
		Report: ReportConfig{VariationThreshold: DefaultVariationThreshold},
	}
}

// LoadOrDefault is Load, falling back to Default when the file does not exist
func LoadOrDefault(configPath string) (*Config, error) {
	cfg, err := Load(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func (c *Config) applyDefaults() {
	if c.Logging.LogFile == "" {
		c.Logging.LogFile = "result.log"
	}
	if c.Logging.LogLevel == "" {
		c.Logging.LogLevel = "info"
	}
	if c.Migration.MigrationTable == "" {
		c.Migration.MigrationTable = "migrations"
	}

	if c.Report.Title == "" {
		c.Report.Title = "Temperature Report"
	}
	if c.Report.OutputDir == "" {
		c.Report.OutputDir = "."
	}
	if c.Report.ChartWidth <= 0 {
		c.Report.ChartWidth = 1000
	}
	if c.Report.ChartHeight <= 0 {
		c.Report.ChartHeight = 400
	}
	if c.Report.PreviewRows <= 0 {
		c.Report.PreviewRows = 5
	}

	if len(c.Import.Extensions) == 0 {
		c.Import.Extensions = []string{".csv", ".txt"}
	}
}

// Validate validates the configuration.
// The database section is only checked when a driver is set.
func (c *Config) Validate() error {
	switch c.Logging.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level: %s", c.Logging.LogLevel)
	}

	if c.Report.VariationThreshold < 0 || math.IsNaN(c.Report.VariationThreshold) {
		return fmt.Errorf("report variation_threshold must be zero or positive, got %v", c.Report.VariationThreshold)
	}

	if c.Database.Driver == "" {
		return nil
	}
	return c.ValidateDatabase()
}

// ValidateDatabase checks the settings needed to open a connection
func (c *Config) ValidateDatabase() error {
	switch c.Database.Driver {
	case "mysql":
		if c.Database.MySQL.Host == "" {
			return fmt.Errorf("mysql host is required")
		}
		if c.Database.MySQL.User == "" {
			return fmt.Errorf("mysql user is required")
		}
		if c.Database.MySQL.DBName == "" {
			return fmt.Errorf("mysql database name is required")
		}
	case "postgres":
		if c.Database.PostgreSQL.Host == "" {
			return fmt.Errorf("postgres host is required")
		}
		if c.Database.PostgreSQL.User == "" {
			return fmt.Errorf("postgres user is required")
		}
		if c.Database.PostgreSQL.DBName == "" {
			return fmt.Errorf("postgres database name is required")
		}
	case "sqlite":
		if c.Database.SQLite.Path == "" {
			return fmt.Errorf("sqlite path is required")
		}
	case "":
		return fmt.Errorf("database driver is required (set database.driver in %s)", DefaultPath)
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	return nil
}

// GetDSN returns the database connection string based on the configured driver
func (c *Config) GetDSN() string {
	switch c.Database.Driver {
	case "mysql":
		mysql := c.Database.MySQL
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
			mysql.User, mysql.Password, mysql.Host, mysql.Port, mysql.DBName,
			mysql.Charset, mysql.ParseTime, mysql.Loc)
		return dsn
	case "postgres":
		pg := c.Database.PostgreSQL
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
			pg.Host, pg.Port, pg.User, pg.Password, pg.DBName, pg.SSLMode, pg.TimeZone)
		return dsn
	case "sqlite":
		return c.Database.SQLite.Path
	default:
		return ""
	}
}
