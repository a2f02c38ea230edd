package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"temperature_report/config"
)

var (
	// Global logger instances
	InfoLogger   *log.Logger
	ErrorLogger  *log.Logger
	DebugLogger  *log.Logger
	WarnLogger   *log.Logger
	logFile      *os.File
	logLevel     = INFO
	logToConsole bool
)

// LogLevel constants
const (
	DEBUG = "debug"
	INFO  = "info"
	WARN  = "warn"
	ERROR = "error"
)

var levels = map[string]int{
	DEBUG: 0,
	INFO:  1,
	WARN:  2,
	ERROR: 3,
}

// Init opens the log file named in the logging config and wires the leveled loggers
func Init(cfg config.LoggingConfig) error {
	logToConsole = cfg.LogToConsole
	logLevel = cfg.LogLevel

	logPath := cfg.LogFile
	if !filepath.IsAbs(logPath) {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current working directory: %w", err)
		}
		logPath = filepath.Join(cwd, logPath)
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	var err error
	logFile, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	if logToConsole {
		setWriters(io.MultiWriter(os.Stdout, logFile), io.MultiWriter(os.Stderr, logFile))
	} else {
		setWriters(logFile, logFile)
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	InfoLogger.Printf("=== Session started at %s ===\n", timestamp)
	InfoLogger.Printf("Log file: %s\n", logPath)
	InfoLogger.Printf("Log level: %s\n", logLevel)
	InfoLogger.Printf("Log to console: %t\n", logToConsole)
	LogDivider()

	return nil
}

// SetOutput routes every level to w without a log file
func SetOutput(w io.Writer, level string) {
	logLevel = level
	setWriters(w, w)
}

func setWriters(out, errOut io.Writer) {
	// No prefix for clean output
	InfoLogger = log.New(out, "", 0)
	DebugLogger = log.New(out, "", 0)
	WarnLogger = log.New(out, "", 0)
	ErrorLogger = log.New(errOut, "", 0)
}

// Close closes the log file
func Close() error {
	if logFile == nil {
		return nil
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	LogDivider()
	InfoLogger.Printf("=== Session ended at %s ===\n\n", timestamp)

	err := logFile.Close()
	logFile = nil
	InfoLogger, ErrorLogger, DebugLogger, WarnLogger = nil, nil, nil, nil
	return err
}

// shouldLog determines if a message should be logged based on log level
func shouldLog(messageLevel string) bool {
	currentLevel, exists := levels[logLevel]
	if !exists {
		currentLevel = levels[INFO]
	}

	messageLogLevel, exists := levels[messageLevel]
	if !exists {
		return true
	}

	return messageLogLevel >= currentLevel
}

// Printf prints formatted text to log (respects log level)
func Printf(format string, v ...interface{}) {
	if !shouldLog(INFO) {
		return
	}
	if InfoLogger != nil {
		InfoLogger.Printf(format, v...)
	} else {
		fmt.Printf(format, v...)
	}
}

// Println prints a line to log (respects log level)
func Println(v ...interface{}) {
	if !shouldLog(INFO) {
		return
	}
	if InfoLogger != nil {
		InfoLogger.Println(v...)
	} else {
		fmt.Println(v...)
	}
}

// Debugf prints formatted debug text
func Debugf(format string, v ...interface{}) {
	if !shouldLog(DEBUG) {
		return
	}
	if DebugLogger != nil {
		DebugLogger.Printf("DEBUG: "+format, v...)
	} else {
		fmt.Printf("DEBUG: "+format, v...)
	}
}

// Warnf prints formatted warning text
func Warnf(format string, v ...interface{}) {
	if !shouldLog(WARN) {
		return
	}
	if WarnLogger != nil {
		WarnLogger.Printf("WARN: "+format, v...)
	} else {
		fmt.Printf("WARN: "+format, v...)
	}
}

// Errorf prints formatted error text (always logged regardless of level)
func Errorf(format string, v ...interface{}) {
	if ErrorLogger != nil {
		ErrorLogger.Printf("ERROR: "+format, v...)
	} else {
		fmt.Fprintf(os.Stderr, "ERROR: "+format, v...)
	}
}

// Filef writes to the log file only, for lines the caller already shows on the console
func Filef(format string, v ...interface{}) {
	if logFile == nil {
		return
	}
	fmt.Fprintf(logFile, format, v...)
}

// LogError records err in the log file
func LogError(err error) {
	if err != nil {
		Filef("ERROR: %v\n", err)
	}
}

// Fatalf prints formatted fatal error and exits (always logged)
func Fatalf(format string, v ...interface{}) {
	if ErrorLogger != nil {
		ErrorLogger.Printf("FATAL: "+format, v...)
	} else {
		fmt.Fprintf(os.Stderr, "FATAL: "+format, v...)
	}
	_ = Close()
	os.Exit(1)
}

// LogCommand logs the command being executed
func LogCommand(command string, args []string) {
	if len(args) > 0 {
		Printf("Command executed: %s %v\n", command, args)
		return
	}
	Printf("Command executed: %s\n", command)
}

// LogDivider prints a divider line for better log organization
func LogDivider() {
	Println("------------------------------------------------------------")
}

// LogResult logs a result with status
func LogResult(operation string, success bool, details string) {
	Printf("%s\n", FormatResult(operation, success, details))
}

// FormatResult renders the status line written by LogResult
func FormatResult(operation string, success bool, details string) string {
	status := fmt.Sprintf("✅ %s: SUCCESS", operation)
	if !success {
		status = fmt.Sprintf("❌ %s: FAILED", operation)
	}
	if details != "" {
		return status + " - " + details
	}
	return status
}
