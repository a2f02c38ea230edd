package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"temperature_report/logger"
	"temperature_report/models"
)

// ReadingStore persists the readings of one logger export
type ReadingStore interface {
	SaveReadings(source string, table models.RecordTable) (int64, error)
}

// DirScanner imports every logger export found in a directory
type DirScanner struct {
	store       ReadingStore
	workerCount int
	extensions  []string
}

// FileJob represents a logger export to be processed
type FileJob struct {
	FilePath string
	FileName string
}

// ProcessResult contains the result of processing one export
type ProcessResult struct {
	FilePath    string
	RecordCount int
	Inserted    int64
	Dropped     int
	Duration    time.Duration
	Error       error
}

// NewDirScanner creates a new directory scanner
func NewDirScanner(store ReadingStore, extensions []string) *DirScanner {
	// Default to number of CPU cores for parallel processing
	workerCount := runtime.NumCPU()
	if workerCount > 8 {
		workerCount = 8 // Limit to 8 workers to avoid overwhelming the database
	}

	if len(extensions) == 0 {
		extensions = []string{".csv", ".txt"}
	}

	return &DirScanner{
		store:       store,
		workerCount: workerCount,
		extensions:  extensions,
	}
}

// SetWorkerCount sets the number of parallel workers
func (ds *DirScanner) SetWorkerCount(count int) {
	if count > 0 {
		ds.workerCount = count
	}
}

// ScanDirectory imports all exports in a directory and returns one result per file
func (ds *DirScanner) ScanDirectory(directoryPath string) ([]ProcessResult, error) {
	logger.Printf("Scanning directory: %s\n", directoryPath)

	if _, err := os.Stat(directoryPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", directoryPath)
	}

	files, err := ds.findExportFiles(directoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to find logger exports: %w", err)
	}

	if len(files) == 0 {
		logger.Println("No logger exports found in the directory")
		return nil, nil
	}

	logger.Printf("Found %d export file(s) to process\n", len(files))
	logger.Printf("Processing with %d parallel workers\n", ds.workerCount)

	results := ds.processFilesParallel(files)
	ds.displaySummary(results)

	return results, nil
}

// findExportFiles lists matching files in the directory (non-recursive)
func (ds *DirScanner) findExportFiles(directoryPath string) ([]FileJob, error) {
	var files []FileJob

	entries, err := os.ReadDir(directoryPath)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() || !ds.hasExportExtension(entry.Name()) {
			continue
		}
		files = append(files, FileJob{
			FilePath: filepath.Join(directoryPath, entry.Name()),
			FileName: entry.Name(),
		})
	}

	return files, nil
}

func (ds *DirScanner) hasExportExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range ds.extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}

// processFilesParallel processes exports using worker goroutines
func (ds *DirScanner) processFilesParallel(files []FileJob) []ProcessResult {
	jobs := make(chan FileJob, len(files))
	results := make(chan ProcessResult, len(files))

	var wg sync.WaitGroup
	for i := 0; i < ds.workerCount; i++ {
		wg.Add(1)
		go ds.worker(jobs, results, &wg)
	}

	go func() {
		for _, file := range files {
			jobs <- file
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var allResults []ProcessResult
	for result := range results {
		allResults = append(allResults, result)
	}

	return allResults
}

func (ds *DirScanner) worker(jobs <-chan FileJob, results chan<- ProcessResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for job := range jobs {
		results <- ds.processFile(job)
	}
}

// processFile parses a single export and stores its readings
func (ds *DirScanner) processFile(job FileJob) ProcessResult {
	startTime := time.Now()
	result := ProcessResult{
		FilePath: job.FilePath,
	}

	logger.Printf("Processing file: %s\n", job.FileName)

	raw, err := os.ReadFile(job.FilePath)
	if err != nil {
		result.Error = fmt.Errorf("failed to read file: %w", err)
		result.Duration = time.Since(startTime)
		return result
	}

	table, stats, err := ParseWithStats(raw)
	if err != nil {
		result.Error = err
		result.Duration = time.Since(startTime)
		return result
	}
	result.RecordCount = table.Len()
	result.Dropped = stats.Dropped
	if stats.Dropped > 0 {
		logger.Debugf("%s: %d malformed row(s) dropped after header on line %d\n",
			job.FileName, stats.Dropped, stats.HeaderLine)
	}

	if table.Len() > 0 {
		inserted, err := ds.store.SaveReadings(job.FileName, table)
		if err != nil {
			result.Error = fmt.Errorf("failed to store readings: %w", err)
			result.Duration = time.Since(startTime)
			return result
		}
		result.Inserted = inserted
	}

	result.Duration = time.Since(startTime)
	logger.Printf("✓ Completed %s: %d records parsed, %d new, %d dropped in %v\n",
		job.FileName, result.RecordCount, result.Inserted, result.Dropped, result.Duration)

	return result
}

// displaySummary logs a summary of the processing results
func (ds *DirScanner) displaySummary(results []ProcessResult) {
	logger.Println("\n" + strings.Repeat("=", 60))
	logger.Println("IMPORT SUMMARY")
	logger.Println(strings.Repeat("=", 60))

	totalRecords := 0
	var totalInserted int64
	successfulFiles := 0
	failedFiles := 0
	totalDuration := time.Duration(0)

	for _, result := range results {
		if result.Error != nil {
			failedFiles++
			logger.Printf("❌ %s: FAILED - %v\n", filepath.Base(result.FilePath), result.Error)
		} else {
			successfulFiles++
			totalRecords += result.RecordCount
			totalInserted += result.Inserted
			logger.Printf("✅ %s: %d records, %d new (%v)\n",
				filepath.Base(result.FilePath), result.RecordCount, result.Inserted, result.Duration)
		}
		totalDuration += result.Duration
	}

	logger.Println(strings.Repeat("-", 60))
	logger.Printf("Total files processed: %d\n", len(results))
	logger.Printf("Successful: %d\n", successfulFiles)
	logger.Printf("Failed: %d\n", failedFiles)
	logger.Printf("Total records parsed: %d\n", totalRecords)
	logger.Printf("Total records stored: %d\n", totalInserted)
	logger.Printf("Total processing time: %v\n", totalDuration)
	logger.Println(strings.Repeat("=", 60))
}
