package scanner

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"temperature_report/models"
)

// HeaderMarker is the literal that opens the data block of a logger export
const HeaderMarker = "MM.DD.YYYY"

// ErrHeaderNotFound is returned when no line starts with HeaderMarker
var ErrHeaderNotFound = errors.New("data header 'MM.DD.YYYY  HH:MM:SS   T' not found")

// ParseStats describes how the lines after the header were handled
type ParseStats struct {
	HeaderLine int // 1-based line number of the header
	Candidates int // lines after the header
	Skipped    int // blank or comment-only lines
	Dropped    int // malformed rows
}

// Parse extracts the readings of a logger export.
// Malformed rows are dropped silently; only a missing header is an error.
func Parse(raw []byte) (models.RecordTable, error) {
	table, _, err := ParseWithStats(raw)
	return table, err
}

// ParseWithStats is Parse plus counters for diagnostics
func ParseWithStats(raw []byte) (models.RecordTable, ParseStats, error) {
	var stats ParseStats

	lines := splitLines(strings.ToValidUTF8(string(raw), ""))

	start := findDataStart(lines)
	if start < 0 {
		return nil, stats, ErrHeaderNotFound
	}
	stats.HeaderLine = start

	table := models.RecordTable{}
	for _, line := range lines[start:] {
		stats.Candidates++

		content := stripComment(line)
		if strings.TrimSpace(content) == "" {
			stats.Skipped++
			continue
		}

		record, ok := parseDataLine(content)
		if !ok {
			stats.Dropped++
			continue
		}
		table = append(table, record)
	}

	return table, stats, nil
}

// findDataStart returns the index of the first line after the header, or -1
func findDataStart(lines []string) int {
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), HeaderMarker) {
			return i + 1
		}
	}
	return -1
}

// parseDataLine turns "MM.DD.YYYY HH:MM:SS T" into a record
func parseDataLine(line string) (models.Record, bool) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return models.Record{}, false
	}

	temperature, err := strconv.ParseFloat(fields[2], 64)
	if err != nil || math.IsNaN(temperature) {
		return models.Record{}, false
	}

	// time.Parse tolerates fractional seconds the layout does not name
	if strings.ContainsAny(fields[1], ".,") {
		return models.Record{}, false
	}

	timestamp, err := time.Parse(models.TimestampLayout, fields[0]+" "+fields[1])
	if err != nil {
		return models.Record{}, false
	}

	return models.Record{Timestamp: timestamp, Temperature: temperature}, true
}

// stripComment drops everything from the first '#'
func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

// splitLines splits on \n, \r\n and \r
func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	lines := strings.Split(content, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
