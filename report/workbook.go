package report

import (
	"fmt"
	"io"

	"temperature_report/analysis"
	"temperature_report/models"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook
const (
	ReadingsSheet = "Readings"
	DailySheet    = "Daily"
	SummarySheet  = "Summary"
)

// WriteWorkbook exports the filtered readings, daily means and summary as XLSX
func WriteWorkbook(w io.Writer, result analysis.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ReadingsSheet); err != nil {
		return fmt.Errorf("failed to name readings sheet: %w", err)
	}
	if err := writeReadings(f, result.Filtered); err != nil {
		return err
	}

	if _, err := f.NewSheet(DailySheet); err != nil {
		return fmt.Errorf("failed to create daily sheet: %w", err)
	}
	if err := writeDaily(f, result.DailyMeans); err != nil {
		return err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeSummary(f, result); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveWorkbook writes the workbook to path
func SaveWorkbook(path string, result analysis.Result) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteWorkbook(w, result)
	})
}

func writeReadings(f *excelize.File, table models.RecordTable) error {
	header := []interface{}{"Timestamp", "Day", "Hour", "Temperature (°C)"}
	if err := f.SetSheetRow(ReadingsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write readings header: %w", err)
	}

	for i, r := range table {
		row := []interface{}{
			r.Timestamp.Format(timeLayout),
			r.Day().Format(models.DayLayout),
			r.HourFraction(),
			r.Temperature,
		}
		if err := setRow(f, ReadingsSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeDaily(f *excelize.File, means []analysis.DailyMean) error {
	header := []interface{}{"Day", "Readings", "Average (°C)"}
	if err := f.SetSheetRow(DailySheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write daily header: %w", err)
	}

	for i, m := range means {
		row := []interface{}{m.Day.Format(models.DayLayout), m.Count, m.Mean}
		if err := setRow(f, DailySheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(f *excelize.File, result analysis.Result) error {
	rows := [][]interface{}{
		{"Selected range", result.Range.String()},
		{"Readings", result.Count()},
	}

	stats, err := result.Stats()
	if err == nil {
		rows = append(rows,
			[]interface{}{"Maximum (°C)", stats.Max, stats.MaxRecord.Timestamp.Format(timeLayout)},
			[]interface{}{"Minimum (°C)", stats.Min, stats.MinRecord.Timestamp.Format(timeLayout)},
			[]interface{}{"Average (°C)", stats.Mean},
		)
	}

	for i, row := range rows {
		if err := setRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, rowNum, err)
	}
	return nil
}
