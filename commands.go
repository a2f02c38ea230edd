package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"temperature_report/analysis"
	"temperature_report/charts"
	"temperature_report/logger"
	"temperature_report/models"
	"temperature_report/report"
	"temperature_report/scanner"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// rangeFlags is the date selection shared by the file commands
type rangeFlags struct {
	from string
	to   string
	mode string
}

func (rf *rangeFlags) register(cmd *cobra.Command, withMode bool) {
	cmd.Flags().StringVar(&rf.from, "from", "", "first day to include (YYYY-MM-DD); alone selects a single day")
	cmd.Flags().StringVar(&rf.to, "to", "", "last day to include (YYYY-MM-DD)")
	if withMode {
		cmd.Flags().StringVarP(&rf.mode, "mode", "m", string(analysis.ModeByDay), "chart: day, hour or average")
	}
}

// selection resolves the flags against the table. Without flags the whole
// table is selected, --from alone selects one day and a missing bound
// defaults to the table's first or last day.
func (rf *rangeFlags) selection(table models.RecordTable) (models.DateRange, error) {
	full, _ := models.FullRange(table)
	if rf.from == "" && rf.to == "" {
		return full, nil
	}

	start, end := full.Start, full.End
	if rf.from != "" {
		day, err := models.ParseDay(rf.from)
		if err != nil {
			return models.DateRange{}, err
		}
		start, end = day, day
	}
	if rf.to != "" {
		day, err := models.ParseDay(rf.to)
		if err != nil {
			return models.DateRange{}, err
		}
		end = day
	}
	return models.NewDateRange(start, end)
}

// printf writes command output to the console and records it in the log file
func printf(cmd *cobra.Command, format string, v ...interface{}) {
	fmt.Fprintf(cmd.OutOrStdout(), format, v...)
	logger.Filef(format, v...)
}

// printResult shows the outcome line of a command
func printResult(cmd *cobra.Command, operation string, success bool, details string) {
	printf(cmd, "%s\n", logger.FormatResult(operation, success, details))
}

// pipeline parses an export and analyzes the selected range
type pipeline struct {
	source string
	table  models.RecordTable
	result analysis.Result
	mode   analysis.ChartMode
}

func runPipeline(path string, rf *rangeFlags) (*pipeline, error) {
	mode, err := analysis.ParseChartMode(rf.mode)
	if err != nil {
		return nil, err
	}

	table, err := loadExport(path)
	if err != nil {
		return nil, err
	}

	rng, err := rf.selection(table)
	if err != nil {
		return nil, err
	}

	return &pipeline{
		source: filepath.Base(path),
		table:  table,
		result: analysis.Analyze(table, rng),
		mode:   mode,
	}, nil
}

// loadExport reads and parses one logger export
func loadExport(path string) (models.RecordTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	table, stats, err := scanner.ParseWithStats(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	logger.Printf("Parsed %s: %d readings (header on line %d, %d skipped, %d dropped)\n",
		filepath.Base(path), table.Len(), stats.HeaderLine, stats.Skipped, stats.Dropped)
	return table, nil
}

func (p *pipeline) renderChart(width, height int) ([]byte, error) {
	var buf bytes.Buffer
	if err := charts.Render(&buf, p.result, p.mode, charts.Options{Width: width, Height: height}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newAnalyzeCommand() *cobra.Command {
	rf := &rangeFlags{}
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Parse an export and print statistics for a date range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := runPipeline(args[0], rf)
			if err != nil {
				return err
			}
			printAnalysis(cmd.OutOrStdout(), p, cfg.Report.PreviewRows, cfg.Report.VariationThreshold)
			return nil
		},
	}
	rf.register(cmd, false)
	return cmd
}

// printAnalysis writes the preview, range, count, statistics and advisory
func printAnalysis(w io.Writer, p *pipeline, previewRows int, threshold float64) {
	fmt.Fprintf(w, "File: %s (%s readings)\n", p.source, humanize.Comma(int64(p.table.Len())))
	fmt.Fprintln(w, strings.Repeat("=", 50))

	fmt.Fprintf(w, "%-20s %s\n", "Timestamp", "Temperature")
	for _, r := range p.table.Head(previewRows) {
		fmt.Fprintf(w, "%-20s %8.2f\n", r.Timestamp.Format("2006-01-02 15:04:05"), r.Temperature)
	}
	fmt.Fprintln(w, strings.Repeat("-", 50))

	fmt.Fprintf(w, "Range:    %s\n", p.result.Range)
	fmt.Fprintf(w, "Readings: %s\n", humanize.Comma(int64(p.result.Count())))

	stats, err := p.result.Stats()
	if errors.Is(err, analysis.ErrEmptyRange) {
		fmt.Fprintln(w, "No readings in the selected date range.")
		return
	}

	fmt.Fprintf(w, "Maximum:  %.2f °C at %s\n", stats.Max, stats.MaxRecord.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Minimum:  %.2f °C at %s\n", stats.Min, stats.MinRecord.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Average:  %.2f °C\n", stats.Mean)

	if len(p.result.DailyMeans) > 1 {
		fmt.Fprintln(w, "\nDaily averages:")
		for _, m := range p.result.DailyMeans {
			fmt.Fprintf(w, "  %s  %8.2f °C  (%d readings)\n", m.Day.Format(models.DayLayout), m.Mean, m.Count)
		}
	}

	fmt.Fprintln(w)
	if analysis.LargeVariation(stats, threshold) {
		fmt.Fprintln(w, "⚠️  "+report.AdvisoryLarge)
	} else {
		fmt.Fprintln(w, "✓ "+report.AdvisoryStable)
	}
}

func newChartCommand() *cobra.Command {
	rf := &rangeFlags{}
	var output string
	cmd := &cobra.Command{
		Use:   "chart <file>",
		Short: "Render the selected chart view to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := runPipeline(args[0], rf)
			if err != nil {
				return err
			}
			png, err := p.renderChart(cfg.Report.ChartWidth, cfg.Report.ChartHeight)
			if err != nil {
				return err
			}

			if output == "" {
				output = filepath.Join(cfg.Report.OutputDir, report.DefaultFileName(p.result.Range, ".png"))
			}
			if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			if err := os.WriteFile(output, png, 0644); err != nil {
				return fmt.Errorf("failed to write chart: %w", err)
			}

			printResult(cmd, "chart", true, fmt.Sprintf("%s (%s)", output, humanize.Bytes(uint64(len(png)))))
			return nil
		},
	}
	rf.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output PNG path")
	return cmd
}

func newReportCommand() *cobra.Command {
	rf := &rangeFlags{}
	var output, title string
	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Produce a one-page PDF report with statistics and the selected chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := runPipeline(args[0], rf)
			if err != nil {
				return err
			}
			if p.result.Empty() {
				return analysis.ErrEmptyRange
			}

			png, err := p.renderChart(cfg.Report.ChartWidth, cfg.Report.ChartHeight)
			if err != nil {
				return err
			}

			if title == "" {
				title = cfg.Report.Title
			}
			if output == "" {
				output = filepath.Join(cfg.Report.OutputDir, report.DefaultFileName(p.result.Range, ".pdf"))
			}

			err = report.SavePDF(output, report.Input{
				Title:              title,
				Source:             p.source,
				Mode:               p.mode,
				Result:             p.result,
				Chart:              png,
				VariationThreshold: &cfg.Report.VariationThreshold,
			})
			if err != nil {
				return err
			}

			printResult(cmd, "report", true, output)
			return nil
		},
	}
	rf.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output PDF path")
	cmd.Flags().StringVar(&title, "title", "", "report title (defaults to report.title from the config)")
	return cmd
}

func newExportCommand() *cobra.Command {
	rf := &rangeFlags{}
	var output string
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export the selected readings and daily averages to XLSX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := runPipeline(args[0], rf)
			if err != nil {
				return err
			}

			if output == "" {
				output = filepath.Join(cfg.Report.OutputDir, report.DefaultFileName(p.result.Range, ".xlsx"))
			}
			if err := report.SaveWorkbook(output, p.result); err != nil {
				return err
			}

			printResult(cmd, "export", true, fmt.Sprintf("%s (%s readings)", output, humanize.Comma(int64(p.result.Count()))))
			return nil
		},
	}
	rf.register(cmd, false)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output XLSX path")
	return cmd
}
