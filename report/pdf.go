// Package report builds the one-page PDF report and the XLSX export of a selected range.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"temperature_report/analysis"
	"temperature_report/models"

	"github.com/go-pdf/fpdf"
)

const (
	chartImageName  = "chart"
	timeLayout      = "2006-01-02 15:04:05"
	defaultPDFTitle = "Temperature Report"
	fontFamily      = "Helvetica"
	lineHeight      = 6.0
	sectionSpacing  = 4.0
)

// Advisory lines printed under the statistics
const (
	AdvisoryLarge  = "Large temperature variations were detected in the selected period."
	AdvisoryStable = "Temperature variations stayed within a stable range."
)

// Input is everything printed on a report
type Input struct {
	Title              string
	Source             string
	Mode               analysis.ChartMode
	Result             analysis.Result
	Chart              []byte // PNG
	VariationThreshold *float64 // nil selects analysis.DefaultVariationThreshold
}

// WritePDF writes a one-page A4 report to w
func WritePDF(w io.Writer, in Input) error {
	stats, err := in.Result.Stats()
	if err != nil {
		return err
	}
	if len(in.Chart) == 0 {
		return errors.New("report needs a rendered chart")
	}

	title := in.Title
	if title == "" {
		title = defaultPDFTitle
	}
	threshold := analysis.DefaultVariationThreshold
	if in.VariationThreshold != nil {
		threshold = *in.VariationThreshold
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("temperature_report", false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 18)
	pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")

	pdf.SetFont(fontFamily, "", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 5, "Generated: "+clock.Now().Format(timeLayout), "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(sectionSpacing)

	pdf.SetFont(fontFamily, "", 11)
	if in.Source != "" {
		field(pdf, tr, "Source file", in.Source)
	}
	field(pdf, tr, "Selected range", in.Result.Range.String())
	field(pdf, tr, "Chart", string(in.Mode))
	field(pdf, tr, "Readings", fmt.Sprintf("%d", stats.Count))
	pdf.Ln(sectionSpacing)

	pdf.SetFont(fontFamily, "B", 13)
	pdf.CellFormat(0, 8, "Statistics", "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 11)
	field(pdf, tr, "Maximum temperature", fmt.Sprintf("%.2f °C (%s)", stats.Max, stats.MaxRecord.Timestamp.Format(timeLayout)))
	field(pdf, tr, "Minimum temperature", fmt.Sprintf("%.2f °C (%s)", stats.Min, stats.MinRecord.Timestamp.Format(timeLayout)))
	field(pdf, tr, "Average temperature", fmt.Sprintf("%.2f °C", stats.Mean))

	pdf.Ln(2)
	pdf.SetFont(fontFamily, "I", 10)
	if analysis.LargeVariation(stats, threshold) {
		pdf.SetTextColor(180, 60, 0)
		pdf.MultiCell(0, lineHeight, tr(AdvisoryLarge), "", "L", false)
	} else {
		pdf.SetTextColor(0, 110, 40)
		pdf.MultiCell(0, lineHeight, tr(AdvisoryStable), "", "L", false)
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(sectionSpacing)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(chartImageName, opts, bytes.NewReader(in.Chart))
	left, _, right, _ := pdf.GetMargins()
	pageWidth, _ := pdf.GetPageSize()
	pdf.ImageOptions(chartImageName, left, pdf.GetY(), pageWidth-left-right, 0, true, opts, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// SavePDF writes the report to path
func SavePDF(path string, in Input) error {
	return writeFile(path, func(w io.Writer) error {
		return WritePDF(w, in)
	})
}

func field(pdf *fpdf.Fpdf, tr func(string) string, label, value string) {
	pdf.SetFont(fontFamily, "B", 11)
	pdf.CellFormat(55, lineHeight, tr(label+":"), "", 0, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 11)
	pdf.CellFormat(0, lineHeight, tr(value), "", 1, "L", false, 0, "")
}

// DefaultFileName names a report after the selected range, e.g. report_2024-01-15_2024-01-20.pdf
func DefaultFileName(rng models.DateRange, ext string) string {
	return fmt.Sprintf("report_%s_%s%s", rng.Start.Format(models.DayLayout), rng.End.Format(models.DayLayout), ext)
}
