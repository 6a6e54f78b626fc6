package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/unifymed/unifymed/internal/entity"
)

// BuildXLSX returns an XLSX workbook with the combined template answers on
// one sheet and every metric on another.
func (g *Generator) BuildXLSX(merged entity.MergedResult) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const summarySheet = "Summary"
	const metricsSheet = "Metrics"

	// excelize creates "Sheet1" by default; rename it for the summary.
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(metricsSheet); err != nil {
		return nil, err
	}

	write := func(sheet string, col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	write(summarySheet, 1, 1, "Question")
	write(summarySheet, 2, 1, "Answer")
	for i, qa := range merged.CombinedTemplate {
		write(summarySheet, 1, i+2, qa.Question)
		write(summarySheet, 2, i+2, qa.Answer)
	}

	headers := []string{"Metric", "Value", "Unit", "Date", "Interpretation", "Medication", "Source"}
	for i, h := range headers {
		write(metricsSheet, i+1, 1, h)
	}
	for i, m := range merged.CombinedMetrics {
		row := i + 2
		write(metricsSheet, 1, row, m.Label)
		if m.IsMedication() {
			write(metricsSheet, 2, row, "")
		} else {
			write(metricsSheet, 2, row, m.Value)
		}
		write(metricsSheet, 3, row, m.Unit)
		write(metricsSheet, 4, row, m.Date)
		write(metricsSheet, 5, row, m.Interpretation)
		write(metricsSheet, 6, row, m.Medication)
		write(metricsSheet, 7, row, m.Source)
	}

	// Widen a few columns
	_ = f.SetColWidth(summarySheet, "A", "A", 40)
	_ = f.SetColWidth(summarySheet, "B", "B", 60)
	_ = f.SetColWidth(metricsSheet, "A", "A", 24)
	_ = f.SetColWidth(metricsSheet, "E", "F", 28)
	_ = f.SetColWidth(metricsSheet, "G", "G", 32)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	g.logger.Info("report.xlsx.ok",
		"questions", len(merged.CombinedTemplate),
		"metrics", len(merged.CombinedMetrics),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
