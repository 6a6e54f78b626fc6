package report

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/unifymed/unifymed/internal/entity"
)

// Generator builds report documents from merged results.
type Generator struct {
	logger *slog.Logger
}

func NewGenerator(logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{logger: logger}
}

// BuildSummaryPDF renders the merged result as a multi-section PDF:
// patient info / medical history / allergies / other, then a medications
// list and a measurements table.
func (g *Generator) BuildSummaryPDF(merged entity.MergedResult) ([]byte, error) {
	start := time.Now()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Unified Medical Summary", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, "Generated "+time.Now().UTC().Format("2006-01-02 15:04")+" UTC", "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	groups := groupBySection(merged.CombinedTemplate)
	for _, section := range sectionOrder {
		entries := groups[section]
		if len(entries) == 0 {
			continue
		}
		g.writeSection(pdf, section, entries)
	}

	measurements, medications := splitMetrics(merged.CombinedMetrics)

	if len(medications) > 0 {
		g.sectionHeader(pdf, "Medications")
		pdf.SetFont("Helvetica", "", 10)
		for _, m := range medications {
			line := "- " + m.Medication
			if m.Source != "" {
				line += fmt.Sprintf("  (source: %s)", m.Source)
			}
			pdf.MultiCell(0, 6, line, "", "L", false)
		}
		pdf.Ln(2)
	}

	if len(measurements) > 0 {
		g.sectionHeader(pdf, "Measurements")
		g.writeMeasurementTable(pdf, measurements)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	g.logger.Info("report.pdf.ok",
		"questions", len(merged.CombinedTemplate),
		"medications", len(medications),
		"measurements", len(measurements),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (g *Generator) sectionHeader(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(235, 240, 250)
	pdf.CellFormat(0, 8, title, "", 1, "L", true, 0, "")
	pdf.Ln(1)
}

func (g *Generator) writeSection(pdf *fpdf.Fpdf, title string, entries []entity.QA) {
	g.sectionHeader(pdf, title)
	for _, qa := range entries {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.MultiCell(0, 6, strings.TrimSuffix(qa.Question, ":"), "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 6, qa.Answer, "", "L", false)
		pdf.Ln(1)
	}
	pdf.Ln(2)
}

func (g *Generator) writeMeasurementTable(pdf *fpdf.Fpdf, measurements []entity.Metric) {
	headers := []string{"Metric", "Value", "Unit", "Date", "Source"}
	widths := []float64{50, 25, 25, 30, 60}

	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, m := range measurements {
		cells := []string{m.Label, fmt.Sprintf("%g", m.Value), m.Unit, m.Date, m.Source}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 7, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(2)
}
