// Package report renders a MergedResult as a downloadable document:
// a generated multi-section PDF, a filled copy of the caller's PDF form,
// or an XLSX workbook.
package report

import (
	"strings"

	"github.com/unifymed/unifymed/internal/entity"
)

// Section names of the generated report, in render order.
const (
	SectionPatientInfo = "Patient Information"
	SectionHistory     = "Medical History"
	SectionAllergies   = "Allergies"
	SectionOther       = "Other"
)

var sectionOrder = []string{SectionPatientInfo, SectionHistory, SectionAllergies, SectionOther}

// keyword tables for routing a question into a report section; matched by
// substring against the lowercased question text.
var (
	patientInfoKeywords = []string{"name", "birth", "dob", "age", "gender", "sex", "address", "phone", "contact", "id "}
	historyKeywords     = []string{"history", "diagnos", "condition", "surger", "illness", "treatment", "symptom"}
	allergyKeywords     = []string{"allerg"}
)

// ClassifyQuestion routes a template question into one of the report
// sections.
func ClassifyQuestion(question string) string {
	q := strings.ToLower(question)
	for _, k := range allergyKeywords {
		if strings.Contains(q, k) {
			return SectionAllergies
		}
	}
	for _, k := range patientInfoKeywords {
		if strings.Contains(q, k) {
			return SectionPatientInfo
		}
	}
	for _, k := range historyKeywords {
		if strings.Contains(q, k) {
			return SectionHistory
		}
	}
	return SectionOther
}

// groupBySection partitions QA pairs into the four report sections,
// preserving template order within each section.
func groupBySection(combined []entity.QA) map[string][]entity.QA {
	groups := make(map[string][]entity.QA, len(sectionOrder))
	for _, qa := range combined {
		s := ClassifyQuestion(qa.Question)
		groups[s] = append(groups[s], qa)
	}
	return groups
}

// splitMetrics separates measurement and medication entries, preserving
// order.
func splitMetrics(metrics []entity.Metric) (measurements, medications []entity.Metric) {
	for _, m := range metrics {
		if m.IsMedication() {
			medications = append(medications, m)
		} else {
			measurements = append(measurements, m)
		}
	}
	return measurements, medications
}
