package entity

// MetricKind discriminates the two metric variants. The wire format keeps
// the legacy convention: medication entries carry value 0 and unit
// "medication"; the kind is decided once at parse time, not inferred again
// downstream.
type MetricKind string

const (
	KindMeasurement MetricKind = "measurement"
	KindMedication  MetricKind = "medication"
)

// MedicationUnit is the unit string conventionally assigned to medication
// entries.
const MedicationUnit = "medication"

// Metric is one extracted numeric measurement or one medication mention.
// For KindMeasurement, Value/Unit hold the measurement and Medication is
// empty. For KindMedication, Medication holds the (canonicalized) drug name
// and Value is semantically ignored.
type Metric struct {
	Kind           MetricKind `json:"-"`
	Label          string     `json:"metric"`
	Value          float64    `json:"value"`
	Unit           string     `json:"unit"`
	Date           string     `json:"date,omitempty"`
	Interpretation string     `json:"interpretation,omitempty"`
	Medication     string     `json:"medication,omitempty"`
	Source         string     `json:"source,omitempty"`
}

// NewMeasurement builds a measurement-variant metric.
func NewMeasurement(label string, value float64, unit, date, interpretation string) Metric {
	return Metric{
		Kind:           KindMeasurement,
		Label:          label,
		Value:          value,
		Unit:           unit,
		Date:           date,
		Interpretation: interpretation,
	}
}

// NewMedication builds a medication-variant metric.
func NewMedication(label, name, date, interpretation string) Metric {
	return Metric{
		Kind:           KindMedication,
		Label:          label,
		Unit:           MedicationUnit,
		Date:           date,
		Interpretation: interpretation,
		Medication:     name,
	}
}

// IsMedication reports whether m is the medication variant.
func (m Metric) IsMedication() bool {
	return m.Kind == KindMedication || (m.Kind == "" && m.Medication != "")
}
