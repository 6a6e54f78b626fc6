package entity

// Document is one uploaded file, held in memory for the duration of a
// processing request. Nothing is persisted.
type Document struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"-"`
}

// QA is one template question with its resolved answer. An empty answer
// means "not found in this document".
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ExtractionResult is the per-document output of the pipeline. A document
// whose remote calls failed still produces a result with empty fields.
type ExtractionResult struct {
	Filename       string   `json:"filename"`
	RawText        string   `json:"raw_text"`
	TranslatedText string   `json:"translated_text"`
	FilledTemplate []QA     `json:"filled_template"`
	Metrics        []Metric `json:"medical_metrics"`
}

// MergedResult is the cross-document summary for one request.
type MergedResult struct {
	CombinedTemplate []QA     `json:"combined_template"`
	CombinedMetrics  []Metric `json:"combined_metrics"`
}
