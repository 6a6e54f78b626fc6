package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/unifymed/unifymed/internal/common"
	"github.com/unifymed/unifymed/internal/entity"
	"github.com/unifymed/unifymed/internal/extract"
)

// --- Stage stubs ---

type stubExtractor struct {
	texts map[string]string // filename -> raw text; missing -> error
}

func (s *stubExtractor) Extract(_ context.Context, doc entity.Document) (extract.TextExtractionResult, error) {
	text, ok := s.texts[doc.Filename]
	if !ok {
		return extract.TextExtractionResult{}, errors.New("ocr unavailable")
	}
	return extract.TextExtractionResult{Text: text, Pages: 1}, nil
}

type stubTranslator struct {
	fail bool
}

func (s *stubTranslator) Translate(_ context.Context, text string) (string, error) {
	if s.fail {
		return "", errors.New("translate unavailable")
	}
	return "EN: " + text, nil
}

type stubFields struct {
	answers map[string]map[string]string // filename key unused; question -> answer
	metrics []entity.Metric
	fail    bool
}

func (s *stubFields) FillTemplate(_ context.Context, questions []string, patientText string) ([]entity.QA, error) {
	if s.fail {
		return nil, errors.New("llm unavailable")
	}
	out := make([]entity.QA, 0, len(questions))
	for _, q := range questions {
		answer := ""
		for _, m := range s.answers {
			if a, ok := m[q]; ok && strings.Contains(patientText, a) {
				answer = a
				break
			}
		}
		out = append(out, entity.QA{Question: q, Answer: answer})
	}
	return out, nil
}

func (s *stubFields) ExtractMetrics(context.Context, string) ([]entity.Metric, error) {
	if s.fail {
		return nil, errors.New("llm unavailable")
	}
	return append([]entity.Metric(nil), s.metrics...), nil
}

type stubDrugs struct {
	canonical map[string]string
	calls     []string
}

func (s *stubDrugs) Normalize(_ context.Context, name string) string {
	s.calls = append(s.calls, name)
	if c, ok := s.canonical[name]; ok {
		return c
	}
	return name
}

func newTestProcessor(ex *stubExtractor, tr *stubTranslator, fe *stubFields, dn *stubDrugs) *Processor {
	return NewProcessor(Config{Concurrency: 2}, ex, tr, fe, dn, nil)
}

// --- Tests ---

func TestProcessBatchRejectsZeroDocuments(t *testing.T) {
	ex := &stubExtractor{texts: map[string]string{}}
	p := newTestProcessor(ex, &stubTranslator{}, &stubFields{}, &stubDrugs{})
	_, _, err := p.ProcessBatch(context.Background(), nil, nil)
	if !errors.Is(err, ErrNoDocuments) {
		t.Fatalf("err = %v, want ErrNoDocuments", err)
	}
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("err = %v, want an invalid-input error", err)
	}
}

func TestProcessBatchUploadOrderPreserved(t *testing.T) {
	texts := map[string]string{}
	var docs []entity.Document
	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("doc%d.pdf", i)
		texts[name] = fmt.Sprintf("record %d", i)
		docs = append(docs, entity.Document{Filename: name})
	}
	p := newTestProcessor(&stubExtractor{texts: texts}, &stubTranslator{}, &stubFields{}, &stubDrugs{})

	results, _, err := p.ProcessBatch(context.Background(), docs, nil)
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if len(results) != len(docs) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(docs))
	}
	for i, r := range results {
		if r.Filename != docs[i].Filename {
			t.Errorf("result %d is %q, want %q", i, r.Filename, docs[i].Filename)
		}
		if want := fmt.Sprintf("EN: record %d", i); r.TranslatedText != want {
			t.Errorf("result %d translated = %q, want %q", i, r.TranslatedText, want)
		}
	}
}

func TestProcessBatchFailedDocumentDegrades(t *testing.T) {
	ex := &stubExtractor{texts: map[string]string{"good.pdf": "Paciente: Juan"}}
	fe := &stubFields{metrics: []entity.Metric{entity.NewMeasurement("BP", 120, "mmHg", "", "")}}
	p := newTestProcessor(ex, &stubTranslator{}, fe, &stubDrugs{})

	docs := []entity.Document{{Filename: "dead.pdf"}, {Filename: "good.pdf"}}
	results, merged, err := p.ProcessBatch(context.Background(), docs, nil)
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if results[0].RawText != "" || len(results[0].Metrics) != 0 {
		t.Errorf("failed document not empty: %+v", results[0])
	}
	if len(merged.CombinedMetrics) != 1 || merged.CombinedMetrics[0].Source != "good.pdf" {
		t.Errorf("merged metrics = %+v", merged.CombinedMetrics)
	}
}

func TestProcessBatchTranslateFailureStopsDocumentStages(t *testing.T) {
	ex := &stubExtractor{texts: map[string]string{"a.pdf": "texto"}}
	fe := &stubFields{metrics: []entity.Metric{entity.NewMeasurement("X", 1, "u", "", "")}}
	p := newTestProcessor(ex, &stubTranslator{fail: true}, fe, &stubDrugs{})

	results, _, err := p.ProcessBatch(context.Background(), []entity.Document{{Filename: "a.pdf"}}, nil)
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	r := results[0]
	if r.RawText == "" {
		t.Errorf("raw text should survive translate failure")
	}
	if r.TranslatedText != "" || len(r.Metrics) != 0 || len(r.FilledTemplate) != 0 {
		t.Errorf("downstream stages should be empty after translate failure: %+v", r)
	}
}

func TestProcessBatchNormalizesMedications(t *testing.T) {
	ex := &stubExtractor{texts: map[string]string{"a.pdf": "receta"}}
	fe := &stubFields{metrics: []entity.Metric{
		entity.NewMedication("Medication", "metformina", "", ""),
		entity.NewMeasurement("Glucose", 99, "mg/dL", "", ""),
	}}
	dn := &stubDrugs{canonical: map[string]string{"metformina": "metformin"}}
	p := newTestProcessor(ex, &stubTranslator{}, fe, dn)

	results, _, err := p.ProcessBatch(context.Background(), []entity.Document{{Filename: "a.pdf"}}, nil)
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if got := results[0].Metrics[0].Medication; got != "metformin" {
		t.Errorf("medication = %q, want metformin", got)
	}
	if len(dn.calls) != 1 {
		t.Errorf("normalizer called %d times, want 1 (measurements skipped)", len(dn.calls))
	}
}

func TestProcessBatchPlainTemplate(t *testing.T) {
	ex := &stubExtractor{texts: map[string]string{"a.pdf": "Juan"}}
	fe := &stubFields{answers: map[string]map[string]string{
		"any": {"Patient Name:": "Juan"},
	}}
	p := newTestProcessor(ex, &stubTranslator{}, fe, &stubDrugs{})

	tmpl := &entity.Document{Filename: "form.txt", Content: []byte("# form\nPatient Name:\nAllergies:\n")}
	results, merged, err := p.ProcessBatch(context.Background(), []entity.Document{{Filename: "a.pdf"}}, tmpl)
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if len(results[0].FilledTemplate) != 2 {
		t.Fatalf("filled template = %+v, want 2 entries", results[0].FilledTemplate)
	}
	if merged.CombinedTemplate[0].Answer != "Juan" {
		t.Errorf("combined q1 = %q, want Juan", merged.CombinedTemplate[0].Answer)
	}
	if merged.CombinedTemplate[1].Answer != "Not available" {
		t.Errorf("combined q2 = %q, want Not available", merged.CombinedTemplate[1].Answer)
	}
}

func TestProcessBatchOCRTemplate(t *testing.T) {
	ex := &stubExtractor{texts: map[string]string{
		"a.pdf":    "Juan",
		"form.pdf": "CLINIC HEADER\nPatient Name:\nnot a field\nDOB:",
	}}
	fe := &stubFields{}
	p := newTestProcessor(ex, &stubTranslator{}, fe, &stubDrugs{})

	tmpl := &entity.Document{Filename: "form.pdf"}
	results, _, err := p.ProcessBatch(context.Background(), []entity.Document{{Filename: "a.pdf"}}, tmpl)
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if len(results[0].FilledTemplate) != 2 {
		t.Errorf("derived questions = %+v, want 2", results[0].FilledTemplate)
	}
}

func TestProcessBatchUnreadableTemplateIsInputError(t *testing.T) {
	ex := &stubExtractor{texts: map[string]string{"a.pdf": "x"}}
	p := newTestProcessor(ex, &stubTranslator{}, &stubFields{}, &stubDrugs{})

	tmpl := &entity.Document{Filename: "broken.pdf"}
	_, _, err := p.ProcessBatch(context.Background(), []entity.Document{{Filename: "a.pdf"}}, tmpl)
	if err == nil {
		t.Fatal("expected input error for unreadable template")
	}
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("err = %v, want an invalid-input error", err)
	}
}
