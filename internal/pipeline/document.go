package processor

import (
	"context"
	"time"

	"github.com/unifymed/unifymed/internal/entity"
	"github.com/unifymed/unifymed/internal/normalize"
)

// ProcessDocument runs one document's pipeline to completion: extract ->
// normalize -> translate -> fill template -> extract metrics -> normalize
// medications. Stages are strictly sequential; each stage's failure
// degrades to an empty value that propagates forward, so the returned
// result is always present and never aborts the batch.
func (p *Processor) ProcessDocument(ctx context.Context, doc entity.Document, questions []string) entity.ExtractionResult {
	start := time.Now()
	log := p.logger.With("filename", doc.Filename)
	res := entity.ExtractionResult{Filename: doc.Filename}

	ocr, err := p.extractor.Extract(ctx, doc)
	if err != nil {
		log.Error("pipeline.extract.degraded", "error", err)
		return res
	}
	res.RawText = normalize.CleanText(ocr.Text)
	if res.RawText == "" {
		log.Warn("pipeline.extract.empty_text")
		return res
	}

	translated, err := p.translator.Translate(ctx, res.RawText)
	if err != nil {
		log.Error("pipeline.translate.degraded", "error", err)
		return res
	}
	res.TranslatedText = translated

	if len(questions) > 0 {
		filled, err := p.fields.FillTemplate(ctx, questions, translated)
		if err != nil {
			log.Error("pipeline.fill.degraded", "error", err)
		} else {
			res.FilledTemplate = filled
		}
	}

	metrics, err := p.fields.ExtractMetrics(ctx, translated)
	if err != nil {
		log.Error("pipeline.metrics.degraded", "error", err)
	} else {
		res.Metrics = p.normalizeMedications(ctx, metrics)
	}

	log.Info("pipeline.document.done",
		"raw_len", len(res.RawText),
		"answered", len(res.FilledTemplate),
		"metrics", len(res.Metrics),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res
}

// normalizeMedications canonicalizes each medication entry's name. The
// normalizer degrades internally, so entries are never dropped here.
func (p *Processor) normalizeMedications(ctx context.Context, metrics []entity.Metric) []entity.Metric {
	for i, m := range metrics {
		if m.IsMedication() {
			metrics[i].Medication = p.drugs.Normalize(ctx, m.Medication)
		}
	}
	return metrics
}
