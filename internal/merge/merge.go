// Package merge combines per-document extraction results into one
// cross-document summary.
package merge

import (
	"log/slog"
	"strings"
	"time"

	"github.com/unifymed/unifymed/internal/entity"
)

// NotAvailable is the answer recorded for a question no document could
// answer.
const NotAvailable = "Not available"

// Engine merges ordered per-document results. It is stateless; the struct
// only carries the logger.
type Engine struct {
	logger *slog.Logger
}

func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Merge produces the combined template and metric list for one request.
// Input order is upload order; it decides every tie. Documents whose
// pipeline degraded contribute empty slices and nothing else.
func (e *Engine) Merge(results []entity.ExtractionResult) entity.MergedResult {
	start := time.Now()
	out := entity.MergedResult{
		CombinedTemplate: mergeTemplates(results),
		CombinedMetrics:  mergeMetrics(results),
	}
	e.logger.Info("merge.ok",
		"documents", len(results),
		"questions", len(out.CombinedTemplate),
		"metrics", len(out.CombinedMetrics),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out
}

// mergeTemplates resolves each question of the template shape (the first
// non-empty filled template) to the first non-empty answer across documents.
// Matching is by exact question string.
func mergeTemplates(results []entity.ExtractionResult) []entity.QA {
	var shape []entity.QA
	for _, r := range results {
		if len(r.FilledTemplate) > 0 {
			shape = r.FilledTemplate
			break
		}
	}
	if shape == nil {
		return nil
	}

	combined := make([]entity.QA, 0, len(shape))
	for _, q := range shape {
		answer := NotAvailable
		for _, r := range results {
			if a, ok := firstAnswer(r.FilledTemplate, q.Question); ok {
				answer = a
				break
			}
		}
		combined = append(combined, entity.QA{Question: q.Question, Answer: answer})
	}
	return combined
}

// firstAnswer returns the document's non-empty answer for the question, if
// it has one.
func firstAnswer(filled []entity.QA, question string) (string, bool) {
	for _, qa := range filled {
		if qa.Question != question {
			continue
		}
		if a := strings.TrimSpace(qa.Answer); a != "" {
			return a, true
		}
	}
	return "", false
}

// mergeMetrics concatenates every document's metrics in document order,
// tagging each entry with its source filename. No deduplication: the same
// measurement reported by two documents appears twice.
func mergeMetrics(results []entity.ExtractionResult) []entity.Metric {
	var combined []entity.Metric
	for _, r := range results {
		for _, m := range r.Metrics {
			m.Source = r.Filename
			combined = append(combined, m)
		}
	}
	return combined
}
