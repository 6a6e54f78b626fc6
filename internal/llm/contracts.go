package llm

import (
	"context"

	"github.com/unifymed/unifymed/internal/entity"
)

// FieldExtractor turns translated patient text into structured results.
// Implementations run two model calls per document: one filling the
// caller-supplied question list, one extracting typed metrics.
type FieldExtractor interface {
	// FillTemplate answers the questions from the patient text, returning
	// one QA per question in the same order. Unanswerable questions come
	// back with an empty answer.
	FillTemplate(ctx context.Context, questions []string, patientText string) ([]entity.QA, error)

	// ExtractMetrics pulls numeric measurements and medication mentions
	// from the patient text. A malformed model response yields an empty
	// list, not an error; only transport failures are returned.
	ExtractMetrics(ctx context.Context, patientText string) ([]entity.Metric, error)
}
