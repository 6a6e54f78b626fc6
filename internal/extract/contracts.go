package extract

import (
	"context"
	"time"

	"github.com/unifymed/unifymed/internal/entity"
)

// TextExtractor is Stage 1: document bytes -> raw text in the source
// language.
type TextExtractor interface {
	Extract(ctx context.Context, doc entity.Document) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text       string
	Pages      int
	SourceType string // constants.PDF | constants.IMAGE | constants.TXT
	Language   string
	Duration   time.Duration
	Warnings   []string
}
