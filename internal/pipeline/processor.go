// Package processor coordinates the per-document pipeline and the
// cross-document merge for one processing request.
package processor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/unifymed/unifymed/internal/common"
	"github.com/unifymed/unifymed/internal/entity"
	"github.com/unifymed/unifymed/internal/extract"
	"github.com/unifymed/unifymed/internal/llm"
	"github.com/unifymed/unifymed/internal/merge"
	"github.com/unifymed/unifymed/internal/rxnorm"
	"github.com/unifymed/unifymed/internal/template"
	"github.com/unifymed/unifymed/internal/translate"
)

// ErrNoDocuments rejects a request before any remote call is attempted.
// It is an invalid-input error; the HTTP layer maps it to 400.
var ErrNoDocuments = common.InvalidInputError("at least one document is required", nil)

// Config holds behavior knobs for the processor.
type Config struct {
	// Concurrency bounds the number of documents processed in parallel.
	// Default 4. Results are re-joined in upload order regardless.
	Concurrency int
}

// Processor owns the stage collaborators for one deployment. It is safe
// for concurrent use; all per-request state lives on the stack.
type Processor struct {
	cfg        Config
	extractor  extract.TextExtractor
	translator translate.Translator
	fields     llm.FieldExtractor
	drugs      rxnorm.DrugNormalizer
	merger     *merge.Engine
	logger     *slog.Logger
}

func NewProcessor(
	cfg Config,
	ex extract.TextExtractor,
	tr translate.Translator,
	fe llm.FieldExtractor,
	dn rxnorm.DrugNormalizer,
	logger *slog.Logger,
) *Processor {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		cfg:        cfg,
		extractor:  ex,
		translator: tr,
		fields:     fe,
		drugs:      dn,
		merger:     merge.NewEngine(logger),
		logger:     logger,
	}
}

// ProcessBatch runs every document's pipeline and merges the results.
// Documents fan out across a bounded worker group; the indexed result
// slice re-joins them in upload order before merging, so completion order
// never leaks into merge semantics. The only error is the zero-document
// input error; individual document failures degrade to empty results.
func (p *Processor) ProcessBatch(ctx context.Context, docs []entity.Document, tmpl *entity.Document) ([]entity.ExtractionResult, entity.MergedResult, error) {
	if len(docs) == 0 {
		return nil, entity.MergedResult{}, ErrNoDocuments
	}
	start := time.Now()

	questions, err := p.deriveQuestions(ctx, tmpl)
	if err != nil {
		return nil, entity.MergedResult{}, err
	}

	results := make([]entity.ExtractionResult, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)
	for i, doc := range docs {
		g.Go(func() error {
			results[i] = p.ProcessDocument(gctx, doc, questions)
			return nil
		})
	}
	// Workers never return errors; degradation happens inside each
	// document's pipeline. Wait only synchronizes the join.
	_ = g.Wait()

	merged := p.merger.Merge(results)
	p.logger.Info("processor.batch.done",
		"documents", len(docs),
		"questions", len(questions),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return results, merged, nil
}

// deriveQuestions extracts the question list from the optional template
// payload. A plain-text field list is read directly; anything else is
// OCR'd and mined for lines ending in ':'. A template that cannot be read
// is an input error, unlike per-document degradation.
func (p *Processor) deriveQuestions(ctx context.Context, tmpl *entity.Document) ([]string, error) {
	if tmpl == nil {
		return nil, nil
	}
	if template.IsPlainForm(*tmpl) {
		return template.QuestionsFromPlainText(string(tmpl.Content)), nil
	}
	ocr, err := p.extractor.Extract(ctx, *tmpl)
	if err != nil {
		return nil, common.InvalidInputError(fmt.Sprintf("template %q is not readable", tmpl.Filename), err)
	}
	questions := template.QuestionsFromOCRText(ocr.Text)
	p.logger.Info("processor.template.questions", "filename", tmpl.Filename, "count", len(questions))
	return questions, nil
}
