package extract

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"

	"github.com/unifymed/unifymed/constants"
	"github.com/unifymed/unifymed/internal/entity"
)

// Config for the Vision OCR adapter.
type Config struct {
	// LanguageHints passed to text detection; the source corpus is mostly
	// Spanish-language records.
	LanguageHints []string
}

// VisionExtractor implements TextExtractor on the Cloud Vision API. PDFs go
// through file annotation, images through image annotation; plain-text
// uploads skip the API entirely.
type VisionExtractor struct {
	cfg    Config
	client *vision.ImageAnnotatorClient
	logger *slog.Logger
}

func NewVisionExtractor(ctx context.Context, cfg Config, logger *slog.Logger) (*VisionExtractor, error) {
	if len(cfg.LanguageHints) == 0 {
		cfg.LanguageHints = []string{"es"}
	}
	if logger == nil {
		logger = slog.Default()
	}
	client, err := vision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("vision.NewImageAnnotatorClient: %w", err)
	}
	return &VisionExtractor{cfg: cfg, client: client, logger: logger}, nil
}

func (e *VisionExtractor) Close() error {
	return e.client.Close()
}

// Extract picks a strategy based on the document's file extension.
func (e *VisionExtractor) Extract(ctx context.Context, doc entity.Document) (TextExtractionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(doc.Filename))
	format := constants.MapExtToFormat(ext)
	e.logger.Debug("ocr.extract.start", "filename", doc.Filename, "ext", ext, "format", format)

	var (
		res TextExtractionResult
		err error
	)
	switch format {
	case constants.PDF:
		res, err = e.extractPDF(ctx, doc)
	case constants.IMAGE:
		res, err = e.extractImage(ctx, doc)
	case constants.TXT:
		res = TextExtractionResult{Text: string(doc.Content), Pages: 1, SourceType: constants.TXT}
	default:
		return TextExtractionResult{}, fmt.Errorf("unsupported extension: %q", ext)
	}
	res.Duration = time.Since(start)
	if err != nil {
		e.logger.Error("ocr.extract.failed",
			"filename", doc.Filename,
			"error", err,
			"elapsed_ms", res.Duration.Milliseconds(),
		)
		return res, err
	}
	e.logger.Info("ocr.extract.ok",
		"filename", doc.Filename,
		"source_type", res.SourceType,
		"pages", res.Pages,
		"text_len", len(res.Text),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (e *VisionExtractor) extractImage(ctx context.Context, doc entity.Document) (TextExtractionResult, error) {
	resp, err := e.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image: &visionpb.Image{Content: doc.Content},
			Features: []*visionpb.Feature{
				{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
			},
			ImageContext: &visionpb.ImageContext{LanguageHints: e.cfg.LanguageHints},
		}},
	})
	if err != nil {
		return TextExtractionResult{SourceType: constants.IMAGE}, fmt.Errorf("annotate image: %w", err)
	}
	out := TextExtractionResult{SourceType: constants.IMAGE, Pages: 1, Language: e.primaryHint()}
	for _, r := range resp.GetResponses() {
		if s := r.GetError(); s != nil {
			return out, fmt.Errorf("vision error: %s", s.GetMessage())
		}
		out.Text += r.GetFullTextAnnotation().GetText()
	}
	return out, nil
}

func (e *VisionExtractor) extractPDF(ctx context.Context, doc entity.Document) (TextExtractionResult, error) {
	resp, err := e.client.BatchAnnotateFiles(ctx, &visionpb.BatchAnnotateFilesRequest{
		Requests: []*visionpb.AnnotateFileRequest{{
			InputConfig: &visionpb.InputConfig{
				Content:  doc.Content,
				MimeType: "application/pdf",
			},
			Features: []*visionpb.Feature{
				{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
			},
			ImageContext: &visionpb.ImageContext{LanguageHints: e.cfg.LanguageHints},
		}},
	})
	if err != nil {
		return TextExtractionResult{SourceType: constants.PDF}, fmt.Errorf("annotate file: %w", err)
	}

	out := TextExtractionResult{SourceType: constants.PDF, Language: e.primaryHint()}
	var pages []string
	for _, fileResp := range resp.GetResponses() {
		if s := fileResp.GetError(); s != nil {
			return out, fmt.Errorf("vision error: %s", s.GetMessage())
		}
		for _, pageResp := range fileResp.GetResponses() {
			if s := pageResp.GetError(); s != nil {
				out.Warnings = append(out.Warnings, fmt.Sprintf("page %d: %s", len(pages)+1, s.GetMessage()))
				continue
			}
			pages = append(pages, pageResp.GetFullTextAnnotation().GetText())
		}
	}
	out.Pages = len(pages)
	out.Text = strings.Join(pages, "\n")
	return out, nil
}

func (e *VisionExtractor) primaryHint() string {
	if len(e.cfg.LanguageHints) > 0 {
		return e.cfg.LanguageHints[0]
	}
	return ""
}
