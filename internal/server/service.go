// Package server exposes the processing pipeline over HTTP for the
// browser upload form. All request state is in memory; nothing is
// persisted between requests.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/unifymed/unifymed/constants"
	"github.com/unifymed/unifymed/internal/common"
	"github.com/unifymed/unifymed/internal/entity"
	"github.com/unifymed/unifymed/internal/report"
	"github.com/unifymed/unifymed/internal/template"
)

// BatchProcessor runs the document pipeline for one request.
type BatchProcessor interface {
	ProcessBatch(ctx context.Context, docs []entity.Document, tmpl *entity.Document) ([]entity.ExtractionResult, entity.MergedResult, error)
}

// ProcessResponse is the JSON body returned by the process endpoint.
type ProcessResponse struct {
	Results []entity.ExtractionResult `json:"results"`
	Merged  entity.MergedResult       `json:"merged"`
}

// Handler wires the HTTP surface to the processor and the report
// generator.
type Handler struct {
	processor BatchProcessor
	reports   *report.Generator
	logger    *slog.Logger
}

func NewHandler(p BatchProcessor, r *report.Generator, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{processor: p, reports: r, logger: logger}
}

// RegisterRoutes registers the API routes.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	api := e.Group("/api/v1")
	api.POST("/process", h.Process)
	api.POST("/report", h.Report)
	api.POST("/export", h.Export)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Process accepts a multipart upload of one or more documents plus an
// optional template, runs the pipeline, and returns the per-document
// results with the merged summary.
func (h *Handler) Process(c echo.Context) error {
	reqID := uuid.New().String()
	start := time.Now()

	form, err := c.MultipartForm()
	if err != nil {
		return common.BadRequestError("expected multipart form upload")
	}

	docs, err := readDocuments(form.File["documents"])
	if err != nil {
		return common.HTTPError(err)
	}
	tmpl, err := readTemplate(form.File["template"])
	if err != nil {
		return common.HTTPError(err)
	}

	results, merged, err := h.processor.ProcessBatch(c.Request().Context(), docs, tmpl)
	if err != nil {
		h.logger.Warn("http.process.rejected", "req_id", reqID, "error", err)
		return common.HTTPError(err)
	}

	h.logger.Info("http.process.ok",
		"req_id", reqID,
		"documents", len(docs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return c.JSON(http.StatusOK, ProcessResponse{Results: results, Merged: merged})
}

// Report renders the merged result as a PDF. When the upload includes a
// PDF template its form is filled in place; otherwise a generated summary
// document is returned.
func (h *Handler) Report(c echo.Context) error {
	reqID := uuid.New().String()

	merged, err := readMergedField(c)
	if err != nil {
		return common.HTTPError(err)
	}
	tmpl, err := readTemplate(defaultForm(c).File["template"])
	if err != nil {
		return common.HTTPError(err)
	}

	var out []byte
	switch {
	case tmpl != nil && !template.IsPlainForm(*tmpl):
		out, err = h.reports.FillTemplatePDF(tmpl.Content, merged.CombinedTemplate)
		if err != nil {
			return common.BadRequestErrorf("template %q is not a readable PDF", tmpl.Filename)
		}
	default:
		out, err = h.reports.BuildSummaryPDF(merged)
		if err != nil {
			h.logger.Error("http.report.failed", "req_id", reqID, "error", err)
			return common.InternalError("report generation failed")
		}
	}

	h.logger.Info("http.report.ok", "req_id", reqID, "bytes", len(out))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="unifymed-report.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", out)
}

// Export renders the merged result as an XLSX workbook.
func (h *Handler) Export(c echo.Context) error {
	reqID := uuid.New().String()

	merged, err := readMergedField(c)
	if err != nil {
		return common.HTTPError(err)
	}

	out, err := h.reports.BuildXLSX(merged)
	if err != nil {
		h.logger.Error("http.export.failed", "req_id", reqID, "error", err)
		return common.InternalError("export generation failed")
	}

	h.logger.Info("http.export.ok", "req_id", reqID, "bytes", len(out))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="unifymed-results.xlsx"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", out)
}

func defaultForm(c echo.Context) *multipart.Form {
	form, err := c.MultipartForm()
	if err != nil {
		return &multipart.Form{File: map[string][]*multipart.FileHeader{}}
	}
	return form
}

// readMergedField decodes the "merged" form value into a MergedResult.
func readMergedField(c echo.Context) (entity.MergedResult, error) {
	raw := c.FormValue("merged")
	if raw == "" {
		return entity.MergedResult{}, common.InvalidInputError("missing merged results payload", nil)
	}
	var merged entity.MergedResult
	if err := json.Unmarshal([]byte(raw), &merged); err != nil {
		return entity.MergedResult{}, common.InvalidInputError("merged results payload is not valid JSON", err)
	}
	return merged, nil
}

func readDocuments(headers []*multipart.FileHeader) ([]entity.Document, error) {
	docs := make([]entity.Document, 0, len(headers))
	for _, fh := range headers {
		doc, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func readTemplate(headers []*multipart.FileHeader) (*entity.Document, error) {
	if len(headers) == 0 {
		return nil, nil
	}
	doc, err := readUpload(headers[0])
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func readUpload(fh *multipart.FileHeader) (entity.Document, error) {
	ext := constants.NormalizeExt(filepath.Ext(fh.Filename))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		return entity.Document{}, common.InvalidInputError(fmt.Sprintf("unsupported file type %q", fh.Filename), nil)
	}
	f, err := fh.Open()
	if err != nil {
		return entity.Document{}, common.InvalidInputError(fmt.Sprintf("upload %q could not be read", fh.Filename), err)
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return entity.Document{}, common.InvalidInputError(fmt.Sprintf("upload %q could not be read", fh.Filename), err)
	}
	return entity.Document{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}
