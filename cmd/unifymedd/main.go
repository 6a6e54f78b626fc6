package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/unifymed/unifymed/internal/common"
	"github.com/unifymed/unifymed/internal/extract"
	"github.com/unifymed/unifymed/internal/llm/vertex"
	processor "github.com/unifymed/unifymed/internal/pipeline"
	"github.com/unifymed/unifymed/internal/report"
	"github.com/unifymed/unifymed/internal/rxnorm"
	"github.com/unifymed/unifymed/internal/server"
	"github.com/unifymed/unifymed/internal/translate"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("config invalid", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	extractor, err := extract.NewVisionExtractor(ctx, extract.Config{
		LanguageHints: cfg.OCR.LanguageHints,
	}, logger)
	if err != nil {
		logger.Error("vision client init failed", "error", err)
		os.Exit(1)
	}
	defer extractor.Close()

	translator, err := translate.NewGoogleTranslator(ctx, logger)
	if err != nil {
		logger.Error("translate client init failed", "error", err)
		os.Exit(1)
	}
	defer translator.Close()

	llmClient, err := vertex.NewClient(ctx, vertex.Config{
		ProjectID:  cfg.GCP.ProjectID,
		Region:     cfg.GCP.Region,
		Model:      cfg.LLM.Model,
		MaxRetries: cfg.LLM.MaxRetries,
		RetryDelay: cfg.LLM.RetryDelay,
	}, logger)
	if err != nil {
		logger.Error("vertex client init failed", "error", err)
		os.Exit(1)
	}
	defer llmClient.Close()

	drugs := rxnorm.NewClient(rxnorm.Config{
		BaseURL: cfg.RxNorm.BaseURL,
		Timeout: cfg.RxNorm.Timeout,
	}, logger)

	proc := processor.NewProcessor(
		processor.Config{Concurrency: cfg.Concurrency},
		extractor, translator, llmClient, drugs, logger,
	)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit(byteCount(cfg.Server.MaxUploadBytes)))

	h := server.NewHandler(proc, report.NewGenerator(logger), logger)
	h.RegisterRoutes(e)

	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr)
		if err := e.Start(cfg.Server.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("stopped")
}

// byteCount renders a byte limit in echo's body-limit notation.
func byteCount(n int64) string {
	const mb = 1 << 20
	if n >= mb && n%mb == 0 {
		return strconv.FormatInt(n/mb, 10) + "M"
	}
	return strconv.FormatInt(n, 10)
}
