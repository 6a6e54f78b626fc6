// Package translate wraps the Cloud Translation API for source-language
// auto-detected translation into English.
package translate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gtranslate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
)

// Translator is Stage 3: normalized source-language text -> English text.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// GoogleTranslator implements Translator on the Cloud Translation v2 API.
type GoogleTranslator struct {
	client *gtranslate.Client
	logger *slog.Logger
}

func NewGoogleTranslator(ctx context.Context, logger *slog.Logger) (*GoogleTranslator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	client, err := gtranslate.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("translate.NewClient: %w", err)
	}
	return &GoogleTranslator{client: client, logger: logger}, nil
}

func (t *GoogleTranslator) Close() error {
	return t.client.Close()
}

// Translate renders text into English, auto-detecting the source language.
// Empty input returns empty output without an API call.
func (t *GoogleTranslator) Translate(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", nil
	}
	start := time.Now()
	res, err := t.client.Translate(ctx, []string{text}, language.English, &gtranslate.Options{
		Format: gtranslate.Text,
	})
	if err != nil {
		t.logger.Error("translate.failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("translate text: %w", err)
	}
	if len(res) == 0 {
		return "", fmt.Errorf("translate: empty result")
	}
	t.logger.Info("translate.ok",
		"in_len", len(text),
		"out_len", len(res[0].Text),
		"detected", res[0].Source.String(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res[0].Text, nil
}
