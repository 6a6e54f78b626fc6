// Package vertex implements llm.FieldExtractor on Vertex AI Gemini.
package vertex

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/vertexai/genai"
	"github.com/google/uuid"

	"github.com/unifymed/unifymed/internal/entity"
	"github.com/unifymed/unifymed/internal/llm"
)

// Config for the Vertex AI client.
type Config struct {
	ProjectID  string
	Region     string        // e.g. "us-central1"
	Model      string        // e.g. "gemini-1.5-flash"
	MaxRetries int           // attempts per call, default 3
	RetryDelay time.Duration // pause between attempts, default 5s
}

// Client holds the two pre-configured generative models.
type Client struct {
	cfg          Config
	fillerModel  *genai.GenerativeModel
	metricsModel *genai.GenerativeModel
	baseClient   *genai.Client
	logger       *slog.Logger
}

// NewClient creates a client with a filler model (free-form numbered
// answers) and a metrics model (forced JSON output).
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.ProjectID == "" || cfg.Region == "" {
		return nil, fmt.Errorf("vertex.NewClient: ProjectID and Region cannot be empty")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	baseClient, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	fillerModel := baseClient.GenerativeModel(cfg.Model)
	fillerModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(fillerSystemPrompt)},
	}
	fillerModel.GenerationConfig = genai.GenerationConfig{
		Temperature: genai.Ptr[float32](0.0),
	}

	metricsModel := baseClient.GenerativeModel(cfg.Model)
	metricsModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(metricsSystemPrompt)},
	}
	metricsModel.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.0),
	}

	return &Client{
		cfg:          cfg,
		fillerModel:  fillerModel,
		metricsModel: metricsModel,
		baseClient:   baseClient,
		logger:       logger,
	}, nil
}

func (c *Client) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}

// FillTemplate implements llm.FieldExtractor.
func (c *Client) FillTemplate(ctx context.Context, questions []string, patientText string) ([]entity.QA, error) {
	if len(questions) == 0 {
		return nil, nil
	}
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.fill.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"questions", len(questions),
		"text_len", len(patientText),
	)

	numbered := make([]string, 0, len(questions))
	for i, q := range questions {
		numbered = append(numbered, fmt.Sprintf("%d. %s", i+1, q))
	}
	prompt := fmt.Sprintf(fillerUserPromptTemplate, patientText, strings.Join(numbered, "\n"))

	text, err := c.generateWithRetry(ctx, c.fillerModel, rid, prompt)
	if err != nil {
		c.logger.Error("llm.fill.failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	out := llm.ParseNumberedAnswers(questions, text)
	answered := 0
	for _, qa := range out {
		if qa.Answer != "" {
			answered++
		}
	}
	c.logger.Info("llm.fill.ok",
		"req_id", rid,
		"answered", answered,
		"questions", len(questions),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// ExtractMetrics implements llm.FieldExtractor. A response that cannot be
// parsed as a metric array degrades to an empty list; only transport
// failures surface as errors.
func (c *Client) ExtractMetrics(ctx context.Context, patientText string) ([]entity.Metric, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.metrics.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"text_len", len(patientText),
	)

	prompt := fmt.Sprintf(metricsUserPromptTemplate, patientText)
	text, err := c.generateWithRetry(ctx, c.metricsModel, rid, prompt)
	if err != nil {
		c.logger.Error("llm.metrics.failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	metrics, err := llm.ParseMetricArray(text, c.logger)
	if err != nil {
		c.logger.Warn("llm.metrics.parse_failed",
			"req_id", rid, "error", err, "raw_len", len(text),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, nil
	}

	c.logger.Info("llm.metrics.ok",
		"req_id", rid,
		"entries", len(metrics),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return metrics, nil
}

// generateWithRetry calls the model up to MaxRetries times with a fixed
// pause between attempts, honoring context cancellation during the pause.
func (c *Client) generateWithRetry(ctx context.Context, model *genai.GenerativeModel, rid, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err == nil {
			text := responseText(resp)
			if text != "" {
				return text, nil
			}
			err = fmt.Errorf("empty model response")
		}
		lastErr = err
		c.logger.Warn("llm.generate.attempt_failed",
			"req_id", rid, "attempt", attempt, "error", err,
		)
		if attempt < c.cfg.MaxRetries {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.cfg.RetryDelay):
			}
		}
	}
	return "", fmt.Errorf("generate content after %d attempts: %w", c.cfg.MaxRetries, lastErr)
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return strings.TrimSpace(b.String())
}
