// Package rxnorm canonicalizes free-text medication names through the
// RxNorm terminology service.
package rxnorm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/unifymed/unifymed/internal/common"
)

// DrugNormalizer canonicalizes one medication name. Lookup failure is a
// graceful degradation: implementations return the input unchanged, never
// an error.
type DrugNormalizer interface {
	Normalize(ctx context.Context, name string) string
}

// Config for the RxNorm client.
type Config struct {
	BaseURL string        // default https://rxnav.nlm.nih.gov/REST
	Timeout time.Duration // http client timeout, default 10s
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://rxnav.nlm.nih.gov/REST"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Normalize resolves name to its canonical RxNorm display name via
// approximate match. Any failure (network, no candidates, malformed
// response) returns the input unchanged.
func (c *Client) Normalize(ctx context.Context, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return name
	}
	start := time.Now()

	rxcui, err := c.approximateMatch(ctx, name)
	if err != nil {
		c.logger.Warn("rxnorm.lookup_failed", "name", name, "error", err)
		return name
	}
	canonical, err := c.conceptName(ctx, rxcui)
	if err != nil {
		c.logger.Warn("rxnorm.property_failed", "name", name, "rxcui", rxcui, "error", err)
		return name
	}

	c.logger.Info("rxnorm.normalized",
		"name", name,
		"canonical", canonical,
		"rxcui", rxcui,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return canonical
}

// approximateMatch returns the rxcui of the first candidate for the term.
func (c *Client) approximateMatch(ctx context.Context, term string) (string, error) {
	endpoint := fmt.Sprintf("%s/approximateTerm.json?term=%s&maxEntries=1",
		strings.TrimRight(c.cfg.BaseURL, "/"), url.QueryEscape(term))
	raw, err := c.get(ctx, endpoint)
	if err != nil {
		return "", common.WrapError(err, "approximate term lookup")
	}

	var resp struct {
		ApproximateGroup struct {
			Candidate []struct {
				Rxcui string `json:"rxcui"`
			} `json:"candidate"`
		} `json:"approximateGroup"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decode approximateTerm response: %w", err)
	}
	for _, cand := range resp.ApproximateGroup.Candidate {
		if cand.Rxcui != "" {
			return cand.Rxcui, nil
		}
	}
	return "", fmt.Errorf("no candidates for %q", term)
}

// conceptName returns the RxNorm display name of a concept.
func (c *Client) conceptName(ctx context.Context, rxcui string) (string, error) {
	endpoint := fmt.Sprintf("%s/rxcui/%s/property.json?propName=RxNorm%%20Name",
		strings.TrimRight(c.cfg.BaseURL, "/"), url.PathEscape(rxcui))
	raw, err := c.get(ctx, endpoint)
	if err != nil {
		return "", common.WrapError(err, "concept property lookup")
	}

	var resp struct {
		PropConceptGroup struct {
			PropConcept []struct {
				PropValue string `json:"propValue"`
			} `json:"propConcept"`
		} `json:"propConceptGroup"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decode property response: %w", err)
	}
	for _, p := range resp.PropConceptGroup.PropConcept {
		if v := strings.TrimSpace(p.PropValue); v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("no name property for rxcui %s", rxcui)
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rxnorm http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Warn("rxnorm response body close error", "error", err)
		}
	}(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("rxnorm status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}
