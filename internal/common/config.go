package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	GCP    GCPConfig
	LLM    LLMConfig
	OCR    OCRConfig
	RxNorm RxNormConfig

	// Concurrency bounds parallel per-document pipelines in one request.
	Concurrency int
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr        string
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
}

// GCPConfig holds Google Cloud project settings shared by the Vision,
// Translation and Vertex clients.
type GCPConfig struct {
	ProjectID string
	Region    string
}

// LLMConfig holds Gemini model settings
type LLMConfig struct {
	Model      string
	MaxRetries int
	RetryDelay time.Duration
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	LanguageHints []string
}

// RxNormConfig holds drug-terminology lookup settings
type RxNormConfig struct {
	BaseURL string
	Timeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
			MaxUploadBytes:  getEnvAsInt64("MAX_UPLOAD_BYTES", 32<<20),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		GCP: GCPConfig{
			ProjectID: getEnv("GCP_PROJECT_ID", ""),
			Region:    getEnv("GCP_REGION", "us-central1"),
		},
		LLM: LLMConfig{
			Model:      getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			MaxRetries: getEnvAsInt("GEMINI_MAX_RETRIES", 3),
			RetryDelay: getEnvAsDuration("GEMINI_RETRY_DELAY", 5*time.Second),
		},
		OCR: OCRConfig{
			LanguageHints: getEnvAsList("OCR_LANGUAGE_HINTS", []string{"es"}),
		},
		RxNorm: RxNormConfig{
			BaseURL: getEnv("RXNORM_BASE_URL", "https://rxnav.nlm.nih.gov/REST"),
			Timeout: getEnvAsDuration("RXNORM_TIMEOUT", 10*time.Second),
		},
		Concurrency: getEnvAsInt("PIPELINE_CONCURRENCY", 4),
	}
}

// Validate reports missing required settings. Called at startup so a
// deployment without credentials fails fast instead of mid-request.
func (c *Config) Validate() error {
	if c.GCP.ProjectID == "" {
		return fmt.Errorf("GCP_PROJECT_ID env var is required")
	}
	if c.GCP.Region == "" {
		return fmt.Errorf("GCP_REGION env var is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
