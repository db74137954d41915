// Package config loads server configuration from environment variables.
//
// All variables are optional; defaults target a local development setup
// serving the browser extension on the original backend's port.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the yomigo-server configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// TessdataPrefix points Tesseract at its traineddata directory.
	// Empty means the system default is used.
	TessdataPrefix string

	// OCRTimeout is the per-recognition deadline.
	OCRTimeout time.Duration

	// OCRPoolSize bounds concurrent recognitions. Requests beyond the
	// pool size queue until a slot frees up.
	OCRPoolSize int

	// ConfidenceThreshold marks OCR lines below it as low confidence
	// (0.0 to 1.0). Low-confidence lines are returned, never dropped.
	ConfidenceThreshold float64

	// LexiconPath optionally points at an external JMdict-style JSON
	// lexicon. Empty means the embedded seed lexicon is used.
	LexiconPath string
}

// Load reads configuration from the environment, applying defaults.
func Load() *Config {
	return &Config{
		Addr:                getEnv("YOMIGO_ADDR", ":5000"),
		TessdataPrefix:      getEnv("YOMIGO_TESSDATA_PREFIX", ""),
		OCRTimeout:          getEnvDuration("YOMIGO_OCR_TIMEOUT", 10*time.Second),
		OCRPoolSize:         getEnvInt("YOMIGO_OCR_POOL_SIZE", 2),
		ConfidenceThreshold: getEnvFloat("YOMIGO_CONFIDENCE_THRESHOLD", 0.4),
		LexiconPath:         getEnv("YOMIGO_LEXICON_PATH", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
