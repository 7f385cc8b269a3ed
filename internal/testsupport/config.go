package testsupport

import (
	"path/filepath"
	"testing"

	"lingosub/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.MediaDir = filepath.Join(base, "media")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.AIService.BaseURL = "http://127.0.0.1:0"
	cfg.AIService.APIKey = "test"

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithFilterThresholds overrides the classification thresholds.
func WithFilterThresholds(maxUnknown int, maxRatio float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Filter.MaxUnknownForLearning = maxUnknown
		cfg.Filter.MaxRatioForLearning = maxRatio
	}
}

// WithGuestLemmaLimit overrides the guest translation cap.
func WithGuestLemmaLimit(limit int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Translation.GuestLemmaLimit = limit
	}
}
