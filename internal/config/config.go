package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"lingosub/internal/language"
)

// Paths contains directory configuration.
type Paths struct {
	MediaDir string `toml:"media_dir"`
	DataDir  string `toml:"data_dir"`
	LogDir   string `toml:"log_dir"`
}

// AIService contains connection settings for the transcription/NLP backend.
type AIService struct {
	BaseURL           string `toml:"base_url"`
	APIKey            string `toml:"api_key"`
	RequestTimeout    int    `toml:"request_timeout"`
	MediaRootInternal string `toml:"media_root_internal"`
}

// Languages contains the default language pair for processing.
type Languages struct {
	DefaultTarget string `toml:"default_target"`
	DefaultNative string `toml:"default_native"`
}

// Filter contains the segment difficulty classification thresholds.
type Filter struct {
	MaxUnknownForLearning int     `toml:"max_unknown_for_learning"`
	MaxRatioForLearning   float64 `toml:"max_ratio_for_learning"`
}

// Translation contains enrichment limits.
type Translation struct {
	GuestLemmaLimit int `toml:"guest_lemma_limit"`
}

// Deck contains vocabulary deck extraction settings.
type Deck struct {
	Limit int `toml:"limit"`
}

// Tasks contains background task tracking settings.
type Tasks struct {
	MaxInFlight int `toml:"max_in_flight"`
}

// Logging contains log output settings.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the root configuration document.
type Config struct {
	Paths       Paths       `toml:"paths"`
	AIService   AIService   `toml:"ai_service"`
	Languages   Languages   `toml:"languages"`
	Filter      Filter      `toml:"filter"`
	Translation Translation `toml:"translation"`
	Deck        Deck        `toml:"deck"`
	Tasks       Tasks       `toml:"tasks"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the expected location of the user config file.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "lingosub", "config.toml"), nil
}

// Load reads configuration from path, falling back to defaults when the file
// does not exist. An empty path uses DefaultConfigPath.
func Load(path string) (*Config, string, error) {
	resolved := strings.TrimSpace(path)
	if resolved == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, "", err
		}
		resolved = defaultPath
	}
	resolved = expandPath(resolved)

	cfg := Default()
	data, err := os.ReadFile(resolved)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, resolved, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// Defaults apply when no config file is present.
	default:
		return nil, resolved, fmt.Errorf("read config %s: %w", resolved, err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, resolved, err
	}
	return &cfg, resolved, nil
}

// Write serializes the configuration to path, creating parent directories.
func (c *Config) Write(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// EnsureDirectories creates the configured media, data, and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.MediaDir, c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure directory %s: %w", dir, err)
		}
	}
	return nil
}

func (c *Config) normalize() {
	c.Paths.MediaDir = expandPath(c.Paths.MediaDir)
	c.Paths.DataDir = expandPath(c.Paths.DataDir)
	c.Paths.LogDir = expandPath(c.Paths.LogDir)
	c.AIService.BaseURL = strings.TrimRight(strings.TrimSpace(c.AIService.BaseURL), "/")
	c.Languages.DefaultTarget = normalizeLang(c.Languages.DefaultTarget)
	c.Languages.DefaultNative = normalizeLang(c.Languages.DefaultNative)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
}

// normalizeLang maps code or name forms to ISO 639-1, leaving unrecognized
// values for Validate to reject.
func normalizeLang(value string) string {
	if normalized := language.Normalize(value); normalized != "" {
		return normalized
	}
	return strings.ToLower(strings.TrimSpace(value))
}

func expandPath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return trimmed
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
		}
	}
	return trimmed
}
