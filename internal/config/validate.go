package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAIService(); err != nil {
		return err
	}
	if err := c.validateLanguages(); err != nil {
		return err
	}
	if err := c.validateFilter(); err != nil {
		return err
	}
	if err := c.validateLimits(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAIService() error {
	base := strings.TrimSpace(c.AIService.BaseURL)
	if base == "" {
		return errors.New("ai_service.base_url must be set")
	}
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("ai_service.base_url %q is not a valid URL", base)
	}
	if c.AIService.RequestTimeout <= 0 {
		return errors.New("ai_service.request_timeout must be positive")
	}
	if strings.TrimSpace(c.AIService.MediaRootInternal) == "" {
		return errors.New("ai_service.media_root_internal must be set")
	}
	return nil
}

func (c *Config) validateLanguages() error {
	for field, code := range map[string]string{
		"languages.default_target": c.Languages.DefaultTarget,
		"languages.default_native": c.Languages.DefaultNative,
	} {
		if code == "" {
			return fmt.Errorf("%s must be set", field)
		}
		if _, err := language.Parse(code); err != nil {
			return fmt.Errorf("%s %q is not a valid language tag: %w", field, code, err)
		}
	}
	return nil
}

func (c *Config) validateFilter() error {
	if c.Filter.MaxUnknownForLearning < 1 {
		return errors.New("filter.max_unknown_for_learning must be at least 1")
	}
	if c.Filter.MaxRatioForLearning <= 0 || c.Filter.MaxRatioForLearning > 1 {
		return errors.New("filter.max_ratio_for_learning must be in (0, 1]")
	}
	return nil
}

func (c *Config) validateLimits() error {
	if c.Translation.GuestLemmaLimit < 0 {
		return errors.New("translation.guest_lemma_limit must not be negative")
	}
	if c.Deck.Limit < 1 {
		return errors.New("deck.limit must be at least 1")
	}
	if c.Tasks.MaxInFlight < 1 {
		return errors.New("tasks.max_in_flight must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not supported (console, json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not supported (debug, info, warn, error)", c.Logging.Level)
	}
	return nil
}
