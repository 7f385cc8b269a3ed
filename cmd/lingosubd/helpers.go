package main

import (
	"strings"

	"lingosub/internal/config"
	"lingosub/internal/language"
)

// resolveTargetLang normalizes a --lang flag, falling back to the configured
// default target language when the flag is empty.
func resolveTargetLang(cfg *config.Config, flag string) string {
	return resolveLang(flag, cfg.Languages.DefaultTarget)
}

func resolveLang(flag, fallback string) string {
	trimmed := strings.TrimSpace(flag)
	if trimmed == "" {
		return fallback
	}
	if normalized := language.Normalize(trimmed); normalized != "" {
		return normalized
	}
	return strings.ToLower(trimmed)
}
