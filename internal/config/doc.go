// Package config loads and validates the TOML configuration that drives the
// processing pipeline, the AI service client, and the CLI.
package config
