// Package logging builds the application's slog loggers and provides
// attribute helpers with standardized field names.
package logging
