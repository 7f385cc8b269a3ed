// Package media holds path helpers shared between the pipeline and the CLI:
// audio detection, AI-service path mapping, and media URL construction.
package media
