// Package ai defines the gateway boundary to the external transcription,
// analysis, translation, and thumbnail service, plus its HTTP client.
package ai
