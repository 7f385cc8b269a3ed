// Package pipeline orchestrates the processing of one video for one target
// language: lock acquisition, thumbnail generation, transcription, linguistic
// analysis, translation enrichment, and persistence of the finished segments.
package pipeline
