package store

import (
	"strings"
	"time"

	"lingosub/internal/segment"
)

// ProcessingStatus represents the lifecycle of a processing record.
type ProcessingStatus string

const (
	StatusPending   ProcessingStatus = "PENDING"
	StatusCompleted ProcessingStatus = "COMPLETED"
	StatusError     ProcessingStatus = "ERROR"
)

var allStatuses = []ProcessingStatus{StatusPending, StatusCompleted, StatusError}

// ParseStatus converts a string into a known ProcessingStatus.
func ParseStatus(value string) (ProcessingStatus, bool) {
	normalized := ProcessingStatus(strings.ToUpper(strings.TrimSpace(value)))
	for _, status := range allStatuses {
		if status == normalized {
			return status, true
		}
	}
	return "", false
}

// Video is an uploaded media file awaiting or holding subtitles.
type Video struct {
	ID            string
	Title         string
	FilePath      string
	ThumbnailPath string
	Duration      int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Processing is one language-specific processing attempt for a video.
// Segments is nil until the pipeline completes successfully.
type Processing struct {
	VideoID    string
	TargetLang string
	Status     ProcessingStatus
	Segments   []segment.Segment
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// KnownWord records a lemma a user has marked as known.
type KnownWord struct {
	UserID       string
	Lemma        string
	Lang         string
	Level        string
	IsProperNoun bool
}

// CEFR proficiency levels accepted for seeded vocabulary.
var cefrLevels = map[string]struct{}{
	"A1": {}, "A2": {}, "B1": {}, "B2": {}, "C1": {}, "C2": {},
}

// ValidLevel reports whether level is empty (untracked) or a CEFR tier.
func ValidLevel(level string) bool {
	if level == "" {
		return true
	}
	_, ok := cefrLevels[strings.ToUpper(level)]
	return ok
}
