package subtitle

import (
	"context"
	"fmt"

	"lingosub/internal/store"
)

// Service renders subtitles for completed processing records.
type Service struct {
	store *store.Store
}

// NewService constructs a subtitle service backed by the given store.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// GenerateVTT renders the WebVTT document for a (video, language) pair.
// The second return value is false, without an error, when no processing
// record or no segment array exists yet.
func (s *Service) GenerateVTT(ctx context.Context, videoID, targetLang string, mode Mode) (string, bool, error) {
	cues, ok, err := s.cues(ctx, videoID, targetLang, mode)
	if err != nil || !ok {
		return "", ok, err
	}
	return RenderVTT(cues), true, nil
}

// GenerateSRT renders the SubRip document for a (video, language) pair,
// with the same absent semantics as GenerateVTT.
func (s *Service) GenerateSRT(ctx context.Context, videoID, targetLang string, mode Mode) (string, bool, error) {
	cues, ok, err := s.cues(ctx, videoID, targetLang, mode)
	if err != nil || !ok {
		return "", ok, err
	}
	return RenderSRT(cues), true, nil
}

func (s *Service) cues(ctx context.Context, videoID, targetLang string, mode Mode) ([]Cue, bool, error) {
	processing, err := s.store.GetProcessing(ctx, videoID, targetLang)
	if err != nil {
		return nil, false, fmt.Errorf("load processing record: %w", err)
	}
	if processing == nil || processing.Segments == nil {
		return nil, false, nil
	}
	return BuildCues(processing.Segments, mode), true, nil
}
