package testsupport

import (
	"context"
	"errors"
	"sync"

	"lingosub/internal/ai"
)

// StubGateway is a scripted ai.Gateway for tests. Each response field may be
// overridden per test; errors take precedence over responses. Call counts are
// safe for concurrent use.
type StubGateway struct {
	mu sync.Mutex

	TranscribeResult ai.TranscriptionResult
	TranscribeErr    error
	TranscribeFn     func(ctx context.Context, mediaPath, lang string) (ai.TranscriptionResult, error)
	AnalyzeResult    ai.AnalysisResult
	AnalyzeErr       error
	TranslateFn      func(texts []string, sourceLang, targetLang string) (ai.TranslationResult, error)
	ThumbnailResult  ai.ThumbnailResult
	ThumbnailErr     error

	TranscribeCalls int
	AnalyzeCalls    int
	TranslateCalls  int
	ThumbnailCalls  int

	TranslatedBatches [][]string
}

var _ ai.Gateway = (*StubGateway)(nil)

func (g *StubGateway) Transcribe(ctx context.Context, mediaPath, lang string) (ai.TranscriptionResult, error) {
	g.mu.Lock()
	g.TranscribeCalls++
	g.mu.Unlock()
	if g.TranscribeFn != nil {
		return g.TranscribeFn(ctx, mediaPath, lang)
	}
	if g.TranscribeErr != nil {
		return ai.TranscriptionResult{}, g.TranscribeErr
	}
	return g.TranscribeResult, nil
}

func (g *StubGateway) AnalyzeBatch(ctx context.Context, texts []string, lang string) (ai.AnalysisResult, error) {
	g.mu.Lock()
	g.AnalyzeCalls++
	g.mu.Unlock()
	if g.AnalyzeErr != nil {
		return ai.AnalysisResult{}, g.AnalyzeErr
	}
	return g.AnalyzeResult, nil
}

// Translate echoes each input text prefixed with "t:" unless TranslateFn is
// scripted. The identity-style default keeps assertions readable.
func (g *StubGateway) Translate(ctx context.Context, texts []string, sourceLang, targetLang string) (ai.TranslationResult, error) {
	g.mu.Lock()
	g.TranslateCalls++
	g.TranslatedBatches = append(g.TranslatedBatches, append([]string(nil), texts...))
	g.mu.Unlock()
	if g.TranslateFn != nil {
		return g.TranslateFn(texts, sourceLang, targetLang)
	}
	translations := make([]string, len(texts))
	for i, text := range texts {
		translations[i] = "t:" + text
	}
	return ai.TranslationResult{Translations: translations}, nil
}

func (g *StubGateway) GenerateThumbnail(ctx context.Context, mediaPath string) (ai.ThumbnailResult, error) {
	g.mu.Lock()
	g.ThumbnailCalls++
	g.mu.Unlock()
	if g.ThumbnailErr != nil {
		return ai.ThumbnailResult{}, g.ThumbnailErr
	}
	if g.ThumbnailResult.ThumbnailPath == "" {
		return ai.ThumbnailResult{}, errors.New("no thumbnail scripted")
	}
	return g.ThumbnailResult, nil
}
