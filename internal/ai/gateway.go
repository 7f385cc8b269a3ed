package ai

import "context"

// RawSegment is one timed span of transcribed speech.
type RawSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// TranscriptionResult is the transcribe response.
type TranscriptionResult struct {
	Language            string       `json:"language"`
	LanguageProbability float64      `json:"language_probability"`
	Segments            []RawSegment `json:"segments"`
}

// TokenAnalysis is one token of linguistic analysis, before enrichment.
type TokenAnalysis struct {
	Text       string `json:"text"`
	Lemma      string `json:"lemma"`
	POS        string `json:"pos"`
	IsStop     bool   `json:"is_stop"`
	Whitespace string `json:"whitespace,omitempty"`
}

// AnalysisResult is the batch analysis response. Results are index-aligned
// with the input texts: Results[i] tokenizes texts[i].
type AnalysisResult struct {
	Results [][]TokenAnalysis `json:"results"`
}

// TranslationResult is the translate response, index-aligned with input.
type TranslationResult struct {
	Translations []string `json:"translations"`
}

// ThumbnailResult is the thumbnail generation response.
type ThumbnailResult struct {
	ThumbnailPath string `json:"thumbnail_path"`
}

// Gateway is the AI service boundary the pipeline depends on. The pipeline
// is agnostic to whether this is the live HTTP service or a test stub.
type Gateway interface {
	Transcribe(ctx context.Context, mediaPath, lang string) (TranscriptionResult, error)
	AnalyzeBatch(ctx context.Context, texts []string, lang string) (AnalysisResult, error)
	Translate(ctx context.Context, texts []string, sourceLang, targetLang string) (TranslationResult, error)
	GenerateThumbnail(ctx context.Context, mediaPath string) (ThumbnailResult, error)
}
