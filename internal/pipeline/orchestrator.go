package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"lingosub/internal/ai"
	"lingosub/internal/config"
	"lingosub/internal/lexfilter"
	"lingosub/internal/logging"
	"lingosub/internal/media"
	"lingosub/internal/segment"
	"lingosub/internal/services"
	"lingosub/internal/store"
)

const component = "pipeline"

// Request describes one processing invocation. TargetLang and NativeLang
// fall back to configured defaults when empty. An empty UserID selects the
// guest enrichment path. Progress may be nil.
type Request struct {
	VideoID    string
	TargetLang string
	NativeLang string
	UserID     string
	Progress   ProgressFunc
}

// Orchestrator drives a video through transcription, analysis, enrichment,
// and persistence. One Process call is one logical task; invocations for the
// same (video, language) pair are serialized by the processing lock, with
// losers returning immediately.
type Orchestrator struct {
	cfg     *config.Config
	store   *store.Store
	gateway ai.Gateway
	filter  *lexfilter.Filter
	logger  *slog.Logger
}

// NewOrchestrator constructs an orchestrator with its collaborators.
func NewOrchestrator(cfg *config.Config, st *store.Store, gateway ai.Gateway, filter *lexfilter.Filter, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:     cfg,
		store:   st,
		gateway: gateway,
		filter:  filter,
		logger:  logging.NewComponentLogger(logger, component),
	}
}

// Process runs the full pipeline for one (video, language) pair. A duplicate
// submission while a run is in flight returns nil without touching anything.
// Every other failure marks the processing record ERROR (best effort) and is
// returned to the caller.
func (o *Orchestrator) Process(ctx context.Context, req Request) error {
	if strings.TrimSpace(req.VideoID) == "" {
		return services.Wrap(services.ErrValidation, component, "process", "video id is required", nil)
	}
	if req.TargetLang == "" {
		req.TargetLang = o.cfg.Languages.DefaultTarget
	}
	if req.NativeLang == "" {
		req.NativeLang = o.cfg.Languages.DefaultNative
	}

	logger := o.logger.With(
		logging.String(logging.FieldVideoID, req.VideoID),
		logging.String(logging.FieldTargetLang, req.TargetLang),
	)
	logger.Info("processing started", logging.String(logging.FieldUserID, req.UserID))
	req.emit(StageStarting, percentStarting)

	acquired, err := o.store.AcquireProcessing(ctx, req.VideoID, req.TargetLang)
	if err != nil {
		return fmt.Errorf("acquire processing lock: %w", err)
	}
	if !acquired {
		logger.Warn("processing already in flight, ignoring duplicate request")
		return nil
	}

	if err := o.run(ctx, req, logger); err != nil {
		if markErr := o.store.MarkProcessingError(ctx, req.VideoID, req.TargetLang); markErr != nil {
			logger.Error("failed to record error status", logging.Error(markErr))
		}
		req.emit(StageError, 0)
		logger.Error("processing failed", logging.Error(err))
		return err
	}

	req.emit(StageCompleted, percentCompleted)
	logger.Info("processing finished")
	return nil
}

// run executes steps two through seven under the acquired lock.
func (o *Orchestrator) run(ctx context.Context, req Request, logger *slog.Logger) error {
	video, err := o.store.GetVideo(ctx, req.VideoID)
	if err != nil {
		return fmt.Errorf("fetch video record: %w", err)
	}
	if video == nil {
		return services.Wrap(services.ErrNotFound, component, "process", "video "+req.VideoID, nil)
	}

	o.generateThumbnail(ctx, req, video, logger)

	req.emit(StageTranscribe, percentTranscribe)
	transcription, err := o.gateway.Transcribe(ctx, media.ToServicePath(video.FilePath, o.cfg.AIService.MediaRootInternal), req.TargetLang)
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}

	segments, err := o.analyze(ctx, req, transcription)
	if err != nil {
		return err
	}

	segments, err = o.enrich(ctx, req, segments)
	if err != nil {
		return err
	}

	if err := o.store.SaveSegments(ctx, req.VideoID, req.TargetLang, segments); err != nil {
		return fmt.Errorf("persist segments: %w", err)
	}
	return nil
}

// generateThumbnail is best effort: audio files are skipped outright and any
// failure is logged and swallowed, never aborting the pipeline.
func (o *Orchestrator) generateThumbnail(ctx context.Context, req Request, video *store.Video, logger *slog.Logger) {
	req.emit(StageThumbnail, percentThumbnail)

	if media.IsAudioFile(video.FilePath) {
		logger.Debug("skipping thumbnail for audio file", logging.String("file_path", video.FilePath))
		return
	}

	servicePath := media.ToServicePath(video.FilePath, o.cfg.AIService.MediaRootInternal)
	result, err := o.gateway.GenerateThumbnail(ctx, servicePath)
	if err != nil {
		logger.Warn("thumbnail generation failed, continuing without one", logging.Error(err))
		return
	}
	if err := o.store.SetThumbnail(ctx, video.ID, result.ThumbnailPath); err != nil {
		logger.Warn("failed to record thumbnail path", logging.Error(err))
	}
}

// analyze batches every segment text into one linguistic-analysis call.
// Tokens align with transcription segments by index.
func (o *Orchestrator) analyze(ctx context.Context, req Request, transcription ai.TranscriptionResult) ([]segment.Segment, error) {
	req.emit(StageAnalyze, percentAnalyze)

	texts := make([]string, len(transcription.Segments))
	for i, raw := range transcription.Segments {
		texts[i] = raw.Text
	}
	analysis, err := o.gateway.AnalyzeBatch(ctx, texts, req.TargetLang)
	if err != nil {
		return nil, fmt.Errorf("analyze batch: %w", err)
	}
	if len(analysis.Results) != len(transcription.Segments) {
		return nil, services.Wrap(services.ErrExternalService, component, "analyze",
			fmt.Sprintf("analysis returned %d results for %d segments", len(analysis.Results), len(transcription.Segments)), nil)
	}

	segments := make([]segment.Segment, len(transcription.Segments))
	for i, raw := range transcription.Segments {
		segments[i] = segment.Segment{
			Start:  raw.Start,
			End:    raw.End,
			Text:   raw.Text,
			Tokens: convertTokens(analysis.Results[i]),
		}
	}
	return segments, nil
}

func convertTokens(tokens []ai.TokenAnalysis) []segment.Token {
	converted := make([]segment.Token, len(tokens))
	for i, token := range tokens {
		converted[i] = segment.Token{
			Text:       token.Text,
			Lemma:      token.Lemma,
			POS:        token.POS,
			IsStop:     token.IsStop,
			Whitespace: token.Whitespace,
		}
	}
	return converted
}

// CleanupStaleTasks converts orphaned PENDING records into ERROR. Run once
// at process startup before accepting new work; a crashed run can never be
// resumed, only retried.
func (o *Orchestrator) CleanupStaleTasks(ctx context.Context) (int64, error) {
	count, err := o.store.ResetStalePending(ctx)
	if err != nil {
		return 0, fmt.Errorf("cleanup stale tasks: %w", err)
	}
	if count > 0 {
		o.logger.Warn("marked stale processing tasks as errored", logging.Int64("count", count))
	}
	return count, nil
}
