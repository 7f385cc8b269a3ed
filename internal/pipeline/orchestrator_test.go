package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"lingosub/internal/ai"
	"lingosub/internal/config"
	"lingosub/internal/knowledge"
	"lingosub/internal/lexfilter"
	"lingosub/internal/logging"
	"lingosub/internal/pipeline"
	"lingosub/internal/segment"
	"lingosub/internal/store"
	"lingosub/internal/testsupport"
)

type fixture struct {
	cfg          *config.Config
	store        *store.Store
	gateway      *testsupport.StubGateway
	orchestrator *pipeline.Orchestrator
	video        *store.Video
}

func newFixture(t *testing.T, filePath string) *fixture {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	gateway := &testsupport.StubGateway{
		TranscribeResult: ai.TranscriptionResult{
			Language: "es",
			Segments: []ai.RawSegment{
				{Start: 0, End: 2, Text: "Hola mundo"},
			},
		},
		AnalyzeResult: ai.AnalysisResult{
			Results: [][]ai.TokenAnalysis{
				{
					{Text: "Hola", Lemma: "hola", POS: "INTJ", Whitespace: " "},
					{Text: "mundo", Lemma: "mundo", POS: "NOUN"},
				},
			},
		},
	}
	svc := knowledge.NewService(st)
	filter := lexfilter.New(svc, lexfilter.ThresholdsFromConfig(cfg))
	orchestrator := pipeline.NewOrchestrator(cfg, st, gateway, filter, logging.NewNop())

	return &fixture{
		cfg:          cfg,
		store:        st,
		gateway:      gateway,
		orchestrator: orchestrator,
		video:        testsupport.NewVideo(t, st, "Hola", filePath),
	}
}

func TestProcessGuestEndToEnd(t *testing.T) {
	fx := newFixture(t, "/media/uploads/hola.mp4")
	ctx := context.Background()

	var stages []string
	err := fx.orchestrator.Process(ctx, pipeline.Request{
		VideoID: fx.video.ID,
		Progress: func(stage string, percent float64) {
			stages = append(stages, stage)
		},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	record, err := fx.store.GetProcessing(ctx, fx.video.ID, fx.cfg.Languages.DefaultTarget)
	if err != nil {
		t.Fatalf("GetProcessing: %v", err)
	}
	if record == nil || record.Status != store.StatusCompleted {
		t.Fatalf("expected COMPLETED record, got %+v", record)
	}
	if len(record.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(record.Segments))
	}

	seg := record.Segments[0]
	if seg.Translation != "t:Hola mundo" {
		t.Fatalf("unexpected sentence translation %q", seg.Translation)
	}
	if len(seg.Tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(seg.Tokens))
	}
	for _, tok := range seg.Tokens {
		if tok.Translation != "t:"+tok.Lemma {
			t.Fatalf("token %q translation = %q", tok.Text, tok.Translation)
		}
		if tok.Known != nil {
			t.Fatalf("guest token %q should carry no known flag", tok.Text)
		}
	}

	// Lemmas and sentences go out as separate translate calls.
	if fx.gateway.TranslateCalls != 2 {
		t.Fatalf("expected 2 translate calls, got %d", fx.gateway.TranslateCalls)
	}
	if len(stages) == 0 || stages[len(stages)-1] != pipeline.StageCompleted {
		t.Fatalf("expected final stage COMPLETED, got %v", stages)
	}
}

func TestProcessUserClassifiesSegments(t *testing.T) {
	fx := newFixture(t, "/media/uploads/hola.mp4")
	ctx := context.Background()

	svc := knowledge.NewService(fx.store)
	if err := svc.MarkKnown(ctx, "u1", fx.cfg.Languages.DefaultTarget, "hola", "", false); err != nil {
		t.Fatalf("MarkKnown: %v", err)
	}

	err := fx.orchestrator.Process(ctx, pipeline.Request{VideoID: fx.video.ID, UserID: "u1"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	record, err := fx.store.GetProcessing(ctx, fx.video.ID, fx.cfg.Languages.DefaultTarget)
	if err != nil {
		t.Fatalf("GetProcessing: %v", err)
	}
	seg := record.Segments[0]
	// One unknown of two content words is a 0.5 ratio, past the 0.4 default.
	if seg.Classification != segment.Hard {
		t.Fatalf("expected HARD, got %s", seg.Classification)
	}

	var hola, mundo segment.Token
	for _, tok := range seg.Tokens {
		switch tok.Lemma {
		case "hola":
			hola = tok
		case "mundo":
			mundo = tok
		}
	}
	if !hola.IsKnown() {
		t.Fatal("hola should be known")
	}
	if hola.Translation != "" {
		t.Fatalf("known token should not be translated, got %q", hola.Translation)
	}
	if mundo.IsKnown() {
		t.Fatal("mundo should be unknown")
	}
	if mundo.Translation != "t:mundo" {
		t.Fatalf("unknown token translation = %q", mundo.Translation)
	}
}

func TestProcessSkipsThumbnailForAudio(t *testing.T) {
	fx := newFixture(t, "/media/uploads/hola.mp3")
	ctx := context.Background()

	if err := fx.orchestrator.Process(ctx, pipeline.Request{VideoID: fx.video.ID}); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if fx.gateway.ThumbnailCalls != 0 {
		t.Fatalf("expected no thumbnail call for audio, got %d", fx.gateway.ThumbnailCalls)
	}
}

func TestProcessRecordsThumbnail(t *testing.T) {
	fx := newFixture(t, "/media/uploads/hola.mp4")
	fx.gateway.ThumbnailResult = ai.ThumbnailResult{ThumbnailPath: "/media/thumbnails/hola.jpg"}
	ctx := context.Background()

	if err := fx.orchestrator.Process(ctx, pipeline.Request{VideoID: fx.video.ID}); err != nil {
		t.Fatalf("Process: %v", err)
	}
	video, err := fx.store.GetVideo(ctx, fx.video.ID)
	if err != nil {
		t.Fatalf("GetVideo: %v", err)
	}
	if video.ThumbnailPath != "/media/thumbnails/hola.jpg" {
		t.Fatalf("unexpected thumbnail path %q", video.ThumbnailPath)
	}
}

func TestProcessThumbnailFailureIsNonFatal(t *testing.T) {
	fx := newFixture(t, "/media/uploads/hola.mp4")
	fx.gateway.ThumbnailErr = errors.New("ffmpeg exploded")
	ctx := context.Background()

	if err := fx.orchestrator.Process(ctx, pipeline.Request{VideoID: fx.video.ID}); err != nil {
		t.Fatalf("Process should survive thumbnail failure: %v", err)
	}
	record, err := fx.store.GetProcessing(ctx, fx.video.ID, fx.cfg.Languages.DefaultTarget)
	if err != nil {
		t.Fatalf("GetProcessing: %v", err)
	}
	if record.Status != store.StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", record.Status)
	}
}

func TestProcessTranscribeFailureMarksError(t *testing.T) {
	fx := newFixture(t, "/media/uploads/hola.mp4")
	boom := errors.New("whisper unavailable")
	fx.gateway.TranscribeErr = boom
	ctx := context.Background()

	var lastStage string
	err := fx.orchestrator.Process(ctx, pipeline.Request{
		VideoID: fx.video.ID,
		Progress: func(stage string, percent float64) {
			lastStage = stage
		},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected original error, got %v", err)
	}
	if lastStage != pipeline.StageError {
		t.Fatalf("expected final stage ERROR, got %s", lastStage)
	}

	record, err := fx.store.GetProcessing(ctx, fx.video.ID, fx.cfg.Languages.DefaultTarget)
	if err != nil {
		t.Fatalf("GetProcessing: %v", err)
	}
	if record.Status != store.StatusError {
		t.Fatalf("expected ERROR, got %s", record.Status)
	}
}

func TestProcessMissingVideoIsError(t *testing.T) {
	fx := newFixture(t, "/media/uploads/hola.mp4")
	err := fx.orchestrator.Process(context.Background(), pipeline.Request{VideoID: "nope"})
	if err == nil {
		t.Fatal("expected error for missing video")
	}
}

func TestProcessDuplicateSubmissionIsSilent(t *testing.T) {
	fx := newFixture(t, "/media/uploads/hola.mp4")
	ctx := context.Background()

	// Simulate a run in flight by holding the lock.
	acquired, err := fx.store.AcquireProcessing(ctx, fx.video.ID, fx.cfg.Languages.DefaultTarget)
	if err != nil || !acquired {
		t.Fatalf("setup acquire: %v %v", acquired, err)
	}

	if err := fx.orchestrator.Process(ctx, pipeline.Request{VideoID: fx.video.ID}); err != nil {
		t.Fatalf("duplicate submission should be a no-op, got %v", err)
	}
	if fx.gateway.TranscribeCalls != 0 {
		t.Fatalf("duplicate run must not reach the gateway, got %d calls", fx.gateway.TranscribeCalls)
	}
}

func TestProcessConcurrentSamePair(t *testing.T) {
	fx := newFixture(t, "/media/uploads/hola.mp4")
	ctx := context.Background()

	// The lock winner parks inside transcription until the losers have all
	// observed the PENDING record and bowed out.
	release := make(chan struct{})
	transcribeResult := fx.gateway.TranscribeResult
	fx.gateway.TranscribeFn = func(ctx context.Context, mediaPath, lang string) (ai.TranscriptionResult, error) {
		<-release
		return transcribeResult, nil
	}

	const racers = 4
	done := make(chan error, racers)
	for i := 0; i < racers; i++ {
		go func() {
			done <- fx.orchestrator.Process(ctx, pipeline.Request{VideoID: fx.video.ID})
		}()
	}

	for i := 0; i < racers-1; i++ {
		if err := <-done; err != nil {
			t.Fatalf("racer %d: %v", i, err)
		}
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("winner: %v", err)
	}

	// Only the lock winner may reach transcription.
	if fx.gateway.TranscribeCalls != 1 {
		t.Fatalf("expected exactly 1 transcription, got %d", fx.gateway.TranscribeCalls)
	}
}

func TestCleanupStaleTasks(t *testing.T) {
	fx := newFixture(t, "/media/uploads/hola.mp4")
	ctx := context.Background()

	if _, err := fx.store.AcquireProcessing(ctx, fx.video.ID, "es"); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	count, err := fx.orchestrator.CleanupStaleTasks(ctx)
	if err != nil {
		t.Fatalf("CleanupStaleTasks: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 stale task, got %d", count)
	}
}
