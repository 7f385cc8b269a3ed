package store_test

import (
	"context"
	"sync"
	"testing"

	"lingosub/internal/segment"
	"lingosub/internal/store"
	"lingosub/internal/testsupport"
)

func TestCreateAndGetVideo(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	video := testsupport.NewVideo(t, st, "", "/media/uploads/mi_pelicula.mp4")
	if video.ID == "" {
		t.Fatal("expected generated video id")
	}
	if video.Title != "mi_pelicula" {
		t.Fatalf("expected title inferred from path, got %q", video.Title)
	}

	fetched, err := st.GetVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("GetVideo: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected video, got nil")
	}
	if fetched.FilePath != video.FilePath {
		t.Fatalf("file path mismatch: %q vs %q", fetched.FilePath, video.FilePath)
	}

	missing, err := st.GetVideo(ctx, "does-not-exist")
	if err != nil {
		t.Fatalf("GetVideo missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing video, got %+v", missing)
	}
}

func TestSetThumbnail(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	video := testsupport.NewVideo(t, st, "Clase uno", "/media/uploads/clase1.mp4")
	if err := st.SetThumbnail(ctx, video.ID, "/media/thumbnails/clase1.jpg"); err != nil {
		t.Fatalf("SetThumbnail: %v", err)
	}

	fetched, err := st.GetVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("GetVideo: %v", err)
	}
	if fetched.ThumbnailPath != "/media/thumbnails/clase1.jpg" {
		t.Fatalf("unexpected thumbnail path %q", fetched.ThumbnailPath)
	}
}

func TestAcquireProcessingMutualExclusion(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	video := testsupport.NewVideo(t, st, "Clase", "/media/uploads/clase.mp4")

	acquired, err := st.AcquireProcessing(ctx, video.ID, "es")
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if !acquired {
		t.Fatal("expected first acquire to succeed")
	}

	again, err := st.AcquireProcessing(ctx, video.ID, "es")
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if again {
		t.Fatal("expected second acquire to fail while PENDING")
	}

	// A different language pair is an independent lock.
	other, err := st.AcquireProcessing(ctx, video.ID, "fr")
	if err != nil {
		t.Fatalf("other language acquire: %v", err)
	}
	if !other {
		t.Fatal("expected acquire for different language to succeed")
	}
}

func TestAcquireProcessingReacquireAfterError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	video := testsupport.NewVideo(t, st, "Clase", "/media/uploads/clase.mp4")

	if _, err := st.AcquireProcessing(ctx, video.ID, "es"); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := st.MarkProcessingError(ctx, video.ID, "es"); err != nil {
		t.Fatalf("MarkProcessingError: %v", err)
	}

	acquired, err := st.AcquireProcessing(ctx, video.ID, "es")
	if err != nil {
		t.Fatalf("reacquire: %v", err)
	}
	if !acquired {
		t.Fatal("expected reacquire to succeed after ERROR")
	}

	record, err := st.GetProcessing(ctx, video.ID, "es")
	if err != nil {
		t.Fatalf("GetProcessing: %v", err)
	}
	if record.Status != store.StatusPending {
		t.Fatalf("expected PENDING after reacquire, got %s", record.Status)
	}
	if record.Segments != nil {
		t.Fatal("expected segments cleared on reacquire")
	}
}

func TestAcquireProcessingConcurrent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	video := testsupport.NewVideo(t, st, "Clase", "/media/uploads/clase.mp4")

	const attempts = 8
	results := make([]bool, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			ok, err := st.AcquireProcessing(ctx, video.ID, "es")
			if err != nil {
				t.Errorf("acquire %d: %v", slot, err)
				return
			}
			results[slot] = ok
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, ok := range results {
		if ok {
			winners++
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}
}

func TestSaveSegmentsRoundtrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	video := testsupport.NewVideo(t, st, "Clase", "/media/uploads/clase.mp4")
	if _, err := st.AcquireProcessing(ctx, video.ID, "es"); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	segments := []segment.Segment{
		{
			Start:          0,
			End:            2.5,
			Text:           "Hola mundo.",
			Classification: segment.Easy,
			Translation:    "Hello world.",
			Tokens: []segment.Token{
				{Text: "Hola", Lemma: "hola", POS: "INTJ", Whitespace: " ", Translation: "hello", Known: segment.KnownFlag(true)},
				{Text: "mundo", Lemma: "mundo", POS: "NOUN", Translation: "world", Known: segment.KnownFlag(false)},
				{Text: ".", Lemma: ".", POS: "PUNCT", IsStop: false, Known: segment.KnownFlag(true)},
			},
		},
	}
	if err := st.SaveSegments(ctx, video.ID, "es", segments); err != nil {
		t.Fatalf("SaveSegments: %v", err)
	}

	record, err := st.GetProcessing(ctx, video.ID, "es")
	if err != nil {
		t.Fatalf("GetProcessing: %v", err)
	}
	if record.Status != store.StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", record.Status)
	}
	if len(record.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(record.Segments))
	}
	got := record.Segments[0]
	if got.Translation != "Hello world." {
		t.Fatalf("unexpected sentence translation %q", got.Translation)
	}
	if len(got.Tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(got.Tokens))
	}
	if got.Tokens[1].Translation != "world" {
		t.Fatalf("unexpected token translation %q", got.Tokens[1].Translation)
	}
	if got.Tokens[1].IsKnown() {
		t.Fatal("expected mundo to stay unknown through the roundtrip")
	}
}

func TestResetStalePending(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first := testsupport.NewVideo(t, st, "Uno", "/media/uploads/uno.mp4")
	second := testsupport.NewVideo(t, st, "Dos", "/media/uploads/dos.mp4")

	if _, err := st.AcquireProcessing(ctx, first.ID, "es"); err != nil {
		t.Fatalf("acquire first: %v", err)
	}
	if _, err := st.AcquireProcessing(ctx, second.ID, "es"); err != nil {
		t.Fatalf("acquire second: %v", err)
	}
	if err := st.SaveSegments(ctx, second.ID, "es", []segment.Segment{}); err != nil {
		t.Fatalf("complete second: %v", err)
	}

	count, err := st.ResetStalePending(ctx)
	if err != nil {
		t.Fatalf("ResetStalePending: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 stale task, got %d", count)
	}

	record, err := st.GetProcessing(ctx, first.ID, "es")
	if err != nil {
		t.Fatalf("GetProcessing: %v", err)
	}
	if record.Status != store.StatusError {
		t.Fatalf("expected ERROR, got %s", record.Status)
	}

	completed, err := st.GetProcessing(ctx, second.ID, "es")
	if err != nil {
		t.Fatalf("GetProcessing completed: %v", err)
	}
	if completed.Status != store.StatusCompleted {
		t.Fatalf("completed record should be untouched, got %s", completed.Status)
	}
}

func TestKnownLemmas(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	words := []store.KnownWord{
		{UserID: "u1", Lemma: "casa", Lang: "es", Level: "A1"},
		{UserID: "u1", Lemma: "perro", Lang: "es"},
		{UserID: "u2", Lemma: "gato", Lang: "es"},
		{UserID: "u1", Lemma: "chien", Lang: "fr"},
	}
	for _, word := range words {
		if err := st.InsertKnownWord(ctx, word); err != nil {
			t.Fatalf("InsertKnownWord %q: %v", word.Lemma, err)
		}
	}

	known, err := st.KnownLemmas(ctx, "u1", "es", []string{"casa", "perro", "gato", "chien"})
	if err != nil {
		t.Fatalf("KnownLemmas: %v", err)
	}
	if len(known) != 2 {
		t.Fatalf("expected 2 known lemmas, got %d", len(known))
	}
	for _, lemma := range []string{"casa", "perro"} {
		if _, ok := known[lemma]; !ok {
			t.Fatalf("expected %q in known set", lemma)
		}
	}
	if _, ok := known["gato"]; ok {
		t.Fatal("gato belongs to another user")
	}
	if _, ok := known["chien"]; ok {
		t.Fatal("chien belongs to another language")
	}
}

func TestInsertKnownWordIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	word := store.KnownWord{UserID: "u1", Lemma: "casa", Lang: "es", Level: "A1"}
	if err := st.InsertKnownWord(ctx, word); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := st.InsertKnownWord(ctx, word); err != nil {
		t.Fatalf("second insert: %v", err)
	}

	count, err := st.CountKnownWords(ctx, "u1", "es")
	if err != nil {
		t.Fatalf("CountKnownWords: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 known word, got %d", count)
	}
}

func TestInsertKnownWordValidation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := st.InsertKnownWord(ctx, store.KnownWord{UserID: "u1", Lang: "es"}); err == nil {
		t.Fatal("expected error for empty lemma")
	}
	if err := st.InsertKnownWord(ctx, store.KnownWord{UserID: "u1", Lemma: "casa", Lang: "es", Level: "Z9"}); err == nil {
		t.Fatal("expected error for invalid level")
	}
}
