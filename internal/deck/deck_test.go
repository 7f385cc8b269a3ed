package deck_test

import (
	"context"
	"testing"

	"lingosub/internal/deck"
	"lingosub/internal/knowledge"
	"lingosub/internal/segment"
	"lingosub/internal/store"
	"lingosub/internal/testsupport"
)

func seedProcessedVideo(t *testing.T, st *store.Store, segments []segment.Segment) *store.Video {
	t.Helper()
	ctx := context.Background()
	video := testsupport.NewVideo(t, st, "Clase", "/media/uploads/clase.mp4")
	if _, err := st.AcquireProcessing(ctx, video.ID, "es"); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := st.SaveSegments(ctx, video.ID, "es", segments); err != nil {
		t.Fatalf("SaveSegments: %v", err)
	}
	return video
}

func classroomSegments() []segment.Segment {
	return []segment.Segment{
		{
			Start: 0, End: 3, Text: "La casa es grande.",
			Tokens: []segment.Token{
				{Text: "La", Lemma: "el", POS: "DET", IsStop: true},
				{Text: "casa", Lemma: "casa", POS: "NOUN", Translation: "house"},
				{Text: "es", Lemma: "ser", POS: "AUX", IsStop: true},
				{Text: "grande", Lemma: "grande", POS: "ADJ", Translation: "big"},
				{Text: ".", Lemma: ".", POS: "PUNCT"},
			},
		},
		{
			Start: 3, End: 6, Text: "El perro corre.",
			Tokens: []segment.Token{
				{Text: "El", Lemma: "el", POS: "DET", IsStop: true},
				{Text: "perro", Lemma: "perro", POS: "NOUN", Translation: "dog"},
				{Text: "corre", Lemma: "correr", POS: "VERB", Translation: "runs"},
			},
		},
		{
			Start: 120, End: 123, Text: "Una casa pequeña.",
			Tokens: []segment.Token{
				{Text: "casa", Lemma: "casa", POS: "NOUN"},
				{Text: "pequeña", Lemma: "pequeño", POS: "ADJ"},
			},
		},
	}
}

func TestGenerateWindowFiltering(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	video := seedProcessedVideo(t, st, classroomSegments())
	builder := deck.NewBuilder(st, knowledge.NewService(st), 15)
	ctx := context.Background()

	cards, err := builder.Generate(ctx, "", video.ID, "es", 0, 5, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// First two segments overlap [0, 5): casa, grande, perro, correr.
	if len(cards) != 4 {
		t.Fatalf("expected 4 cards, got %d", len(cards))
	}

	empty, err := builder.Generate(ctx, "", video.ID, "es", 100, 105, 0)
	if err != nil {
		t.Fatalf("Generate empty window: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty deck, got %d cards", len(empty))
	}
}

func TestGenerateDeduplicatesByLemma(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	video := seedProcessedVideo(t, st, classroomSegments())
	builder := deck.NewBuilder(st, knowledge.NewService(st), 15)

	cards, err := builder.Generate(context.Background(), "", video.ID, "es", 0, 200, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	casaCount := 0
	var casa deck.Card
	for _, card := range cards {
		if card.Lemma == "casa" {
			casaCount++
			casa = card
		}
	}
	if casaCount != 1 {
		t.Fatalf("expected casa once, got %d", casaCount)
	}
	// First-seen surface form, context, and translation win.
	if casa.ContextSentence != "La casa es grande." {
		t.Fatalf("unexpected context %q", casa.ContextSentence)
	}
	if casa.Translation != "house" {
		t.Fatalf("unexpected translation %q", casa.Translation)
	}
}

func TestGenerateUnknownFirstOrdering(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	video := seedProcessedVideo(t, st, classroomSegments())
	svc := knowledge.NewService(st)
	ctx := context.Background()

	if err := svc.MarkKnown(ctx, "u1", "es", "casa", "", false); err != nil {
		t.Fatalf("MarkKnown: %v", err)
	}

	builder := deck.NewBuilder(st, svc, 15)
	cards, err := builder.Generate(ctx, "u1", video.ID, "es", 0, 5, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(cards) != 4 {
		t.Fatalf("expected 4 cards, got %d", len(cards))
	}
	if !cards[len(cards)-1].Known {
		t.Fatal("known card should sort last")
	}
	if cards[len(cards)-1].Lemma != "casa" {
		t.Fatalf("expected casa last, got %q", cards[len(cards)-1].Lemma)
	}
	for _, card := range cards[:len(cards)-1] {
		if card.Known {
			t.Fatalf("unknown cards must precede known ones, %q misplaced", card.Lemma)
		}
	}
}

func TestGenerateRespectsLimit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	video := seedProcessedVideo(t, st, classroomSegments())
	builder := deck.NewBuilder(st, knowledge.NewService(st), 15)

	cards, err := builder.Generate(context.Background(), "", video.ID, "es", 0, 5, 2)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(cards))
	}
}

func TestGenerateUnsortedSegments(t *testing.T) {
	// Segments stored out of chronological order must still contribute to
	// overlapping windows.
	segments := classroomSegments()
	segments[0], segments[2] = segments[2], segments[0]

	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	video := seedProcessedVideo(t, st, segments)
	builder := deck.NewBuilder(st, knowledge.NewService(st), 15)

	cards, err := builder.Generate(context.Background(), "", video.ID, "es", 0, 5, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(cards) != 4 {
		t.Fatalf("expected 4 cards despite unsorted input, got %d", len(cards))
	}
}

func TestGenerateMissingRecordYieldsEmptyDeck(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	builder := deck.NewBuilder(st, knowledge.NewService(st), 15)

	cards, err := builder.Generate(context.Background(), "", "missing", "es", 0, 10, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(cards) != 0 {
		t.Fatalf("expected empty deck, got %d", len(cards))
	}
}

func TestGenerateFallbackTranslation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	video := seedProcessedVideo(t, st, classroomSegments())
	builder := deck.NewBuilder(st, knowledge.NewService(st), 15)

	cards, err := builder.Generate(context.Background(), "", video.ID, "es", 118, 130, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, card := range cards {
		if card.Lemma == "pequeño" && card.Translation != "..." {
			t.Fatalf("untranslated lemma should fall back to ellipsis, got %q", card.Translation)
		}
	}
}
