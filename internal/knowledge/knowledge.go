package knowledge

import (
	"context"
	"fmt"
	"strings"

	"lingosub/internal/store"
)

// Service answers "which of these lemmas does the user already know" and
// records new known words. Lookups are pure reads.
type Service struct {
	store *store.Store
}

// NewService constructs a knowledge service backed by the given store.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// KnownLemmas returns the subset of lemmas the user knows for a language.
// Input may contain duplicates; they are collapsed before querying. An empty
// input returns an empty set without touching the store.
func (s *Service) KnownLemmas(ctx context.Context, userID, lang string, lemmas []string) (map[string]struct{}, error) {
	unique := dedupe(lemmas)
	if len(unique) == 0 {
		return map[string]struct{}{}, nil
	}
	known, err := s.store.KnownLemmas(ctx, userID, lang, unique)
	if err != nil {
		return nil, fmt.Errorf("known lemmas for user %s: %w", userID, err)
	}
	return known, nil
}

// MarkKnown records a lemma as known. Repeated marks are idempotent: the
// store ignores conflicts on the (user, lemma, lang) key.
func (s *Service) MarkKnown(ctx context.Context, userID, lang, lemma, level string, isProperNoun bool) error {
	return s.store.InsertKnownWord(ctx, store.KnownWord{
		UserID:       userID,
		Lemma:        strings.TrimSpace(lemma),
		Lang:         lang,
		Level:        level,
		IsProperNoun: isProperNoun,
	})
}

// SeedEntry is one vocabulary item for bulk seeding.
type SeedEntry struct {
	Lemma string
	Level string
}

// SeedKnownWords bulk-inserts CEFR-levelled vocabulary for a user, skipping
// blank lemmas and ignoring duplicates. Returns the number of rows offered
// to the store.
func (s *Service) SeedKnownWords(ctx context.Context, userID, lang string, entries []SeedEntry) (int, error) {
	inserted := 0
	for _, entry := range entries {
		lemma := strings.TrimSpace(entry.Lemma)
		if lemma == "" {
			continue
		}
		word := store.KnownWord{UserID: userID, Lemma: lemma, Lang: lang, Level: entry.Level}
		if err := s.store.InsertKnownWord(ctx, word); err != nil {
			return inserted, fmt.Errorf("seed %q: %w", lemma, err)
		}
		inserted++
	}
	return inserted, nil
}

func dedupe(lemmas []string) []string {
	if len(lemmas) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(lemmas))
	unique := make([]string, 0, len(lemmas))
	for _, lemma := range lemmas {
		if lemma == "" {
			continue
		}
		if _, ok := seen[lemma]; ok {
			continue
		}
		seen[lemma] = struct{}{}
		unique = append(unique, lemma)
	}
	return unique
}
