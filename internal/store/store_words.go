package store

import (
	"context"
	"fmt"
	"strings"
)

// KnownLemmas returns the subset of lemmas with a known-word row for the
// (user, lang) pair. The caller is responsible for de-duplicating input;
// lemma equality is exact-string.
func (s *Store) KnownLemmas(ctx context.Context, userID, lang string, lemmas []string) (map[string]struct{}, error) {
	known := make(map[string]struct{})
	if len(lemmas) == 0 {
		return known, nil
	}

	placeholders := makePlaceholders(len(lemmas))
	args := make([]any, 0, len(lemmas)+2)
	args = append(args, userID, lang)
	for _, lemma := range lemmas {
		args = append(args, lemma)
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT lemma FROM known_words WHERE user_id = ? AND lang = ? AND lemma IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query known lemmas: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var lemma string
		if err := rows.Scan(&lemma); err != nil {
			return nil, err
		}
		known[lemma] = struct{}{}
	}
	return known, rows.Err()
}

// InsertKnownWord records a lemma as known for a user, ignoring duplicates.
// The (user, lemma, lang) key makes repeated marks idempotent.
func (s *Store) InsertKnownWord(ctx context.Context, word KnownWord) error {
	if strings.TrimSpace(word.Lemma) == "" {
		return fmt.Errorf("known word lemma is required")
	}
	if !ValidLevel(word.Level) {
		return fmt.Errorf("known word level %q is not a CEFR tier", word.Level)
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT OR IGNORE INTO known_words (user_id, lemma, lang, level, is_proper)
         VALUES (?, ?, ?, ?, ?)`,
		word.UserID,
		word.Lemma,
		word.Lang,
		nullableString(strings.ToUpper(word.Level)),
		boolToInt(word.IsProperNoun),
	)
	if err != nil {
		return fmt.Errorf("insert known word: %w", err)
	}
	return nil
}

// CountKnownWords returns the number of known-word rows for a (user, lang) pair.
func (s *Store) CountKnownWords(ctx context.Context, userID, lang string) (int, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM known_words WHERE user_id = ? AND lang = ?`,
		userID,
		lang,
	)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count known words: %w", err)
	}
	return count, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
