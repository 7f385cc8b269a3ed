package store

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS videos (
        id TEXT PRIMARY KEY,
        title TEXT NOT NULL,
        file_path TEXT NOT NULL,
        thumbnail_path TEXT,
        duration INTEGER,
        created_at TEXT NOT NULL,
        updated_at TEXT NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS processing (
        video_id TEXT NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
        target_lang TEXT NOT NULL,
        status TEXT NOT NULL,
        vtt_json TEXT,
        created_at TEXT NOT NULL,
        updated_at TEXT NOT NULL,
        PRIMARY KEY (video_id, target_lang)
    )`,
	`CREATE TABLE IF NOT EXISTS known_words (
        user_id TEXT NOT NULL,
        lemma TEXT NOT NULL,
        lang TEXT NOT NULL,
        level TEXT,
        is_proper INTEGER NOT NULL DEFAULT 0,
        PRIMARY KEY (user_id, lemma, lang)
    )`,
	`CREATE INDEX IF NOT EXISTS idx_processing_status ON processing(status)`,
	`CREATE INDEX IF NOT EXISTS idx_known_words_user_lang ON known_words(user_id, lang)`,
}

func (s *Store) applyMigrations(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration %d: %w", i+1, err)
		}
	}
	return nil
}
