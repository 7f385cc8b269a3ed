package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lingosub/internal/segment"
)

// AcquireProcessing attempts to take the per-(video, language) processing
// lock. A fresh PENDING record with cleared segments is upserted unless the
// row is already PENDING, in which case false is returned and nothing
// changes. The check and the write happen in one conditional upsert so two
// near-simultaneous callers cannot both pass the "not pending" check.
func (s *Store) AcquireProcessing(ctx context.Context, videoID, targetLang string) (bool, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO processing (video_id, target_lang, status, vtt_json, created_at, updated_at)
         VALUES (?, ?, ?, NULL, ?, ?)
         ON CONFLICT(video_id, target_lang) DO UPDATE
         SET status = excluded.status, vtt_json = NULL, updated_at = excluded.updated_at
         WHERE processing.status != ?`,
		videoID,
		targetLang,
		StatusPending,
		timestamp,
		timestamp,
		StatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("acquire processing lock: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// SaveSegments overwrites the record's segment array and marks it COMPLETED.
func (s *Store) SaveSegments(ctx context.Context, videoID, targetLang string, segments []segment.Segment) error {
	payload, err := json.Marshal(segments)
	if err != nil {
		return fmt.Errorf("marshal segments: %w", err)
	}
	_, err = s.db.ExecContext(
		ctx,
		`UPDATE processing SET status = ?, vtt_json = ?, updated_at = ?
         WHERE video_id = ? AND target_lang = ?`,
		StatusCompleted,
		string(payload),
		time.Now().UTC().Format(time.RFC3339Nano),
		videoID,
		targetLang,
	)
	if err != nil {
		return fmt.Errorf("save segments: %w", err)
	}
	return nil
}

// MarkProcessingError sets the record's status to ERROR.
func (s *Store) MarkProcessingError(ctx context.Context, videoID, targetLang string) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE processing SET status = ?, updated_at = ?
         WHERE video_id = ? AND target_lang = ?`,
		StatusError,
		time.Now().UTC().Format(time.RFC3339Nano),
		videoID,
		targetLang,
	)
	if err != nil {
		return fmt.Errorf("mark processing error: %w", err)
	}
	return nil
}

// GetProcessing fetches the processing record for a (video, language) pair,
// returning nil when absent.
func (s *Store) GetProcessing(ctx context.Context, videoID, targetLang string) (*Processing, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT video_id, target_lang, status, vtt_json, created_at, updated_at
         FROM processing WHERE video_id = ? AND target_lang = ?`,
		videoID,
		targetLang,
	)
	processing, err := scanProcessing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get processing: %w", err)
	}
	return processing, nil
}

// ListProcessing returns processing records, optionally filtered by status.
func (s *Store) ListProcessing(ctx context.Context, statuses ...ProcessingStatus) ([]*Processing, error) {
	baseQuery := `SELECT video_id, target_lang, status, vtt_json, created_at, updated_at FROM processing`
	orderClause := ` ORDER BY created_at`

	var (
		rows *sql.Rows
		err  error
	)
	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		rows, err = s.db.QueryContext(ctx, baseQuery+` WHERE status IN (`+placeholders+`)`+orderClause, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list processing: %w", err)
	}
	defer rows.Close()

	var records []*Processing
	for rows.Next() {
		record, err := scanProcessing(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// ResetStalePending forces every PENDING record to ERROR. The processing lock
// only means anything within one process lifetime, so rows still PENDING at
// startup were orphaned by a crash.
func (s *Store) ResetStalePending(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE processing SET status = ?, updated_at = ? WHERE status = ?`,
		StatusError,
		time.Now().UTC().Format(time.RFC3339Nano),
		StatusPending,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stale pending: %w", err)
	}
	return res.RowsAffected()
}

func scanProcessing(scanner interface{ Scan(dest ...any) error }) (*Processing, error) {
	var (
		videoID    string
		targetLang string
		statusStr  string
		vttJSON    sql.NullString
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(&videoID, &targetLang, &statusStr, &vttJSON, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	record := &Processing{
		VideoID:    videoID,
		TargetLang: targetLang,
		Status:     ProcessingStatus(statusStr),
	}
	if vttJSON.Valid && vttJSON.String != "" {
		var segments []segment.Segment
		if err := json.Unmarshal([]byte(vttJSON.String), &segments); err != nil {
			return nil, fmt.Errorf("decode segments for %s/%s: %w", videoID, targetLang, err)
		}
		record.Segments = segments
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		record.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		record.UpdatedAt = updated
	}
	return record, nil
}
