package checkpoint

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresStore keeps the checkpoint in a shared table so runners on
// different hosts can resume each other's batches. Rows are keyed by a
// caller-chosen manifest id.
type PostgresStore struct {
	db         *sqlx.DB
	manifestID string
}

func NewPostgresStore(db *sqlx.DB, manifestID string) *PostgresStore {
	return &PostgresStore{db: db, manifestID: manifestID}
}

func (s *PostgresStore) Load(ctx context.Context) (string, error) {
	var videoID string
	query := `SELECT video_id FROM ingest_checkpoints WHERE manifest_id = $1`

	err := s.db.GetContext(ctx, &videoID, query, s.manifestID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load checkpoint: %w", err)
	}
	return videoID, nil
}

func (s *PostgresStore) Save(ctx context.Context, videoID string) error {
	query := `
		INSERT INTO ingest_checkpoints (manifest_id, video_id, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (manifest_id) DO UPDATE SET
			video_id = EXCLUDED.video_id,
			updated_at = EXCLUDED.updated_at`

	if _, err := s.db.ExecContext(ctx, query, s.manifestID, videoID); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context) (bool, error) {
	query := `
		UPDATE ingest_checkpoints
		SET video_id = '', updated_at = NOW()
		WHERE manifest_id = $1 AND video_id <> ''`

	res, err := s.db.ExecContext(ctx, query, s.manifestID)
	if err != nil {
		return false, fmt.Errorf("clear checkpoint: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("clear checkpoint: %w", err)
	}
	return affected > 0, nil
}
