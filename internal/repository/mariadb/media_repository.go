package mariadb

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/jhrphoto/media-pipeline-go/internal/model"
	"github.com/jhrphoto/media-pipeline-go/internal/port"
	"github.com/jhrphoto/media-pipeline-go/internal/uuid"
)

type MediaRepository struct {
	db *sql.DB
}

// compile-time check: *MediaRepository must satisfy port.MediaRepository
var _ port.MediaRepository = (*MediaRepository)(nil)

func NewMediaRepository(db *sql.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

func (r *MediaRepository) Create(ctx context.Context, media *model.Media) error {
	log.Printf("creating database record for media #%s, at status %q...", media.ID, media.Status)

	const query = `
      INSERT INTO medias
        (id, original_key, original_filename, mime_type, content_hash, status, original_size, size_bytes, failure_message, folder_id, metadata, variants)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		media.ID, media.OriginalKey,
		media.OriginalFilename, media.MimeType,
		media.ContentHash, media.Status,
		media.OriginalSize, media.SizeBytes,
		media.FailureMessage, media.FolderID,
		media.Metadata, media.Variants,
	)
	if err != nil {
		return err
	}

	return nil
}

func (r *MediaRepository) Update(ctx context.Context, media *model.Media) error {
	log.Printf("updating database record for media #%s, with status %q...", media.ID, media.Status)

	const query = `
      UPDATE medias
      SET
        original_key    = ?,
        mime_type       = ?,
        status          = ?,
        original_size   = ?,
        size_bytes      = ?,
        failure_message = ?,
        folder_id       = ?,
        metadata        = ?,
        variants        = ?
      WHERE id = ?
    `
	_, err := r.db.ExecContext(ctx, query,
		media.OriginalKey,
		media.MimeType,
		media.Status,
		media.OriginalSize,
		media.SizeBytes,
		media.FailureMessage,
		media.FolderID,
		media.Metadata,
		media.Variants,
		media.ID, // WHERE clause
	)
	if err != nil {
		return err
	}

	return nil
}

func (r *MediaRepository) GetByID(ctx context.Context, ID uuid.UUID) (*model.Media, error) {
	log.Printf("fetching media #%s from the database...", ID)

	const query = `
      SELECT id, original_key, original_filename, mime_type, content_hash, status, original_size, size_bytes, failure_message, folder_id, metadata, variants, created_at, updated_at
      FROM medias
      WHERE id = ?
    `
	row := r.db.QueryRowContext(ctx, query, ID)
	var media model.Media
	if err := row.Scan(
		&media.ID, &media.OriginalKey,
		&media.OriginalFilename, &media.MimeType,
		&media.ContentHash, &media.Status,
		&media.OriginalSize, &media.SizeBytes,
		&media.FailureMessage, &media.FolderID,
		&media.Metadata, &media.Variants,
		&media.CreatedAt, &media.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &media, nil
}

func (r *MediaRepository) Delete(ctx context.Context, ID uuid.UUID) error {
	log.Printf("deleting database record for media #%s...", ID)

	const query = `DELETE FROM medias WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *MediaRepository) ListProcessingBefore(ctx context.Context, before time.Time) ([]uuid.UUID, error) {
	const query = `
      SELECT id
      FROM medias
      WHERE status = ? AND updated_at < ?
      ORDER BY updated_at
    `
	rows, err := r.db.QueryContext(ctx, query, model.MediaStatusProcessing, before)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("error closing rows: %v", err)
		}
	}()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}
