package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/jhrphoto/media-pipeline-go/internal/port"
	"github.com/jhrphoto/media-pipeline-go/internal/uuid"
)

type DedupRepository struct {
	db *sql.DB
}

// compile-time check: *DedupRepository must satisfy port.DedupIndex
var _ port.DedupIndex = (*DedupRepository)(nil)

func NewDedupRepository(db *sql.DB) *DedupRepository {
	return &DedupRepository{db: db}
}

func (r *DedupRepository) FindByHash(ctx context.Context, hash string) (*uuid.UUID, error) {
	const query = `
      SELECT media_id
      FROM dedup_index
      WHERE content_hash = ?
    `
	row := r.db.QueryRowContext(ctx, query, hash)
	var id uuid.UUID
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &id, nil
}

// Record inserts the hash→media mapping. The first writer wins: inserting an
// already known hash leaves the existing entry untouched.
func (r *DedupRepository) Record(ctx context.Context, hash string, id uuid.UUID) error {
	log.Printf("recording dedup entry for media #%s...", id)

	const query = `
      INSERT IGNORE INTO dedup_index (content_hash, media_id)
      VALUES (?, ?)
    `
	_, err := r.db.ExecContext(ctx, query, hash, id)
	if err != nil {
		return err
	}

	return nil
}
