package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drystore/nexus/internal/models"
)

type documentReadRepo struct {
	pool *pgxpool.Pool
}

func NewDocumentReadRepository(pool *pgxpool.Pool) DocumentReadRepository {
	return &documentReadRepo{pool: pool}
}

// MarkScrolled records that the user reached the end of the document. The
// first scroll wins; repeats are no-ops.
func (r *documentReadRepo) MarkScrolled(ctx context.Context, documentID, userID int64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO document_reads (document_id, user_id, scrolled_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (document_id, user_id)
		 DO UPDATE SET scrolled_at = COALESCE(document_reads.scrolled_at, NOW())`,
		documentID, userID,
	)
	return err
}

// MarkConfirmed sets confirmed_at, but only on a row that has already been
// scrolled. Returns false when there is no scrolled row to confirm.
func (r *documentReadRepo) MarkConfirmed(ctx context.Context, documentID, userID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE document_reads
		 SET confirmed_at = COALESCE(confirmed_at, NOW())
		 WHERE document_id = $1 AND user_id = $2 AND scrolled_at IS NOT NULL`,
		documentID, userID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *documentReadRepo) Get(ctx context.Context, documentID, userID int64) (*models.DocumentRead, error) {
	dr := &models.DocumentRead{}
	err := r.pool.QueryRow(ctx,
		`SELECT document_id, user_id, scrolled_at, confirmed_at
		 FROM document_reads WHERE document_id = $1 AND user_id = $2`,
		documentID, userID,
	).Scan(&dr.DocumentID, &dr.UserID, &dr.ScrolledAt, &dr.ConfirmedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return dr, err
}

func (r *documentReadRepo) GetReaders(ctx context.Context, documentID int64) ([]models.DocumentReader, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT dr.document_id, dr.user_id, dr.scrolled_at, dr.confirmed_at,
		        u.username, p.display_name
		 FROM document_reads dr
		 INNER JOIN users u ON u.id = dr.user_id
		 INNER JOIN profiles p ON p.user_id = dr.user_id
		 WHERE dr.document_id = $1
		 ORDER BY p.display_name`, documentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readers []models.DocumentReader
	for rows.Next() {
		var dr models.DocumentReader
		if err := rows.Scan(&dr.DocumentID, &dr.UserID, &dr.ScrolledAt, &dr.ConfirmedAt, &dr.Username, &dr.DisplayName); err != nil {
			return nil, err
		}
		readers = append(readers, dr)
	}
	return readers, rows.Err()
}

// CountUnconfirmed counts documents that require confirmation, are visible
// to the user, and the user has not yet confirmed.
func (r *documentReadRepo) CountUnconfirmed(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM documents d
		 WHERE d.requires_confirmation
		   AND (d.visibility = 'everyone'
		        OR EXISTS (SELECT 1 FROM users u WHERE u.id = $1 AND u.is_admin))
		   AND NOT EXISTS (
		       SELECT 1 FROM document_reads dr
		       WHERE dr.document_id = d.id AND dr.user_id = $1 AND dr.confirmed_at IS NOT NULL
		   )`,
		userID,
	).Scan(&count)
	return count, err
}
