package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drystore/nexus/internal/models"
)

type documentRepo struct {
	pool *pgxpool.Pool
}

func NewDocumentRepository(pool *pgxpool.Pool) DocumentRepository {
	return &documentRepo{pool: pool}
}

const documentColumns = `id, title, content, category, tags, visibility, requires_confirmation,
	author_id, last_editor_id, version, created_at, updated_at`

func (r *documentRepo) Create(ctx context.Context, d *models.Document) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO documents (id, title, content, category, tags, visibility, requires_confirmation,
		                        author_id, last_editor_id, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8, 1, $9, $9)`,
		d.ID, d.Title, d.Content, d.Category, d.Tags, d.Visibility, d.RequiresConfirmation,
		d.AuthorID, d.CreatedAt,
	)
	return err
}

func (r *documentRepo) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	d := &models.Document{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1`, id,
	).Scan(
		&d.ID, &d.Title, &d.Content, &d.Category, &d.Tags, &d.Visibility, &d.RequiresConfirmation,
		&d.AuthorID, &d.LastEditorID, &d.Version, &d.CreatedAt, &d.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return d, err
}

func (r *documentRepo) List(ctx context.Context, category string, includeAdminOnly bool) ([]models.Document, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+documentColumns+` FROM documents
		 WHERE ($1 = '' OR category = $1)
		   AND ($2 OR visibility = 'everyone')
		 ORDER BY updated_at DESC`,
		category, includeAdminOnly,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(
			&d.ID, &d.Title, &d.Content, &d.Category, &d.Tags, &d.Visibility, &d.RequiresConfirmation,
			&d.AuthorID, &d.LastEditorID, &d.Version, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// UpdateVersioned is a compare-and-swap: the row changes only when its
// version still equals expectedVersion, and the version increments with it.
func (r *documentRepo) UpdateVersioned(ctx context.Context, d *models.Document, expectedVersion int) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE documents
		 SET title = $2, content = $3, category = $4, tags = $5, visibility = $6,
		     requires_confirmation = $7, last_editor_id = $8,
		     version = version + 1, updated_at = NOW()
		 WHERE id = $1 AND version = $9`,
		d.ID, d.Title, d.Content, d.Category, d.Tags, d.Visibility,
		d.RequiresConfirmation, d.LastEditorID, expectedVersion,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *documentRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	return err
}
