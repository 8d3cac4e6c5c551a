package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drystore/nexus/internal/models"
)

type announcementRepo struct {
	pool *pgxpool.Pool
}

func NewAnnouncementRepository(pool *pgxpool.Pool) AnnouncementRepository {
	return &announcementRepo{pool: pool}
}

func (r *announcementRepo) Create(ctx context.Context, a *models.Announcement) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO announcements (id, title, content, priority, pinned, category, author_id, image_key, published_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.Title, a.Content, a.Priority, a.Pinned, a.Category, a.AuthorID, a.ImageKey, a.PublishedAt,
	)
	return err
}

func (r *announcementRepo) GetByID(ctx context.Context, id int64) (*models.Announcement, error) {
	a := &models.Announcement{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, content, priority, pinned, category, author_id, image_key, published_at
		 FROM announcements WHERE id = $1`, id,
	).Scan(&a.ID, &a.Title, &a.Content, &a.Priority, &a.Pinned, &a.Category, &a.AuthorID, &a.ImageKey, &a.PublishedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return a, err
}

// List returns announcements newest first, pinned ones on top, each
// flagged with whether the user has read it.
func (r *announcementRepo) List(ctx context.Context, userID int64, limit, offset int) ([]models.Announcement, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.title, a.content, a.priority, a.pinned, a.category, a.author_id, a.image_key, a.published_at,
		        ar.user_id IS NOT NULL AS read
		 FROM announcements a
		 LEFT JOIN announcement_reads ar ON ar.announcement_id = a.id AND ar.user_id = $1
		 ORDER BY a.pinned DESC, a.published_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var announcements []models.Announcement
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.Priority, &a.Pinned, &a.Category, &a.AuthorID, &a.ImageKey, &a.PublishedAt, &a.Read); err != nil {
			return nil, err
		}
		announcements = append(announcements, a)
	}
	return announcements, rows.Err()
}

func (r *announcementRepo) Update(ctx context.Context, a *models.Announcement) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE announcements
		 SET title = $2, content = $3, priority = $4, pinned = $5, category = $6, image_key = $7
		 WHERE id = $1`,
		a.ID, a.Title, a.Content, a.Priority, a.Pinned, a.Category, a.ImageKey,
	)
	return err
}

func (r *announcementRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	return err
}

func (r *announcementRepo) MarkRead(ctx context.Context, announcementID, userID int64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO announcement_reads (announcement_id, user_id, read_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (announcement_id, user_id) DO NOTHING`,
		announcementID, userID,
	)
	return err
}

func (r *announcementRepo) CountUnread(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM announcements a
		 WHERE NOT EXISTS (
		     SELECT 1 FROM announcement_reads ar
		     WHERE ar.announcement_id = a.id AND ar.user_id = $1
		 )`,
		userID,
	).Scan(&count)
	return count, err
}
