package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drystore/nexus/internal/models"
)

type profileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepo{pool: pool}
}

func (r *profileRepo) Create(ctx context.Context, p *models.Profile) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO profiles (user_id, display_name, avatar_key, bio, availability, theme, notifications_enabled, position_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.UserID, p.DisplayName, p.AvatarKey, p.Bio, p.Availability, p.Theme, p.NotificationsEnabled, p.PositionID,
	)
	return err
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	p := &models.Profile{}
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, display_name, avatar_key, bio, availability, theme, notifications_enabled, position_id
		 FROM profiles WHERE user_id = $1`, userID,
	).Scan(&p.UserID, &p.DisplayName, &p.AvatarKey, &p.Bio, &p.Availability, &p.Theme, &p.NotificationsEnabled, &p.PositionID)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *profileRepo) Update(ctx context.Context, p *models.Profile) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE profiles
		 SET display_name = $2, avatar_key = $3, bio = $4, availability = $5,
		     theme = $6, notifications_enabled = $7, position_id = $8
		 WHERE user_id = $1`,
		p.UserID, p.DisplayName, p.AvatarKey, p.Bio, p.Availability, p.Theme, p.NotificationsEnabled, p.PositionID,
	)
	return err
}

func (r *profileRepo) Directory(ctx context.Context, query string, limit, offset int) ([]models.DirectoryEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.user_id, p.display_name, p.avatar_key, p.bio, p.availability, p.theme,
		        p.notifications_enabled, p.position_id,
		        u.username, u.email, pos.title, pos.department
		 FROM profiles p
		 INNER JOIN users u ON u.id = p.user_id
		 LEFT JOIN positions pos ON pos.id = p.position_id
		 WHERE u.deactivated_at IS NULL
		   AND ($1 = '' OR p.display_name ILIKE '%' || $1 || '%'
		        OR u.username ILIKE '%' || $1 || '%'
		        OR pos.title ILIKE '%' || $1 || '%'
		        OR pos.department ILIKE '%' || $1 || '%')
		 ORDER BY p.display_name
		 LIMIT $2 OFFSET $3`,
		query, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.DirectoryEntry
	for rows.Next() {
		var e models.DirectoryEntry
		if err := rows.Scan(
			&e.UserID, &e.DisplayName, &e.AvatarKey, &e.Bio, &e.Availability, &e.Theme,
			&e.NotificationsEnabled, &e.PositionID,
			&e.Username, &e.Email, &e.Title, &e.Department,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
