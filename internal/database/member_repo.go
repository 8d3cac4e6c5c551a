package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drystore/nexus/internal/models"
)

type memberRepo struct {
	pool *pgxpool.Pool
}

func NewMemberRepository(pool *pgxpool.Pool) MemberRepository {
	return &memberRepo{pool: pool}
}

// Add upserts the membership. Joining a channel twice keeps the original
// row untouched.
func (r *memberRepo) Add(ctx context.Context, m *models.ChannelMember) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO channel_members (channel_id, user_id, role, joined_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (channel_id, user_id) DO NOTHING`,
		m.ChannelID, m.UserID, m.Role, m.JoinedAt,
	)
	return err
}

func (r *memberRepo) Get(ctx context.Context, channelID, userID int64) (*models.ChannelMember, error) {
	m := &models.ChannelMember{}
	err := r.pool.QueryRow(ctx,
		`SELECT channel_id, user_id, role, joined_at
		 FROM channel_members WHERE channel_id = $1 AND user_id = $2`,
		channelID, userID,
	).Scan(&m.ChannelID, &m.UserID, &m.Role, &m.JoinedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return m, err
}

func (r *memberRepo) GetByChannelID(ctx context.Context, channelID int64) ([]models.MemberWithProfile, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT cm.channel_id, cm.user_id, cm.role, cm.joined_at, u.username, p.display_name
		 FROM channel_members cm
		 INNER JOIN users u ON u.id = cm.user_id
		 INNER JOIN profiles p ON p.user_id = cm.user_id
		 WHERE cm.channel_id = $1
		 ORDER BY p.display_name`, channelID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.MemberWithProfile
	for rows.Next() {
		var m models.MemberWithProfile
		if err := rows.Scan(&m.ChannelID, &m.UserID, &m.Role, &m.JoinedAt, &m.Username, &m.DisplayName); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *memberRepo) SetRole(ctx context.Context, channelID, userID int64, role models.MemberRole) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE channel_members SET role = $3 WHERE channel_id = $1 AND user_id = $2`,
		channelID, userID, role,
	)
	return err
}

func (r *memberRepo) Remove(ctx context.Context, channelID, userID int64) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM channel_members WHERE channel_id = $1 AND user_id = $2`,
		channelID, userID,
	)
	return err
}
