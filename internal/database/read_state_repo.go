package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drystore/nexus/internal/models"
)

type readStateRepo struct {
	pool *pgxpool.Pool
}

func NewReadStateRepository(pool *pgxpool.Pool) ReadStateRepository {
	return &readStateRepo{pool: pool}
}

// Upsert marks the channel read up to the given message and clears the
// mention counter.
func (r *readStateRepo) Upsert(ctx context.Context, userID, channelID, lastReadMessageID int64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO read_states (user_id, channel_id, last_read_message_id, mention_count, updated_at)
		 VALUES ($1, $2, $3, 0, NOW())
		 ON CONFLICT (user_id, channel_id)
		 DO UPDATE SET last_read_message_id = $3, mention_count = 0, updated_at = NOW()`,
		userID, channelID, lastReadMessageID,
	)
	return err
}

func (r *readStateRepo) GetByUser(ctx context.Context, userID int64) ([]models.ReadState, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, channel_id, last_read_message_id, mention_count, updated_at
		 FROM read_states
		 WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var states []models.ReadState
	for rows.Next() {
		var s models.ReadState
		if err := rows.Scan(&s.UserID, &s.ChannelID, &s.LastReadMessageID, &s.MentionCount, &s.UpdatedAt); err != nil {
			return nil, err
		}
		states = append(states, s)
	}
	return states, rows.Err()
}

func (r *readStateRepo) GetByUserAndChannel(ctx context.Context, userID, channelID int64) (*models.ReadState, error) {
	s := &models.ReadState{}
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, channel_id, last_read_message_id, mention_count, updated_at
		 FROM read_states
		 WHERE user_id = $1 AND channel_id = $2`,
		userID, channelID,
	).Scan(&s.UserID, &s.ChannelID, &s.LastReadMessageID, &s.MentionCount, &s.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *readStateRepo) IncrementMentionCount(ctx context.Context, userID, channelID int64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO read_states (user_id, channel_id, last_read_message_id, mention_count, updated_at)
		 VALUES ($1, $2, 0, 1, NOW())
		 ON CONFLICT (user_id, channel_id)
		 DO UPDATE SET mention_count = read_states.mention_count + 1, updated_at = NOW()`,
		userID, channelID,
	)
	return err
}
