package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drystore/nexus/internal/models"
)

type channelRepo struct {
	pool *pgxpool.Pool
}

func NewChannelRepository(pool *pgxpool.Pool) ChannelRepository {
	return &channelRepo{pool: pool}
}

// Create inserts the channel and the creator's admin membership in one
// transaction, so a channel can never exist without exactly one initial
// admin.
func (r *channelRepo) Create(ctx context.Context, channel *models.Channel, creatorID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO channels (id, name, topic, is_private, creator_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		channel.ID, channel.Name, channel.Topic, channel.IsPrivate, channel.CreatorID, channel.CreatedAt,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO channel_members (channel_id, user_id, role, joined_at)
		 VALUES ($1, $2, $3, $4)`,
		channel.ID, creatorID, models.RoleAdmin, channel.CreatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *channelRepo) GetByID(ctx context.Context, id int64) (*models.Channel, error) {
	c := &models.Channel{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, topic, is_private, creator_id, created_at, updated_at
		 FROM channels WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Topic, &c.IsPrivate, &c.CreatorID, &c.CreatedAt, &c.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// GetVisible returns every public channel plus the private channels the
// user belongs to.
func (r *channelRepo) GetVisible(ctx context.Context, userID int64) ([]models.Channel, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.name, c.topic, c.is_private, c.creator_id, c.created_at, c.updated_at
		 FROM channels c
		 WHERE NOT c.is_private
		    OR EXISTS (SELECT 1 FROM channel_members cm WHERE cm.channel_id = c.id AND cm.user_id = $1)
		 ORDER BY c.name`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanChannels(rows)
}

func (r *channelRepo) GetPublicNotJoined(ctx context.Context, userID int64) ([]models.Channel, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.name, c.topic, c.is_private, c.creator_id, c.created_at, c.updated_at
		 FROM channels c
		 WHERE NOT c.is_private
		   AND NOT EXISTS (SELECT 1 FROM channel_members cm WHERE cm.channel_id = c.id AND cm.user_id = $1)
		 ORDER BY c.id`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanChannels(rows)
}

func scanChannels(rows pgx.Rows) ([]models.Channel, error) {
	var channels []models.Channel
	for rows.Next() {
		var c models.Channel
		if err := rows.Scan(&c.ID, &c.Name, &c.Topic, &c.IsPrivate, &c.CreatorID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		channels = append(channels, c)
	}
	return channels, rows.Err()
}

func (r *channelRepo) Update(ctx context.Context, channel *models.Channel) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE channels SET name = $2, topic = $3, is_private = $4, updated_at = NOW()
		 WHERE id = $1`,
		channel.ID, channel.Name, channel.Topic, channel.IsPrivate,
	)
	return err
}

func (r *channelRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM channels WHERE id = $1`, id)
	return err
}

// ListConversations returns the user's channels and DMs, each with its most
// recent message, newest first.
func (r *channelRepo) ListConversations(ctx context.Context, userID int64) ([]models.Conversation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.name, FALSE AS is_dm, c.is_private, lm.content, lm.created_at
		 FROM channels c
		 INNER JOIN channel_members cm ON cm.channel_id = c.id AND cm.user_id = $1
		 LEFT JOIN LATERAL (
		     SELECT content, created_at FROM messages
		     WHERE channel_id = c.id ORDER BY id DESC LIMIT 1
		 ) lm ON TRUE
		 UNION ALL
		 SELECT dc.id, COALESCE(p.display_name, u.username), TRUE, TRUE, lm.content, lm.created_at
		 FROM dm_channels dc
		 INNER JOIN dm_recipients me ON me.channel_id = dc.id AND me.user_id = $1
		 INNER JOIN dm_recipients other ON other.channel_id = dc.id AND other.user_id <> $1
		 INNER JOIN users u ON u.id = other.user_id
		 LEFT JOIN profiles p ON p.user_id = u.id
		 LEFT JOIN LATERAL (
		     SELECT content, created_at FROM messages
		     WHERE channel_id = dc.id ORDER BY id DESC LIMIT 1
		 ) lm ON TRUE
		 ORDER BY 6 DESC NULLS LAST`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		var c models.Conversation
		if err := rows.Scan(&c.ChannelID, &c.Name, &c.IsDM, &c.IsPrivate, &c.LastMessage, &c.LastAt); err != nil {
			return nil, err
		}
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}
