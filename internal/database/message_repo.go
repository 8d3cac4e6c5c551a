package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drystore/nexus/internal/models"
)

type messageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepo{pool: pool}
}

const messageSelect = `
	SELECT m.id, m.channel_id, m.author_id, m.content, m.reply_to_id, m.mentions,
	       m.created_at, m.edited_at, u.username, COALESCE(p.display_name, u.username)
	FROM messages m
	INNER JOIN users u ON u.id = m.author_id
	LEFT JOIN profiles p ON p.user_id = m.author_id`

func (r *messageRepo) Create(ctx context.Context, msg *models.Message) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO messages (id, channel_id, author_id, content, reply_to_id, mentions, created_at, edited_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		msg.ID, msg.ChannelID, msg.AuthorID, msg.Content, msg.ReplyToID, msg.Mentions, msg.CreatedAt, msg.EditedAt,
	)
	return err
}

func (r *messageRepo) GetByID(ctx context.Context, id int64) (*models.MessageWithAuthor, error) {
	m := &models.MessageWithAuthor{}
	err := r.pool.QueryRow(ctx, messageSelect+` WHERE m.id = $1`, id).Scan(
		&m.ID, &m.ChannelID, &m.AuthorID, &m.Content, &m.ReplyToID, &m.Mentions,
		&m.CreatedAt, &m.EditedAt, &m.AuthorUsername, &m.AuthorDisplayName,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return m, err
}

func (r *messageRepo) GetByChannelID(ctx context.Context, channelID int64, before *int64, limit int) ([]models.MessageWithAuthor, error) {
	rows, err := r.pool.Query(ctx,
		messageSelect+`
		 WHERE m.channel_id = $1 AND ($2::BIGINT IS NULL OR m.id < $2)
		 ORDER BY m.id DESC
		 LIMIT $3`,
		channelID, before, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func (r *messageRepo) Update(ctx context.Context, msg *models.Message) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE messages SET content = $2, mentions = $3, edited_at = $4
		 WHERE id = $1`,
		msg.ID, msg.Content, msg.Mentions, msg.EditedAt,
	)
	return err
}

func (r *messageRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	return err
}

func (r *messageRepo) Search(ctx context.Context, channelID int64, query string, limit int) ([]models.MessageWithAuthor, error) {
	rows, err := r.pool.Query(ctx,
		messageSelect+`
		 WHERE m.channel_id = $1
		   AND m.search_vector @@ plainto_tsquery('english', $2)
		 ORDER BY ts_rank(m.search_vector, plainto_tsquery('english', $2)) DESC, m.id DESC
		 LIMIT $3`,
		channelID, query, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

// CountAfter returns how many messages in the channel are newer than the
// given message, for unread badge counts.
func (r *messageRepo) CountAfter(ctx context.Context, channelID, messageID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE channel_id = $1 AND id > $2`,
		channelID, messageID,
	).Scan(&count)
	return count, err
}

// GetAllByChannelID streams the full channel history oldest-first, for
// export.
func (r *messageRepo) GetAllByChannelID(ctx context.Context, channelID int64) ([]models.MessageWithAuthor, error) {
	rows, err := r.pool.Query(ctx,
		messageSelect+` WHERE m.channel_id = $1 ORDER BY m.id`, channelID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func scanMessages(rows pgx.Rows) ([]models.MessageWithAuthor, error) {
	var messages []models.MessageWithAuthor
	for rows.Next() {
		var m models.MessageWithAuthor
		if err := rows.Scan(
			&m.ID, &m.ChannelID, &m.AuthorID, &m.Content, &m.ReplyToID, &m.Mentions,
			&m.CreatedAt, &m.EditedAt, &m.AuthorUsername, &m.AuthorDisplayName,
		); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
