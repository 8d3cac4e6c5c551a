package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drystore/nexus/internal/models"
)

type attachmentRepo struct {
	pool *pgxpool.Pool
}

func NewAttachmentRepository(pool *pgxpool.Pool) AttachmentRepository {
	return &attachmentRepo{pool: pool}
}

const attachmentColumns = `id, message_id, document_id, announcement_id, filename, content_type, size, storage_key, uploader_id`

func (r *attachmentRepo) Create(ctx context.Context, a *models.Attachment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO attachments (`+attachmentColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.MessageID, a.DocumentID, a.AnnouncementID, a.Filename, a.ContentType, a.Size, a.StorageKey, a.UploaderID,
	)
	return err
}

func (r *attachmentRepo) GetByID(ctx context.Context, id int64) (*models.Attachment, error) {
	a := &models.Attachment{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+attachmentColumns+` FROM attachments WHERE id = $1`, id,
	).Scan(&a.ID, &a.MessageID, &a.DocumentID, &a.AnnouncementID, &a.Filename, &a.ContentType, &a.Size, &a.StorageKey, &a.UploaderID)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return a, err
}

func (r *attachmentRepo) GetByMessageID(ctx context.Context, messageID int64) ([]models.Attachment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+attachmentColumns+` FROM attachments
		 WHERE message_id = $1
		 ORDER BY id`, messageID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attachments []models.Attachment
	for rows.Next() {
		var a models.Attachment
		if err := rows.Scan(&a.ID, &a.MessageID, &a.DocumentID, &a.AnnouncementID, &a.Filename, &a.ContentType, &a.Size, &a.StorageKey, &a.UploaderID); err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}

// GetByMessageIDs batch-loads the attachments of a page of messages,
// keyed by message ID.
func (r *attachmentRepo) GetByMessageIDs(ctx context.Context, messageIDs []int64) (map[int64][]models.Attachment, error) {
	byMessage := make(map[int64][]models.Attachment, len(messageIDs))
	if len(messageIDs) == 0 {
		return byMessage, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+attachmentColumns+` FROM attachments
		 WHERE message_id = ANY($1)
		 ORDER BY id`, messageIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var a models.Attachment
		if err := rows.Scan(&a.ID, &a.MessageID, &a.DocumentID, &a.AnnouncementID, &a.Filename, &a.ContentType, &a.Size, &a.StorageKey, &a.UploaderID); err != nil {
			return nil, err
		}
		byMessage[*a.MessageID] = append(byMessage[*a.MessageID], a)
	}
	return byMessage, rows.Err()
}

// BindToMessage links a pre-uploaded attachment to the message that
// references it.
func (r *attachmentRepo) BindToMessage(ctx context.Context, attachmentID, messageID int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE attachments SET message_id = $2 WHERE id = $1 AND message_id IS NULL`,
		attachmentID, messageID,
	)
	return err
}

func (r *attachmentRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM attachments WHERE id = $1`, id)
	return err
}
