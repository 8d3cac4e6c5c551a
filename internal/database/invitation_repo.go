package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drystore/nexus/internal/models"
)

type invitationRepo struct {
	pool *pgxpool.Pool
}

func NewInvitationRepository(pool *pgxpool.Pool) InvitationRepository {
	return &invitationRepo{pool: pool}
}

const invitationColumns = `id, email, token, inviter_id, status, expires_at, created_at`

func (r *invitationRepo) Create(ctx context.Context, inv *models.Invitation) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO invitations (id, email, token, inviter_id, status, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		inv.ID, inv.Email, inv.Token, inv.InviterID, inv.Status, inv.ExpiresAt, inv.CreatedAt,
	)
	return err
}

func (r *invitationRepo) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	inv := &models.Invitation{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE token = $1`, token,
	).Scan(&inv.ID, &inv.Email, &inv.Token, &inv.InviterID, &inv.Status, &inv.ExpiresAt, &inv.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return inv, err
}

func (r *invitationRepo) GetByID(ctx context.Context, id int64) (*models.Invitation, error) {
	inv := &models.Invitation{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE id = $1`, id,
	).Scan(&inv.ID, &inv.Email, &inv.Token, &inv.InviterID, &inv.Status, &inv.ExpiresAt, &inv.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return inv, err
}

func (r *invitationRepo) List(ctx context.Context) ([]models.Invitation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+invitationColumns+` FROM invitations ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []models.Invitation
	for rows.Next() {
		var inv models.Invitation
		if err := rows.Scan(&inv.ID, &inv.Email, &inv.Token, &inv.InviterID, &inv.Status, &inv.ExpiresAt, &inv.CreatedAt); err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

// UpdateStatus performs a guarded transition: the row moves to the target
// status only when its current status is one of from. Terminal states can
// never be left because no caller lists them as a source.
func (r *invitationRepo) UpdateStatus(ctx context.Context, id int64, to models.InvitationStatus, from ...models.InvitationStatus) (bool, error) {
	sources := make([]string, len(from))
	for i, s := range from {
		sources[i] = string(s)
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE invitations SET status = $2 WHERE id = $1 AND status = ANY($3)`,
		id, to, sources,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *invitationRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM invitations WHERE id = $1`, id)
	return err
}
