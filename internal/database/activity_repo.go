package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drystore/nexus/internal/models"
)

type activityRepo struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) ActivityRepository {
	return &activityRepo{pool: pool}
}

func (r *activityRepo) Create(ctx context.Context, act *models.Activity) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO activities (id, actor_id, kind, subject_id, channel_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		act.ID, act.ActorID, act.Kind, act.SubjectID, act.ChannelID, act.CreatedAt,
	)
	return err
}

func (r *activityRepo) List(ctx context.Context, before *int64, limit int) ([]models.Activity, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, actor_id, kind, subject_id, channel_id, created_at
		 FROM activities
		 WHERE $1::BIGINT IS NULL OR id < $1
		 ORDER BY id DESC
		 LIMIT $2`,
		before, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.ActorID, &a.Kind, &a.SubjectID, &a.ChannelID, &a.CreatedAt); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
