package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drystore/nexus/internal/models"
)

type positionRepo struct {
	pool *pgxpool.Pool
}

func NewPositionRepository(pool *pgxpool.Pool) PositionRepository {
	return &positionRepo{pool: pool}
}

func (r *positionRepo) Create(ctx context.Context, pos *models.Position) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO positions (id, title, department) VALUES ($1, $2, $3)`,
		pos.ID, pos.Title, pos.Department,
	)
	return err
}

func (r *positionRepo) GetByID(ctx context.Context, id int64) (*models.Position, error) {
	p := &models.Position{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, department FROM positions WHERE id = $1`, id,
	).Scan(&p.ID, &p.Title, &p.Department)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *positionRepo) List(ctx context.Context) ([]models.Position, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, department FROM positions ORDER BY department, title`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []models.Position
	for rows.Next() {
		var p models.Position
		if err := rows.Scan(&p.ID, &p.Title, &p.Department); err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

func (r *positionRepo) Update(ctx context.Context, pos *models.Position) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE positions SET title = $2, department = $3 WHERE id = $1`,
		pos.ID, pos.Title, pos.Department,
	)
	return err
}

func (r *positionRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM positions WHERE id = $1`, id)
	return err
}
