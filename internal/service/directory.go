package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/drystore/nexus/internal/database"
	"github.com/drystore/nexus/internal/models"
	"github.com/drystore/nexus/internal/snowflake"
)

// DirectoryService serves the people directory and the position catalogue.
type DirectoryService struct {
	profiles  database.ProfileRepository
	positions database.PositionRepository
	snowflake *snowflake.Generator
}

func NewDirectoryService(profiles database.ProfileRepository, positions database.PositionRepository, gen *snowflake.Generator) *DirectoryService {
	return &DirectoryService{profiles: profiles, positions: positions, snowflake: gen}
}

// Search returns directory entries matching the query against name, email,
// title or department. Deactivated accounts never appear.
func (s *DirectoryService) Search(ctx context.Context, query string, limit, offset int) ([]models.DirectoryEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.profiles.Directory(ctx, strings.TrimSpace(query), limit, offset)
	if err != nil {
		slog.Error("failed to search directory", "error", err)
		return nil, Internal("DB_ERROR", "failed to search directory")
	}
	return entries, nil
}

// ListPositions returns all positions.
func (s *DirectoryService) ListPositions(ctx context.Context) ([]models.Position, error) {
	positions, err := s.positions.List(ctx)
	if err != nil {
		slog.Error("failed to list positions", "error", err)
		return nil, Internal("DB_ERROR", "failed to list positions")
	}
	return positions, nil
}

// CreatePosition adds a position. Site admin only.
func (s *DirectoryService) CreatePosition(ctx context.Context, title, department string) (*models.Position, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, BadRequest("INVALID_TITLE", "position title is required")
	}

	pos := &models.Position{
		ID:         s.snowflake.Generate().Int64(),
		Title:      title,
		Department: strings.TrimSpace(department),
	}
	if err := s.positions.Create(ctx, pos); err != nil {
		slog.Error("failed to create position", "error", err)
		return nil, Internal("DB_ERROR", "failed to create position")
	}
	return pos, nil
}

// UpdatePosition edits a position. Site admin only.
func (s *DirectoryService) UpdatePosition(ctx context.Context, id int64, title, department string) (*models.Position, error) {
	pos, err := s.positions.GetByID(ctx, id)
	if err != nil {
		return nil, Internal("DB_ERROR", "failed to update position")
	}
	if pos == nil {
		return nil, NotFound("POSITION_NOT_FOUND", "position not found")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, BadRequest("INVALID_TITLE", "position title is required")
	}
	pos.Title = title
	pos.Department = strings.TrimSpace(department)

	if err := s.positions.Update(ctx, pos); err != nil {
		slog.Error("failed to update position", "positionID", id, "error", err)
		return nil, Internal("DB_ERROR", "failed to update position")
	}
	return pos, nil
}

// DeletePosition removes a position. Site admin only.
func (s *DirectoryService) DeletePosition(ctx context.Context, id int64) error {
	pos, err := s.positions.GetByID(ctx, id)
	if err != nil {
		return Internal("DB_ERROR", "failed to delete position")
	}
	if pos == nil {
		return NotFound("POSITION_NOT_FOUND", "position not found")
	}
	if err := s.positions.Delete(ctx, id); err != nil {
		slog.Error("failed to delete position", "positionID", id, "error", err)
		return Internal("DB_ERROR", "failed to delete position")
	}
	return nil
}
