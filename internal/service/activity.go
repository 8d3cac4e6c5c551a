package service

import (
	"context"
	"log/slog"

	"github.com/drystore/nexus/internal/database"
	"github.com/drystore/nexus/internal/models"
)

// ActivityService serves the org-wide activity feed.
type ActivityService struct {
	activities database.ActivityRepository
}

func NewActivityService(activities database.ActivityRepository) *ActivityService {
	return &ActivityService{activities: activities}
}

// Feed returns recent activity entries newest first, paginated by a
// before-ID cursor.
func (s *ActivityService) Feed(ctx context.Context, before *int64, limit int) ([]models.Activity, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	entries, err := s.activities.List(ctx, before, limit)
	if err != nil {
		slog.Error("failed to list activity", "error", err)
		return nil, Internal("DB_ERROR", "failed to load activity feed")
	}
	return entries, nil
}
