package gateway

import (
	"context"

	"github.com/drystore/nexus/internal/redis"
)

// PresenceService reads presence state for REST responses.
type PresenceService struct {
	redis *redis.Client
}

func NewPresenceService(redisClient *redis.Client) *PresenceService {
	return &PresenceService{redis: redisClient}
}

// GetPresence returns a user's current status, defaulting to offline.
func (s *PresenceService) GetPresence(ctx context.Context, userID int64) (string, error) {
	status, err := s.redis.GetPresence(ctx, userID)
	if err != nil {
		return "", err
	}
	if status == "" {
		status = "offline"
	}
	return status, nil
}

// GetPresences returns the status for each of the given users.
func (s *PresenceService) GetPresences(ctx context.Context, userIDs []int64) (map[int64]string, error) {
	result := make(map[int64]string, len(userIDs))
	for _, id := range userIDs {
		status, err := s.GetPresence(ctx, id)
		if err != nil {
			return nil, err
		}
		result[id] = status
	}
	return result, nil
}
