package service

import (
	"context"
	"log/slog"

	"github.com/drystore/nexus/internal/database"
	"github.com/drystore/nexus/internal/gateway"
	"github.com/drystore/nexus/internal/models"
	"github.com/drystore/nexus/internal/snowflake"
)

// DMService manages direct message channels between user pairs.
type DMService struct {
	dms        database.DMChannelRepository
	users      database.UserRepository
	snowflake  *snowflake.Generator
	dispatcher gateway.Dispatcher
}

func NewDMService(dms database.DMChannelRepository, users database.UserRepository, gen *snowflake.Generator, dispatcher gateway.Dispatcher) *DMService {
	return &DMService{dms: dms, users: users, snowflake: gen, dispatcher: dispatcher}
}

// GetOrCreate returns the DM channel between the two users, creating it on
// first contact. There is at most one DM channel per user pair.
func (s *DMService) GetOrCreate(ctx context.Context, userID, recipientID int64) (*models.DMChannel, error) {
	if userID == recipientID {
		return nil, BadRequest("SELF_DM", "cannot open a conversation with yourself")
	}

	recipient, err := s.users.GetByID(ctx, recipientID)
	if err != nil {
		slog.Error("failed to look up recipient", "userID", recipientID, "error", err)
		return nil, Internal("DB_ERROR", "failed to open conversation")
	}
	if recipient == nil || !recipient.Active() {
		return nil, NotFound("USER_NOT_FOUND", "user not found")
	}

	dm, err := s.dms.GetOrCreate(ctx, userID, recipientID, s.snowflake.Generate().Int64())
	if err != nil {
		slog.Error("failed to get or create dm", "error", err)
		return nil, Internal("DB_ERROR", "failed to open conversation")
	}

	s.dispatcher.SubscribeToChannel(userID, dm.ID)
	s.dispatcher.SubscribeToChannel(recipientID, dm.ID)
	return dm, nil
}

// List returns the user's DM channels.
func (s *DMService) List(ctx context.Context, userID int64) ([]models.DMChannel, error) {
	dms, err := s.dms.GetByUserID(ctx, userID)
	if err != nil {
		slog.Error("failed to list dms", "userID", userID, "error", err)
		return nil, Internal("DB_ERROR", "failed to list conversations")
	}
	return dms, nil
}
