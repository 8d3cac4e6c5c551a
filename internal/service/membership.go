package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/drystore/nexus/internal/database"
	"github.com/drystore/nexus/internal/models"
)

// joinPublicChannels adds the user to every public channel they are not yet
// a member of. Runs on invitation acceptance and on login, so channels
// created after onboarding are picked up the next time the user signs in.
// Failures are logged and skipped; membership catches up on a later login.
func joinPublicChannels(ctx context.Context, channels database.ChannelRepository, members database.MemberRepository, userID int64) {
	missing, err := channels.GetPublicNotJoined(ctx, userID)
	if err != nil {
		slog.Error("failed to list public channels", "userID", userID, "error", err)
		return
	}
	for _, ch := range missing {
		member := &models.ChannelMember{
			ChannelID: ch.ID,
			UserID:    userID,
			Role:      models.RoleMember,
			JoinedAt:  time.Now(),
		}
		if err := members.Add(ctx, member); err != nil {
			slog.Error("failed to auto-join channel", "channelID", ch.ID, "userID", userID, "error", err)
		}
	}
}
