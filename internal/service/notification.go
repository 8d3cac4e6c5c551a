package service

import (
	"context"
	"log/slog"

	"github.com/drystore/nexus/internal/database"
	"github.com/drystore/nexus/internal/models"
)

// NotificationService assembles the badge counters shown in the client
// shell: unread and mention counts per conversation plus announcement and
// document totals.
type NotificationService struct {
	readStates    database.ReadStateRepository
	messages      database.MessageRepository
	announcements database.AnnouncementRepository
	documentReads database.DocumentReadRepository
}

func NewNotificationService(
	readStates database.ReadStateRepository,
	messages database.MessageRepository,
	announcements database.AnnouncementRepository,
	documentReads database.DocumentReadRepository,
) *NotificationService {
	return &NotificationService{
		readStates:    readStates,
		messages:      messages,
		announcements: announcements,
		documentReads: documentReads,
	}
}

// Summary computes the notification badge payload for a user.
func (s *NotificationService) Summary(ctx context.Context, userID int64) (*models.NotificationSummary, error) {
	states, err := s.readStates.GetByUser(ctx, userID)
	if err != nil {
		slog.Error("failed to get read states", "userID", userID, "error", err)
		return nil, Internal("DB_ERROR", "failed to build notification summary")
	}

	summary := &models.NotificationSummary{Channels: make([]models.ChannelBadge, 0, len(states))}
	for _, st := range states {
		unread, err := s.messages.CountAfter(ctx, st.ChannelID, st.LastReadMessageID)
		if err != nil {
			slog.Error("failed to count unread", "channelID", st.ChannelID, "error", err)
			return nil, Internal("DB_ERROR", "failed to build notification summary")
		}
		summary.Channels = append(summary.Channels, models.ChannelBadge{
			ChannelID:    st.ChannelID,
			UnreadCount:  unread,
			MentionCount: st.MentionCount,
		})
		summary.TotalMentions += st.MentionCount
	}

	unreadAnns, err := s.announcements.CountUnread(ctx, userID)
	if err != nil {
		slog.Error("failed to count unread announcements", "userID", userID, "error", err)
		return nil, Internal("DB_ERROR", "failed to build notification summary")
	}
	summary.UnreadAnnouncements = unreadAnns

	unconfirmed, err := s.documentReads.CountUnconfirmed(ctx, userID)
	if err != nil {
		slog.Error("failed to count unconfirmed documents", "userID", userID, "error", err)
		return nil, Internal("DB_ERROR", "failed to build notification summary")
	}
	summary.UnconfirmedDocuments = unconfirmed

	return summary, nil
}

// ReadStates returns the user's raw per-channel read states.
func (s *NotificationService) ReadStates(ctx context.Context, userID int64) ([]models.ReadState, error) {
	states, err := s.readStates.GetByUser(ctx, userID)
	if err != nil {
		slog.Error("failed to get read states", "userID", userID, "error", err)
		return nil, Internal("DB_ERROR", "failed to get read states")
	}
	return states, nil
}
