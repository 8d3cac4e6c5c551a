package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/drystore/nexus/internal/database"
	"github.com/drystore/nexus/internal/gateway"
	"github.com/drystore/nexus/internal/models"
	"github.com/drystore/nexus/internal/snowflake"
)

// ChannelService manages channels and their memberships.
type ChannelService struct {
	channels   database.ChannelRepository
	members    database.MemberRepository
	dms        database.DMChannelRepository
	activities database.ActivityRepository
	snowflake  *snowflake.Generator
	dispatcher gateway.Dispatcher
}

func NewChannelService(
	channels database.ChannelRepository,
	members database.MemberRepository,
	dms database.DMChannelRepository,
	activities database.ActivityRepository,
	gen *snowflake.Generator,
	dispatcher gateway.Dispatcher,
) *ChannelService {
	return &ChannelService{
		channels:   channels,
		members:    members,
		dms:        dms,
		activities: activities,
		snowflake:  gen,
		dispatcher: dispatcher,
	}
}

// Create creates a channel with the creator as its first admin member.
func (s *ChannelService) Create(ctx context.Context, creatorID int64, name string, topic *string, isPrivate bool) (*models.Channel, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return nil, BadRequest("INVALID_NAME", "channel name must be 1-100 characters")
	}

	now := time.Now()
	channel := &models.Channel{
		ID:        s.snowflake.Generate().Int64(),
		Name:      name,
		Topic:     topic,
		IsPrivate: isPrivate,
		CreatorID: creatorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.channels.Create(ctx, channel, creatorID); err != nil {
		slog.Error("failed to create channel", "error", err)
		return nil, Internal("DB_ERROR", "failed to create channel")
	}

	s.recordActivity(ctx, creatorID, models.ActivityChannelCreated, channel.ID, &channel.ID)
	s.dispatcher.SubscribeToChannel(creatorID, channel.ID)
	if !channel.IsPrivate {
		s.dispatcher.DispatchToAll(gateway.EventChannelCreate, channel)
	} else {
		s.dispatcher.DispatchToChannel(channel.ID, gateway.EventChannelCreate, channel)
	}

	return channel, nil
}

// Get returns a channel the user can see. Private channels require
// membership.
func (s *ChannelService) Get(ctx context.Context, channelID, userID int64) (*models.Channel, error) {
	channel, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		slog.Error("failed to get channel", "channelID", channelID, "error", err)
		return nil, Internal("DB_ERROR", "failed to get channel")
	}
	if channel == nil {
		return nil, NotFound("CHANNEL_NOT_FOUND", "channel not found")
	}

	if channel.IsPrivate {
		member, err := s.members.Get(ctx, channelID, userID)
		if err != nil {
			return nil, Internal("DB_ERROR", "failed to get channel")
		}
		if member == nil {
			return nil, NotFound("CHANNEL_NOT_FOUND", "channel not found")
		}
	}
	return channel, nil
}

// List returns the channels visible to the user: all public channels plus
// private channels they belong to.
func (s *ChannelService) List(ctx context.Context, userID int64) ([]models.Channel, error) {
	channels, err := s.channels.GetVisible(ctx, userID)
	if err != nil {
		slog.Error("failed to list channels", "userID", userID, "error", err)
		return nil, Internal("DB_ERROR", "failed to list channels")
	}
	return channels, nil
}

// Conversations returns the unified channel+DM sidebar list, optionally
// filtered by a case-insensitive substring of the name or last message.
func (s *ChannelService) Conversations(ctx context.Context, userID int64, query string) ([]models.Conversation, error) {
	convs, err := s.channels.ListConversations(ctx, userID)
	if err != nil {
		slog.Error("failed to list conversations", "userID", userID, "error", err)
		return nil, Internal("DB_ERROR", "failed to list conversations")
	}

	if query == "" {
		return convs, nil
	}

	q := strings.ToLower(query)
	filtered := make([]models.Conversation, 0, len(convs))
	for _, c := range convs {
		if strings.Contains(strings.ToLower(c.Name), q) {
			filtered = append(filtered, c)
			continue
		}
		if c.LastMessage != nil && strings.Contains(strings.ToLower(*c.LastMessage), q) {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// Update modifies a channel's name and topic. Requires channel admin.
func (s *ChannelService) Update(ctx context.Context, channelID, userID int64, name *string, topic *string) (*models.Channel, error) {
	channel, err := s.requireChannelAdmin(ctx, channelID, userID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" || len(trimmed) > 100 {
			return nil, BadRequest("INVALID_NAME", "channel name must be 1-100 characters")
		}
		channel.Name = trimmed
	}
	if topic != nil {
		channel.Topic = topic
	}

	if err := s.channels.Update(ctx, channel); err != nil {
		slog.Error("failed to update channel", "channelID", channelID, "error", err)
		return nil, Internal("DB_ERROR", "failed to update channel")
	}

	s.dispatcher.DispatchToChannel(channelID, gateway.EventChannelUpdate, channel)
	return channel, nil
}

// Delete removes a channel and all its messages. Requires channel admin.
func (s *ChannelService) Delete(ctx context.Context, channelID, userID int64) error {
	if _, err := s.requireChannelAdmin(ctx, channelID, userID); err != nil {
		return err
	}

	s.dispatcher.DispatchToChannel(channelID, gateway.EventChannelDelete, map[string]string{
		"id": snowflake.ID(channelID).String(),
	})

	if err := s.channels.Delete(ctx, channelID); err != nil {
		slog.Error("failed to delete channel", "channelID", channelID, "error", err)
		return Internal("DB_ERROR", "failed to delete channel")
	}
	return nil
}

// Join adds the user to a public channel. Joining a channel the user is
// already in is a no-op. Private channels cannot be self-joined.
func (s *ChannelService) Join(ctx context.Context, channelID, userID int64) (*models.ChannelMember, error) {
	channel, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return nil, Internal("DB_ERROR", "failed to join channel")
	}
	if channel == nil {
		return nil, NotFound("CHANNEL_NOT_FOUND", "channel not found")
	}
	if channel.IsPrivate {
		return nil, Forbidden("PRIVATE_CHANNEL", "cannot join a private channel without an invitation")
	}

	existing, err := s.members.Get(ctx, channelID, userID)
	if err != nil {
		return nil, Internal("DB_ERROR", "failed to join channel")
	}

	member := &models.ChannelMember{
		ChannelID: channelID,
		UserID:    userID,
		Role:      models.RoleMember,
		JoinedAt:  time.Now(),
	}
	if err := s.members.Add(ctx, member); err != nil {
		slog.Error("failed to add member", "channelID", channelID, "userID", userID, "error", err)
		return nil, Internal("DB_ERROR", "failed to join channel")
	}

	s.dispatcher.SubscribeToChannel(userID, channelID)

	if existing == nil {
		s.recordActivity(ctx, userID, models.ActivityMemberJoined, channelID, &channelID)
		s.dispatcher.DispatchToChannel(channelID, gateway.EventMemberAdd, member)
	}
	return member, nil
}

// AddMember adds another user to a channel. Requires channel admin for
// private channels; members may add to public channels.
func (s *ChannelService) AddMember(ctx context.Context, channelID, actorID, targetID int64) (*models.ChannelMember, error) {
	channel, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return nil, Internal("DB_ERROR", "failed to add member")
	}
	if channel == nil {
		return nil, NotFound("CHANNEL_NOT_FOUND", "channel not found")
	}

	actor, err := s.members.Get(ctx, channelID, actorID)
	if err != nil {
		return nil, Internal("DB_ERROR", "failed to add member")
	}
	if actor == nil {
		return nil, Forbidden("NOT_A_MEMBER", "you are not a member of this channel")
	}
	if channel.IsPrivate && actor.Role != models.RoleAdmin {
		return nil, Forbidden("ADMIN_REQUIRED", "only channel admins can add members to private channels")
	}

	member := &models.ChannelMember{
		ChannelID: channelID,
		UserID:    targetID,
		Role:      models.RoleMember,
		JoinedAt:  time.Now(),
	}
	if err := s.members.Add(ctx, member); err != nil {
		slog.Error("failed to add member", "channelID", channelID, "userID", targetID, "error", err)
		return nil, Internal("DB_ERROR", "failed to add member")
	}

	s.dispatcher.SubscribeToChannel(targetID, channelID)
	s.dispatcher.DispatchToChannel(channelID, gateway.EventMemberAdd, member)
	return member, nil
}

// Leave removes the user from a channel.
func (s *ChannelService) Leave(ctx context.Context, channelID, userID int64) error {
	member, err := s.members.Get(ctx, channelID, userID)
	if err != nil {
		return Internal("DB_ERROR", "failed to leave channel")
	}
	if member == nil {
		return NotFound("NOT_A_MEMBER", "you are not a member of this channel")
	}

	if err := s.members.Remove(ctx, channelID, userID); err != nil {
		slog.Error("failed to remove member", "channelID", channelID, "userID", userID, "error", err)
		return Internal("DB_ERROR", "failed to leave channel")
	}

	s.dispatcher.UnsubscribeFromChannel(userID, channelID)
	s.dispatcher.DispatchToChannel(channelID, gateway.EventMemberRemove, map[string]string{
		"channel_id": snowflake.ID(channelID).String(),
		"user_id":    snowflake.ID(userID).String(),
	})
	return nil
}

// Members lists a channel's members with their profiles.
func (s *ChannelService) Members(ctx context.Context, channelID, userID int64) ([]models.MemberWithProfile, error) {
	if _, err := s.Get(ctx, channelID, userID); err != nil {
		return nil, err
	}

	members, err := s.members.GetByChannelID(ctx, channelID)
	if err != nil {
		slog.Error("failed to list members", "channelID", channelID, "error", err)
		return nil, Internal("DB_ERROR", "failed to list members")
	}
	return members, nil
}

// SetMemberRole changes a member's role. Requires channel admin.
func (s *ChannelService) SetMemberRole(ctx context.Context, channelID, actorID, targetID int64, role models.MemberRole) error {
	if !role.Valid() {
		return BadRequest("INVALID_ROLE", "role must be member or admin")
	}

	if _, err := s.requireChannelAdmin(ctx, channelID, actorID); err != nil {
		return err
	}

	target, err := s.members.Get(ctx, channelID, targetID)
	if err != nil {
		return Internal("DB_ERROR", "failed to set role")
	}
	if target == nil {
		return NotFound("MEMBER_NOT_FOUND", "member not found")
	}

	if err := s.members.SetRole(ctx, channelID, targetID, role); err != nil {
		slog.Error("failed to set role", "channelID", channelID, "userID", targetID, "error", err)
		return Internal("DB_ERROR", "failed to set role")
	}
	return nil
}

// CanAccess reports whether the user may read a channel: membership for
// regular channels, recipient status for DMs, and open access for public
// channels.
func (s *ChannelService) CanAccess(ctx context.Context, channelID, userID int64) (bool, error) {
	channel, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return false, Internal("DB_ERROR", "failed to check access")
	}
	if channel != nil {
		if !channel.IsPrivate {
			return true, nil
		}
		member, err := s.members.Get(ctx, channelID, userID)
		if err != nil {
			return false, Internal("DB_ERROR", "failed to check access")
		}
		return member != nil, nil
	}

	isRecipient, err := s.dms.IsRecipient(ctx, channelID, userID)
	if err != nil {
		return false, Internal("DB_ERROR", "failed to check access")
	}
	return isRecipient, nil
}

func (s *ChannelService) requireChannelAdmin(ctx context.Context, channelID, userID int64) (*models.Channel, error) {
	channel, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return nil, Internal("DB_ERROR", "failed to get channel")
	}
	if channel == nil {
		return nil, NotFound("CHANNEL_NOT_FOUND", "channel not found")
	}

	member, err := s.members.Get(ctx, channelID, userID)
	if err != nil {
		return nil, Internal("DB_ERROR", "failed to get membership")
	}
	if member == nil || member.Role != models.RoleAdmin {
		return nil, Forbidden("ADMIN_REQUIRED", "channel admin role required")
	}
	return channel, nil
}

func (s *ChannelService) recordActivity(ctx context.Context, actorID int64, kind models.ActivityKind, subjectID int64, channelID *int64) {
	act := &models.Activity{
		ID:        s.snowflake.Generate().Int64(),
		ActorID:   actorID,
		Kind:      kind,
		SubjectID: subjectID,
		ChannelID: channelID,
		CreatedAt: time.Now(),
	}
	if err := s.activities.Create(ctx, act); err != nil {
		slog.Error("failed to record activity", "kind", kind, "error", err)
	}
}
