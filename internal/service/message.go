package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/drystore/nexus/internal/database"
	"github.com/drystore/nexus/internal/gateway"
	"github.com/drystore/nexus/internal/mention"
	"github.com/drystore/nexus/internal/models"
	"github.com/drystore/nexus/internal/snowflake"
)

const (
	maxMessageLength = 4000
	defaultPageSize  = 50
	maxPageSize      = 100
	maxSearchResults = 25
)

// MessageService handles messages in channels and DMs, including mention
// derivation, read acknowledgement and typing indicators.
type MessageService struct {
	messages    database.MessageRepository
	members     database.MemberRepository
	attachments database.AttachmentRepository
	readStates  database.ReadStateRepository
	activities  database.ActivityRepository
	dms         database.DMChannelRepository
	profiles    database.ProfileRepository
	channelSvc  *ChannelService
	snowflake   *snowflake.Generator
	dispatcher  gateway.Dispatcher
	typing      *gateway.TypingNotifier
}

func NewMessageService(
	messages database.MessageRepository,
	members database.MemberRepository,
	attachments database.AttachmentRepository,
	readStates database.ReadStateRepository,
	activities database.ActivityRepository,
	dms database.DMChannelRepository,
	profiles database.ProfileRepository,
	channelSvc *ChannelService,
	gen *snowflake.Generator,
	dispatcher gateway.Dispatcher,
	typing *gateway.TypingNotifier,
) *MessageService {
	return &MessageService{
		messages:    messages,
		members:     members,
		attachments: attachments,
		readStates:  readStates,
		activities:  activities,
		dms:         dms,
		profiles:    profiles,
		channelSvc:  channelSvc,
		snowflake:   gen,
		dispatcher:  dispatcher,
		typing:      typing,
	}
}

// Send creates a message. Mentions are derived from content on the server,
// any mention list sent by the client is ignored.
func (s *MessageService) Send(ctx context.Context, channelID, authorID int64, content string, replyToID *int64, attachmentIDs []int64) (*models.MessageWithAuthor, error) {
	content = strings.TrimSpace(content)
	if content == "" && len(attachmentIDs) == 0 {
		return nil, BadRequest("EMPTY_MESSAGE", "message must have content or attachments")
	}
	if len(content) > maxMessageLength {
		return nil, BadRequest("MESSAGE_TOO_LONG", "message exceeds maximum length")
	}

	if err := s.requireAccess(ctx, channelID, authorID); err != nil {
		return nil, err
	}

	if replyToID != nil {
		parent, err := s.messages.GetByID(ctx, *replyToID)
		if err != nil {
			return nil, Internal("DB_ERROR", "failed to send message")
		}
		if parent == nil || parent.ChannelID != channelID {
			return nil, BadRequest("INVALID_REPLY", "reply target does not exist in this channel")
		}
	}

	targets, err := s.mentionTargets(ctx, channelID)
	if err != nil {
		return nil, err
	}

	// Pages sort by ID and exports by created_at; deriving the stamp
	// from the ID keeps the two orders identical.
	msgID := s.snowflake.Generate().Int64()
	msg := &models.Message{
		ID:        msgID,
		ChannelID: channelID,
		AuthorID:  authorID,
		Content:   content,
		ReplyToID: replyToID,
		Mentions:  mention.Extract(content, targets),
		CreatedAt: snowflake.ExtractTimestamp(msgID),
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		slog.Error("failed to create message", "channelID", channelID, "error", err)
		return nil, Internal("DB_ERROR", "failed to send message")
	}

	for _, attID := range attachmentIDs {
		att, err := s.attachments.GetByID(ctx, attID)
		if err != nil || att == nil || att.UploaderID != authorID || att.MessageID != nil {
			continue
		}
		if err := s.attachments.BindToMessage(ctx, attID, msg.ID); err != nil {
			slog.Error("failed to bind attachment", "attachmentID", attID, "error", err)
		}
	}

	full, err := s.messages.GetByID(ctx, msg.ID)
	if err != nil || full == nil {
		slog.Error("failed to reload message", "messageID", msg.ID, "error", err)
		return nil, Internal("DB_ERROR", "failed to send message")
	}
	if full.Attachments, err = s.attachments.GetByMessageID(ctx, msg.ID); err != nil {
		slog.Error("failed to load attachments", "messageID", msg.ID, "error", err)
		return nil, Internal("DB_ERROR", "failed to send message")
	}

	s.dispatcher.DispatchToChannel(channelID, gateway.EventMessageCreate, full)
	s.notifyMentions(ctx, msg)
	s.recordActivity(ctx, authorID, models.ActivityMessagePosted, msg.ID, &channelID)

	return full, nil
}

// Edit replaces a message's content. Only the author may edit, and
// mentions are re-derived from the new content.
func (s *MessageService) Edit(ctx context.Context, messageID, userID int64, content string) (*models.MessageWithAuthor, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, BadRequest("EMPTY_MESSAGE", "message content is required")
	}
	if len(content) > maxMessageLength {
		return nil, BadRequest("MESSAGE_TOO_LONG", "message exceeds maximum length")
	}

	existing, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, Internal("DB_ERROR", "failed to edit message")
	}
	if existing == nil {
		return nil, NotFound("MESSAGE_NOT_FOUND", "message not found")
	}
	if existing.AuthorID != userID {
		return nil, Forbidden("NOT_AUTHOR", "only the author can edit a message")
	}

	targets, err := s.mentionTargets(ctx, existing.ChannelID)
	if err != nil {
		return nil, err
	}

	previous := existing.Mentions
	msg := existing.Message
	msg.Content = content
	msg.Mentions = mention.Extract(content, targets)
	now := time.Now()
	msg.EditedAt = &now

	if err := s.messages.Update(ctx, &msg); err != nil {
		slog.Error("failed to update message", "messageID", messageID, "error", err)
		return nil, Internal("DB_ERROR", "failed to edit message")
	}

	full, err := s.messages.GetByID(ctx, messageID)
	if err != nil || full == nil {
		return nil, Internal("DB_ERROR", "failed to edit message")
	}
	if full.Attachments, err = s.attachments.GetByMessageID(ctx, messageID); err != nil {
		slog.Error("failed to load attachments", "messageID", messageID, "error", err)
		return nil, Internal("DB_ERROR", "failed to edit message")
	}

	s.dispatcher.DispatchToChannel(msg.ChannelID, gateway.EventMessageUpdate, full)

	// Only newly added mentions notify.
	before := make(map[int64]bool, len(previous))
	for _, m := range previous {
		before[m.UserID] = true
	}
	added := msg
	added.Mentions = nil
	for _, m := range msg.Mentions {
		if !before[m.UserID] {
			added.Mentions = append(added.Mentions, m)
		}
	}
	s.notifyMentions(ctx, &added)

	return full, nil
}

// Delete removes a message. The author or a site admin may delete.
func (s *MessageService) Delete(ctx context.Context, messageID, userID int64, isAdmin bool) error {
	existing, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return Internal("DB_ERROR", "failed to delete message")
	}
	if existing == nil {
		return NotFound("MESSAGE_NOT_FOUND", "message not found")
	}
	if existing.AuthorID != userID && !isAdmin {
		return Forbidden("NOT_AUTHOR", "only the author can delete a message")
	}

	if err := s.messages.Delete(ctx, messageID); err != nil {
		slog.Error("failed to delete message", "messageID", messageID, "error", err)
		return Internal("DB_ERROR", "failed to delete message")
	}

	s.dispatcher.DispatchToChannel(existing.ChannelID, gateway.EventMessageDelete, map[string]string{
		"id":         snowflake.ID(messageID).String(),
		"channel_id": snowflake.ID(existing.ChannelID).String(),
	})
	return nil
}

// List returns messages in a channel, newest first, paginated by a
// before-ID cursor.
func (s *MessageService) List(ctx context.Context, channelID, userID int64, before *int64, limit int) ([]models.MessageWithAuthor, error) {
	if err := s.requireAccess(ctx, channelID, userID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	messages, err := s.messages.GetByChannelID(ctx, channelID, before, limit)
	if err != nil {
		slog.Error("failed to list messages", "channelID", channelID, "error", err)
		return nil, Internal("DB_ERROR", "failed to list messages")
	}
	if err := s.loadAttachments(ctx, messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// Search runs a full-text search over a channel's messages.
func (s *MessageService) Search(ctx context.Context, channelID, userID int64, query string) ([]models.MessageWithAuthor, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, BadRequest("EMPTY_QUERY", "search query is required")
	}

	if err := s.requireAccess(ctx, channelID, userID); err != nil {
		return nil, err
	}

	results, err := s.messages.Search(ctx, channelID, query, maxSearchResults)
	if err != nil {
		slog.Error("failed to search messages", "channelID", channelID, "error", err)
		return nil, Internal("DB_ERROR", "failed to search messages")
	}
	if err := s.loadAttachments(ctx, results); err != nil {
		return nil, err
	}
	return results, nil
}

// Ack marks the channel as read up to messageID, clearing the mention
// badge. Other sessions of the same user learn about it via the gateway.
func (s *MessageService) Ack(ctx context.Context, channelID, userID, messageID int64) error {
	if err := s.requireAccess(ctx, channelID, userID); err != nil {
		return err
	}

	if err := s.readStates.Upsert(ctx, userID, channelID, messageID); err != nil {
		slog.Error("failed to upsert read state", "channelID", channelID, "userID", userID, "error", err)
		return Internal("DB_ERROR", "failed to acknowledge messages")
	}

	s.dispatcher.DispatchToUser(userID, gateway.EventReadStateUpdate, gateway.ReadStateUpdateData{
		ChannelID:         channelID,
		LastReadMessageID: messageID,
	})
	return nil
}

// Typing broadcasts a typing indicator for the user in a channel.
func (s *MessageService) Typing(ctx context.Context, channelID, userID int64) error {
	if err := s.requireAccess(ctx, channelID, userID); err != nil {
		return err
	}
	if err := s.typing.NotifyTyping(ctx, channelID, userID); err != nil {
		slog.Error("failed to notify typing", "channelID", channelID, "error", err)
		return Internal("REDIS_ERROR", "failed to send typing indicator")
	}
	return nil
}

func (s *MessageService) loadAttachments(ctx context.Context, messages []models.MessageWithAuthor) error {
	if len(messages) == 0 {
		return nil
	}
	ids := make([]int64, len(messages))
	for i, m := range messages {
		ids[i] = m.ID
	}
	byMessage, err := s.attachments.GetByMessageIDs(ctx, ids)
	if err != nil {
		slog.Error("failed to load attachments", "error", err)
		return Internal("DB_ERROR", "failed to load attachments")
	}
	for i := range messages {
		messages[i].Attachments = byMessage[messages[i].ID]
	}
	return nil
}

func (s *MessageService) requireAccess(ctx context.Context, channelID, userID int64) error {
	ok, err := s.channelSvc.CanAccess(ctx, channelID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return Forbidden("NO_ACCESS", "you do not have access to this channel")
	}
	return nil
}

// mentionTargets returns the users resolvable as mentions in a channel:
// its members, or for a DM its recipients.
func (s *MessageService) mentionTargets(ctx context.Context, channelID int64) ([]models.MemberWithProfile, error) {
	members, err := s.members.GetByChannelID(ctx, channelID)
	if err != nil {
		return nil, Internal("DB_ERROR", "failed to resolve channel members")
	}
	if len(members) > 0 {
		return members, nil
	}

	dm, err := s.dms.GetByID(ctx, channelID)
	if err != nil {
		return nil, Internal("DB_ERROR", "failed to resolve channel members")
	}
	if dm == nil {
		return nil, nil
	}

	targets := make([]models.MemberWithProfile, 0, len(dm.Recipients))
	for _, u := range dm.Recipients {
		t := models.MemberWithProfile{Username: u.Username, DisplayName: u.Username}
		t.UserID = u.ID
		t.ChannelID = channelID
		if profile, err := s.profiles.GetByUserID(ctx, u.ID); err == nil && profile != nil && profile.DisplayName != "" {
			t.DisplayName = profile.DisplayName
		}
		targets = append(targets, t)
	}
	return targets, nil
}

// notifyMentions bumps mention counters and pushes MENTION events for each
// mentioned user. Self-mentions never notify.
func (s *MessageService) notifyMentions(ctx context.Context, msg *models.Message) {
	for _, m := range msg.Mentions {
		if m.UserID == msg.AuthorID {
			continue
		}
		if err := s.readStates.IncrementMentionCount(ctx, m.UserID, msg.ChannelID); err != nil {
			slog.Error("failed to increment mention count", "userID", m.UserID, "error", err)
		}
		s.dispatcher.DispatchToUser(m.UserID, gateway.EventMention, gateway.MentionData{
			ChannelID: msg.ChannelID,
			MessageID: msg.ID,
			AuthorID:  msg.AuthorID,
		})
	}
}

func (s *MessageService) recordActivity(ctx context.Context, actorID int64, kind models.ActivityKind, subjectID int64, channelID *int64) {
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
