package database

import (
	"context"

	"github.com/drystore/nexus/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, includeDeactivated bool, limit, offset int) ([]models.User, error)
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	Directory(ctx context.Context, query string, limit, offset int) ([]models.DirectoryEntry, error)
}

type PositionRepository interface {
	Create(ctx context.Context, pos *models.Position) error
	GetByID(ctx context.Context, id int64) (*models.Position, error)
	List(ctx context.Context) ([]models.Position, error)
	Update(ctx context.Context, pos *models.Position) error
	Delete(ctx context.Context, id int64) error
}

type ChannelRepository interface {
	Create(ctx context.Context, channel *models.Channel, creatorID int64) error
	GetByID(ctx context.Context, id int64) (*models.Channel, error)
	GetVisible(ctx context.Context, userID int64) ([]models.Channel, error)
	GetPublicNotJoined(ctx context.Context, userID int64) ([]models.Channel, error)
	Update(ctx context.Context, channel *models.Channel) error
	Delete(ctx context.Context, id int64) error
	ListConversations(ctx context.Context, userID int64) ([]models.Conversation, error)
}

type MemberRepository interface {
	Add(ctx context.Context, member *models.ChannelMember) error
	Get(ctx context.Context, channelID, userID int64) (*models.ChannelMember, error)
	GetByChannelID(ctx context.Context, channelID int64) ([]models.MemberWithProfile, error)
	SetRole(ctx context.Context, channelID, userID int64, role models.MemberRole) error
	Remove(ctx context.Context, channelID, userID int64) error
}

type DMChannelRepository interface {
	GetByID(ctx context.Context, id int64) (*models.DMChannel, error)
	GetByUserID(ctx context.Context, userID int64) ([]models.DMChannel, error)
	GetOrCreate(ctx context.Context, user1ID, user2ID, newID int64) (*models.DMChannel, error)
	IsRecipient(ctx context.Context, channelID, userID int64) (bool, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	GetByID(ctx context.Context, id int64) (*models.MessageWithAuthor, error)
	GetByChannelID(ctx context.Context, channelID int64, before *int64, limit int) ([]models.MessageWithAuthor, error)
	Update(ctx context.Context, msg *models.Message) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, channelID int64, query string, limit int) ([]models.MessageWithAuthor, error)
	CountAfter(ctx context.Context, channelID, messageID int64) (int, error)
	GetAllByChannelID(ctx context.Context, channelID int64) ([]models.MessageWithAuthor, error)
}

type AttachmentRepository interface {
	Create(ctx context.Context, attachment *models.Attachment) error
	GetByID(ctx context.Context, id int64) (*models.Attachment, error)
	GetByMessageID(ctx context.Context, messageID int64) ([]models.Attachment, error)
	GetByMessageIDs(ctx context.Context, messageIDs []int64) (map[int64][]models.Attachment, error)
	BindToMessage(ctx context.Context, attachmentID, messageID int64) error
	Delete(ctx context.Context, id int64) error
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id int64) (*models.Document, error)
	List(ctx context.Context, category string, includeAdminOnly bool) ([]models.Document, error)
	// UpdateVersioned applies the update only when the stored version still
	// equals expectedVersion. Returns false on a version mismatch.
	UpdateVersioned(ctx context.Context, doc *models.Document, expectedVersion int) (bool, error)
	Delete(ctx context.Context, id int64) error
}

type DocumentReadRepository interface {
	MarkScrolled(ctx context.Context, documentID, userID int64) error
	MarkConfirmed(ctx context.Context, documentID, userID int64) (bool, error)
	Get(ctx context.Context, documentID, userID int64) (*models.DocumentRead, error)
	GetReaders(ctx context.Context, documentID int64) ([]models.DocumentReader, error)
	CountUnconfirmed(ctx context.Context, userID int64) (int, error)
}

type AnnouncementRepository interface {
	Create(ctx context.Context, ann *models.Announcement) error
	GetByID(ctx context.Context, id int64) (*models.Announcement, error)
	List(ctx context.Context, userID int64, limit, offset int) ([]models.Announcement, error)
	Update(ctx context.Context, ann *models.Announcement) error
	Delete(ctx context.Context, id int64) error
	MarkRead(ctx context.Context, announcementID, userID int64) error
	CountUnread(ctx context.Context, userID int64) (int, error)
}

type ReadStateRepository interface {
	Upsert(ctx context.Context, userID, channelID, lastReadMessageID int64) error
	GetByUser(ctx context.Context, userID int64) ([]models.ReadState, error)
	GetByUserAndChannel(ctx context.Context, userID, channelID int64) (*models.ReadState, error)
	IncrementMentionCount(ctx context.Context, userID, channelID int64) error
}

type InvitationRepository interface {
	Create(ctx context.Context, inv *models.Invitation) error
	GetByToken(ctx context.Context, token string) (*models.Invitation, error)
	GetByID(ctx context.Context, id int64) (*models.Invitation, error)
	List(ctx context.Context) ([]models.Invitation, error)
	// UpdateStatus transitions the row only when its current status matches
	// one of from. Returns false when the row was in another state.
	UpdateStatus(ctx context.Context, id int64, to models.InvitationStatus, from ...models.InvitationStatus) (bool, error)
	Delete(ctx context.Context, id int64) error
}

type ActivityRepository interface {
	Create(ctx context.Context, act *models.Activity) error
	List(ctx context.Context, before *int64, limit int) ([]models.Activity, error)
}
