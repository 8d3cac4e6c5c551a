package api

import (
	"context"
	"io"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/drystore/nexus/internal/models"
	"github.com/drystore/nexus/internal/snowflake"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func newTestContext(method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

func setAuthUser(c echo.Context, userID int64) {
	c.Set("user_id", userID)
	c.Set("is_admin", false)
}

func setAuthAdmin(c echo.Context, userID int64) {
	c.Set("user_id", userID)
	c.Set("is_admin", true)
}

func testSnowflake() *snowflake.Generator {
	sf, _ := snowflake.NewGenerator(1)
	return sf
}

// ---------------------------------------------------------------------------
// Mock gateway dispatcher
// ---------------------------------------------------------------------------

type dispatchedEvent struct {
	ChannelID int64
	UserID    int64
	Event     string
	Data      any
	Global    bool
}

type mockGateway struct {
	mu            sync.Mutex
	events        []dispatchedEvent
	subscriptions map[int64][]int64
}

func (m *mockGateway) DispatchToChannel(channelID int64, event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, dispatchedEvent{ChannelID: channelID, Event: event, Data: data})
}

func (m *mockGateway) DispatchToUser(userID int64, event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, dispatchedEvent{UserID: userID, Event: event, Data: data})
}

func (m *mockGateway) DispatchToAll(event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, dispatchedEvent{Event: event, Data: data, Global: true})
}

func (m *mockGateway) SubscribeToChannel(userID, channelID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.subscriptions == nil {
		m.subscriptions = make(map[int64][]int64)
	}
	m.subscriptions[channelID] = append(m.subscriptions[channelID], userID)
}

func (m *mockGateway) UnsubscribeFromChannel(userID, channelID int64) {}

func (m *mockGateway) eventNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.events))
	for _, ev := range m.events {
		names = append(names, ev.Event)
	}
	return names
}

// ---------------------------------------------------------------------------
// Mock mailer and storage
// ---------------------------------------------------------------------------

type mockMailer struct {
	mu       sync.Mutex
	sent     []string
	failWith error
}

func (m *mockMailer) SendInvitation(to, inviterName, acceptURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.sent = append(m.sent, to)
	return nil
}

type mockStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *mockStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	m.objects[key] = data
	return nil
}

func (m *mockStorage) GetURL(key string) string {
	return "http://storage.test/" + key
}

func (m *mockStorage) PresignedURL(ctx context.Context, key, filename string, expiry time.Duration) (string, error) {
	return "http://storage.test/" + key + "?signed=1", nil
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// ---------------------------------------------------------------------------
// Mock repositories
// ---------------------------------------------------------------------------

// mockUserRepo implements database.UserRepository.
type mockUserRepo struct {
	CreateFn        func(ctx context.Context, user *models.User) error
	GetByIDFn       func(ctx context.Context, id int64) (*models.User, error)
	GetByUsernameFn func(ctx context.Context, username string) (*models.User, error)
	GetByEmailFn    func(ctx context.Context, email string) (*models.User, error)
	UpdateFn        func(ctx context.Context, user *models.User) error
	ListFn          func(ctx context.Context, includeDeactivated bool, limit, offset int) ([]models.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) List(ctx context.Context, includeDeactivated bool, limit, offset int) ([]models.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, includeDeactivated, limit, offset)
	}
	return nil, nil
}

// mockProfileRepo implements database.ProfileRepository.
type mockProfileRepo struct {
	CreateFn      func(ctx context.Context, profile *models.Profile) error
	GetByUserIDFn func(ctx context.Context, userID int64) (*models.Profile, error)
	UpdateFn      func(ctx context.Context, profile *models.Profile) error
	DirectoryFn   func(ctx context.Context, query string, limit, offset int) ([]models.DirectoryEntry, error)
}

func (m *mockProfileRepo) Create(ctx context.Context, profile *models.Profile) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, profile)
	}
	return nil
}

func (m *mockProfileRepo) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockProfileRepo) Update(ctx context.Context, profile *models.Profile) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, profile)
	}
	return nil
}

func (m *mockProfileRepo) Directory(ctx context.Context, query string, limit, offset int) ([]models.DirectoryEntry, error) {
	if m.DirectoryFn != nil {
		return m.DirectoryFn(ctx, query, limit, offset)
	}
	return nil, nil
}

// mockPositionRepo implements database.PositionRepository.
type mockPositionRepo struct {
	CreateFn  func(ctx context.Context, pos *models.Position) error
	GetByIDFn func(ctx context.Context, id int64) (*models.Position, error)
	ListFn    func(ctx context.Context) ([]models.Position, error)
	UpdateFn  func(ctx context.Context, pos *models.Position) error
	DeleteFn  func(ctx context.Context, id int64) error
}

func (m *mockPositionRepo) Create(ctx context.Context, pos *models.Position) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, pos)
	}
	return nil
}

func (m *mockPositionRepo) GetByID(ctx context.Context, id int64) (*models.Position, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockPositionRepo) List(ctx context.Context) ([]models.Position, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

func (m *mockPositionRepo) Update(ctx context.Context, pos *models.Position) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, pos)
	}
	return nil
}

func (m *mockPositionRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// mockChannelRepo implements database.ChannelRepository.
type mockChannelRepo struct {
	CreateFn             func(ctx context.Context, channel *models.Channel, creatorID int64) error
	GetByIDFn            func(ctx context.Context, id int64) (*models.Channel, error)
	GetVisibleFn         func(ctx context.Context, userID int64) ([]models.Channel, error)
	GetPublicNotJoinedFn func(ctx context.Context, userID int64) ([]models.Channel, error)
	UpdateFn             func(ctx context.Context, channel *models.Channel) error
	DeleteFn             func(ctx context.Context, id int64) error
	ListConversationsFn  func(ctx context.Context, userID int64) ([]models.Conversation, error)
}

func (m *mockChannelRepo) Create(ctx context.Context, channel *models.Channel, creatorID int64) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, channel, creatorID)
	}
	return nil
}

func (m *mockChannelRepo) GetByID(ctx context.Context, id int64) (*models.Channel, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockChannelRepo) GetVisible(ctx context.Context, userID int64) ([]models.Channel, error) {
	if m.GetVisibleFn != nil {
		return m.GetVisibleFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockChannelRepo) GetPublicNotJoined(ctx context.Context, userID int64) ([]models.Channel, error) {
	if m.GetPublicNotJoinedFn != nil {
		return m.GetPublicNotJoinedFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockChannelRepo) Update(ctx context.Context, channel *models.Channel) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, channel)
	}
	return nil
}

func (m *mockChannelRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *mockChannelRepo) ListConversations(ctx context.Context, userID int64) ([]models.Conversation, error) {
	if m.ListConversationsFn != nil {
		return m.ListConversationsFn(ctx, userID)
	}
	return nil, nil
}

// mockMemberRepo implements database.MemberRepository.
type mockMemberRepo struct {
	AddFn            func(ctx context.Context, member *models.ChannelMember) error
	GetFn            func(ctx context.Context, channelID, userID int64) (*models.ChannelMember, error)
	GetByChannelIDFn func(ctx context.Context, channelID int64) ([]models.MemberWithProfile, error)
	SetRoleFn        func(ctx context.Context, channelID, userID int64, role models.MemberRole) error
	RemoveFn         func(ctx context.Context, channelID, userID int64) error
}

func (m *mockMemberRepo) Add(ctx context.Context, member *models.ChannelMember) error {
	if m.AddFn != nil {
		return m.AddFn(ctx, member)
	}
	return nil
}

func (m *mockMemberRepo) Get(ctx context.Context, channelID, userID int64) (*models.ChannelMember, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, channelID, userID)
	}
	return nil, nil
}

func (m *mockMemberRepo) GetByChannelID(ctx context.Context, channelID int64) ([]models.MemberWithProfile, error) {
	if m.GetByChannelIDFn != nil {
		return m.GetByChannelIDFn(ctx, channelID)
	}
	return nil, nil
}

func (m *mockMemberRepo) SetRole(ctx context.Context, channelID, userID int64, role models.MemberRole) error {
	if m.SetRoleFn != nil {
		return m.SetRoleFn(ctx, channelID, userID, role)
	}
	return nil
}

func (m *mockMemberRepo) Remove(ctx context.Context, channelID, userID int64) error {
	if m.RemoveFn != nil {
		return m.RemoveFn(ctx, channelID, userID)
	}
	return nil
}

// mockDMRepo implements database.DMChannelRepository.
type mockDMRepo struct {
	GetByIDFn     func(ctx context.Context, id int64) (*models.DMChannel, error)
	GetByUserIDFn func(ctx context.Context, userID int64) ([]models.DMChannel, error)
	GetOrCreateFn func(ctx context.Context, user1ID, user2ID, newID int64) (*models.DMChannel, error)
	IsRecipientFn func(ctx context.Context, channelID, userID int64) (bool, error)
}

func (m *mockDMRepo) GetByID(ctx context.Context, id int64) (*models.DMChannel, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockDMRepo) GetByUserID(ctx context.Context, userID int64) ([]models.DMChannel, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockDMRepo) GetOrCreate(ctx context.Context, user1ID, user2ID, newID int64) (*models.DMChannel, error) {
	if m.GetOrCreateFn != nil {
		return m.GetOrCreateFn(ctx, user1ID, user2ID, newID)
	}
	return nil, nil
}

func (m *mockDMRepo) IsRecipient(ctx context.Context, channelID, userID int64) (bool, error) {
	if m.IsRecipientFn != nil {
		return m.IsRecipientFn(ctx, channelID, userID)
	}
	return false, nil
}

// mockMessageRepo implements database.MessageRepository.
type mockMessageRepo struct {
	CreateFn            func(ctx context.Context, msg *models.Message) error
	GetByIDFn           func(ctx context.Context, id int64) (*models.MessageWithAuthor, error)
	GetByChannelIDFn    func(ctx context.Context, channelID int64, before *int64, limit int) ([]models.MessageWithAuthor, error)
	UpdateFn            func(ctx context.Context, msg *models.Message) error
	DeleteFn            func(ctx context.Context, id int64) error
	SearchFn            func(ctx context.Context, channelID int64, query string, limit int) ([]models.MessageWithAuthor, error)
	CountAfterFn        func(ctx context.Context, channelID, messageID int64) (int, error)
	GetAllByChannelIDFn func(ctx context.Context, channelID int64) ([]models.MessageWithAuthor, error)
}

func (m *mockMessageRepo) Create(ctx context.Context, msg *models.Message) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, msg)
	}
	return nil
}

func (m *mockMessageRepo) GetByID(ctx context.Context, id int64) (*models.MessageWithAuthor, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockMessageRepo) GetByChannelID(ctx context.Context, channelID int64, before *int64, limit int) ([]models.MessageWithAuthor, error) {
	if m.GetByChannelIDFn != nil {
		return m.GetByChannelIDFn(ctx, channelID, before, limit)
	}
	return nil, nil
}

func (m *mockMessageRepo) Update(ctx context.Context, msg *models.Message) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, msg)
	}
	return nil
}

func (m *mockMessageRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *mockMessageRepo) Search(ctx context.Context, channelID int64, query string, limit int) ([]models.MessageWithAuthor, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, channelID, query, limit)
	}
	return nil, nil
}

func (m *mockMessageRepo) CountAfter(ctx context.Context, channelID, messageID int64) (int, error) {
	if m.CountAfterFn != nil {
		return m.CountAfterFn(ctx, channelID, messageID)
	}
	return 0, nil
}

func (m *mockMessageRepo) GetAllByChannelID(ctx context.Context, channelID int64) ([]models.MessageWithAuthor, error) {
	if m.GetAllByChannelIDFn != nil {
		return m.GetAllByChannelIDFn(ctx, channelID)
	}
	return nil, nil
}

// mockAttachmentRepo implements database.AttachmentRepository.
type mockAttachmentRepo struct {
	CreateFn          func(ctx context.Context, attachment *models.Attachment) error
	GetByIDFn         func(ctx context.Context, id int64) (*models.Attachment, error)
	GetByMessageIDFn  func(ctx context.Context, messageID int64) ([]models.Attachment, error)
	GetByMessageIDsFn func(ctx context.Context, messageIDs []int64) (map[int64][]models.Attachment, error)
	BindToMessageFn   func(ctx context.Context, attachmentID, messageID int64) error
	DeleteFn          func(ctx context.Context, id int64) error
}

func (m *mockAttachmentRepo) Create(ctx context.Context, attachment *models.Attachment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, attachment)
	}
	return nil
}

func (m *mockAttachmentRepo) GetByID(ctx context.Context, id int64) (*models.Attachment, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockAttachmentRepo) GetByMessageID(ctx context.Context, messageID int64) ([]models.Attachment, error) {
	if m.GetByMessageIDFn != nil {
		return m.GetByMessageIDFn(ctx, messageID)
	}
	return nil, nil
}

func (m *mockAttachmentRepo) GetByMessageIDs(ctx context.Context, messageIDs []int64) (map[int64][]models.Attachment, error) {
	if m.GetByMessageIDsFn != nil {
		return m.GetByMessageIDsFn(ctx, messageIDs)
	}
	return map[int64][]models.Attachment{}, nil
}

func (m *mockAttachmentRepo) BindToMessage(ctx context.Context, attachmentID, messageID int64) error {
	if m.BindToMessageFn != nil {
		return m.BindToMessageFn(ctx, attachmentID, messageID)
	}
	return nil
}

func (m *mockAttachmentRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// mockDocumentRepo implements database.DocumentRepository.
type mockDocumentRepo struct {
	CreateFn          func(ctx context.Context, doc *models.Document) error
	GetByIDFn         func(ctx context.Context, id int64) (*models.Document, error)
	ListFn            func(ctx context.Context, category string, includeAdminOnly bool) ([]models.Document, error)
	UpdateVersionedFn func(ctx context.Context, doc *models.Document, expectedVersion int) (bool, error)
	DeleteFn          func(ctx context.Context, id int64) error
}

func (m *mockDocumentRepo) Create(ctx context.Context, doc *models.Document) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, doc)
	}
	return nil
}

func (m *mockDocumentRepo) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockDocumentRepo) List(ctx context.Context, category string, includeAdminOnly bool) ([]models.Document, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, category, includeAdminOnly)
	}
	return nil, nil
}

func (m *mockDocumentRepo) UpdateVersioned(ctx context.Context, doc *models.Document, expectedVersion int) (bool, error) {
	if m.UpdateVersionedFn != nil {
		return m.UpdateVersionedFn(ctx, doc, expectedVersion)
	}
	return true, nil
}

func (m *mockDocumentRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// mockDocumentReadRepo implements database.DocumentReadRepository.
type mockDocumentReadRepo struct {
	MarkScrolledFn     func(ctx context.Context, documentID, userID int64) error
	MarkConfirmedFn    func(ctx context.Context, documentID, userID int64) (bool, error)
	GetFn              func(ctx context.Context, documentID, userID int64) (*models.DocumentRead, error)
	GetReadersFn       func(ctx context.Context, documentID int64) ([]models.DocumentReader, error)
	CountUnconfirmedFn func(ctx context.Context, userID int64) (int, error)
}

func (m *mockDocumentReadRepo) MarkScrolled(ctx context.Context, documentID, userID int64) error {
	if m.MarkScrolledFn != nil {
		return m.MarkScrolledFn(ctx, documentID, userID)
	}
	return nil
}

func (m *mockDocumentReadRepo) MarkConfirmed(ctx context.Context, documentID, userID int64) (bool, error) {
	if m.MarkConfirmedFn != nil {
		return m.MarkConfirmedFn(ctx, documentID, userID)
	}
	return true, nil
}

func (m *mockDocumentReadRepo) Get(ctx context.Context, documentID, userID int64) (*models.DocumentRead, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, documentID, userID)
	}
	return nil, nil
}

func (m *mockDocumentReadRepo) GetReaders(ctx context.Context, documentID int64) ([]models.DocumentReader, error) {
	if m.GetReadersFn != nil {
		return m.GetReadersFn(ctx, documentID)
	}
	return nil, nil
}

func (m *mockDocumentReadRepo) CountUnconfirmed(ctx context.Context, userID int64) (int, error) {
	if m.CountUnconfirmedFn != nil {
		return m.CountUnconfirmedFn(ctx, userID)
	}
	return 0, nil
}

// mockAnnouncementRepo implements database.AnnouncementRepository.
type mockAnnouncementRepo struct {
	CreateFn      func(ctx context.Context, ann *models.Announcement) error
	GetByIDFn     func(ctx context.Context, id int64) (*models.Announcement, error)
	ListFn        func(ctx context.Context, userID int64, limit, offset int) ([]models.Announcement, error)
	UpdateFn      func(ctx context.Context, ann *models.Announcement) error
	DeleteFn      func(ctx context.Context, id int64) error
	MarkReadFn    func(ctx context.Context, announcementID, userID int64) error
	CountUnreadFn func(ctx context.Context, userID int64) (int, error)
}

func (m *mockAnnouncementRepo) Create(ctx context.Context, ann *models.Announcement) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, ann)
	}
	return nil
}

func (m *mockAnnouncementRepo) GetByID(ctx context.Context, id int64) (*models.Announcement, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockAnnouncementRepo) List(ctx context.Context, userID int64, limit, offset int) ([]models.Announcement, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, limit, offset)
	}
	return nil, nil
}

func (m *mockAnnouncementRepo) Update(ctx context.Context, ann *models.Announcement) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, ann)
	}
	return nil
}

func (m *mockAnnouncementRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *mockAnnouncementRepo) MarkRead(ctx context.Context, announcementID, userID int64) error {
	if m.MarkReadFn != nil {
		return m.MarkReadFn(ctx, announcementID, userID)
	}
	return nil
}

func (m *mockAnnouncementRepo) CountUnread(ctx context.Context, userID int64) (int, error) {
	if m.CountUnreadFn != nil {
		return m.CountUnreadFn(ctx, userID)
	}
	return 0, nil
}

// mockReadStateRepo implements database.ReadStateRepository.
type mockReadStateRepo struct {
	UpsertFn                func(ctx context.Context, userID, channelID, lastReadMessageID int64) error
	GetByUserFn             func(ctx context.Context, userID int64) ([]models.ReadState, error)
	GetByUserAndChannelFn   func(ctx context.Context, userID, channelID int64) (*models.ReadState, error)
	IncrementMentionCountFn func(ctx context.Context, userID, channelID int64) error
}

func (m *mockReadStateRepo) Upsert(ctx context.Context, userID, channelID, lastReadMessageID int64) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, userID, channelID, lastReadMessageID)
	}
	return nil
}

func (m *mockReadStateRepo) GetByUser(ctx context.Context, userID int64) ([]models.ReadState, error) {
	if m.GetByUserFn != nil {
		return m.GetByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockReadStateRepo) GetByUserAndChannel(ctx context.Context, userID, channelID int64) (*models.ReadState, error) {
	if m.GetByUserAndChannelFn != nil {
		return m.GetByUserAndChannelFn(ctx, userID, channelID)
	}
	return nil, nil
}

func (m *mockReadStateRepo) IncrementMentionCount(ctx context.Context, userID, channelID int64) error {
	if m.IncrementMentionCountFn != nil {
		return m.IncrementMentionCountFn(ctx, userID, channelID)
	}
	return nil
}

// mockInvitationRepo implements database.InvitationRepository.
type mockInvitationRepo struct {
	CreateFn       func(ctx context.Context, inv *models.Invitation) error
	GetByTokenFn   func(ctx context.Context, token string) (*models.Invitation, error)
	GetByIDFn      func(ctx context.Context, id int64) (*models.Invitation, error)
	ListFn         func(ctx context.Context) ([]models.Invitation, error)
	UpdateStatusFn func(ctx context.Context, id int64, to models.InvitationStatus, from ...models.InvitationStatus) (bool, error)
	DeleteFn       func(ctx context.Context, id int64) error
}

func (m *mockInvitationRepo) Create(ctx context.Context, inv *models.Invitation) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, inv)
	}
	return nil
}

func (m *mockInvitationRepo) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	if m.GetByTokenFn != nil {
		return m.GetByTokenFn(ctx, token)
	}
	return nil, nil
}

func (m *mockInvitationRepo) GetByID(ctx context.Context, id int64) (*models.Invitation, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockInvitationRepo) List(ctx context.Context) ([]models.Invitation, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

func (m *mockInvitationRepo) UpdateStatus(ctx context.Context, id int64, to models.InvitationStatus, from ...models.InvitationStatus) (bool, error) {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, to, from...)
	}
	return true, nil
}

func (m *mockInvitationRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// mockActivityRepo implements database.ActivityRepository.
type mockActivityRepo struct {
	CreateFn func(ctx context.Context, act *models.Activity) error
	ListFn   func(ctx context.Context, before *int64, limit int) ([]models.Activity, error)
}

func (m *mockActivityRepo) Create(ctx context.Context, act *models.Activity) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, act)
	}
	return nil
}

func (m *mockActivityRepo) List(ctx context.Context, before *int64, limit int) ([]models.Activity, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, before, limit)
	}
	return nil, nil
}
