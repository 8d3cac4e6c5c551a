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

// AnnouncementService manages company-wide announcements.
type AnnouncementService struct {
	announcements database.AnnouncementRepository
	activities    database.ActivityRepository
	snowflake     *snowflake.Generator
	dispatcher    gateway.Dispatcher
}

func NewAnnouncementService(
	announcements database.AnnouncementRepository,
	activities database.ActivityRepository,
	gen *snowflake.Generator,
	dispatcher gateway.Dispatcher,
) *AnnouncementService {
	return &AnnouncementService{
		announcements: announcements,
		activities:    activities,
		snowflake:     gen,
		dispatcher:    dispatcher,
	}
}

// AnnouncementInput carries the writable announcement fields.
type AnnouncementInput struct {
	Title    string          `json:"title"`
	Content  string          `json:"content"`
	Priority models.Priority `json:"priority"`
	Pinned   bool            `json:"pinned"`
	Category string          `json:"category"`
}

func (in *AnnouncementInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || len(in.Title) > 200 {
		return BadRequest("INVALID_TITLE", "title must be 1-200 characters")
	}
	if in.Priority == "" {
		in.Priority = models.PriorityNormal
	}
	if !in.Priority.Valid() {
		return BadRequest("INVALID_PRIORITY", "priority must be urgent, important, normal or info")
	}
	return nil
}

// Create publishes an announcement to every user. Site admin only.
func (s *AnnouncementService) Create(ctx context.Context, authorID int64, in AnnouncementInput) (*models.Announcement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	ann := &models.Announcement{
		ID:          s.snowflake.Generate().Int64(),
		Title:       in.Title,
		Content:     in.Content,
		Priority:    in.Priority,
		Pinned:      in.Pinned,
		Category:    in.Category,
		AuthorID:    authorID,
		PublishedAt: time.Now(),
	}

	if err := s.announcements.Create(ctx, ann); err != nil {
		slog.Error("failed to create announcement", "error", err)
		return nil, Internal("DB_ERROR", "failed to create announcement")
	}

	s.recordActivity(ctx, authorID, ann.ID)
	s.dispatcher.DispatchToAll(gateway.EventAnnouncementCreate, ann)
	return ann, nil
}

// Get returns one announcement.
func (s *AnnouncementService) Get(ctx context.Context, announcementID int64) (*models.Announcement, error) {
	ann, err := s.announcements.GetByID(ctx, announcementID)
	if err != nil {
		slog.Error("failed to get announcement", "announcementID", announcementID, "error", err)
		return nil, Internal("DB_ERROR", "failed to get announcement")
	}
	if ann == nil {
		return nil, NotFound("ANNOUNCEMENT_NOT_FOUND", "announcement not found")
	}
	return ann, nil
}

// List returns announcements newest first, pinned entries on top, with the
// caller's read flag resolved.
func (s *AnnouncementService) List(ctx context.Context, userID int64, limit, offset int) ([]models.Announcement, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	anns, err := s.announcements.List(ctx, userID, limit, offset)
	if err != nil {
		slog.Error("failed to list announcements", "error", err)
		return nil, Internal("DB_ERROR", "failed to list announcements")
	}
	return anns, nil
}

// Update edits an announcement. Site admin only.
func (s *AnnouncementService) Update(ctx context.Context, announcementID int64, in AnnouncementInput) (*models.Announcement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	ann, err := s.Get(ctx, announcementID)
	if err != nil {
		return nil, err
	}

	ann.Title = in.Title
	ann.Content = in.Content
	ann.Priority = in.Priority
	ann.Pinned = in.Pinned
	ann.Category = in.Category

	if err := s.announcements.Update(ctx, ann); err != nil {
		slog.Error("failed to update announcement", "announcementID", announcementID, "error", err)
		return nil, Internal("DB_ERROR", "failed to update announcement")
	}
	return ann, nil
}

// Delete removes an announcement. Site admin only.
func (s *AnnouncementService) Delete(ctx context.Context, announcementID int64) error {
	if _, err := s.Get(ctx, announcementID); err != nil {
		return err
	}
	if err := s.announcements.Delete(ctx, announcementID); err != nil {
		slog.Error("failed to delete announcement", "announcementID", announcementID, "error", err)
		return Internal("DB_ERROR", "failed to delete announcement")
	}
	return nil
}

// MarkRead records that the user saw the announcement. Idempotent.
func (s *AnnouncementService) MarkRead(ctx context.Context, announcementID, userID int64) error {
	if _, err := s.Get(ctx, announcementID); err != nil {
		return err
	}
	if err := s.announcements.MarkRead(ctx, announcementID, userID); err != nil {
		slog.Error("failed to mark announcement read", "announcementID", announcementID, "userID", userID, "error", err)
		return Internal("DB_ERROR", "failed to mark announcement read")
	}
	return nil
}

func (s *AnnouncementService) recordActivity(ctx context.Context, actorID, subjectID int64) {
	act := &models.Activity{
		ID:        s.snowflake.Generate().Int64(),
		ActorID:   actorID,
		Kind:      models.ActivityAnnouncementMade,
		SubjectID: subjectID,
		CreatedAt: time.Now(),
	}
	if err := s.activities.Create(ctx, act); err != nil {
		slog.Error("failed to record activity", "kind", models.ActivityAnnouncementMade, "error", err)
	}
}
