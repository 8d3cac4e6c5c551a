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

// DocumentService manages knowledge-base documents, their optimistic
// version control and the read-confirmation flow.
type DocumentService struct {
	documents  database.DocumentRepository
	reads      database.DocumentReadRepository
	activities database.ActivityRepository
	snowflake  *snowflake.Generator
	dispatcher gateway.Dispatcher
}

func NewDocumentService(
	documents database.DocumentRepository,
	reads database.DocumentReadRepository,
	activities database.ActivityRepository,
	gen *snowflake.Generator,
	dispatcher gateway.Dispatcher,
) *DocumentService {
	return &DocumentService{
		documents:  documents,
		reads:      reads,
		activities: activities,
		snowflake:  gen,
		dispatcher: dispatcher,
	}
}

// DocumentInput carries the writable document fields.
type DocumentInput struct {
	Title                string                    `json:"title"`
	Content              string                    `json:"content"`
	Category             string                    `json:"category"`
	Tags                 []string                  `json:"tags"`
	Visibility           models.DocumentVisibility `json:"visibility"`
	RequiresConfirmation bool                      `json:"requires_confirmation"`
}

func (in *DocumentInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || len(in.Title) > 200 {
		return BadRequest("INVALID_TITLE", "title must be 1-200 characters")
	}
	if in.Visibility == "" {
		in.Visibility = models.VisibilityEveryone
	}
	if !in.Visibility.Valid() {
		return BadRequest("INVALID_VISIBILITY", "visibility must be everyone or admins")
	}
	if in.Tags == nil {
		in.Tags = []string{}
	}
	return nil
}

// Create creates a document at version 1.
func (s *DocumentService) Create(ctx context.Context, authorID int64, in DocumentInput) (*models.Document, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	doc := &models.Document{
		ID:                   s.snowflake.Generate().Int64(),
		Title:                in.Title,
		Content:              in.Content,
		Category:             in.Category,
		Tags:                 in.Tags,
		Visibility:           in.Visibility,
		RequiresConfirmation: in.RequiresConfirmation,
		AuthorID:             authorID,
		LastEditorID:         authorID,
		Version:              1,
	}
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt

	if err := s.documents.Create(ctx, doc); err != nil {
		slog.Error("failed to create document", "error", err)
		return nil, Internal("DB_ERROR", "failed to create document")
	}

	s.recordActivity(ctx, authorID, models.ActivityDocumentCreated, doc.ID)
	return doc, nil
}

// Get returns a document the user may see. Admin-only documents are hidden
// from regular users as if they did not exist.
func (s *DocumentService) Get(ctx context.Context, documentID, userID int64, isAdmin bool) (*models.Document, error) {
	doc, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		slog.Error("failed to get document", "documentID", documentID, "error", err)
		return nil, Internal("DB_ERROR", "failed to get document")
	}
	if doc == nil || (doc.Visibility == models.VisibilityAdmins && !isAdmin) {
		return nil, NotFound("DOCUMENT_NOT_FOUND", "document not found")
	}
	return doc, nil
}

// List returns visible documents, optionally filtered by category.
func (s *DocumentService) List(ctx context.Context, category string, isAdmin bool) ([]models.Document, error) {
	docs, err := s.documents.List(ctx, category, isAdmin)
	if err != nil {
		slog.Error("failed to list documents", "error", err)
		return nil, Internal("DB_ERROR", "failed to list documents")
	}
	return docs, nil
}

// Update saves a new revision. expectedVersion must match the stored
// version or the save is rejected with a conflict, so a stale editor never
// silently overwrites someone else's revision.
func (s *DocumentService) Update(ctx context.Context, documentID, editorID int64, isAdmin bool, expectedVersion int, in DocumentInput) (*models.Document, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if expectedVersion < 1 {
		return nil, BadRequest("INVALID_VERSION", "version must be provided")
	}

	doc, err := s.Get(ctx, documentID, editorID, isAdmin)
	if err != nil {
		return nil, err
	}

	doc.Title = in.Title
	doc.Content = in.Content
	doc.Category = in.Category
	doc.Tags = in.Tags
	doc.Visibility = in.Visibility
	doc.RequiresConfirmation = in.RequiresConfirmation
	doc.LastEditorID = editorID

	applied, err := s.documents.UpdateVersioned(ctx, doc, expectedVersion)
	if err != nil {
		slog.Error("failed to update document", "documentID", documentID, "error", err)
		return nil, Internal("DB_ERROR", "failed to update document")
	}
	if !applied {
		return nil, Conflict("VERSION_CONFLICT", "document was modified by someone else, reload and retry")
	}
	doc.Version = expectedVersion + 1
	doc.UpdatedAt = time.Now()

	s.recordActivity(ctx, editorID, models.ActivityDocumentUpdated, doc.ID)
	s.dispatcher.DispatchToAll(gateway.EventDocumentUpdate, doc)
	return doc, nil
}

// Delete removes a document. Site admin only.
func (s *DocumentService) Delete(ctx context.Context, documentID int64) error {
	doc, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		return Internal("DB_ERROR", "failed to delete document")
	}
	if doc == nil {
		return NotFound("DOCUMENT_NOT_FOUND", "document not found")
	}
	if err := s.documents.Delete(ctx, documentID); err != nil {
		slog.Error("failed to delete document", "documentID", documentID, "error", err)
		return Internal("DB_ERROR", "failed to delete document")
	}
	return nil
}

// MarkScrolled records that the user reached the end of the document.
// Idempotent, the first scroll timestamp is kept.
func (s *DocumentService) MarkScrolled(ctx context.Context, documentID, userID int64, isAdmin bool) error {
	if _, err := s.Get(ctx, documentID, userID, isAdmin); err != nil {
		return err
	}

	if err := s.reads.MarkScrolled(ctx, documentID, userID); err != nil {
		slog.Error("failed to mark scrolled", "documentID", documentID, "userID", userID, "error", err)
		return Internal("DB_ERROR", "failed to record reading progress")
	}
	return nil
}

// Confirm records the user's read confirmation. It is rejected unless the
// user has scrolled to the end first; confirming twice keeps the original
// timestamp.
func (s *DocumentService) Confirm(ctx context.Context, documentID, userID int64, isAdmin bool) error {
	doc, err := s.Get(ctx, documentID, userID, isAdmin)
	if err != nil {
		return err
	}
	if !doc.RequiresConfirmation {
		return BadRequest("NO_CONFIRMATION", "this document does not require confirmation")
	}

	confirmed, err := s.reads.MarkConfirmed(ctx, documentID, userID)
	if err != nil {
		slog.Error("failed to confirm read", "documentID", documentID, "userID", userID, "error", err)
		return Internal("DB_ERROR", "failed to confirm reading")
	}
	if !confirmed {
		return Conflict("NOT_SCROLLED", "you must read to the end before confirming")
	}
	return nil
}

// ReadProgress returns the user's own read row for a document, which may
// be nil if they never opened it.
func (s *DocumentService) ReadProgress(ctx context.Context, documentID, userID int64, isAdmin bool) (*models.DocumentRead, error) {
	if _, err := s.Get(ctx, documentID, userID, isAdmin); err != nil {
		return nil, err
	}

	read, err := s.reads.Get(ctx, documentID, userID)
	if err != nil {
		return nil, Internal("DB_ERROR", "failed to get reading progress")
	}
	return read, nil
}

// Readers returns the per-user read report for a document. Site admin only.
func (s *DocumentService) Readers(ctx context.Context, documentID int64) ([]models.DocumentReader, error) {
	doc, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, Internal("DB_ERROR", "failed to get readers")
	}
	if doc == nil {
		return nil, NotFound("DOCUMENT_NOT_FOUND", "document not found")
	}

	readers, err := s.reads.GetReaders(ctx, documentID)
	if err != nil {
		slog.Error("failed to get readers", "documentID", documentID, "error", err)
		return nil, Internal("DB_ERROR", "failed to get readers")
	}
	return readers, nil
}

func (s *DocumentService) recordActivity(ctx context.Context, actorID int64, kind models.ActivityKind, subjectID int64) {
	act := &models.Activity{
		ID:        s.snowflake.Generate().Int64(),
		ActorID:   actorID,
		Kind:      kind,
		SubjectID: subjectID,
		CreatedAt: time.Now(),
	}
	if err := s.activities.Create(ctx, act); err != nil {
		slog.Error("failed to record activity", "kind", kind, "error", err)
	}
}
