package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/drystore/nexus/internal/database"
	"github.com/drystore/nexus/internal/models"
	"github.com/drystore/nexus/internal/snowflake"
)

const (
	maxAttachmentSize = 25 << 20 // 25 MiB
	maxImageSize      = 5 << 20  // 5 MiB

	presignExpiry = 15 * time.Minute
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// FileStorage abstracts the object store so upload flows are testable
// without MinIO.
type FileStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	GetURL(key string) string
	PresignedURL(ctx context.Context, key, filename string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// UploadService stores files in the object store and records attachment
// rows. Message attachments are uploaded first and bound to the message on
// send; document and announcement files bind immediately.
type UploadService struct {
	attachments   database.AttachmentRepository
	profiles      database.ProfileRepository
	documents     database.DocumentRepository
	announcements database.AnnouncementRepository
	storage       FileStorage
	snowflake     *snowflake.Generator
}

func NewUploadService(
	attachments database.AttachmentRepository,
	profiles database.ProfileRepository,
	documents database.DocumentRepository,
	announcements database.AnnouncementRepository,
	storage FileStorage,
	gen *snowflake.Generator,
) *UploadService {
	return &UploadService{
		attachments:   attachments,
		profiles:      profiles,
		documents:     documents,
		announcements: announcements,
		storage:       storage,
		snowflake:     gen,
	}
}

// UploadAttachment stores a file for later binding to a message.
func (s *UploadService) UploadAttachment(ctx context.Context, uploaderID int64, filename, contentType string, size int64, reader io.Reader) (*models.Attachment, error) {
	if err := validateFile(filename, size, maxAttachmentSize); err != nil {
		return nil, err
	}
	return s.storeAttachment(ctx, uploaderID, filename, contentType, size, reader, nil, nil)
}

// UploadDocumentAttachment stores a file bound to a document.
func (s *UploadService) UploadDocumentAttachment(ctx context.Context, uploaderID, documentID int64, filename, contentType string, size int64, reader io.Reader) (*models.Attachment, error) {
	if err := validateFile(filename, size, maxAttachmentSize); err != nil {
		return nil, err
	}

	doc, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, Internal("DB_ERROR", "failed to upload file")
	}
	if doc == nil {
		return nil, NotFound("DOCUMENT_NOT_FOUND", "document not found")
	}
	return s.storeAttachment(ctx, uploaderID, filename, contentType, size, reader, &documentID, nil)
}

// UploadAvatar stores a profile picture and points the profile at it.
func (s *UploadService) UploadAvatar(ctx context.Context, userID int64, filename, contentType string, size int64, reader io.Reader) (*models.Profile, error) {
	if err := validateFile(filename, size, maxImageSize); err != nil {
		return nil, err
	}
	if !allowedImageTypes[contentType] {
		return nil, BadRequest("INVALID_IMAGE", "avatar must be a jpeg, png, gif or webp image")
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, Internal("DB_ERROR", "failed to upload avatar")
	}
	if profile == nil {
		return nil, NotFound("PROFILE_NOT_FOUND", "profile not found")
	}

	key := fmt.Sprintf("avatars/%d/%s%s", userID, uuid.NewString(), path.Ext(filename))
	if err := s.storage.Upload(ctx, key, reader, size, contentType); err != nil {
		slog.Error("failed to store avatar", "userID", userID, "error", err)
		return nil, Internal("STORAGE_ERROR", "failed to upload avatar")
	}

	old := profile.AvatarKey
	profile.AvatarKey = &key
	if err := s.profiles.Update(ctx, profile); err != nil {
		slog.Error("failed to update profile", "userID", userID, "error", err)
		return nil, Internal("DB_ERROR", "failed to upload avatar")
	}

	if old != nil {
		if err := s.storage.Delete(ctx, *old); err != nil {
			slog.Warn("failed to delete old avatar", "key", *old, "error", err)
		}
	}

	profile.AvatarURL = s.storage.GetURL(key)
	return profile, nil
}

// UploadAnnouncementImage stores an announcement header image.
func (s *UploadService) UploadAnnouncementImage(ctx context.Context, announcementID int64, filename, contentType string, size int64, reader io.Reader) (*models.Announcement, error) {
	if err := validateFile(filename, size, maxImageSize); err != nil {
		return nil, err
	}
	if !allowedImageTypes[contentType] {
		return nil, BadRequest("INVALID_IMAGE", "image must be a jpeg, png, gif or webp image")
	}

	ann, err := s.announcements.GetByID(ctx, announcementID)
	if err != nil {
		return nil, Internal("DB_ERROR", "failed to upload image")
	}
	if ann == nil {
		return nil, NotFound("ANNOUNCEMENT_NOT_FOUND", "announcement not found")
	}

	key := fmt.Sprintf("announcements/%d/%s%s", announcementID, uuid.NewString(), path.Ext(filename))
	if err := s.storage.Upload(ctx, key, reader, size, contentType); err != nil {
		slog.Error("failed to store image", "announcementID", announcementID, "error", err)
		return nil, Internal("STORAGE_ERROR", "failed to upload image")
	}

	ann.ImageKey = &key
	if err := s.announcements.Update(ctx, ann); err != nil {
		return nil, Internal("DB_ERROR", "failed to upload image")
	}

	ann.ImageURL = s.storage.GetURL(key)
	return ann, nil
}

// DownloadURL returns a time-limited download link for an attachment.
func (s *UploadService) DownloadURL(ctx context.Context, attachmentID int64) (string, error) {
	att, err := s.attachments.GetByID(ctx, attachmentID)
	if err != nil {
		return "", Internal("DB_ERROR", "failed to get attachment")
	}
	if att == nil {
		return "", NotFound("ATTACHMENT_NOT_FOUND", "attachment not found")
	}

	url, err := s.storage.PresignedURL(ctx, att.StorageKey, att.Filename, presignExpiry)
	if err != nil {
		slog.Error("failed to presign attachment", "attachmentID", attachmentID, "error", err)
		return "", Internal("STORAGE_ERROR", "failed to generate download link")
	}
	return url, nil
}

func (s *UploadService) storeAttachment(ctx context.Context, uploaderID int64, filename, contentType string, size int64, reader io.Reader, documentID, announcementID *int64) (*models.Attachment, error) {
	key := fmt.Sprintf("attachments/%s/%s", uuid.NewString(), filename)
	if err := s.storage.Upload(ctx, key, reader, size, contentType); err != nil {
		slog.Error("failed to store attachment", "error", err)
		return nil, Internal("STORAGE_ERROR", "failed to upload file")
	}

	att := &models.Attachment{
		ID:             s.snowflake.Generate().Int64(),
		DocumentID:     documentID,
		AnnouncementID: announcementID,
		Filename:       filename,
		ContentType:    contentType,
		Size:           size,
		StorageKey:     key,
		UploaderID:     uploaderID,
	}
	if err := s.attachments.Create(ctx, att); err != nil {
		slog.Error("failed to record attachment", "error", err)
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			slog.Warn("failed to clean up object", "key", key, "error", delErr)
		}
		return nil, Internal("DB_ERROR", "failed to upload file")
	}

	att.URL = s.storage.GetURL(key)
	return att, nil
}

func validateFile(filename string, size, maxSize int64) error {
	if filename == "" {
		return BadRequest("MISSING_FILENAME", "filename is required")
	}
	if size <= 0 {
		return BadRequest("EMPTY_FILE", "file is empty")
	}
	if size > maxSize {
		return BadRequest("FILE_TOO_LARGE", "file exceeds the maximum allowed size")
	}
	return nil
}
