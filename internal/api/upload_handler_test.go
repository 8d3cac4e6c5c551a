package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/drystore/nexus/internal/models"
	"github.com/drystore/nexus/internal/service"
)

type uploadHandlerDeps struct {
	attachments *mockAttachmentRepo
	profiles    *mockProfileRepo
	storage     *mockStorage
}

func newTestUploadHandler(deps uploadHandlerDeps) *UploadHandler {
	if deps.attachments == nil {
		deps.attachments = &mockAttachmentRepo{}
	}
	if deps.profiles == nil {
		deps.profiles = &mockProfileRepo{}
	}
	if deps.storage == nil {
		deps.storage = &mockStorage{}
	}
	svc := service.NewUploadService(
		deps.attachments, deps.profiles, &mockDocumentRepo{}, &mockAnnouncementRepo{},
		deps.storage, testSnowflake(),
	)
	return NewUploadHandler(svc)
}

func newMultipartContext(t *testing.T, path, filename, contentType string, content []byte) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to build multipart body: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write multipart body: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart body: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestUploadAttachment_StoresObjectAndRow(t *testing.T) {
	var created *models.Attachment
	attachments := &mockAttachmentRepo{
		CreateFn: func(_ context.Context, att *models.Attachment) error {
			created = att
			return nil
		},
	}
	storage := &mockStorage{}
	h := newTestUploadHandler(uploadHandlerDeps{attachments: attachments, storage: storage})

	c, rec := newMultipartContext(t, "/api/v1/uploads/attachments", "report.pdf", "application/pdf", []byte("%PDF-1.7 fake"))
	setAuthUser(c, 10)

	if err := h.UploadAttachment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	if created == nil {
		t.Fatal("expected attachment row created")
	}
	if created.Filename != "report.pdf" || created.UploaderID != 10 {
		t.Errorf("unexpected attachment row: %+v", created)
	}
	if created.MessageID != nil {
		t.Error("expected attachment unbound until message send")
	}
	if got, ok := storage.objects[created.StorageKey]; !ok || string(got) != "%PDF-1.7 fake" {
		t.Errorf("expected object stored under %q", created.StorageKey)
	}
}

func TestUploadAttachment_EmptyFileRejected(t *testing.T) {
	h := newTestUploadHandler(uploadHandlerDeps{})

	c, rec := newMultipartContext(t, "/api/v1/uploads/attachments", "empty.txt", "text/plain", nil)
	setAuthUser(c, 10)

	if err := h.UploadAttachment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d for empty file, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestUploadAvatar_RejectsNonImage(t *testing.T) {
	profiles := &mockProfileRepo{
		GetByUserIDFn: func(_ context.Context, userID int64) (*models.Profile, error) {
			return &models.Profile{UserID: userID, DisplayName: "Alice"}, nil
		},
	}
	h := newTestUploadHandler(uploadHandlerDeps{profiles: profiles})

	c, rec := newMultipartContext(t, "/api/v1/users/@me/avatar", "avatar.pdf", "application/pdf", []byte("nope"))
	setAuthUser(c, 10)

	if err := h.UploadAvatar(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d for non-image avatar, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestUploadAvatar_ReplacesOldObject(t *testing.T) {
	oldKey := "avatars/10/old.png"
	var updated *models.Profile
	profiles := &mockProfileRepo{
		GetByUserIDFn: func(_ context.Context, userID int64) (*models.Profile, error) {
			return &models.Profile{UserID: userID, DisplayName: "Alice", AvatarKey: &oldKey}, nil
		},
		UpdateFn: func(_ context.Context, profile *models.Profile) error {
			updated = profile
			return nil
		},
	}
	storage := &mockStorage{objects: map[string][]byte{oldKey: []byte("old")}}
	h := newTestUploadHandler(uploadHandlerDeps{profiles: profiles, storage: storage})

	c, rec := newMultipartContext(t, "/api/v1/users/@me/avatar", "avatar.png", "image/png", []byte("new-image"))
	setAuthUser(c, 10)

	if err := h.UploadAvatar(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	if updated == nil || updated.AvatarKey == nil || *updated.AvatarKey == oldKey {
		t.Fatalf("expected profile updated with a fresh avatar key, got %+v", updated)
	}
	if _, ok := storage.objects[oldKey]; ok {
		t.Error("expected the old avatar object deleted")
	}
	if !strings.HasPrefix(*updated.AvatarKey, "avatars/10/") {
		t.Errorf("unexpected avatar key: %q", *updated.AvatarKey)
	}
}

func TestGetDownloadURL_Presigned(t *testing.T) {
	attachments := &mockAttachmentRepo{
		GetByIDFn: func(_ context.Context, id int64) (*models.Attachment, error) {
			return &models.Attachment{ID: id, Filename: "report.pdf", StorageKey: "attachments/10/report.pdf"}, nil
		},
	}
	h := newTestUploadHandler(uploadHandlerDeps{attachments: attachments})

	c, rec := newTestContext(http.MethodGet, "/api/v1/attachments/7/url", nil)
	c.SetParamNames("id")
	c.SetParamValues("7")
	setAuthUser(c, 10)

	if err := h.GetDownloadURL(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "signed=1") {
		t.Errorf("expected a presigned URL in the response, got %s", rec.Body.String())
	}
}

func TestGetDownloadURL_UnknownAttachment(t *testing.T) {
	h := newTestUploadHandler(uploadHandlerDeps{})

	c, rec := newTestContext(http.MethodGet, "/api/v1/attachments/7/url", nil)
	c.SetParamNames("id")
	c.SetParamValues("7")
	setAuthUser(c, 10)

	if err := h.GetDownloadURL(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}
