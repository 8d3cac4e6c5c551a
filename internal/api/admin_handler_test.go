package api

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/drystore/nexus/internal/models"
	"github.com/drystore/nexus/internal/service"
)

func newTestAdminHandler(users *mockUserRepo, channels *mockChannelRepo, messages *mockMessageRepo) *AdminHandler {
	if users == nil {
		users = &mockUserRepo{}
	}
	if channels == nil {
		channels = &mockChannelRepo{}
	}
	if messages == nil {
		messages = &mockMessageRepo{}
	}
	userSvc := service.NewUserService(users, &mockProfileRepo{})
	exportSvc := service.NewExportService(channels, &mockDMRepo{}, messages)
	return NewAdminHandler(userSvc, exportSvc)
}

func TestExportChannel_CSV(t *testing.T) {
	channels := &mockChannelRepo{
		GetByIDFn: func(_ context.Context, id int64) (*models.Channel, error) {
			return &models.Channel{ID: id, Name: "general"}, nil
		},
	}
	edited := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	messages := &mockMessageRepo{
		GetAllByChannelIDFn: func(_ context.Context, channelID int64) ([]models.MessageWithAuthor, error) {
			return []models.MessageWithAuthor{
				{
					Message: models.Message{
						ID:        101,
						ChannelID: channelID,
						AuthorID:  10,
						Content:   "shipping today",
						Mentions: []models.Mention{
							{UserID: 20, DisplayName: "Bob Stone"},
							{UserID: 30, DisplayName: "Carol Reed"},
						},
						CreatedAt: time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
						EditedAt:  &edited,
					},
					AuthorUsername: "alice",
				},
			}, nil
		},
	}
	h := newTestAdminHandler(nil, channels, messages)

	c, rec := newTestContext(http.MethodGet, "/api/v1/admin/channels/5/export?format=csv", nil)
	c.SetParamNames("id")
	c.SetParamValues("5")
	setAuthAdmin(c, 1)

	if err := h.ExportChannel(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv" {
		t.Errorf("expected text/csv content type, got %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "channel-5-export.csv") {
		t.Errorf("unexpected content disposition: %q", got)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one record, got %d lines: %q", len(lines), rec.Body.String())
	}
	if lines[0] != "id,channel_id,author,created_at,edited,content,mentions" {
		t.Errorf("unexpected CSV header: %q", lines[0])
	}
	record := lines[1]
	for _, want := range []string{"alice", "2026-03-01T12:30:00Z", "true", "shipping today", "Bob Stone;Carol Reed"} {
		if !strings.Contains(record, want) {
			t.Errorf("expected record to contain %q, got %q", want, record)
		}
	}
}

func TestExportChannel_InvalidFormat(t *testing.T) {
	h := newTestAdminHandler(nil, nil, nil)

	c, rec := newTestContext(http.MethodGet, "/api/v1/admin/channels/5/export?format=xml", nil)
	c.SetParamNames("id")
	c.SetParamValues("5")
	setAuthAdmin(c, 1)

	if err := h.ExportChannel(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); got != "" {
		t.Errorf("expected no content disposition on failure, got %q", got)
	}
}

func TestExportChannel_UnknownChannel(t *testing.T) {
	h := newTestAdminHandler(nil, nil, nil)

	c, rec := newTestContext(http.MethodGet, "/api/v1/admin/channels/5/export", nil)
	c.SetParamNames("id")
	c.SetParamValues("5")
	setAuthAdmin(c, 1)

	if err := h.ExportChannel(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestAdminUpdateUser_SelfDeactivationRejected(t *testing.T) {
	users := &mockUserRepo{
		GetByIDFn: func(_ context.Context, id int64) (*models.User, error) {
			return &models.User{ID: id, Username: "admin", IsAdmin: true}, nil
		},
	}
	h := newTestAdminHandler(users, nil, nil)

	body := strings.NewReader(`{"deactivated":true}`)
	c, rec := newTestContext(http.MethodPatch, "/api/v1/admin/users/1", body)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setAuthAdmin(c, 1)

	if err := h.UpdateUser(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestAdminUpdateUser_DeactivatesOther(t *testing.T) {
	var updated *models.User
	users := &mockUserRepo{
		GetByIDFn: func(_ context.Context, id int64) (*models.User, error) {
			return &models.User{ID: id, Username: "bob"}, nil
		},
		UpdateFn: func(_ context.Context, user *models.User) error {
			updated = user
			return nil
		},
	}
	h := newTestAdminHandler(users, nil, nil)

	body := strings.NewReader(`{"deactivated":true}`)
	c, rec := newTestContext(http.MethodPatch, "/api/v1/admin/users/2", body)
	c.SetParamNames("id")
	c.SetParamValues("2")
	setAuthAdmin(c, 1)

	if err := h.UpdateUser(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if updated == nil || updated.DeactivatedAt == nil {
		t.Fatalf("expected user persisted as deactivated, got %+v", updated)
	}
}

func TestAdminListUsers_ExcludesDeactivatedByDefault(t *testing.T) {
	var askedInclude bool
	users := &mockUserRepo{
		ListFn: func(_ context.Context, includeDeactivated bool, _, _ int) ([]models.User, error) {
			askedInclude = includeDeactivated
			return []models.User{{ID: 1, Username: "admin"}}, nil
		},
	}
	h := newTestAdminHandler(users, nil, nil)

	c, rec := newTestContext(http.MethodGet, "/api/v1/admin/users", nil)
	setAuthAdmin(c, 1)

	if err := h.ListUsers(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if askedInclude {
		t.Error("expected deactivated accounts excluded without the query flag")
	}
}
