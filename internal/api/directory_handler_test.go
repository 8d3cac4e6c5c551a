package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/drystore/nexus/internal/models"
	"github.com/drystore/nexus/internal/service"
)

func newTestDirectoryHandler(profiles *mockProfileRepo, positions *mockPositionRepo) *DirectoryHandler {
	if profiles == nil {
		profiles = &mockProfileRepo{}
	}
	if positions == nil {
		positions = &mockPositionRepo{}
	}
	svc := service.NewDirectoryService(profiles, positions, testSnowflake())
	return NewDirectoryHandler(svc)
}

func TestDirectorySearch_PassesQuery(t *testing.T) {
	var gotQuery string
	profiles := &mockProfileRepo{
		DirectoryFn: func(_ context.Context, query string, _, _ int) ([]models.DirectoryEntry, error) {
			gotQuery = query
			title := "Platform Engineer"
			return []models.DirectoryEntry{
				{
					Profile:  models.Profile{UserID: 10, DisplayName: "Alice Chen"},
					Username: "alice",
					Email:    "alice@example.com",
					Title:    &title,
				},
			}, nil
		},
	}
	h := newTestDirectoryHandler(profiles, nil)

	c, rec := newTestContext(http.MethodGet, "/api/v1/directory?q=alice", nil)
	setAuthUser(c, 10)

	if err := h.Search(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if gotQuery != "alice" {
		t.Errorf("expected query %q forwarded, got %q", "alice", gotQuery)
	}

	var entries []models.DirectoryEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(entries) != 1 || entries[0].DisplayName != "Alice Chen" {
		t.Errorf("unexpected entries: %s", rec.Body.String())
	}
}

func TestCreatePosition_Success(t *testing.T) {
	var created *models.Position
	positions := &mockPositionRepo{
		CreateFn: func(_ context.Context, pos *models.Position) error {
			created = pos
			return nil
		},
	}
	h := newTestDirectoryHandler(nil, positions)

	body := strings.NewReader(`{"title":"Platform Engineer","department":"Infrastructure"}`)
	c, rec := newTestContext(http.MethodPost, "/api/v1/directory/positions", body)
	setAuthAdmin(c, 1)

	if err := h.CreatePosition(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	if created == nil || created.Title != "Platform Engineer" || created.Department != "Infrastructure" {
		t.Fatalf("unexpected position: %+v", created)
	}
	if created.ID == 0 {
		t.Error("expected a generated position ID")
	}
}

func TestCreatePosition_TitleRequired(t *testing.T) {
	h := newTestDirectoryHandler(nil, nil)

	body := strings.NewReader(`{"department":"Infrastructure"}`)
	c, rec := newTestContext(http.MethodPost, "/api/v1/directory/positions", body)
	setAuthAdmin(c, 1)

	if err := h.CreatePosition(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestUpdatePosition_Unknown(t *testing.T) {
	h := newTestDirectoryHandler(nil, nil)

	body := strings.NewReader(`{"title":"Staff Engineer"}`)
	c, rec := newTestContext(http.MethodPatch, "/api/v1/directory/positions/9", body)
	c.SetParamNames("id")
	c.SetParamValues("9")
	setAuthAdmin(c, 1)

	if err := h.UpdatePosition(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestDeletePosition_Success(t *testing.T) {
	var deleted int64
	positions := &mockPositionRepo{
		GetByIDFn: func(_ context.Context, id int64) (*models.Position, error) {
			return &models.Position{ID: id, Title: "Platform Engineer"}, nil
		},
		DeleteFn: func(_ context.Context, id int64) error {
			deleted = id
			return nil
		},
	}
	h := newTestDirectoryHandler(nil, positions)

	c, rec := newTestContext(http.MethodDelete, "/api/v1/directory/positions/9", nil)
	c.SetParamNames("id")
	c.SetParamValues("9")
	setAuthAdmin(c, 1)

	if err := h.DeletePosition(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
	if deleted != 9 {
		t.Errorf("expected position 9 deleted, got %d", deleted)
	}
}
