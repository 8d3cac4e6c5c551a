package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/drystore/nexus/internal/auth"
	"github.com/drystore/nexus/internal/models"
	redisclient "github.com/drystore/nexus/internal/redis"
	"github.com/drystore/nexus/internal/service"
)

func newTestRedis(t *testing.T) *redisclient.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := redisclient.NewClient("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("creating test redis client: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func newTestAuthHandler(t *testing.T, users *mockUserRepo) *AuthHandler {
	t.Helper()
	rdb := newTestRedis(t)
	tokens := auth.NewTokenService("test-secret")
	svc := service.NewAuthService(users, &mockChannelRepo{}, &mockMemberRepo{}, tokens, rdb)
	return NewAuthHandler(svc)
}

func testUserWithPassword(t *testing.T, id int64, username, password string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	return &models.User{ID: id, Username: username, Email: username + "@example.com", PasswordHash: hash}
}

func TestLogin_Success(t *testing.T) {
	user := testUserWithPassword(t, 1, "alice", "password123")
	users := &mockUserRepo{
		GetByUsernameFn: func(_ context.Context, username string) (*models.User, error) {
			if username == "alice" {
				return user, nil
			}
			return nil, nil
		},
	}
	h := newTestAuthHandler(t, users)

	body := strings.NewReader(`{"username":"alice","password":"password123"}`)
	c, rec := newTestContext(http.MethodPost, "/api/v1/auth/login", body)

	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp service.TokenPair
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("expected non-empty access_token")
	}
	if resp.RefreshToken == "" {
		t.Error("expected non-empty refresh_token")
	}
	if resp.User == nil || resp.User.Username != "alice" {
		t.Errorf("unexpected user in response: %+v", resp.User)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	user := testUserWithPassword(t, 1, "alice", "password123")
	users := &mockUserRepo{
		GetByUsernameFn: func(_ context.Context, _ string) (*models.User, error) {
			return user, nil
		},
	}
	h := newTestAuthHandler(t, users)

	body := strings.NewReader(`{"username":"alice","password":"wrong"}`)
	c, rec := newTestContext(http.MethodPost, "/api/v1/auth/login", body)

	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	h := newTestAuthHandler(t, &mockUserRepo{})

	body := strings.NewReader(`{"username":"ghost","password":"password123"}`)
	c, rec := newTestContext(http.MethodPost, "/api/v1/auth/login", body)

	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	user := testUserWithPassword(t, 1, "alice", "password123")
	deactivated := time.Now()
	user.DeactivatedAt = &deactivated

	users := &mockUserRepo{
		GetByUsernameFn: func(_ context.Context, _ string) (*models.User, error) {
			return user, nil
		},
	}
	h := newTestAuthHandler(t, users)

	body := strings.NewReader(`{"username":"alice","password":"password123"}`)
	c, rec := newTestContext(http.MethodPost, "/api/v1/auth/login", body)

	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d for deactivated account, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	user := testUserWithPassword(t, 1, "alice", "password123")
	users := &mockUserRepo{
		GetByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return user, nil },
		GetByIDFn:       func(_ context.Context, _ int64) (*models.User, error) { return user, nil },
	}
	h := newTestAuthHandler(t, users)

	// Log in to obtain a refresh token.
	body := strings.NewReader(`{"username":"alice","password":"password123"}`)
	c, rec := newTestContext(http.MethodPost, "/api/v1/auth/login", body)
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var login service.TokenPair
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}

	// First refresh succeeds.
	body = strings.NewReader(`{"refresh_token":"` + login.RefreshToken + `"}`)
	c, rec = newTestContext(http.MethodPost, "/api/v1/auth/refresh", body)
	if err := h.Refresh(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	// The old token must be dead after rotation.
	body = strings.NewReader(`{"refresh_token":"` + login.RefreshToken + `"}`)
	c, rec = newTestContext(http.MethodPost, "/api/v1/auth/refresh", body)
	if err := h.Refresh(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d for reused refresh token, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestLogout_InvalidatesRefreshToken(t *testing.T) {
	user := testUserWithPassword(t, 1, "alice", "password123")
	users := &mockUserRepo{
		GetByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return user, nil },
	}
	h := newTestAuthHandler(t, users)

	body := strings.NewReader(`{"username":"alice","password":"password123"}`)
	c, rec := newTestContext(http.MethodPost, "/api/v1/auth/login", body)
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var login service.TokenPair
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}

	body = strings.NewReader(`{"refresh_token":"` + login.RefreshToken + `"}`)
	c, rec = newTestContext(http.MethodPost, "/api/v1/auth/logout", body)
	if err := h.Logout(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	body = strings.NewReader(`{"refresh_token":"` + login.RefreshToken + `"}`)
	c, rec = newTestContext(http.MethodPost, "/api/v1/auth/refresh", body)
	if err := h.Refresh(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d after logout, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestLogin_JoinsNewPublicChannels(t *testing.T) {
	user := testUserWithPassword(t, 1, "alice", "password123")
	users := &mockUserRepo{
		GetByUsernameFn: func(_ context.Context, username string) (*models.User, error) {
			if username == "alice" {
				return user, nil
			}
			return nil, nil
		},
	}
	channels := &mockChannelRepo{
		GetPublicNotJoinedFn: func(_ context.Context, userID int64) ([]models.Channel, error) {
			if userID != 1 {
				t.Errorf("unexpected userID %d", userID)
			}
			return []models.Channel{{ID: 10, Name: "general"}, {ID: 11, Name: "random"}}, nil
		},
	}
	var joined []int64
	members := &mockMemberRepo{
		AddFn: func(_ context.Context, m *models.ChannelMember) error {
			joined = append(joined, m.ChannelID)
			if m.JoinedAt.IsZero() {
				t.Error("expected joined_at to be set")
			}
			return nil
		},
	}

	rdb := newTestRedis(t)
	tokens := auth.NewTokenService("test-secret")
	svc := service.NewAuthService(users, channels, members, tokens, rdb)
	h := NewAuthHandler(svc)

	body := strings.NewReader(`{"username":"alice","password":"password123"}`)
	c, rec := newTestContext(http.MethodPost, "/api/v1/auth/login", body)
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if len(joined) != 2 || joined[0] != 10 || joined[1] != 11 {
		t.Errorf("expected memberships for channels 10 and 11, got %v", joined)
	}
}
