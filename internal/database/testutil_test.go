package database

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drystore/nexus/internal/models"
)

// testPool returns a pgxpool.Pool connected to the test database.
// It skips the test if DATABASE_URL is not set.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connecting to test database: %v", err)
	}
	t.Cleanup(func() { pool.Close() })
	return pool
}

// testIDCounter provides unique IDs across all tests in the package.
// Starts well above zero to avoid conflicts with any existing data.
var testIDCounter int64 = 100000

func nextID() int64 {
	return atomic.AddInt64(&testIDCounter, 1)
}

func createTestUser(t *testing.T, pool *pgxpool.Pool) *models.User {
	t.Helper()
	ctx := context.Background()
	users := NewUserRepository(pool)
	profiles := NewProfileRepository(pool)

	id := nextID()
	u := &models.User{
		ID:           id,
		Username:     fmt.Sprintf("testuser%d", id),
		Email:        fmt.Sprintf("testuser%d@example.com", id),
		PasswordHash: "x",
		CreatedAt:    time.Now().Truncate(time.Microsecond),
	}
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("creating test user: %v", err)
	}
	p := &models.Profile{
		UserID:               id,
		DisplayName:          fmt.Sprintf("Test User %d", id),
		Availability:         models.AvailabilityAvailable,
		Theme:                models.ThemeSystem,
		NotificationsEnabled: true,
	}
	if err := profiles.Create(ctx, p); err != nil {
		t.Fatalf("creating test profile: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, id)
		_, _ = pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	})
	return u
}

func createTestChannel(t *testing.T, pool *pgxpool.Pool, creatorID int64) *models.Channel {
	t.Helper()
	ctx := context.Background()
	repo := NewChannelRepository(pool)

	id := nextID()
	c := &models.Channel{
		ID:        id,
		Name:      fmt.Sprintf("test-channel-%d", id),
		CreatorID: creatorID,
		CreatedAt: time.Now().Truncate(time.Microsecond),
	}
	if err := repo.Create(ctx, c, creatorID); err != nil {
		t.Fatalf("creating test channel: %v", err)
	}
	t.Cleanup(func() { _ = repo.Delete(ctx, id) })
	return c
}
