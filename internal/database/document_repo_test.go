package database

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drystore/nexus/internal/models"
)

func createTestDocument(t *testing.T, pool *pgxpool.Pool, authorID int64, requiresConfirmation bool) *models.Document {
	t.Helper()
	ctx := context.Background()
	repo := NewDocumentRepository(pool)

	id := nextID()
	d := &models.Document{
		ID:                   id,
		Title:                "Test Policy",
		Content:              `{"type":"doc","content":[]}`,
		Category:             "policies",
		Tags:                 []string{"test"},
		Visibility:           models.VisibilityEveryone,
		RequiresConfirmation: requiresConfirmation,
		AuthorID:             authorID,
		CreatedAt:            time.Now().Truncate(time.Microsecond),
	}
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("creating test document: %v", err)
	}
	t.Cleanup(func() { _ = repo.Delete(ctx, id) })
	return d
}

func TestDocumentRepo_Create_StartsAtVersionOne(t *testing.T) {
	pool := testPool(t)
	repo := NewDocumentRepository(pool)
	ctx := context.Background()

	author := createTestUser(t, pool)
	doc := createTestDocument(t, pool, author.ID, false)

	got, err := repo.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil {
		t.Fatal("GetByID returned nil after Create")
	}
	if got.Version != 1 {
		t.Errorf("Version = %d, want 1", got.Version)
	}
	if got.LastEditorID != author.ID {
		t.Errorf("LastEditorID = %d, want %d", got.LastEditorID, author.ID)
	}
}

func TestDocumentRepo_UpdateVersioned_StaleVersion(t *testing.T) {
	pool := testPool(t)
	repo := NewDocumentRepository(pool)
	ctx := context.Background()

	author := createTestUser(t, pool)
	doc := createTestDocument(t, pool, author.ID, false)

	doc.Title = "Updated Policy"
	doc.LastEditorID = author.ID
	ok, err := repo.UpdateVersioned(ctx, doc, 1)
	if err != nil {
		t.Fatalf("UpdateVersioned: %v", err)
	}
	if !ok {
		t.Fatal("expected first update at version 1 to succeed")
	}

	// Same expected version again: the row is now at version 2, so the
	// write must be rejected and the version left untouched.
	doc.Title = "Conflicting Edit"
	ok, err = repo.UpdateVersioned(ctx, doc, 1)
	if err != nil {
		t.Fatalf("UpdateVersioned (stale): %v", err)
	}
	if ok {
		t.Fatal("expected stale update to be rejected")
	}

	got, err := repo.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Version != 2 {
		t.Errorf("Version = %d, want 2", got.Version)
	}
	if got.Title != "Updated Policy" {
		t.Errorf("Title = %q, want the first update's title", got.Title)
	}
}

func TestDocumentReadRepo_ConfirmRequiresScroll(t *testing.T) {
	pool := testPool(t)
	reads := NewDocumentReadRepository(pool)
	ctx := context.Background()

	author := createTestUser(t, pool)
	reader := createTestUser(t, pool)
	doc := createTestDocument(t, pool, author.ID, true)
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM document_reads WHERE document_id = $1`, doc.ID)
	})

	// Confirm before scroll must not create or update anything.
	ok, err := reads.MarkConfirmed(ctx, doc.ID, reader.ID)
	if err != nil {
		t.Fatalf("MarkConfirmed: %v", err)
	}
	if ok {
		t.Fatal("confirm succeeded without a prior scroll")
	}

	if err := reads.MarkScrolled(ctx, doc.ID, reader.ID); err != nil {
		t.Fatalf("MarkScrolled: %v", err)
	}
	ok, err = reads.MarkConfirmed(ctx, doc.ID, reader.ID)
	if err != nil {
		t.Fatalf("MarkConfirmed: %v", err)
	}
	if !ok {
		t.Fatal("confirm failed after scroll")
	}

	got, err := reads.Get(ctx, doc.ID, reader.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.ScrolledAt == nil || got.ConfirmedAt == nil {
		t.Fatalf("read row incomplete: %+v", got)
	}

	// Repeat confirm is idempotent and keeps the original timestamp.
	first := *got.ConfirmedAt
	time.Sleep(10 * time.Millisecond)
	if _, err := reads.MarkConfirmed(ctx, doc.ID, reader.ID); err != nil {
		t.Fatalf("MarkConfirmed (repeat): %v", err)
	}
	again, err := reads.Get(ctx, doc.ID, reader.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !again.ConfirmedAt.Equal(first) {
		t.Errorf("ConfirmedAt changed on repeat confirm: %v != %v", again.ConfirmedAt, first)
	}
}
