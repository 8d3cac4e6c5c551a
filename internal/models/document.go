package models

import "time"

type DocumentVisibility string

const (
	VisibilityEveryone DocumentVisibility = "everyone"
	VisibilityAdmins   DocumentVisibility = "admins"
)

func (v DocumentVisibility) Valid() bool {
	return v == VisibilityEveryone || v == VisibilityAdmins
}

// Document is a knowledge-base page. Content is an opaque rich-text JSON
// blob; the server only inspects it for mention nodes. Version increments
// on every successful save and guards concurrent edits.
type Document struct {
	ID                   int64              `json:"id,string"`
	Title                string             `json:"title"`
	Content              string             `json:"content"`
	Category             string             `json:"category"`
	Tags                 []string           `json:"tags"`
	Visibility           DocumentVisibility `json:"visibility"`
	RequiresConfirmation bool               `json:"requires_confirmation"`
	AuthorID             int64              `json:"author_id,string"`
	LastEditorID         int64              `json:"last_editor_id,string"`
	Version              int                `json:"version"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
}

// DocumentRead tracks one user's progress through the read-confirmation
// flow: a row appears when the user first opens the document, ScrolledAt is
// set when they reach the end, ConfirmedAt only after that.
type DocumentRead struct {
	DocumentID  int64      `json:"document_id,string"`
	UserID      int64      `json:"user_id,string"`
	ScrolledAt  *time.Time `json:"scrolled_at,omitempty"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
}

// DocumentReader is a read row joined with the reader's identity for the
// admin readers report.
type DocumentReader struct {
	DocumentRead
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}
