package models

import "time"

// Mention is one resolved mention inside a message, stored alongside the
// message and re-derived from content on every create and edit.
type Mention struct {
	UserID      int64  `json:"user_id,string"`
	DisplayName string `json:"display_name"`
}

type Message struct {
	ID        int64      `json:"id,string"`
	ChannelID int64      `json:"channel_id,string"`
	AuthorID  int64      `json:"author_id,string"`
	Content   string     `json:"content"`
	ReplyToID *int64     `json:"reply_to_id,string,omitempty"`
	Mentions  []Mention  `json:"mentions"`
	CreatedAt time.Time  `json:"created_at"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`
}

type MessageWithAuthor struct {
	Message
	AuthorUsername    string       `json:"author_username"`
	AuthorDisplayName string       `json:"author_display_name"`
	Attachments       []Attachment `json:"attachments,omitempty"`
}
