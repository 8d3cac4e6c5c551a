package models

import "time"

type ReadState struct {
	UserID            int64     `json:"user_id,string"`
	ChannelID         int64     `json:"channel_id,string"`
	LastReadMessageID int64     `json:"last_read_message_id,string"`
	MentionCount      int       `json:"mention_count"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NotificationSummary is the exact badge payload: per-channel unread and
// mention counts plus the unread announcement and unconfirmed document
// totals.
type NotificationSummary struct {
	Channels             []ChannelBadge `json:"channels"`
	UnreadAnnouncements  int            `json:"unread_announcements"`
	UnconfirmedDocuments int            `json:"unconfirmed_documents"`
	TotalMentions        int            `json:"total_mentions"`
}

type ChannelBadge struct {
	ChannelID    int64 `json:"channel_id,string"`
	UnreadCount  int   `json:"unread_count"`
	MentionCount int   `json:"mention_count"`
}
