package models

import "time"

type Priority string

const (
	PriorityUrgent    Priority = "urgent"
	PriorityImportant Priority = "important"
	PriorityNormal    Priority = "normal"
	PriorityInfo      Priority = "info"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityUrgent, PriorityImportant, PriorityNormal, PriorityInfo:
		return true
	}
	return false
}

type Announcement struct {
	ID          int64     `json:"id,string"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Priority    Priority  `json:"priority"`
	Pinned      bool      `json:"pinned"`
	Category    string    `json:"category"`
	AuthorID    int64     `json:"author_id,string"`
	ImageKey    *string   `json:"-"`
	ImageURL    string    `json:"image_url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Read        bool      `json:"read"`
}

type AnnouncementRead struct {
	AnnouncementID int64     `json:"announcement_id,string"`
	UserID         int64     `json:"user_id,string"`
	ReadAt         time.Time `json:"read_at"`
}
