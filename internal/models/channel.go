package models

import "time"

type MemberRole string

const (
	RoleMember MemberRole = "member"
	RoleAdmin  MemberRole = "admin"
)

func (r MemberRole) Valid() bool {
	return r == RoleMember || r == RoleAdmin
}

type Channel struct {
	ID        int64     `json:"id,string"`
	Name      string    `json:"name"`
	Topic     *string   `json:"topic,omitempty"`
	IsPrivate bool      `json:"is_private"`
	CreatorID int64     `json:"creator_id,string"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChannelMember struct {
	ChannelID int64      `json:"channel_id,string"`
	UserID    int64      `json:"user_id,string"`
	Role      MemberRole `json:"role"`
	JoinedAt  time.Time  `json:"joined_at"`
}

// MemberWithProfile is a membership row joined with the member's identity,
// used for member listings and mention resolution.
type MemberWithProfile struct {
	ChannelMember
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// Conversation is a unified list entry for the sidebar: a channel or a DM
// together with its most recent message.
type Conversation struct {
	ChannelID   int64      `json:"channel_id,string"`
	Name        string     `json:"name"`
	IsDM        bool       `json:"is_dm"`
	IsPrivate   bool       `json:"is_private"`
	LastMessage *string    `json:"last_message,omitempty"`
	LastAt      *time.Time `json:"last_at,omitempty"`
}
