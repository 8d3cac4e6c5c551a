package models

import "time"

type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationSent      InvitationStatus = "sent"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationExpired   InvitationStatus = "expired"
	InvitationCancelled InvitationStatus = "cancelled"
)

// Terminal reports whether the status admits no further transitions.
func (s InvitationStatus) Terminal() bool {
	switch s {
	case InvitationAccepted, InvitationExpired, InvitationCancelled:
		return true
	}
	return false
}

type Invitation struct {
	ID        int64            `json:"id,string"`
	Email     string           `json:"email"`
	Token     string           `json:"token"`
	InviterID int64            `json:"inviter_id,string"`
	Status    InvitationStatus `json:"status"`
	ExpiresAt time.Time        `json:"expires_at"`
	CreatedAt time.Time        `json:"created_at"`
}
