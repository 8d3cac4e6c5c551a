package models

import "time"

type ActivityKind string

const (
	ActivityMessagePosted    ActivityKind = "message_posted"
	ActivityDocumentCreated  ActivityKind = "document_created"
	ActivityDocumentUpdated  ActivityKind = "document_updated"
	ActivityAnnouncementMade ActivityKind = "announcement_made"
	ActivityMemberJoined     ActivityKind = "member_joined"
	ActivityChannelCreated   ActivityKind = "channel_created"
)

type Activity struct {
	ID        int64        `json:"id,string"`
	ActorID   int64        `json:"actor_id,string"`
	Kind      ActivityKind `json:"kind"`
	SubjectID int64        `json:"subject_id,string"`
	ChannelID *int64       `json:"channel_id,string,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}
