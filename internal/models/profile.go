package models

type Availability string

const (
	AvailabilityAvailable Availability = "available"
	AvailabilityAway      Availability = "away"
	AvailabilityBusy      Availability = "busy"
	AvailabilityOffline   Availability = "offline"
)

func (a Availability) Valid() bool {
	switch a {
	case AvailabilityAvailable, AvailabilityAway, AvailabilityBusy, AvailabilityOffline:
		return true
	}
	return false
}

type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

func (t Theme) Valid() bool {
	switch t {
	case ThemeSystem, ThemeLight, ThemeDark:
		return true
	}
	return false
}

type Profile struct {
	UserID               int64        `json:"user_id,string"`
	DisplayName          string       `json:"display_name"`
	AvatarKey            *string      `json:"-"`
	AvatarURL            string       `json:"avatar_url,omitempty"`
	Bio                  string       `json:"bio"`
	Availability         Availability `json:"availability"`
	Theme                Theme        `json:"theme"`
	NotificationsEnabled bool         `json:"notifications_enabled"`
	PositionID           *int64       `json:"position_id,string,omitempty"`
}

// DirectoryEntry is a profile joined with its user and position for the
// people directory.
type DirectoryEntry struct {
	Profile
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	Title      *string `json:"title,omitempty"`
	Department *string `json:"department,omitempty"`
}

type Position struct {
	ID         int64  `json:"id,string"`
	Title      string `json:"title"`
	Department string `json:"department"`
}
