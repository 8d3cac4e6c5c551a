package models

import "time"

type User struct {
	ID            int64      `json:"id,string"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	IsAdmin       bool       `json:"is_admin"`
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Active reports whether the account may authenticate.
func (u *User) Active() bool {
	return u.DeactivatedAt == nil
}
