package models

import "time"

type DMChannel struct {
	ID         int64     `json:"id,string"`
	Recipients []User    `json:"recipients"`
	CreatedAt  time.Time `json:"created_at"`
}
