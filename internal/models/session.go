package models

import "time"

// SessionRecord is the persisted "current user" marker. It references the
// registry entry by id and never carries a copy of the user.
type SessionRecord struct {
	UserID    int64     `json:"user_id"`
	StartedAt time.Time `json:"started_at"`
}
