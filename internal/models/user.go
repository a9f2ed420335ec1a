// Package models defines the data records shared by the authfront registry,
// session manager and UI layers.
package models

import "time"

// UserRecord is a registered account.
//
// Password is kept in plaintext to stay behavior-compatible with the demo
// registry it models. It must not be used beyond a local demonstration: a real
// system would store a salted hash and never round-trip the secret.
type UserRecord struct {
	// ID is assigned by the registry as 1 + the highest existing id.
	ID int64 `json:"id"`

	// Username is a display name of at least three characters.
	Username string `json:"username"`

	// Email is the unique, case-sensitive lookup key.
	Email string `json:"email"`

	// Password is the plaintext secret.
	Password string `json:"password"`

	// CreatedAt is zero when timestamp tracking is disabled.
	CreatedAt time.Time `json:"createdAt"`
}

// Public returns a copy of the record with the password removed, suitable for
// handing to renderers and logs.
func (u UserRecord) Public() UserRecord {
	u.Password = ""
	return u
}
