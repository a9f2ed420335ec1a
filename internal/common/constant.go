// Package common contains constants, sentinel errors and small helpers shared
// across authfront components.
package common

// Well-known keys in the per-context store.
const (
	// KeyRegistry holds the full registry snapshot (JSON array of users).
	KeyRegistry = "userDB"

	// KeySession holds the optional current-session marker.
	KeySession = "currentUser"
)

// AppName is used for log attributes, metric namespaces and the store lock.
const AppName = "authfront"
