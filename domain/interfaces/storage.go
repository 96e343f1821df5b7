package interfaces

import "betting_e2e/domain/entities"

// SessionStore persists the authenticated browser state between scenarios
type SessionStore interface {
	// Save writes the snapshot
	Save(snapshot entities.SessionSnapshot) error

	// Load reads the snapshot, ok is false when nothing was saved yet
	Load() (snapshot entities.SessionSnapshot, ok bool, err error)

	// Remove deletes the saved snapshot
	Remove() error

	// Path returns the snapshot location
	Path() string
}
