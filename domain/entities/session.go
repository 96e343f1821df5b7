package entities

// SessionSnapshot is a serialized browser storage state.
// The layout follows the playwright storage state file.
type SessionSnapshot struct {
	Cookies []Cookie      `json:"cookies"`
	Origins []OriginState `json:"origins"`
}

// Empty reports whether the snapshot carries no state
func (s SessionSnapshot) Empty() bool {
	return len(s.Cookies) == 0 && len(s.Origins) == 0
}

// Cookie is a single browser cookie
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HttpOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// OriginState holds local storage of an origin
type OriginState struct {
	Origin       string         `json:"origin"`
	LocalStorage []StorageEntry `json:"localStorage"`
}

// StorageEntry is a local storage key/value pair
type StorageEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SessionOptions configures a new browser session
type SessionOptions struct {
	BaseURL  string           `json:"base_url"`
	Snapshot *SessionSnapshot `json:"snapshot,omitempty"` // Restored into the new session when set
}
