package storage

import (
	"betting_e2e/domain/entities"
	"betting_e2e/domain/interfaces"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultStatePath is where the authenticated session is kept, relative to the project root
const DefaultStatePath = "playwright/.auth/user.json"

type browserState struct {
	statePath string
}

// NewBrowserState - creates session store backed by a storage state file
func NewBrowserState(path string) interfaces.SessionStore {
	if path == "" {
		path = DefaultStatePath
	}
	return &browserState{statePath: path}
}

// Save - writes snapshot to file, creating parent directories
func (s *browserState) Save(snapshot entities.SessionSnapshot) error {
	if snapshot.Cookies == nil {
		snapshot.Cookies = []entities.Cookie{}
	}
	if snapshot.Origins == nil {
		snapshot.Origins = []entities.OriginState{}
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.statePath), 0o755); err != nil {
		return fmt.Errorf("failed to create session state dir: %w", err)
	}

	// write through a temp file so readers never see a partial state
	tmp := s.statePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session state: %w", err)
	}
	if err := os.Rename(tmp, s.statePath); err != nil {
		return fmt.Errorf("failed to replace session state: %w", err)
	}
	return nil
}

// Load - reads snapshot from file, ok is false when the file does not exist
func (s *browserState) Load() (entities.SessionSnapshot, bool, error) {
	data, err := os.ReadFile(s.statePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entities.SessionSnapshot{}, false, nil
		}
		return entities.SessionSnapshot{}, false, fmt.Errorf("failed to read session state: %w", err)
	}

	var snapshot entities.SessionSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return entities.SessionSnapshot{}, false, fmt.Errorf("failed to parse session state %s: %w", s.statePath, err)
	}
	return snapshot, true, nil
}

// Remove - deletes the state file, a missing file is not an error
func (s *browserState) Remove() error {
	if err := os.Remove(s.statePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session state: %w", err)
	}
	return nil
}

// Path - returns the state file location
func (s *browserState) Path() string {
	return s.statePath
}
