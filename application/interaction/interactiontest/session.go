package interactiontest

import (
	"betting_e2e/domain/entities"
	"betting_e2e/domain/interfaces"
	"context"
	"sync"
)

// FakeSession is a Session over a FakeDriver
type FakeSession struct {
	driver   *FakeDriver
	Snapshot entities.SessionSnapshot // Returned by SaveState
	SaveErr  error

	mu     sync.Mutex
	closed bool
}

// NewFakeSession - creates session bound to driver
func NewFakeSession(driver *FakeDriver) *FakeSession {
	return &FakeSession{driver: driver}
}

// Driver - returns the fake driver
func (s *FakeSession) Driver() interfaces.Driver {
	return s.driver
}

// SaveState - returns the configured snapshot
func (s *FakeSession) SaveState(ctx context.Context) (entities.SessionSnapshot, error) {
	if s.SaveErr != nil {
		return entities.SessionSnapshot{}, s.SaveErr
	}
	return s.Snapshot, nil
}

// Close - marks session closed
func (s *FakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed - reports whether Close was called
func (s *FakeSession) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// FakeLauncher hands out sessions built by Build
type FakeLauncher struct {
	// Build creates a driver for every new session, attempt counts from 1
	Build func(attempt int) *FakeDriver
	// Snapshot is saved by every created session
	Snapshot entities.SessionSnapshot
	// NewSessionErr is returned by NewSession
	NewSessionErr error

	mu       sync.Mutex
	sessions []*FakeSession
	options  []entities.SessionOptions
	closed   bool
}

// NewSession - creates a fake session, recording options
func (l *FakeLauncher) NewSession(ctx context.Context, opts entities.SessionOptions) (interfaces.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.options = append(l.options, opts)
	if l.NewSessionErr != nil {
		return nil, l.NewSessionErr
	}

	driver := NewFakeDriver()
	if l.Build != nil {
		driver = l.Build(len(l.options))
	}
	session := NewFakeSession(driver)
	session.Snapshot = l.Snapshot
	l.sessions = append(l.sessions, session)
	return session, nil
}

// Close - marks launcher closed
func (l *FakeLauncher) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

// Sessions - returns created sessions
func (l *FakeLauncher) Sessions() []*FakeSession {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*FakeSession(nil), l.sessions...)
}

// Options - returns options of every NewSession call
func (l *FakeLauncher) Options() []entities.SessionOptions {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]entities.SessionOptions(nil), l.options...)
}

// Ensure fakes implement interfaces
var (
	_ interfaces.Session  = (*FakeSession)(nil)
	_ interfaces.Launcher = (*FakeLauncher)(nil)
)
