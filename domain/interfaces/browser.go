package interfaces

import (
	"betting_e2e/domain/entities"
	"context"
	"time"
)

// Driver defines the low level browser automation used by the interaction engine.
// Every blocking call must return once ctx is done.
type Driver interface {
	// Navigate opens a path relative to the session base URL, or an absolute URL
	Navigate(ctx context.Context, url string) error

	// WaitFor waits until selector reaches state or timeout elapses
	WaitFor(ctx context.Context, selector string, state entities.ElementState, timeout time.Duration) error

	// Click clicks the first element matching selector
	Click(ctx context.Context, selector string) error

	// Fill replaces the value of an input
	Fill(ctx context.Context, selector string, text string) error

	// TextContent returns the text content of an element
	TextContent(ctx context.Context, selector string) (string, error)

	// ScrollIntoView scrolls an element into the viewport if needed
	ScrollIntoView(ctx context.Context, selector string) error

	// Count returns the number of elements matching selector
	Count(ctx context.Context, selector string) (int, error)

	// WaitForNetworkIdle waits for the page network to settle
	WaitForNetworkIdle(ctx context.Context, timeout time.Duration) error

	// Screenshot writes a screenshot of the current page to path
	Screenshot(ctx context.Context, path string) error
}

// Session is a browser context owned by exactly one scenario
type Session interface {
	// Driver returns the driver bound to the session page
	Driver() Driver

	// SaveState captures cookies and local storage of the session
	SaveState(ctx context.Context) (entities.SessionSnapshot, error)

	// Close closes the session and its page
	Close() error
}

// Launcher creates isolated sessions
type Launcher interface {
	// NewSession creates a fresh browser context with a single page
	NewSession(ctx context.Context, opts entities.SessionOptions) (Session, error)

	// Close stops the browser
	Close() error
}
