package interfaces

import (
	"betting_e2e/domain/entities"
	"context"
	"time"
)

// Interactable is the capability page objects are built from.
// A zero timeout means the implementation default.
type Interactable interface {
	// WaitForState waits for an element state, failure handling follows policy
	WaitForState(ctx context.Context, el entities.Element, state entities.ElementState, policy entities.WaitPolicy, timeout time.Duration) error

	// WaitForVisible waits for an element to become visible
	WaitForVisible(ctx context.Context, el entities.Element, policy entities.WaitPolicy, timeout time.Duration) error

	// WaitForHidden waits for an element to become hidden
	WaitForHidden(ctx context.Context, el entities.Element, policy entities.WaitPolicy, timeout time.Duration) error

	// IsElementVisible checks for an element and never fails
	IsElementVisible(ctx context.Context, el entities.Element, timeout time.Duration) bool

	// Click clicks an element
	Click(ctx context.Context, el entities.Element) error

	// Type fills text into an element
	Type(ctx context.Context, el entities.Element, text string) error

	// GetText returns trimmed text content of an element
	GetText(ctx context.Context, el entities.Element) (string, error)

	// ScrollIntoView scrolls an element into the viewport
	ScrollIntoView(ctx context.Context, el entities.Element) error

	// Count returns the number of elements matching el
	Count(ctx context.Context, el entities.Element) (int, error)

	// Navigate opens a path of the application
	Navigate(ctx context.Context, path string) error

	// WaitForNetworkIdle waits for the network to settle, never fails on timeout
	WaitForNetworkIdle(ctx context.Context, timeout time.Duration) error
}
