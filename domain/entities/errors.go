package entities

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidInput is returned when a caller violates a precondition, before any DOM interaction
	ErrInvalidInput = errors.New("invalid input")
	// ErrElementWaitTimeout is returned when an element does not reach the requested state in time
	ErrElementWaitTimeout = errors.New("element wait timeout")
	// ErrInteractionFailure is returned when an action on an element fails
	ErrInteractionFailure = errors.New("interaction failure")
	// ErrSetupFailure is returned when the session bootstrap could not establish a session
	ErrSetupFailure = errors.New("setup failure")
)

// WaitError is returned by a strict wait which did not reach its state.
// A missing element and a slow element are reported the same way.
type WaitError struct {
	Element Element
	State   ElementState
	Timeout time.Duration
	Elapsed time.Duration
	Err     error
}

func (e *WaitError) Error() string {
	return fmt.Sprintf("%s did not become %s within %v (elapsed %v): %v",
		e.Element.Name, e.State, e.Timeout, e.Elapsed.Round(time.Millisecond), e.Err)
}

// Unwrap matches ErrElementWaitTimeout as well as the driver error
func (e *WaitError) Unwrap() []error {
	return []error{ErrElementWaitTimeout, e.Err}
}

// InteractionError is returned when click, type or read fails on an element
type InteractionError struct {
	Element Element
	Action  ActionType
	Err     error
}

func (e *InteractionError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Action, e.Element.Name, e.Err)
}

// Unwrap matches ErrInteractionFailure as well as the driver error
func (e *InteractionError) Unwrap() []error {
	return []error{ErrInteractionFailure, e.Err}
}
