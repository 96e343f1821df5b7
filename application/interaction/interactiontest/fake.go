// Package interactiontest provides an in-memory Driver for tests of code built on the interaction engine.
package interactiontest

import (
	"betting_e2e/domain/entities"
	"betting_e2e/domain/interfaces"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrTimeout is returned by FakeDriver waits which ran out of time
var ErrTimeout = errors.New("fake driver: timeout")

// pollInterval is how often a wait re-checks the fake DOM
const pollInterval = 5 * time.Millisecond

// Element is the fake DOM state of a selector
type Element struct {
	Visible  bool
	Text     string
	Count    int   // Returned by Count, defaults to 1 for attached elements
	ClickErr error // Returned by Click
	FillErr  error // Returned by Fill
}

// Call is a recorded driver call
type Call struct {
	Method   string
	Selector string
	Arg      string
	State    entities.ElementState
	Timeout  time.Duration
}

// FakeDriver is a scripted Driver. Selectors without an element are detached.
type FakeDriver struct {
	mu       sync.Mutex
	elements map[string]*Element
	onClick  map[string]func(d *FakeDriver)
	calls    []Call
	url      string

	// IgnoreTimeouts makes WaitFor honour only ctx, like a driver stuck in a call
	IgnoreTimeouts bool
	// NavigateErr is returned by Navigate
	NavigateErr error
	// ScreenshotErr is returned by Screenshot
	ScreenshotErr error
	// ScrollWait is how long ScrollIntoView waits for a detached element to attach
	ScrollWait time.Duration
}

// NewFakeDriver - creates an empty fake page
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{
		elements: make(map[string]*Element),
		onClick:  make(map[string]func(d *FakeDriver)),
	}
}

// Set - attaches element under selector, replacing the previous state
func (d *FakeDriver) Set(selector string, el Element) *FakeDriver {
	d.mu.Lock()
	defer d.mu.Unlock()
	cp := el
	d.elements[selector] = &cp
	return d
}

// Show - attaches a visible element with text
func (d *FakeDriver) Show(selector, text string) *FakeDriver {
	return d.Set(selector, Element{Visible: true, Text: text})
}

// Hide - keeps element attached but invisible
func (d *FakeDriver) Hide(selector string) *FakeDriver {
	d.mu.Lock()
	defer d.mu.Unlock()
	if el, ok := d.elements[selector]; ok {
		el.Visible = false
		return d
	}
	d.elements[selector] = &Element{}
	return d
}

// Remove - detaches element
func (d *FakeDriver) Remove(selector string) *FakeDriver {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.elements, selector)
	return d
}

// ShowAfter - makes element visible after delay
func (d *FakeDriver) ShowAfter(selector, text string, delay time.Duration) {
	time.AfterFunc(delay, func() { d.Show(selector, text) })
}

// RemoveAfter - detaches element after delay
func (d *FakeDriver) RemoveAfter(selector string, delay time.Duration) {
	time.AfterFunc(delay, func() { d.Remove(selector) })
}

// OnClick - registers a handler run after selector is clicked
func (d *FakeDriver) OnClick(selector string, fn func(d *FakeDriver)) *FakeDriver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onClick[selector] = fn
	return d
}

// Calls - returns a copy of recorded calls
func (d *FakeDriver) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	res := make([]Call, len(d.calls))
	copy(res, d.calls)
	return res
}

// CallsOf - returns recorded calls of method
func (d *FakeDriver) CallsOf(method string) []Call {
	var res []Call
	for _, c := range d.Calls() {
		if c.Method == method {
			res = append(res, c)
		}
	}
	return res
}

// DOMCalls - returns calls touching elements, navigation excluded
func (d *FakeDriver) DOMCalls() []Call {
	var res []Call
	for _, c := range d.Calls() {
		if c.Selector != "" {
			res = append(res, c)
		}
	}
	return res
}

// Value - returns the last text filled into selector
func (d *FakeDriver) Value(selector string) string {
	calls := d.CallsOf("Fill")
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Selector == selector {
			return calls[i].Arg
		}
	}
	return ""
}

// URL - returns the last navigated url
func (d *FakeDriver) URL() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url
}

// Navigate - records navigation
func (d *FakeDriver) Navigate(ctx context.Context, url string) error {
	d.record(Call{Method: "Navigate", Arg: url})
	if d.NavigateErr != nil {
		return d.NavigateErr
	}
	d.mu.Lock()
	d.url = url
	d.mu.Unlock()
	return nil
}

// WaitFor - polls the fake DOM until state matches, timeout elapses or ctx is done
func (d *FakeDriver) WaitFor(ctx context.Context, selector string, state entities.ElementState, timeout time.Duration) error {
	d.record(Call{Method: "WaitFor", Selector: selector, State: state, Timeout: timeout})

	var deadline <-chan time.Time
	if !d.IgnoreTimeouts {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		if d.matches(selector, state) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return fmt.Errorf("%w: %s to be %s after %v", ErrTimeout, selector, state, timeout)
		case <-ticker.C:
		}
	}
}

// Click - clicks element, fails when it is not visible
func (d *FakeDriver) Click(ctx context.Context, selector string) error {
	d.record(Call{Method: "Click", Selector: selector})
	d.mu.Lock()
	el, ok := d.elements[selector]
	handler := d.onClick[selector]
	d.mu.Unlock()

	if !ok || !el.Visible {
		return fmt.Errorf("element %s is not visible", selector)
	}
	if el.ClickErr != nil {
		return el.ClickErr
	}
	if handler != nil {
		handler(d)
	}
	return nil
}

// Fill - fills element, fails when it is detached
func (d *FakeDriver) Fill(ctx context.Context, selector string, text string) error {
	d.record(Call{Method: "Fill", Selector: selector, Arg: text})
	d.mu.Lock()
	defer d.mu.Unlock()
	el, ok := d.elements[selector]
	if !ok {
		return fmt.Errorf("element %s not found", selector)
	}
	if el.FillErr != nil {
		return el.FillErr
	}
	el.Text = text
	return nil
}

// TextContent - returns element text
func (d *FakeDriver) TextContent(ctx context.Context, selector string) (string, error) {
	d.record(Call{Method: "TextContent", Selector: selector})
	d.mu.Lock()
	defer d.mu.Unlock()
	el, ok := d.elements[selector]
	if !ok {
		return "", fmt.Errorf("element %s not found", selector)
	}
	return el.Text, nil
}

// ScrollIntoView - fails for elements still detached after ScrollWait
func (d *FakeDriver) ScrollIntoView(ctx context.Context, selector string) error {
	d.record(Call{Method: "ScrollIntoView", Selector: selector, Timeout: d.ScrollWait})
	deadline := time.Now().Add(d.ScrollWait)
	for !d.matches(selector, entities.StateAttached) {
		if !time.Now().Before(deadline) {
			return fmt.Errorf("element %s not found", selector)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
	return nil
}

// Count - returns number of matching elements
func (d *FakeDriver) Count(ctx context.Context, selector string) (int, error) {
	d.record(Call{Method: "Count", Selector: selector})
	d.mu.Lock()
	defer d.mu.Unlock()
	el, ok := d.elements[selector]
	if !ok {
		return 0, nil
	}
	if el.Count == 0 {
		return 1, nil
	}
	return el.Count, nil
}

// WaitForNetworkIdle - returns immediately
func (d *FakeDriver) WaitForNetworkIdle(ctx context.Context, timeout time.Duration) error {
	d.record(Call{Method: "WaitForNetworkIdle", Timeout: timeout})
	return ctx.Err()
}

// Screenshot - records the screenshot path
func (d *FakeDriver) Screenshot(ctx context.Context, path string) error {
	d.record(Call{Method: "Screenshot", Arg: path})
	return d.ScreenshotErr
}

func (d *FakeDriver) matches(selector string, state entities.ElementState) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, ok := d.elements[selector]
	switch state {
	case entities.StateVisible:
		return ok && el.Visible
	case entities.StateHidden:
		return !ok || !el.Visible
	case entities.StateAttached:
		return ok
	case entities.StateDetached:
		return !ok
	}
	return false
}

func (d *FakeDriver) record(c Call) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, c)
}

// Ensure FakeDriver implements Driver interface
var _ interfaces.Driver = (*FakeDriver)(nil)
