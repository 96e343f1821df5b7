// Package interaction turns asynchronous UI state into bounded waits and logged actions.
package interaction

import (
	"betting_e2e/domain/entities"
	"betting_e2e/domain/interfaces"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTimeout is used when a caller passes a zero timeout
const DefaultTimeout = 10 * time.Second

// Engine performs wait-then-act sequences against a single page driver.
// It is not safe for concurrent use, calls of one scenario run in order.
type Engine struct {
	driver   interfaces.Driver
	logger   *logrus.Entry
	timeout  time.Duration
	observer func(entities.InteractionEvent)
}

// NewEngine - creates engine bound to driver, timeout <= 0 selects DefaultTimeout
func NewEngine(driver interfaces.Driver, logger *logrus.Logger, timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Engine{
		driver:  driver,
		logger:  logger.WithField("component", "interaction"),
		timeout: timeout,
	}
}

// OnEvent - registers observer called after every interaction
func (e *Engine) OnEvent(fn func(entities.InteractionEvent)) {
	e.observer = fn
}

// DefaultTimeout - returns the timeout used for zero timeouts
func (e *Engine) DefaultTimeout() time.Duration {
	return e.timeout
}

// ---------- Waits ----------

// WaitForState - waits for element state, on timeout Strict returns *entities.WaitError and Lenient logs and returns nil
func (e *Engine) WaitForState(ctx context.Context, el entities.Element, state entities.ElementState, policy entities.WaitPolicy, timeout time.Duration) error {
	timeout = e.effective(timeout)
	e.logger.Debugf("Waiting for %s to be '%s' (%s, %v)", el.Name, state, policy, timeout)

	elapsed, err := e.wait(ctx, el, state, timeout)
	e.emit(entities.InteractionEvent{Action: entities.ActionWait, Element: el, State: state,
		Policy: policy, Timeout: timeout, Elapsed: elapsed, Err: err})

	if err == nil {
		e.logger.Debugf("%s is '%s' after %v", el.Name, state, elapsed.Round(time.Millisecond))
		return nil
	}

	// caller cancellation and bad arguments are never swallowed
	if ctx.Err() != nil || errors.Is(err, entities.ErrInvalidInput) {
		return err
	}

	if policy == entities.Lenient {
		e.logger.Warnf("Error waiting for %s to be '%s', continuing: %v", el.Name, state, err)
		return nil
	}

	e.logger.Errorf("Error waiting for %s to be '%s': %v", el.Name, state, err)
	return err
}

// WaitForVisible - waits for element to be visible
func (e *Engine) WaitForVisible(ctx context.Context, el entities.Element, policy entities.WaitPolicy, timeout time.Duration) error {
	return e.WaitForState(ctx, el, entities.StateVisible, policy, timeout)
}

// WaitForHidden - waits for element to be hidden
func (e *Engine) WaitForHidden(ctx context.Context, el entities.Element, policy entities.WaitPolicy, timeout time.Duration) error {
	return e.WaitForState(ctx, el, entities.StateHidden, policy, timeout)
}

// IsElementVisible - checks element visibility, any failure is reported as false
func (e *Engine) IsElementVisible(ctx context.Context, el entities.Element, timeout time.Duration) bool {
	timeout = e.effective(timeout)
	elapsed, err := e.wait(ctx, el, entities.StateVisible, timeout)
	e.emit(entities.InteractionEvent{Action: entities.ActionVisibility, Element: el, State: entities.StateVisible,
		Policy: entities.Lenient, Timeout: timeout, Elapsed: elapsed, Err: err})

	visible := err == nil
	e.logger.Debugf("%s visible: %t", el.Name, visible)
	return visible
}

// WaitForNetworkIdle - waits for the network to be idle, a timeout is only logged
func (e *Engine) WaitForNetworkIdle(ctx context.Context, timeout time.Duration) error {
	timeout = e.effective(timeout)
	e.logger.Debug("Waiting for network to be idle...")

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := e.driver.WaitForNetworkIdle(waitCtx, timeout)
	e.emit(entities.InteractionEvent{Action: entities.ActionNetworkIdle, Policy: entities.Lenient,
		Timeout: timeout, Elapsed: time.Since(start), Err: err})

	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		e.logger.Warnf("Error waiting for network to idle: %v", err)
	}
	return nil
}

// ---------- Actions ----------

// Navigate - opens path of the application
func (e *Engine) Navigate(ctx context.Context, path string) error {
	e.logger.Infof("Navigating to %s", path)
	start := time.Now()
	err := e.driver.Navigate(ctx, path)
	e.emit(entities.InteractionEvent{Action: entities.ActionNavigate, Element: entities.Element{Name: path, Locator: path},
		Elapsed: time.Since(start), Err: err})
	if err != nil {
		e.logger.Errorf("Error navigating to %s: %v", path, err)
		return fmt.Errorf("failed to navigate to %s: %w", path, err)
	}
	return nil
}

// Click - clicks on element
func (e *Engine) Click(ctx context.Context, el entities.Element) error {
	e.logger.Debugf("Clicking on %s", el.Name)
	return e.act(ctx, entities.ActionClick, el, func() error {
		return e.driver.Click(ctx, el.Locator)
	})
}

// Type - fills text into element
func (e *Engine) Type(ctx context.Context, el entities.Element, text string) error {
	e.logger.Debugf("Typing into %s: %q", el.Name, text)
	return e.act(ctx, entities.ActionTypeText, el, func() error {
		return e.driver.Fill(ctx, el.Locator, text)
	})
}

// GetText - returns trimmed text content of element
func (e *Engine) GetText(ctx context.Context, el entities.Element) (string, error) {
	var text string
	err := e.act(ctx, entities.ActionGetText, el, func() error {
		raw, err := e.driver.TextContent(ctx, el.Locator)
		text = strings.TrimSpace(raw)
		return err
	})
	if err != nil {
		return "", err
	}
	e.logger.Debugf("Text from %s: %q", el.Name, text)
	return text, nil
}

// ScrollIntoView - scrolls element into the viewport if needed
func (e *Engine) ScrollIntoView(ctx context.Context, el entities.Element) error {
	e.logger.Debugf("Scrolling to %s", el.Name)
	return e.act(ctx, entities.ActionScroll, el, func() error {
		return e.driver.ScrollIntoView(ctx, el.Locator)
	})
}

// Count - returns number of elements matching element locator
func (e *Engine) Count(ctx context.Context, el entities.Element) (int, error) {
	var n int
	err := e.act(ctx, entities.ActionCount, el, func() error {
		var err error
		n, err = e.driver.Count(ctx, el.Locator)
		return err
	})
	return n, err
}

// Screenshot - writes a screenshot of the page
func (e *Engine) Screenshot(ctx context.Context, path string) error {
	e.logger.Infof("Taking screenshot %s", path)
	start := time.Now()
	err := e.driver.Screenshot(ctx, path)
	e.emit(entities.InteractionEvent{Action: entities.ActionScreenshot, Element: entities.Element{Name: path, Locator: path},
		Elapsed: time.Since(start), Err: err})
	if err != nil {
		return fmt.Errorf("failed to take screenshot: %w", err)
	}
	return nil
}

// ---------- Internals ----------

// wait - runs a driver wait bounded by timeout, failures become *entities.WaitError
func (e *Engine) wait(ctx context.Context, el entities.Element, state entities.ElementState, timeout time.Duration) (time.Duration, error) {
	if !state.Valid() {
		return 0, fmt.Errorf("%w: unknown element state %q", entities.ErrInvalidInput, state)
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := e.driver.WaitFor(waitCtx, el.Locator, state, timeout)
	elapsed := time.Since(start)
	if err == nil {
		return elapsed, nil
	}
	if ctx.Err() != nil {
		return elapsed, fmt.Errorf("wait for %s canceled: %w", el.Name, ctx.Err())
	}
	return elapsed, &entities.WaitError{Element: el, State: state, Timeout: timeout, Elapsed: elapsed, Err: err}
}

// act - runs an action, failures are logged and returned as *entities.InteractionError
func (e *Engine) act(ctx context.Context, action entities.ActionType, el entities.Element, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	if err != nil {
		err = &entities.InteractionError{Element: el, Action: action, Err: err}
		e.logger.Errorf("Error on %s %s: %v", action, el.Name, err)
	}
	e.emit(entities.InteractionEvent{Action: action, Element: el, Policy: entities.Strict, Elapsed: elapsed, Err: err})
	return err
}

func (e *Engine) effective(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return e.timeout
	}
	return timeout
}

func (e *Engine) emit(ev entities.InteractionEvent) {
	if e.observer != nil {
		e.observer(ev)
	}
}

// Ensure Engine implements Interactable interface
var _ interfaces.Interactable = (*Engine)(nil)
