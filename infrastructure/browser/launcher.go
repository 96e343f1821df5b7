// Package browser implements the page driver on top of playwright and selenium.
package browser

import (
	"betting_e2e/domain/interfaces"
	"betting_e2e/infrastructure/config"
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// actionTimeout bounds driver calls made without a ctx deadline
const actionTimeout = 30 * time.Second

// LaunchOptions configures the browser process
type LaunchOptions struct {
	Browser          string        // chromium, firefox or webkit
	Headless         bool          // Run without a window
	SlowMo           time.Duration // Delay inserted after every browser operation
	Install          bool          // Download the browser before the first launch
	DriverPath       string        // chromedriver location of the selenium engine
	ChromeBinaryPath string        // Chrome location of the selenium engine
}

// NewLauncher - starts the browser engine selected by cfg
func NewLauncher(cfg config.Config, logger *logrus.Logger) (interfaces.Launcher, error) {
	opts := LaunchOptions{
		Browser:          cfg.Browser,
		Headless:         cfg.Headless,
		SlowMo:           cfg.SlowMo,
		Install:          cfg.InstallBrowsers,
		DriverPath:       cfg.DriverPath,
		ChromeBinaryPath: cfg.ChromeBinaryPath,
	}

	switch cfg.BrowserEngine {
	case config.EnginePlaywright:
		return NewBrowserController(opts, logger)
	case config.EngineSelenium:
		return NewSeleniumController(opts, logger)
	}
	return nil, fmt.Errorf("unsupported browser engine %q", cfg.BrowserEngine)
}

// withContext - runs a blocking call and returns early once ctx is done.
// The call keeps running in the background until the browser gives up on it.
func withContext(ctx context.Context, fn func() error) error {
	_, err := await(ctx, func() (struct{}, error) { return struct{}{}, fn() }, nil)
	return err
}

type result[T any] struct {
	value T
	err   error
}

// await - runs a blocking call returning a value and returns early once ctx is done.
// A value produced after ctx is done is handed to release, when set, since nobody else owns it.
func await[T any](ctx context.Context, fn func() (T, error), release func(T)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	done := make(chan result[T], 1)
	go func() {
		v, err := fn()
		done <- result[T]{value: v, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		if release != nil {
			go func() {
				if r := <-done; r.err == nil {
					release(r.value)
				}
			}()
		}
		return zero, ctx.Err()
	}
}

// budget - returns time left until ctx deadline, capped by limit
func budget(ctx context.Context, limit time.Duration) time.Duration {
	if limit <= 0 {
		limit = actionTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < limit {
			if left < 0 {
				return 0
			}
			return left
		}
	}
	return limit
}
