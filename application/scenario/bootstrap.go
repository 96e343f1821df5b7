package scenario

import (
	"betting_e2e/domain/entities"
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater"
	"github.com/go-pkgz/repeater/strategy"
)

const (
	// BootstrapAttempts is how many times the session bootstrap is tried
	BootstrapAttempts = 2
	// bootstrapScreenshot names screenshots of failed bootstrap attempts
	bootstrapScreenshot = "global-setup-error"
)

// Bootstrap - logs in once and persists the session snapshot for later scenarios.
// Every failed attempt leaves a screenshot, the last failure matches entities.ErrSetupFailure.
func (c *Composer) Bootstrap(ctx context.Context) error {
	delay := c.retryDelay
	if delay <= 0 {
		delay = time.Second
	}
	rptr := repeater.New(&strategy.Backoff{Repeats: BootstrapAttempts, Duration: delay, Factor: 1})

	attempt := 0
	err := rptr.Do(ctx, func() error {
		attempt++
		c.log.Infof("Session bootstrap, attempt %d of %d", attempt, BootstrapAttempts)
		if err := c.Run(ctx, Options{Name: bootstrapScreenshot, NeedsLogin: true}, c.persistSession); err != nil {
			c.log.Errorf("Session bootstrap attempt %d failed: %v", attempt, err)
			return err
		}
		return nil
	})
	if err == nil && attempt == 0 {
		err = ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("%w: session bootstrap failed after %d attempts: %w", entities.ErrSetupFailure, attempt, err)
	}

	c.log.Infof("Session saved to %s", c.store.Path())
	return nil
}

func (c *Composer) persistSession(ctx context.Context, sc *Scenario) error {
	snapshot, err := sc.Session.SaveState(ctx)
	if err != nil {
		return fmt.Errorf("failed to capture session state: %w", err)
	}
	if err := c.store.Save(snapshot); err != nil {
		return fmt.Errorf("failed to save session state: %w", err)
	}
	return nil
}
