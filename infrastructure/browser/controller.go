package browser

import (
	"betting_e2e/domain/entities"
	"betting_e2e/domain/interfaces"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// browserController owns the playwright process and one browser
type browserController struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	logger  *logrus.Entry

	sessionsMutex sync.Mutex
	sessions      map[*playwrightSession]struct{}
}

// NewBrowserController - starts playwright and launches the configured browser
func NewBrowserController(opts LaunchOptions, logger *logrus.Logger) (interfaces.Launcher, error) {
	log := logger.WithField("component", "playwright")
	if opts.Browser == "" {
		opts.Browser = "chromium"
	}

	runOpts := &playwright.RunOptions{Browsers: []string{opts.Browser}}
	if opts.Install {
		log.Infof("Installing %s...", opts.Browser)
		if err := playwright.Install(runOpts); err != nil {
			return nil, fmt.Errorf("failed to install playwright browsers: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	var browserType playwright.BrowserType
	switch opts.Browser {
	case "chromium":
		browserType = pw.Chromium
	case "firefox":
		browserType = pw.Firefox
	case "webkit":
		browserType = pw.WebKit
	default:
		pw.Stop()
		return nil, fmt.Errorf("unsupported browser %q", opts.Browser)
	}

	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		SlowMo:   playwright.Float(float64(opts.SlowMo.Milliseconds())),
		Timeout:  playwright.Float(60000),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	log.Infof("Launched %s (headless: %t, slow-mo: %v)", opts.Browser, opts.Headless, opts.SlowMo)

	return &browserController{
		pw:       pw,
		browser:  browser,
		logger:   log,
		sessions: make(map[*playwrightSession]struct{}),
	}, nil
}

// NewSession - creates isolated browser context with one page, restoring opts.Snapshot
func (b *browserController) NewSession(ctx context.Context, opts entities.SessionOptions) (interfaces.Session, error) {
	contextOptions := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  1280,
			Height: 720,
		},
		IgnoreHttpsErrors: playwright.Bool(true),
	}
	if opts.BaseURL != "" {
		contextOptions.BaseURL = playwright.String(opts.BaseURL)
	}
	if opts.Snapshot != nil {
		state, err := toStorageState(*opts.Snapshot)
		if err != nil {
			return nil, err
		}
		contextOptions.StorageState = state.ToOptionalStorageState()
	}

	session, err := await(ctx, func() (*playwrightSession, error) {
		bctx, err := b.browser.NewContext(contextOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to create context: %w", err)
		}
		page, err := bctx.NewPage()
		if err != nil {
			bctx.Close()
			return nil, fmt.Errorf("failed to create page: %w", err)
		}
		return &playwrightSession{context: bctx, page: page, owner: b}, nil
	}, func(late *playwrightSession) {
		if err := late.context.Close(); err != nil {
			b.logger.Warnf("Failed to close abandoned context: %v", err)
		}
	})
	if err != nil {
		return nil, err
	}

	b.sessionsMutex.Lock()
	b.sessions[session] = struct{}{}
	b.sessionsMutex.Unlock()
	b.logger.Debugf("Session created (base url %q, restored: %t)", opts.BaseURL, opts.Snapshot != nil)
	return session, nil
}

// Close - closes open sessions, the browser and playwright
func (b *browserController) Close() error {
	b.sessionsMutex.Lock()
	sessions := make([]*playwrightSession, 0, len(b.sessions))
	for s := range b.sessions {
		sessions = append(sessions, s)
	}
	b.sessionsMutex.Unlock()

	for _, s := range sessions {
		s.Close()
	}

	var firstErr error
	if err := b.browser.Close(); err != nil {
		firstErr = fmt.Errorf("failed to close browser: %w", err)
	}
	if err := b.pw.Stop(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("failed to stop playwright: %w", err)
	}
	return firstErr
}

func (b *browserController) forget(s *playwrightSession) {
	b.sessionsMutex.Lock()
	defer b.sessionsMutex.Unlock()
	delete(b.sessions, s)
}

// playwrightSession is a browser context with a single page
type playwrightSession struct {
	context playwright.BrowserContext
	page    playwright.Page
	owner   *browserController
	once    sync.Once
}

// Driver - returns the page driver
func (s *playwrightSession) Driver() interfaces.Driver {
	return &pageDriver{page: s.page}
}

// SaveState - captures cookies and local storage
func (s *playwrightSession) SaveState(ctx context.Context) (entities.SessionSnapshot, error) {
	state, err := await(ctx, func() (*playwright.StorageState, error) {
		return s.context.StorageState()
	}, nil)
	if err != nil {
		return entities.SessionSnapshot{}, fmt.Errorf("failed to read storage state: %w", err)
	}
	return fromStorageState(state)
}

// Close - closes the context, repeated calls are no-ops
func (s *playwrightSession) Close() error {
	var err error
	s.once.Do(func() {
		s.owner.forget(s)
		if cerr := s.context.Close(); cerr != nil {
			err = fmt.Errorf("failed to close context: %w", cerr)
		}
	})
	return err
}

// pageDriver implements Driver on a playwright page
type pageDriver struct {
	page playwright.Page
}

var waitStates = map[entities.ElementState]*playwright.WaitForSelectorState{
	entities.StateVisible:  playwright.WaitForSelectorStateVisible,
	entities.StateHidden:   playwright.WaitForSelectorStateHidden,
	entities.StateAttached: playwright.WaitForSelectorStateAttached,
	entities.StateDetached: playwright.WaitForSelectorStateDetached,
}

// Navigate - opens url, relative urls resolve against the session base url
func (d *pageDriver) Navigate(ctx context.Context, url string) error {
	return withContext(ctx, func() error {
		_, err := d.page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
			Timeout:   ms(budget(ctx, actionTimeout)),
		})
		return err
	})
}

// WaitFor - waits for the first element matching selector to reach state
func (d *pageDriver) WaitFor(ctx context.Context, selector string, state entities.ElementState, timeout time.Duration) error {
	waitState, ok := waitStates[state]
	if !ok {
		return fmt.Errorf("unknown element state %q", state)
	}
	return withContext(ctx, func() error {
		return d.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
			State:   waitState,
			Timeout: ms(budget(ctx, timeout)),
		})
	})
}

// Click - clicks the first element matching selector
func (d *pageDriver) Click(ctx context.Context, selector string) error {
	return withContext(ctx, func() error {
		return d.page.Locator(selector).First().Click(playwright.LocatorClickOptions{
			Timeout: ms(budget(ctx, actionTimeout)),
		})
	})
}

// Fill - fills the first element matching selector
func (d *pageDriver) Fill(ctx context.Context, selector string, text string) error {
	return withContext(ctx, func() error {
		return d.page.Locator(selector).First().Fill(text, playwright.LocatorFillOptions{
			Timeout: ms(budget(ctx, actionTimeout)),
		})
	})
}

// TextContent - returns text content of the first element matching selector
func (d *pageDriver) TextContent(ctx context.Context, selector string) (string, error) {
	return await(ctx, func() (string, error) {
		return d.page.Locator(selector).First().TextContent(playwright.LocatorTextContentOptions{
			Timeout: ms(budget(ctx, actionTimeout)),
		})
	}, nil)
}

// ScrollIntoView - scrolls the first element matching selector into view
func (d *pageDriver) ScrollIntoView(ctx context.Context, selector string) error {
	return withContext(ctx, func() error {
		return d.page.Locator(selector).First().ScrollIntoViewIfNeeded(playwright.LocatorScrollIntoViewIfNeededOptions{
			Timeout: ms(budget(ctx, actionTimeout)),
		})
	})
}

// Count - returns number of elements matching selector
func (d *pageDriver) Count(ctx context.Context, selector string) (int, error) {
	return await(ctx, func() (int, error) {
		return d.page.Locator(selector).Count()
	}, nil)
}

// WaitForNetworkIdle - waits for the networkidle load state
func (d *pageDriver) WaitForNetworkIdle(ctx context.Context, timeout time.Duration) error {
	return withContext(ctx, func() error {
		return d.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
			State:   playwright.LoadStateNetworkidle,
			Timeout: ms(budget(ctx, timeout)),
		})
	})
}

// Screenshot - writes a full page screenshot to path
func (d *pageDriver) Screenshot(ctx context.Context, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create screenshot dir: %w", err)
	}
	return withContext(ctx, func() error {
		_, err := d.page.Screenshot(playwright.PageScreenshotOptions{
			Path:     playwright.String(path),
			FullPage: playwright.Bool(true),
		})
		return err
	})
}

// ms - converts d to a playwright timeout, zero would mean no timeout so it is never returned
func ms(d time.Duration) *float64 {
	v := float64(d.Milliseconds())
	if v < 1 {
		v = 1
	}
	return playwright.Float(v)
}

// toStorageState and fromStorageState convert through JSON, both sides share the storage state file layout
func toStorageState(snapshot entities.SessionSnapshot) (*playwright.StorageState, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session snapshot: %w", err)
	}
	var state playwright.StorageState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode storage state: %w", err)
	}
	return &state, nil
}

func fromStorageState(state *playwright.StorageState) (entities.SessionSnapshot, error) {
	if state == nil {
		return entities.SessionSnapshot{}, nil
	}
	data, err := json.Marshal(state)
	if err != nil {
		return entities.SessionSnapshot{}, fmt.Errorf("failed to encode storage state: %w", err)
	}
	var snapshot entities.SessionSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return entities.SessionSnapshot{}, fmt.Errorf("failed to decode session snapshot: %w", err)
	}
	return snapshot, nil
}

// Ensure playwright types implement interfaces
var (
	_ interfaces.Launcher = (*browserController)(nil)
	_ interfaces.Session  = (*playwrightSession)(nil)
	_ interfaces.Driver   = (*pageDriver)(nil)
)
