// Package scenario wires a browser session, the interaction engine and page objects into a test flow.
package scenario

import (
	"betting_e2e/application/interaction"
	"betting_e2e/application/pages"
	"betting_e2e/domain/entities"
	"betting_e2e/domain/interfaces"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// artifactTimeout bounds screenshot capture after a failure
const artifactTimeout = 10 * time.Second

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Options controls how a scenario session is prepared
type Options struct {
	Name       string // Used in artifact names
	UseSession bool   // Restore the persisted session snapshot
	NeedsLogin bool   // Log in unless the session is already authenticated
}

// Scenario is a session with the engine and page objects bound to it
type Scenario struct {
	Session interfaces.Session
	Engine  *interaction.Engine
	Auth    *pages.AuthPage
	Main    *pages.MainPage
	Wallet  *pages.WalletPopup
	Crash   *pages.CrashPage
}

// Composer creates scenarios
type Composer struct {
	launcher interfaces.Launcher
	store    interfaces.SessionStore
	guard    interfaces.Guard
	settings entities.Settings
	logger   *logrus.Logger
	log      *logrus.Entry

	retryDelay time.Duration // Pause between bootstrap attempts, one second when zero
}

// NewComposer - creates composer
func NewComposer(launcher interfaces.Launcher, store interfaces.SessionStore, guard interfaces.Guard,
	settings entities.Settings, logger *logrus.Logger) *Composer {
	return &Composer{
		launcher: launcher,
		store:    store,
		guard:    guard,
		settings: settings,
		logger:   logger,
		log:      logger.WithField("component", "scenario"),
	}
}

// Run - runs body in a fresh session. A failing or panicking body leaves a screenshot
// in the artifacts directory. The session is always closed.
func (c *Composer) Run(ctx context.Context, opts Options, body func(ctx context.Context, sc *Scenario) error) (err error) {
	sessionOpts := entities.SessionOptions{BaseURL: c.settings.Environment.BaseURL}
	if opts.UseSession {
		sessionOpts.Snapshot = c.loadSnapshot()
	}

	session, err := c.launcher.NewSession(ctx, sessionOpts)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			c.log.Warnf("Failed to close session: %v", cerr)
		}
	}()

	sc := c.compose(session)
	defer func() {
		if r := recover(); r != nil {
			c.captureFailure(ctx, sc, opts.Name)
			panic(r)
		}
		if err != nil {
			c.captureFailure(ctx, sc, opts.Name)
		}
	}()

	if err = sc.Engine.Navigate(ctx, "/"); err != nil {
		return err
	}
	if opts.NeedsLogin {
		if err = c.login(ctx, sc); err != nil {
			return err
		}
	}

	c.log.Infof("Running scenario %s", opts.Name)
	return body(ctx, sc)
}

// compose - binds engine and page objects to session
func (c *Composer) compose(session interfaces.Session) *Scenario {
	engine := interaction.NewEngine(session.Driver(), c.logger, c.settings.WaitTimeout)
	return &Scenario{
		Session: session,
		Engine:  engine,
		Auth:    pages.NewAuthPage(engine, c.logger),
		Main:    pages.NewMainPage(engine, c.logger),
		Wallet:  pages.NewWalletPopup(engine, c.guard, c.logger),
		Crash:   pages.NewCrashPage(engine, c.guard, c.logger),
	}
}

// login - logs in with configured credentials unless the sign in navigation is gone already
func (c *Composer) login(ctx context.Context, sc *Scenario) error {
	if !sc.Auth.IsLoginPageVisible(ctx) {
		c.log.Info("User is already logged in, skipping login")
		return nil
	}

	creds := c.settings.Credentials
	if err := sc.Auth.OpenLoginForm(ctx); err != nil {
		return fmt.Errorf("failed to open login form: %w", err)
	}
	if err := sc.Auth.Login(ctx, creds.Username, creds.Password); err != nil {
		return fmt.Errorf("failed to log in as %s: %w", creds.Username, err)
	}
	if !sc.Main.ExpectSuccessfulLogin(ctx) {
		return fmt.Errorf("login as %s did not reach the lobby", creds.Username)
	}
	return nil
}

func (c *Composer) loadSnapshot() *entities.SessionSnapshot {
	snapshot, ok, err := c.store.Load()
	if err != nil {
		c.log.Warnf("Failed to load session from %s: %v", c.store.Path(), err)
		return nil
	}
	if !ok || snapshot.Empty() {
		c.log.Warnf("No saved session at %s, starting anonymous", c.store.Path())
		return nil
	}
	return &snapshot
}

// captureFailure - writes a uniquely named screenshot, failures are only logged
func (c *Composer) captureFailure(ctx context.Context, sc *Scenario, name string) {
	path, err := c.screenshot(ctx, sc, name)
	if err != nil {
		c.log.Warnf("Failed to capture failure screenshot: %v", err)
		return
	}
	c.log.Infof("Failure screenshot saved to %s", path)
}

func (c *Composer) screenshot(ctx context.Context, sc *Scenario, name string) (string, error) {
	if err := os.MkdirAll(c.settings.ArtifactsDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create artifacts dir: %w", err)
	}

	name = strings.Trim(unsafeName.ReplaceAllString(name, "-"), "-")
	if name == "" {
		name = "scenario"
	}
	path := filepath.Join(c.settings.ArtifactsDir, fmt.Sprintf("%s-%s.png", name, uuid.NewString()))

	// a canceled scenario still gets its screenshot
	shotCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), artifactTimeout)
	defer cancel()
	if err := sc.Engine.Screenshot(shotCtx, path); err != nil {
		return "", err
	}
	return path, nil
}

// IsSetupFailure - reports whether err comes from a failed bootstrap
func IsSetupFailure(err error) bool {
	return errors.Is(err, entities.ErrSetupFailure)
}
