package scenario

import (
	"betting_e2e/application/interaction/interactiontest"
	"betting_e2e/domain/entities"
	"betting_e2e/infrastructure/security"
	"betting_e2e/infrastructure/storage"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	signinNav   = `[data-testid="signin-nav"]`
	authPopup   = `[data-testid="AuthPopup"]`
	username    = `[name="username"]`
	password    = `[name="password"]`
	loginButton = `[data-testid="start-playing-login"]`
	loading     = `[data-testid="page-container-animate"]`
	balance     = `[data-testid="headerUserBalance"]`
)

// savedSnapshot is in the shape the session file stores, empty lists included
var savedSnapshot = entities.SessionSnapshot{
	Cookies: []entities.Cookie{{Name: "session", Value: "abc", Domain: "example.com", Path: "/"}},
	Origins: []entities.OriginState{},
}

// loggedOut - scripts a landing page whose login reaches the lobby when lobby is true
func loggedOut(lobby bool) *interactiontest.FakeDriver {
	d := interactiontest.NewFakeDriver()
	d.Show(signinNav, "Sign in")
	d.OnClick(signinNav, func(d *interactiontest.FakeDriver) {
		d.Show(authPopup, "")
		d.Show(username, "")
		d.Show(password, "")
		d.Show(loginButton, "Start playing")
	})
	d.OnClick(loginButton, func(d *interactiontest.FakeDriver) {
		if !lobby {
			return
		}
		d.Remove(signinNav)
		d.Show(loading, "")
		d.Show(balance, "$100")
	})
	return d
}

type testEnv struct {
	launcher *interactiontest.FakeLauncher
	store    interface {
		Load() (entities.SessionSnapshot, bool, error)
		Save(entities.SessionSnapshot) error
	}
	artifacts string
	composer  *Composer
}

func newTestEnv(t *testing.T, build func(attempt int) *interactiontest.FakeDriver) *testEnv {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	env := entities.Environment{
		Name:    "QA",
		BaseURL: "https://qa.example.com",
		Games:   map[string]entities.GameLimits{"crash": {MinBet: 5, MaxBet: 1000, MaxMultiplier: 100}},
	}
	settings := entities.Settings{
		Environment:  env,
		Credentials:  entities.Credentials{Username: "player", Password: "secret"},
		WaitTimeout:  100 * time.Millisecond,
		ArtifactsDir: filepath.Join(t.TempDir(), "test-results"),
	}
	launcher := &interactiontest.FakeLauncher{Build: build, Snapshot: savedSnapshot}
	store := storage.NewBrowserState(filepath.Join(t.TempDir(), "user.json"))

	c := NewComposer(launcher, store, security.NewSecurityLayer(env, logger), settings, logger)
	c.retryDelay = 10 * time.Millisecond
	return &testEnv{launcher: launcher, store: store, artifacts: settings.ArtifactsDir, composer: c}
}

func TestComposer_RunWithLogin(t *testing.T) {
	te := newTestEnv(t, func(int) *interactiontest.FakeDriver { return loggedOut(true) })

	called := false
	err := te.composer.Run(context.Background(), Options{Name: "login", NeedsLogin: true},
		func(ctx context.Context, sc *Scenario) error {
			called = true
			balance, err := sc.Main.Balance(ctx)
			require.NoError(t, err)
			assert.Equal(t, "$100", balance)
			return nil
		})
	require.NoError(t, err)
	assert.True(t, called)

	sessions := te.launcher.Sessions()
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].Closed())

	d := sessions[0].Driver().(*interactiontest.FakeDriver)
	assert.Equal(t, "/", d.URL())
	assert.Equal(t, "player", d.Value(username))
	assert.Equal(t, "secret", d.Value(password))
	assert.Empty(t, d.CallsOf("Screenshot"))

	opts := te.launcher.Options()
	require.Len(t, opts, 1)
	assert.Equal(t, "https://qa.example.com", opts[0].BaseURL)
	assert.Nil(t, opts[0].Snapshot)
}

func TestComposer_RunAlreadyLoggedIn(t *testing.T) {
	te := newTestEnv(t, func(int) *interactiontest.FakeDriver {
		return interactiontest.NewFakeDriver().Show(balance, "$100")
	})

	err := te.composer.Run(context.Background(), Options{Name: "wallet", NeedsLogin: true},
		func(ctx context.Context, sc *Scenario) error { return nil })
	require.NoError(t, err)
	d := te.launcher.Sessions()[0].Driver().(*interactiontest.FakeDriver)
	assert.Empty(t, d.CallsOf("Fill"))
	assert.Empty(t, d.CallsOf("Click"))
}

func TestComposer_RunFailureScreenshot(t *testing.T) {
	te := newTestEnv(t, nil)
	bodyErr := errors.New("balance mismatch")

	err := te.composer.Run(context.Background(), Options{Name: "TestWallet_Deposit/10$"},
		func(ctx context.Context, sc *Scenario) error { return bodyErr })
	require.Error(t, err)
	assert.True(t, errors.Is(err, bodyErr))

	session := te.launcher.Sessions()[0]
	assert.True(t, session.Closed())

	shots := session.Driver().(*interactiontest.FakeDriver).CallsOf("Screenshot")
	require.Len(t, shots, 1)
	assert.Equal(t, te.artifacts, filepath.Dir(shots[0].Arg))
	base := filepath.Base(shots[0].Arg)
	assert.True(t, strings.HasPrefix(base, "TestWallet_Deposit-10-"), base)
	assert.True(t, strings.HasSuffix(base, ".png"), base)
}

func TestComposer_RunFailureScreenshotsAreUnique(t *testing.T) {
	te := newTestEnv(t, nil)
	fail := func(ctx context.Context, sc *Scenario) error { return errors.New("failed") }

	require.Error(t, te.composer.Run(context.Background(), Options{Name: "crash"}, fail))
	require.Error(t, te.composer.Run(context.Background(), Options{Name: "crash"}, fail))

	sessions := te.launcher.Sessions()
	require.Len(t, sessions, 2)
	first := sessions[0].Driver().(*interactiontest.FakeDriver).CallsOf("Screenshot")[0].Arg
	second := sessions[1].Driver().(*interactiontest.FakeDriver).CallsOf("Screenshot")[0].Arg
	assert.NotEqual(t, first, second)
}

func TestComposer_RunPanicClosesSession(t *testing.T) {
	te := newTestEnv(t, nil)

	assert.PanicsWithValue(t, "boom", func() {
		_ = te.composer.Run(context.Background(), Options{Name: "panic"},
			func(ctx context.Context, sc *Scenario) error { panic("boom") })
	})

	session := te.launcher.Sessions()[0]
	assert.True(t, session.Closed())
	assert.Len(t, session.Driver().(*interactiontest.FakeDriver).CallsOf("Screenshot"), 1)
}

func TestComposer_RunLoginFailure(t *testing.T) {
	te := newTestEnv(t, func(int) *interactiontest.FakeDriver { return loggedOut(false) })

	called := false
	err := te.composer.Run(context.Background(), Options{Name: "login", NeedsLogin: true},
		func(ctx context.Context, sc *Scenario) error { called = true; return nil })
	require.Error(t, err)
	assert.False(t, called)
	assert.Contains(t, err.Error(), "did not reach the lobby")
	assert.True(t, te.launcher.Sessions()[0].Closed())
}

func TestComposer_RunUsesSavedSession(t *testing.T) {
	te := newTestEnv(t, nil)
	noop := func(ctx context.Context, sc *Scenario) error { return nil }

	require.NoError(t, te.composer.Run(context.Background(), Options{Name: "fresh", UseSession: true}, noop))
	require.NoError(t, te.store.Save(savedSnapshot))
	require.NoError(t, te.composer.Run(context.Background(), Options{Name: "restored", UseSession: true}, noop))

	opts := te.launcher.Options()
	require.Len(t, opts, 2)
	assert.Nil(t, opts[0].Snapshot)
	require.NotNil(t, opts[1].Snapshot)
	assert.Equal(t, savedSnapshot, *opts[1].Snapshot)
}

func TestComposer_RunSessionError(t *testing.T) {
	te := newTestEnv(t, nil)
	te.launcher.NewSessionErr = errors.New("browser crashed")

	err := te.composer.Run(context.Background(), Options{Name: "x"},
		func(ctx context.Context, sc *Scenario) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "browser crashed")
}

func TestComposer_Bootstrap(t *testing.T) {
	te := newTestEnv(t, func(int) *interactiontest.FakeDriver { return loggedOut(true) })

	require.NoError(t, te.composer.Bootstrap(context.Background()))
	snapshot, ok, err := te.store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, savedSnapshot, snapshot)
	assert.Len(t, te.launcher.Sessions(), 1)
}

func TestComposer_BootstrapRetries(t *testing.T) {
	te := newTestEnv(t, func(attempt int) *interactiontest.FakeDriver { return loggedOut(attempt > 1) })

	require.NoError(t, te.composer.Bootstrap(context.Background()))
	sessions := te.launcher.Sessions()
	require.Len(t, sessions, 2)
	assert.Len(t, sessions[0].Driver().(*interactiontest.FakeDriver).CallsOf("Screenshot"), 1)
	assert.Empty(t, sessions[1].Driver().(*interactiontest.FakeDriver).CallsOf("Screenshot"))

	_, ok, err := te.store.Load()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestComposer_BootstrapFails(t *testing.T) {
	te := newTestEnv(t, func(int) *interactiontest.FakeDriver { return loggedOut(false) })

	err := te.composer.Bootstrap(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrSetupFailure))
	assert.True(t, IsSetupFailure(err))

	sessions := te.launcher.Sessions()
	require.Len(t, sessions, BootstrapAttempts)
	for _, s := range sessions {
		assert.True(t, s.Closed())
		shots := s.Driver().(*interactiontest.FakeDriver).CallsOf("Screenshot")
		require.Len(t, shots, 1)
		assert.True(t, strings.HasPrefix(filepath.Base(shots[0].Arg), "global-setup-error-"))
	}

	_, ok, err := te.store.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}
