// Package pages holds page objects of the betting application.
// Each page composes an interfaces.Interactable with its own selector table.
package pages

import (
	"betting_e2e/domain/entities"
	"betting_e2e/domain/interfaces"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

var authSelectors = struct {
	AuthPopup    entities.Element
	Username     entities.Element
	Password     entities.Element
	LoginButton  entities.Element
	LogoutButton entities.Element
	SigninNav    entities.Element
}{
	AuthPopup:    entities.Element{Name: "Auth Popup", Locator: `[data-testid="AuthPopup"]`},
	Username:     entities.Element{Name: "Username Input", Locator: `[name="username"]`},
	Password:     entities.Element{Name: "Password Input", Locator: `[name="password"]`},
	LoginButton:  entities.Element{Name: "Login Button", Locator: `[data-testid="start-playing-login"]`},
	LogoutButton: entities.Element{Name: "Logout Button", Locator: `[data-testid="logout-button"]`},
	SigninNav:    entities.Element{Name: "Sign In Navigation", Locator: `[data-testid="signin-nav"]`},
}

// AuthPage handles the authentication UI
type AuthPage struct {
	ui     interfaces.Interactable
	logger *logrus.Entry
}

// NewAuthPage - creates auth page on top of ui
func NewAuthPage(ui interfaces.Interactable, logger *logrus.Logger) *AuthPage {
	return &AuthPage{ui: ui, logger: logger.WithField("component", "auth-page")}
}

// IsLoginPageVisible - reports whether the sign in navigation is shown
func (p *AuthPage) IsLoginPageVisible(ctx context.Context) bool {
	return p.ui.IsElementVisible(ctx, authSelectors.SigninNav, 0)
}

// NavigateToLogin - opens the landing page
func (p *AuthPage) NavigateToLogin(ctx context.Context) error {
	p.logger.Debug("Navigating to login page...")
	return p.ui.Navigate(ctx, "/")
}

// OpenLoginForm - clicks sign in and waits for the auth popup
func (p *AuthPage) OpenLoginForm(ctx context.Context) error {
	p.logger.Debug("Opening login form...")
	if err := p.ui.Click(ctx, authSelectors.SigninNav); err != nil {
		return err
	}
	return p.ui.WaitForVisible(ctx, authSelectors.AuthPopup, entities.Strict, 0)
}

// Login - submits credentials in the open login form
func (p *AuthPage) Login(ctx context.Context, username, password string) error {
	if username == "" {
		return fmt.Errorf("%w: empty username", entities.ErrInvalidInput)
	}
	p.logger.Infof("Logging in with username: %s", username)

	if err := p.ui.Type(ctx, authSelectors.Username, username); err != nil {
		return err
	}
	if err := p.ui.Type(ctx, authSelectors.Password, password); err != nil {
		return err
	}
	return p.ui.Click(ctx, authSelectors.LoginButton)
}

// Logout - clicks logout and waits for the sign in navigation to return
func (p *AuthPage) Logout(ctx context.Context) error {
	p.logger.Debug("Logging out...")
	if err := p.ui.WaitForVisible(ctx, authSelectors.LogoutButton, entities.Strict, 0); err != nil {
		return err
	}
	if err := p.ui.Click(ctx, authSelectors.LogoutButton); err != nil {
		return err
	}
	return p.ui.WaitForVisible(ctx, authSelectors.SigninNav, entities.Strict, 0)
}
