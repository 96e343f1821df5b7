package pages

import (
	"betting_e2e/domain/entities"
	"betting_e2e/domain/interfaces"
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// WalletButtonTimeout is the default wait for the header wallet button
const WalletButtonTimeout = 5 * time.Second

var mainSelectors = struct {
	LoadingContainer entities.Element
	UserBalance      entities.Element
	CrashLink        entities.Element
	WalletButton     entities.Element
}{
	LoadingContainer: entities.Element{Name: "Loading Container", Locator: `[data-testid="page-container-animate"]`},
	UserBalance:      entities.Element{Name: "User Balance", Locator: `[data-testid="headerUserBalance"]`},
	CrashLink:        entities.Element{Name: "Crash Game Link", Locator: `:nth-match(a[href="/crash"]:has-text("Crash"), 1)`},
	WalletButton:     entities.Element{Name: "Wallet Button", Locator: `[data-testid="headerWalletButton"]`},
}

// MainPage is the lobby shown after login
type MainPage struct {
	ui     interfaces.Interactable
	logger *logrus.Entry
}

// NewMainPage - creates main page on top of ui
func NewMainPage(ui interfaces.Interactable, logger *logrus.Logger) *MainPage {
	return &MainPage{ui: ui, logger: logger.WithField("component", "main-page")}
}

// ExpectSuccessfulLogin - reports whether the lobby loaded with a non-empty balance
func (p *MainPage) ExpectSuccessfulLogin(ctx context.Context) bool {
	p.logger.Debug("Waiting for loading container to be visible...")
	if !p.ui.IsElementVisible(ctx, mainSelectors.LoadingContainer, 0) {
		return false
	}
	if !p.ui.IsElementVisible(ctx, mainSelectors.UserBalance, 0) {
		return false
	}

	balance, err := p.Balance(ctx)
	if err != nil || balance == "" {
		p.logger.Warn("User balance is empty after login")
		return false
	}
	p.logger.Debugf("Login successful, balance %s", balance)
	return true
}

// Balance - returns the header balance text
func (p *MainPage) Balance(ctx context.Context) (string, error) {
	return p.ui.GetText(ctx, mainSelectors.UserBalance)
}

// NavigateToCrashGame - opens the crash game from the lobby
func (p *MainPage) NavigateToCrashGame(ctx context.Context) error {
	el := mainSelectors.CrashLink
	p.logger.Debugf("Waiting for %s to be visible...", el.Name)
	if err := p.ui.WaitForVisible(ctx, el, entities.Strict, 0); err != nil {
		return err
	}
	if err := p.ui.ScrollIntoView(ctx, el); err != nil {
		return err
	}
	if err := p.ui.Click(ctx, el); err != nil {
		return fmt.Errorf("crash game link is not interactable: %w", err)
	}
	return nil
}

// ClickWalletButton - opens the wallet popup, timeout <= 0 selects WalletButtonTimeout
func (p *MainPage) ClickWalletButton(ctx context.Context, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = WalletButtonTimeout
	}
	p.logger.Debug("Checking if wallet button is visible...")
	if err := p.ui.WaitForVisible(ctx, mainSelectors.WalletButton, entities.Strict, timeout); err != nil {
		return err
	}
	if err := p.ui.Click(ctx, mainSelectors.WalletButton); err != nil {
		return fmt.Errorf("wallet button is not clickable: %w", err)
	}
	p.logger.Debug("Wallet button clicked")
	return nil
}
