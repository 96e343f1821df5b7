package pages

import (
	"betting_e2e/domain/entities"
	"betting_e2e/domain/interfaces"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// WalletModalTimeout is the default wait for the wallet modal
const WalletModalTimeout = 5 * time.Second

// VaultTitle is the header of the vault tab
const VaultTitle = "Vault"

var walletSelectors = struct {
	ModalContainer         entities.Element
	HeaderTitle            entities.Element
	VaultButton            entities.Element
	Input                  entities.Element
	DepositButton          entities.Element
	WithdrawButton         entities.Element
	PaymentMethodContainer entities.Element
}{
	ModalContainer:         entities.Element{Name: "Modal container", Locator: `[data-testid="modalContainer"]`},
	HeaderTitle:            entities.Element{Name: "Header title", Locator: `[data-testid="headerTitle"]`},
	VaultButton:            entities.Element{Name: "Vault button", Locator: `[data-testid="vaultButton"]`},
	Input:                  entities.Element{Name: "Amount input", Locator: `input[data-testid="Input"]`},
	DepositButton:          entities.Element{Name: "Deposit button", Locator: `[data-testid="depositToVaultButton"]`},
	WithdrawButton:         entities.Element{Name: "Withdraw button", Locator: `[data-testid="withdrawButton"]`},
	PaymentMethodContainer: entities.Element{Name: "Payment method container", Locator: `[data-testid="vaultPaymentMethodContainer"]`},
}

// WalletPopup is the wallet modal opened from the header
type WalletPopup struct {
	ui     interfaces.Interactable
	guard  interfaces.Guard
	logger *logrus.Entry
}

// NewWalletPopup - creates wallet popup on top of ui
func NewWalletPopup(ui interfaces.Interactable, guard interfaces.Guard, logger *logrus.Logger) *WalletPopup {
	return &WalletPopup{ui: ui, guard: guard, logger: logger.WithField("component", "wallet-popup")}
}

// WaitModalVisible - waits for the modal, failing when it does not show up
func (p *WalletPopup) WaitModalVisible(ctx context.Context) error {
	p.logger.Debug("Waiting for wallet modal to be visible...")
	return p.ui.WaitForVisible(ctx, walletSelectors.ModalContainer, entities.Strict, WalletModalTimeout)
}

// IsWalletModalVisible - checks the modal, timeout <= 0 selects WalletModalTimeout
func (p *WalletPopup) IsWalletModalVisible(ctx context.Context, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = WalletModalTimeout
	}
	return p.ui.IsElementVisible(ctx, walletSelectors.ModalContainer, timeout)
}

// ClickVaultButton - switches to the vault tab
func (p *WalletPopup) ClickVaultButton(ctx context.Context) error {
	return p.clickVisible(ctx, walletSelectors.VaultButton)
}

// VaultHeaderTitle - returns the modal header title
func (p *WalletPopup) VaultHeaderTitle(ctx context.Context) (string, error) {
	if err := p.ui.WaitForVisible(ctx, walletSelectors.HeaderTitle, entities.Strict, 0); err != nil {
		return "", err
	}
	return p.ui.GetText(ctx, walletSelectors.HeaderTitle)
}

// ExpectHeaderTitleIsVault - fails unless the header reads Vault
func (p *WalletPopup) ExpectHeaderTitleIsVault(ctx context.Context) error {
	title, err := p.VaultHeaderTitle(ctx)
	if err != nil {
		return err
	}
	if title != VaultTitle {
		return fmt.Errorf("unexpected wallet header title %q, want %q", title, VaultTitle)
	}
	return nil
}

// Deposit - deposits amount into the vault
func (p *WalletPopup) Deposit(ctx context.Context, amount float64) error {
	if err := p.guard.CheckAmount(amount); err != nil {
		return err
	}
	value := strconv.FormatFloat(amount, 'f', -1, 64)
	p.logger.Infof("Depositing %s into vault...", value)

	if err := p.ui.WaitForVisible(ctx, walletSelectors.DepositButton, entities.Strict, 0); err != nil {
		return err
	}
	if err := p.ui.Type(ctx, walletSelectors.Input, value); err != nil {
		return err
	}
	if err := p.clickVisible(ctx, walletSelectors.DepositButton); err != nil {
		return err
	}
	p.logger.Infof("%s deposited to vault", value)
	return nil
}

// ClickWithdrawButton - opens the withdraw tab
func (p *WalletPopup) ClickWithdrawButton(ctx context.Context) error {
	return p.clickVisible(ctx, walletSelectors.WithdrawButton)
}

// ExpectVaultPaymentMethodsVisible - reports whether payment methods are shown
func (p *WalletPopup) ExpectVaultPaymentMethodsVisible(ctx context.Context) bool {
	p.logger.Debug("Verifying payment methods container is visible...")
	return p.ui.IsElementVisible(ctx, walletSelectors.PaymentMethodContainer, 0)
}

func (p *WalletPopup) clickVisible(ctx context.Context, el entities.Element) error {
	p.logger.Debugf("Clicking on %s...", el.Name)
	if err := p.ui.WaitForVisible(ctx, el, entities.Strict, 0); err != nil {
		return err
	}
	return p.ui.Click(ctx, el)
}
