//go:build e2e

package e2e

import (
	"context"
	"errors"
	"testing"

	"betting_e2e/application/pages"
	"betting_e2e/application/scenario"
	"betting_e2e/domain/entities"
)

func TestWallet_VaultDepositAndWithdraw(t *testing.T) {
	runScenario(t, loggedIn, func(ctx context.Context, sc *scenario.Scenario) error {
		if err := step("open wallet", sc.Main.ClickWalletButton(ctx, pages.WalletButtonTimeout)); err != nil {
			return err
		}
		if err := step("wallet modal", sc.Wallet.WaitModalVisible(ctx)); err != nil {
			return err
		}
		if err := expect("wallet modal is not visible", sc.Wallet.IsWalletModalVisible(ctx, pages.WalletModalTimeout)); err != nil {
			return err
		}

		if err := step("open vault", sc.Wallet.ClickVaultButton(ctx)); err != nil {
			return err
		}
		if err := step("vault title", sc.Wallet.ExpectHeaderTitleIsVault(ctx)); err != nil {
			return err
		}

		if err := step("deposit", sc.Wallet.Deposit(ctx, 10)); err != nil {
			return err
		}
		if err := step("withdraw", sc.Wallet.ClickWithdrawButton(ctx)); err != nil {
			return err
		}
		return expect("vault payment methods are not visible", sc.Wallet.ExpectVaultPaymentMethodsVisible(ctx))
	})
}

func TestWallet_NonPositiveDepositRejected(t *testing.T) {
	runScenario(t, loggedIn, func(ctx context.Context, sc *scenario.Scenario) error {
		if err := sc.Wallet.Deposit(ctx, 0); !errors.Is(err, entities.ErrInvalidInput) {
			return errors.Join(errors.New("zero deposit is not rejected as invalid input"), err)
		}
		return nil
	})
}
