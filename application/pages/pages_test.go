package pages

import (
	"betting_e2e/application/interaction"
	"betting_e2e/application/interaction/interactiontest"
	"betting_e2e/domain/entities"
	"betting_e2e/infrastructure/security"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	driver *interactiontest.FakeDriver
	auth   *AuthPage
	main   *MainPage
	wallet *WalletPopup
	crash  *CrashPage
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	env := entities.Environment{
		Name:  "QA",
		Games: map[string]entities.GameLimits{CrashGame: {MinBet: 5, MaxBet: 1000, MaxMultiplier: 100}},
	}
	guard := security.NewSecurityLayer(env, logger)
	driver := interactiontest.NewFakeDriver()
	engine := interaction.NewEngine(driver, logger, 200*time.Millisecond)

	return &fixture{
		driver: driver,
		auth:   NewAuthPage(engine, logger),
		main:   NewMainPage(engine, logger),
		wallet: NewWalletPopup(engine, guard, logger),
		crash:  NewCrashPage(engine, guard, logger),
	}
}

func TestAuthPage_LoginFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.driver.Show(authSelectors.SigninNav.Locator, "Sign in")
	f.driver.OnClick(authSelectors.SigninNav.Locator, func(d *interactiontest.FakeDriver) {
		d.ShowAfter(authSelectors.AuthPopup.Locator, "", 20*time.Millisecond)
		d.Show(authSelectors.Username.Locator, "")
		d.Show(authSelectors.Password.Locator, "")
		d.Show(authSelectors.LoginButton.Locator, "Start playing")
	})
	f.driver.OnClick(authSelectors.LoginButton.Locator, func(d *interactiontest.FakeDriver) {
		d.Remove(authSelectors.SigninNav.Locator)
		d.Remove(authSelectors.AuthPopup.Locator)
		d.Show(mainSelectors.LoadingContainer.Locator, "")
		d.ShowAfter(mainSelectors.UserBalance.Locator, " $100.00 ", 30*time.Millisecond)
	})

	require.NoError(t, f.auth.NavigateToLogin(ctx))
	assert.Equal(t, "/", f.driver.URL())
	require.True(t, f.auth.IsLoginPageVisible(ctx))
	require.NoError(t, f.auth.OpenLoginForm(ctx))
	require.NoError(t, f.auth.Login(ctx, "player", "secret"))

	assert.True(t, f.main.ExpectSuccessfulLogin(ctx))
	assert.False(t, f.auth.IsLoginPageVisible(ctx))
	assert.Equal(t, "player", f.driver.Value(authSelectors.Username.Locator))
	assert.Equal(t, "secret", f.driver.Value(authSelectors.Password.Locator))

	balance, err := f.main.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, "$100.00", balance)
}

func TestAuthPage_LoginRequiresUsername(t *testing.T) {
	f := newFixture(t)
	err := f.auth.Login(context.Background(), "", "secret")
	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrInvalidInput))
	assert.Empty(t, f.driver.Calls())
}

func TestAuthPage_OpenLoginFormWithoutPopup(t *testing.T) {
	f := newFixture(t)
	f.driver.Show(authSelectors.SigninNav.Locator, "Sign in")

	err := f.auth.OpenLoginForm(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrElementWaitTimeout))
}

func TestAuthPage_Logout(t *testing.T) {
	f := newFixture(t)
	f.driver.Show(authSelectors.LogoutButton.Locator, "Logout")
	f.driver.OnClick(authSelectors.LogoutButton.Locator, func(d *interactiontest.FakeDriver) {
		d.Remove(authSelectors.LogoutButton.Locator)
		d.Show(authSelectors.SigninNav.Locator, "Sign in")
	})

	require.NoError(t, f.auth.Logout(context.Background()))
	assert.True(t, f.auth.IsLoginPageVisible(context.Background()))
}

func TestMainPage_ExpectSuccessfulLoginEmptyBalance(t *testing.T) {
	f := newFixture(t)
	f.driver.Show(mainSelectors.LoadingContainer.Locator, "")
	f.driver.Show(mainSelectors.UserBalance.Locator, "   ")
	assert.False(t, f.main.ExpectSuccessfulLogin(context.Background()))

	f.driver.Remove(mainSelectors.LoadingContainer.Locator)
	f.driver.Show(mainSelectors.UserBalance.Locator, "$5")
	assert.False(t, f.main.ExpectSuccessfulLogin(context.Background()))
}

func TestMainPage_NavigateToCrashGame(t *testing.T) {
	f := newFixture(t)
	f.driver.Show(mainSelectors.CrashLink.Locator, "Crash")
	require.NoError(t, f.main.NavigateToCrashGame(context.Background()))

	var methods []string
	for _, c := range f.driver.DOMCalls() {
		methods = append(methods, c.Method)
	}
	assert.Equal(t, []string{"WaitFor", "ScrollIntoView", "Click"}, methods)
}

func TestMainPage_ClickWalletButton(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	start := time.Now()
	err := f.main.ClickWalletButton(ctx, 50*time.Millisecond)
	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrElementWaitTimeout))
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	f.driver.Show(mainSelectors.WalletButton.Locator, "Wallet")
	require.NoError(t, f.main.ClickWalletButton(ctx, 0))
	calls := f.driver.CallsOf("WaitFor")
	assert.Equal(t, WalletButtonTimeout, calls[len(calls)-1].Timeout)
}

func TestWalletPopup_VaultDepositWithdraw(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.driver.Show(walletSelectors.ModalContainer.Locator, "")
	f.driver.Show(walletSelectors.VaultButton.Locator, "Vault")
	f.driver.OnClick(walletSelectors.VaultButton.Locator, func(d *interactiontest.FakeDriver) {
		d.Show(walletSelectors.HeaderTitle.Locator, " Vault ")
		d.Show(walletSelectors.Input.Locator, "")
		d.Show(walletSelectors.DepositButton.Locator, "Deposit")
		d.Show(walletSelectors.WithdrawButton.Locator, "Withdraw")
	})
	f.driver.OnClick(walletSelectors.WithdrawButton.Locator, func(d *interactiontest.FakeDriver) {
		d.ShowAfter(walletSelectors.PaymentMethodContainer.Locator, "", 20*time.Millisecond)
	})

	require.NoError(t, f.wallet.WaitModalVisible(ctx))
	assert.True(t, f.wallet.IsWalletModalVisible(ctx, 0))
	require.NoError(t, f.wallet.ClickVaultButton(ctx))
	require.NoError(t, f.wallet.ExpectHeaderTitleIsVault(ctx))
	require.NoError(t, f.wallet.Deposit(ctx, 10))
	assert.Equal(t, "10", f.driver.Value(walletSelectors.Input.Locator))
	require.NoError(t, f.wallet.ClickWithdrawButton(ctx))
	assert.True(t, f.wallet.ExpectVaultPaymentMethodsVisible(ctx))
}

func TestWalletPopup_DepositRejectsNonPositive(t *testing.T) {
	f := newFixture(t)
	for _, amount := range []float64{0, -10} {
		err := f.wallet.Deposit(context.Background(), amount)
		require.Error(t, err)
		assert.True(t, errors.Is(err, entities.ErrInvalidInput))
	}
	assert.Empty(t, f.driver.Calls())
}

func TestWalletPopup_HeaderTitleMismatch(t *testing.T) {
	f := newFixture(t)
	f.driver.Show(walletSelectors.HeaderTitle.Locator, "Deposit")

	err := f.wallet.ExpectHeaderTitleIsVault(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Deposit"`)
	assert.False(t, f.wallet.IsWalletModalVisible(context.Background(), 30*time.Millisecond))
}
