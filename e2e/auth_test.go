//go:build e2e

package e2e

import (
	"context"
	"errors"
	"testing"

	"betting_e2e/application/scenario"
	"betting_e2e/domain/entities"
)

func TestAuth_ValidCredentialsShowBalance(t *testing.T) {
	runScenario(t, scenario.Options{}, func(ctx context.Context, sc *scenario.Scenario) error {
		// given a logged out visitor on the landing page
		if err := step("open login form", sc.Auth.OpenLoginForm(ctx)); err != nil {
			return err
		}
		// when valid credentials are submitted
		if err := step("login", sc.Auth.Login(ctx, cfg.Credentials.Username, cfg.Credentials.Password)); err != nil {
			return err
		}
		// then the balance is shown
		return expect("balance is not shown after login", sc.Main.ExpectSuccessfulLogin(ctx))
	})
}

func TestAuth_EmptyUsernameRejected(t *testing.T) {
	runScenario(t, scenario.Options{}, func(ctx context.Context, sc *scenario.Scenario) error {
		if err := sc.Auth.Login(ctx, "", cfg.Credentials.Password); !errors.Is(err, entities.ErrInvalidInput) {
			return errors.Join(errors.New("empty username is not rejected as invalid input"), err)
		}
		return nil
	})
}

func TestAuth_Logout(t *testing.T) {
	// a fresh login keeps the saved session valid for other tests
	runScenario(t, scenario.Options{NeedsLogin: true}, func(ctx context.Context, sc *scenario.Scenario) error {
		if err := step("logout", sc.Auth.Logout(ctx)); err != nil {
			return err
		}
		return expect("sign in is not offered after logout", sc.Auth.IsLoginPageVisible(ctx))
	})
}
