//go:build e2e

package e2e

import (
	"context"
	"errors"
	"testing"

	"betting_e2e/application/pages"
	"betting_e2e/application/scenario"
	"betting_e2e/domain/entities"

	"github.com/stretchr/testify/require"
)

func TestGame_CrashMinimumBetAccepted(t *testing.T) {
	limits, err := cfg.Environment.Game(pages.CrashGame)
	require.NoError(t, err)

	runScenario(t, loggedIn, func(ctx context.Context, sc *scenario.Scenario) error {
		if err := step("open crash game", sc.Main.NavigateToCrashGame(ctx)); err != nil {
			return err
		}

		if err := step("place minimum bet", sc.Crash.PlaceBet(ctx, limits.MinBet)); err != nil {
			return err
		}
		if err := expect("bet is not accepted", sc.Crash.ExpectBetAccepted(ctx, pages.CrashTimeout)); err != nil {
			return err
		}

		return expect("bet is not reflected in round result",
			sc.Crash.WaitForRoundResultAndCheckBetStatus(ctx, pages.CrashTimeout))
	})
}

func TestGame_CrashBetOutOfRangeRejected(t *testing.T) {
	limits, err := cfg.Environment.Game(pages.CrashGame)
	require.NoError(t, err)

	runScenario(t, loggedIn, func(ctx context.Context, sc *scenario.Scenario) error {
		for _, amount := range []float64{0, limits.MinBet / 2, limits.MaxBet * 2} {
			if err := sc.Crash.PlaceBet(ctx, amount); !errors.Is(err, entities.ErrInvalidInput) {
				return errors.Join(errors.New("out of range bet is not rejected as invalid input"), err)
			}
		}
		return nil
	})
}
