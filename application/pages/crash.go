package pages

import (
	"betting_e2e/domain/entities"
	"betting_e2e/domain/interfaces"
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// CrashGame is the game key of crash limits
	CrashGame = "crash"
	// CrashTimeout is the default wait of crash round checks
	CrashTimeout = 10 * time.Second
	// RoundResultFloor is the minimum budget left for the bet status check
	RoundResultFloor = time.Second
)

var crashSelectors = struct {
	BetInput          entities.Element
	PlaceBetButton    entities.Element
	CurrentBetBox     entities.Element
	BetStatus         entities.Element
	BetStatusRows     entities.Element
	MultiplierDisplay entities.Element
}{
	BetInput:          entities.Element{Name: "Bet input", Locator: `input[data-testid="Input"]`},
	PlaceBetButton:    entities.Element{Name: "Place Bet button", Locator: `[data-testid="crashPlaceBetButton"]`},
	CurrentBetBox:     entities.Element{Name: "Current Bet Box", Locator: `[data-testid="crashCurrentBetBoxesContainer"]`},
	BetStatus:         entities.Element{Name: "Bet Status Table", Locator: `table[aria-label="live bets table"]`},
	BetStatusRows:     entities.Element{Name: "Bet Status Rows", Locator: `table[aria-label="live bets table"] tr`},
	MultiplierDisplay: entities.Element{Name: "Multiplier Display", Locator: `[data-testid="crash-multiplier"]`},
}

// CrashPage drives a crash game round: place a bet, see it accepted, wait for the round result
type CrashPage struct {
	ui     interfaces.Interactable
	guard  interfaces.Guard
	logger *logrus.Entry
}

// NewCrashPage - creates crash page on top of ui, bets are checked by guard
func NewCrashPage(ui interfaces.Interactable, guard interfaces.Guard, logger *logrus.Logger) *CrashPage {
	return &CrashPage{ui: ui, guard: guard, logger: logger.WithField("component", "crash-page")}
}

// PlaceBet - places a bet of amount, amounts outside game limits fail before touching the page
func (p *CrashPage) PlaceBet(ctx context.Context, amount float64) error {
	if err := p.guard.CheckBet(CrashGame, amount); err != nil {
		p.logger.Errorf("Rejected bet %v: %v", amount, err)
		return err
	}
	value := strconv.FormatFloat(amount, 'f', -1, 64)
	p.logger.Infof("Placing bet: %s", value)

	if err := p.ui.WaitForVisible(ctx, crashSelectors.BetInput, entities.Strict, 0); err != nil {
		return err
	}
	if err := p.ui.Click(ctx, crashSelectors.BetInput); err != nil {
		return err
	}
	if err := p.ui.Type(ctx, crashSelectors.BetInput, value); err != nil {
		return err
	}
	if err := p.ui.Click(ctx, crashSelectors.PlaceBetButton); err != nil {
		return err
	}
	p.logger.Info("Bet placed successfully")
	return nil
}

// ExpectBetAccepted - reports whether the current bet box shows up within timeout, the whole check stays within timeout
func (p *CrashPage) ExpectBetAccepted(ctx context.Context, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = CrashTimeout
	}
	p.logger.Debug("Checking if bet was accepted...")
	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	accepted := p.ui.IsElementVisible(checkCtx, crashSelectors.CurrentBetBox, timeout)
	if accepted {
		if err := p.ui.ScrollIntoView(checkCtx, crashSelectors.CurrentBetBox); err != nil {
			p.logger.Debugf("Current bet box not scrolled: %v", err)
		}
	}
	p.logger.Infof("Bet accepted: %t", accepted)
	return accepted
}

// WaitForRoundResultAndCheckBetStatus - waits for the round to end and reports whether
// the live bets table is shown. The table always gets at least RoundResultFloor and the
// check returns within timeout plus RoundResultFloor.
func (p *CrashPage) WaitForRoundResultAndCheckBetStatus(ctx context.Context, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = CrashTimeout
	}
	start := time.Now()
	p.logger.Debug("Waiting for round to end...")

	if err := p.ui.WaitForHidden(ctx, crashSelectors.CurrentBetBox, entities.Lenient, timeout); err != nil {
		p.logger.Warnf("Round did not end cleanly: %v", err)
		return false
	}

	remaining := timeout - time.Since(start)
	if remaining < RoundResultFloor {
		remaining = RoundResultFloor
	}

	// the table wait and its scroll share the residual budget
	resultCtx, cancel := context.WithTimeout(ctx, remaining)
	defer cancel()
	if err := p.ui.WaitForVisible(resultCtx, crashSelectors.BetStatus, entities.Strict, remaining); err != nil {
		p.logger.Warnf("Bet status not visible after round: %v", err)
		return false
	}
	if err := p.ui.ScrollIntoView(resultCtx, crashSelectors.BetStatus); err != nil {
		p.logger.Debugf("Bet status not scrolled: %v", err)
	}

	rows, err := p.BetStatusRowCount(ctx)
	if err != nil {
		p.logger.Warnf("Bet status rows not readable: %v", err)
		return false
	}
	p.logger.Infof("Bet status visible, row count: %d", rows)
	return true
}

// BetStatusRowCount - returns number of rows of the live bets table
func (p *CrashPage) BetStatusRowCount(ctx context.Context) (int, error) {
	return p.ui.Count(ctx, crashSelectors.BetStatusRows)
}

// CurrentMultiplier - reads the live multiplier, "1.23x" gives 1.23 and unreadable text gives 0
func (p *CrashPage) CurrentMultiplier(ctx context.Context) (float64, error) {
	text, err := p.ui.GetText(ctx, crashSelectors.MultiplierDisplay)
	if err != nil {
		return 0, err
	}
	cleaned := strings.TrimSpace(strings.Replace(text, "x", "", 1))
	multiplier, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		p.logger.Debugf("Multiplier %q is not a number", text)
		return 0, nil
	}
	p.logger.Debugf("Current multiplier: %v", multiplier)
	return multiplier, nil
}
