package security

import (
	"fmt"
	"math"

	"betting_e2e/domain/entities"
	"betting_e2e/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// SecurityLayer rejects bets and wallet amounts before they reach the page
type SecurityLayer struct {
	env    entities.Environment
	logger *logrus.Entry
}

// NewSecurityLayer - creates input guard using limits of env
func NewSecurityLayer(env entities.Environment, logger *logrus.Logger) *SecurityLayer {
	return &SecurityLayer{
		env:    env,
		logger: logger.WithField("component", "security"),
	}
}

// CheckBet - validates amount against the configured limits of game
func (s *SecurityLayer) CheckBet(game string, amount float64) error {
	if err := s.CheckAmount(amount); err != nil {
		return err
	}

	limits, err := s.env.Game(game)
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrInvalidInput, err)
	}

	if !limits.Contains(amount) {
		s.logger.Warnf("Bet %v on %s is outside allowed range (%v-%v)", amount, game, limits.MinBet, limits.MaxBet)
		return fmt.Errorf("%w: bet amount %v is outside allowed range (%v-%v)",
			entities.ErrInvalidInput, amount, limits.MinBet, limits.MaxBet)
	}
	return nil
}

// CheckAmount - validates that amount is a positive finite number
func (s *SecurityLayer) CheckAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: amount %v is not a number", entities.ErrInvalidInput, amount)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount %v must be positive", entities.ErrInvalidInput, amount)
	}
	return nil
}

// Ensure SecurityLayer implements Guard interface
var _ interfaces.Guard = (*SecurityLayer)(nil)
