package entities

import "fmt"

// GameLimits are betting boundaries of a single game
type GameLimits struct {
	MinBet        float64 `yaml:"min_bet" json:"min_bet"`
	MaxBet        float64 `yaml:"max_bet" json:"max_bet"`
	MaxMultiplier float64 `yaml:"max_multiplier" json:"max_multiplier"`
}

// Contains reports whether amount is within [MinBet, MaxBet]
func (l GameLimits) Contains(amount float64) bool {
	return amount >= l.MinBet && amount <= l.MaxBet
}

// Environment is a deployment of the application under test
type Environment struct {
	Name    string                `yaml:"-" json:"name"`
	BaseURL string                `yaml:"base_url" json:"base_url"`
	Games   map[string]GameLimits `yaml:"games" json:"games"`
}

// Game returns limits of the named game
func (e Environment) Game(name string) (GameLimits, error) {
	limits, ok := e.Games[name]
	if !ok {
		return GameLimits{}, fmt.Errorf("game %q is not configured for environment %s", name, e.Name)
	}
	return limits, nil
}

// Credentials is a username/password pair used to log in
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"-"`
}
