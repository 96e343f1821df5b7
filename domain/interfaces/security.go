package interfaces

// Guard validates caller input before any interaction happens
type Guard interface {
	// CheckBet validates a bet amount against the limits of game
	CheckBet(game string, amount float64) error

	// CheckAmount validates a wallet amount
	CheckAmount(amount float64) error
}
