package domain

import "fmt"

// Bankroll is the player's chip count for the whole session
type Bankroll struct {
	chips int
}

// NewBankroll creates a bankroll holding chips
func NewBankroll(chips int) *Bankroll {
	return &Bankroll{chips: chips}
}

// Chips returns the current chip count
func (b *Bankroll) Chips() int {
	return b.chips
}

// Covers reports whether the bankroll holds at least amount chips
func (b *Bankroll) Covers(amount int) bool {
	return amount <= b.chips
}

// Debit removes amount from the bankroll
func (b *Bankroll) Debit(amount int) error {
	if amount < 0 {
		return fmt.Errorf("cannot debit a negative amount: %d", amount)
	}
	if !b.Covers(amount) {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientChips, amount, b.chips)
	}
	b.chips -= amount
	return nil
}

// Credit adds amount to the bankroll
func (b *Bankroll) Credit(amount int) {
	if amount > 0 {
		b.chips += amount
	}
}

// IsEmpty reports whether no chips are left
func (b *Bankroll) IsEmpty() bool {
	return b.chips <= 0
}
