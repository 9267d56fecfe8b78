package cards

import (
	"errors"
	"math/rand"
)

// ErrEmptyShoe is returned when drawing from a shoe with no cards left.
// Replenishment at round boundaries should make it unreachable.
var ErrEmptyShoe = errors.New("shoe is empty")

// Shoe holds the undealt cards and the discard pile of cards already played.
// A card is always in exactly one place: the shoe, the discard pile or a hand.
type Shoe struct {
	cards   Stack
	discard Stack
	rng     *rand.Rand
}

// NewShoe creates a shoe holding one unshuffled 52-card deck
func NewShoe() *Shoe {
	return NewShoeFrom(NewDeck52())
}

// NewShoeFrom creates a shoe that deals cards in the given order
func NewShoeFrom(cards Stack) *Shoe {
	return &Shoe{
		cards:   cards.Clone(),
		discard: Stack{},
	}
}

// Seed makes every later shuffle reproducible. A zero seed uses the clock.
func (s *Shoe) Seed(seed int64) {
	s.rng = NewRand(seed)
}

func (s *Shoe) random() *rand.Rand {
	if s.rng == nil {
		s.rng = NewRand(0)
	}
	return s.rng
}

// Shuffle randomizes the order of the undealt cards in place
func (s *Shoe) Shuffle() {
	s.cards = ShuffleCards(s.random(), s.cards)
}

// Draw removes and returns the front card
func (s *Shoe) Draw() (Card, error) {
	if s.cards.IsEmpty() {
		return Card{}, ErrEmptyShoe
	}
	return s.cards.DealCard(), nil
}

// Discard moves played cards onto the discard pile
func (s *Shoe) Discard(cards Stack) {
	s.discard.AddCards(cards...)
}

// ReplenishIfLow shuffles the discard pile into the back of the shoe when the shoe holds
// threshold cards or fewer. It returns how many cards were added.
// Only call it between rounds.
func (s *Shoe) ReplenishIfLow(threshold int) int {
	if len(s.cards) > threshold || s.discard.IsEmpty() {
		return 0
	}

	added := ShuffleCards(s.random(), s.discard)
	s.cards.AddCards(added...)
	s.discard = Stack{}

	return len(added)
}

// Len returns the number of undealt cards
func (s *Shoe) Len() int {
	return len(s.cards)
}

// DiscardLen returns the number of cards in the discard pile
func (s *Shoe) DiscardLen() int {
	return len(s.discard)
}
