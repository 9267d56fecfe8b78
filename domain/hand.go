package domain

import (
	"fmt"

	"github.com/lazharichir/blackjack/cards"
)

const blackjackValue = 21

// Hand holds the cards of one party and their derived blackjack value.
// Value, soft aces and the blackjack flag are recomputed from scratch after every change.
type Hand struct {
	cards     cards.Stack
	value     int
	softAces  int
	blackjack bool
	Result    Result
}

// HitOutcome tells whether a hit left the hand alive or busted it
type HitOutcome string

const (
	HitOK     HitOutcome = "ok"
	HitBusted HitOutcome = "busted"
)

// AddCard appends a card and recomputes the hand
func (h *Hand) AddCard(card cards.Card) {
	h.cards.AddCard(card)
	h.recompute()
}

// RemoveCardAt takes the card at index out of the hand. Only splitting uses it.
func (h *Hand) RemoveCardAt(index int) (cards.Card, error) {
	if index < 0 || index >= len(h.cards) {
		return cards.Card{}, fmt.Errorf("no card at index %d in a hand of %d", index, len(h.cards))
	}

	card := h.cards[index]
	h.cards = append(h.cards[:index:index], h.cards[index+1:]...)
	h.recompute()

	return card, nil
}

// Hit adds the card. Busting is a normal outcome, not an error.
func (h *Hand) Hit(card cards.Card) HitOutcome {
	h.AddCard(card)
	if h.IsBusted() {
		return HitBusted
	}
	return HitOK
}

func (h *Hand) recompute() {
	h.value, h.softAces = HandValue(h.cards)
	h.blackjack = len(h.cards) == 2 && h.value == blackjackValue
}

// HandValue sums the cards with aces at 11, then counts aces down to 1, one at a time,
// while the total is over 21. It returns the total and the aces still counted as 11.
func HandValue(stack cards.Stack) (value int, softAces int) {
	for _, c := range stack {
		value += c.Points()
		if c.IsAce() {
			softAces++
		}
	}

	for value > blackjackValue && softAces > 0 {
		value -= 10
		softAces--
	}

	return value, softAces
}

// Cards returns a copy of the cards in dealing order
func (h *Hand) Cards() cards.Stack {
	return h.cards.Clone()
}

// Len returns the number of cards in the hand
func (h *Hand) Len() int {
	return len(h.cards)
}

func (h *Hand) Value() int {
	return h.value
}

// SoftAces returns the number of aces currently counted as 11
func (h *Hand) SoftAces() int {
	return h.softAces
}

// IsSoft reports whether an ace is still counted as 11
func (h *Hand) IsSoft() bool {
	return h.softAces > 0
}

func (h *Hand) IsBlackJack() bool {
	return h.blackjack
}

func (h *Hand) IsBusted() bool {
	return h.value > blackjackValue
}

// takeCards empties the hand and returns what it held, for the discard pile
func (h *Hand) takeCards() cards.Stack {
	taken := h.cards
	h.cards = cards.Stack{}
	h.recompute()
	return taken
}

// PlayerHand is a hand the player bets on
type PlayerHand struct {
	Hand
	Bet      int
	HasSplit bool // set on both hands of a split, blocks any further split
	Standing bool
}

// NewPlayerHand creates an empty hand carrying bet
func NewPlayerHand(bet int) *PlayerHand {
	return &PlayerHand{
		Hand: Hand{cards: cards.Stack{}, Result: ResultNone},
		Bet:  bet,
	}
}

// CanSplit reports whether the cards allow a split: two cards of the same labeled rank
// on a hand that has not split before. Chip coverage is checked by the round.
func (h *PlayerHand) CanSplit() bool {
	return !h.HasSplit && len(h.cards) == 2 && h.cards[0].SameRank(h.cards[1])
}

// Stand ends the player's decisions on this hand
func (h *PlayerHand) Stand() {
	h.Standing = true
}

// IsDone reports whether the hand needs no more decisions
func (h *PlayerHand) IsDone() bool {
	return h.Standing || h.IsBusted() || h.IsBlackJack()
}

// DealerHand is the house hand. Only its first card is shown until the dealer's turn.
type DealerHand struct {
	Hand
}

// NewDealerHand creates an empty dealer hand
func NewDealerHand() *DealerHand {
	return &DealerHand{Hand: Hand{cards: cards.Stack{}, Result: ResultNone}}
}

// UpCard returns the face-up card, if dealt
func (h *DealerHand) UpCard() (cards.Card, bool) {
	if len(h.cards) == 0 {
		return cards.Card{}, false
	}
	return h.cards[0], true
}

// MustHit reports whether the dealer policy draws another card
func (h *DealerHand) MustHit(standsOn int) bool {
	return h.value < standsOn
}
