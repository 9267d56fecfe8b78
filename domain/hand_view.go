package domain

import "github.com/lazharichir/blackjack/cards"

const (
	OwnerPlayer = "player"
	OwnerDealer = "dealer"
)

// HandView is what a shell may show of a hand. Hidden dealer cards are masked.
type HandView struct {
	Owner     string
	Index     int
	Cards     cards.HeldStack
	Value     int
	Soft      bool
	BlackJack bool
	Busted    bool
	Bet       int
	Result    Result
	RevealAll bool
}

// View renders a player hand; player cards are always face up
func (h *PlayerHand) View(index int) HandView {
	return HandView{
		Owner:     OwnerPlayer,
		Index:     index,
		Cards:     cards.NewHeldStack(h.cards),
		Value:     h.value,
		Soft:      h.IsSoft(),
		BlackJack: h.blackjack,
		Busted:    h.IsBusted(),
		Bet:       h.Bet,
		Result:    h.Result,
		RevealAll: true,
	}
}

// View renders the dealer hand. Without revealAll only the first card is shown and the
// value covers that card alone.
func (h *DealerHand) View(revealAll bool) HandView {
	if revealAll {
		return HandView{
			Owner:     OwnerDealer,
			Cards:     cards.NewHeldStack(h.cards),
			Value:     h.value,
			Soft:      h.IsSoft(),
			BlackJack: h.blackjack,
			Busted:    h.IsBusted(),
			Result:    h.Result,
			RevealAll: true,
		}
	}

	hidden := make([]int, 0, len(h.cards))
	for i := 1; i < len(h.cards); i++ {
		hidden = append(hidden, i)
	}
	held := cards.NewHeldStack(h.cards, hidden...).Masked()
	value, soft := HandValue(held.FaceUp())

	return HandView{
		Owner:  OwnerDealer,
		Cards:  held,
		Value:  value,
		Soft:   soft > 0,
		Result: ResultNone,
	}
}
