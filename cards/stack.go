package cards

import "strings"

// Stack represents an ordered pile of cards, top of the pile first
type Stack []Card

// NewStack creates a new stack with the given cards
func NewStack(cards ...Card) Stack {
	return Stack(cards)
}

// AddCard appends a card to the bottom of the stack
func (s *Stack) AddCard(card Card) {
	*s = append(*s, card)
}

// AddCards appends cards to the bottom of the stack
func (s *Stack) AddCards(cards ...Card) {
	*s = append(*s, cards...)
}

// DealCard removes and returns the top card. The stack must not be empty.
func (s *Stack) DealCard() Card {
	card := (*s)[0]
	*s = (*s)[1:]
	return card
}

// DealCards removes and returns up to count cards from the top
func (s *Stack) DealCards(count int) Stack {
	if count > len(*s) {
		count = len(*s)
	}

	dealt := make(Stack, count)
	copy(dealt, (*s)[:count])
	*s = (*s)[count:]

	return dealt
}

// IsEmpty reports whether the stack holds no cards
func (s Stack) IsEmpty() bool {
	return len(s) == 0
}

// Clone returns a copy that shares no backing array with s
func (s Stack) Clone() Stack {
	clone := make(Stack, len(s))
	copy(clone, s)
	return clone
}

func (s Stack) String() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
