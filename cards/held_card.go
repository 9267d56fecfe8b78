package cards

type CardVisibility string

const (
	FaceDown    CardVisibility = "down" // Only the dealer knows it
	FaceUpToAll CardVisibility = "all"  // Everyone can see
)

// HeldCard represents a card that's in play with visibility information
type HeldCard struct {
	Card
	Visibility CardVisibility
}

// NewHeldCard creates a new held card with the specified visibility
func NewHeldCard(card Card, visibility CardVisibility) HeldCard {
	return HeldCard{
		Card:       card,
		Visibility: visibility,
	}
}

// IsFaceDown reports whether the card is hidden
func (c HeldCard) IsFaceDown() bool {
	return c.Visibility == FaceDown
}

// Masked returns a copy safe to show to the player: face-down cards lose their identity
func (c HeldCard) Masked() HeldCard {
	if c.IsFaceDown() {
		return HeldCard{Visibility: FaceDown}
	}
	return c
}

func (c HeldCard) String() string {
	if c.IsFaceDown() {
		return "??"
	}
	return c.Card.String()
}

type HeldStack []HeldCard

// NewHeldStack holds every card of stack face up, except the ones at hidden indexes
func NewHeldStack(stack Stack, hidden ...int) HeldStack {
	held := make(HeldStack, len(stack))
	for i, c := range stack {
		held[i] = NewHeldCard(c, FaceUpToAll)
	}
	for _, i := range hidden {
		if i >= 0 && i < len(held) {
			held[i].Visibility = FaceDown
		}
	}
	return held
}

// Masked masks every face-down card of the stack
func (s HeldStack) Masked() HeldStack {
	masked := make(HeldStack, len(s))
	for i, c := range s {
		masked[i] = c.Masked()
	}
	return masked
}

// FaceUp returns the visible cards only
func (s HeldStack) FaceUp() Stack {
	visible := Stack{}
	for _, c := range s {
		if !c.IsFaceDown() {
			visible.AddCard(c.Card)
		}
	}
	return visible
}

func (s HeldStack) String() string {
	out := ""
	for i, c := range s {
		if i > 0 {
			out += " "
		}
		out += c.String()
	}
	return out
}
