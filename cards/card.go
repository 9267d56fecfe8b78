package cards

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCard is returned when a card shorthand cannot be parsed
var ErrInvalidCard = errors.New("invalid card")

// CardFromString creates a card from a string representation
// e.g., "10♠" or "10s" or "10S" -> Card{Suit: Spades, Rank: Ten}
func CardFromString(s string) (Card, error) {
	var suit Suit
	var rest string
	switch {
	case strings.HasSuffix(s, string(Spades)):
		suit, rest = Spades, strings.TrimSuffix(s, string(Spades))
	case strings.HasSuffix(s, string(Hearts)):
		suit, rest = Hearts, strings.TrimSuffix(s, string(Hearts))
	case strings.HasSuffix(s, string(Diamonds)):
		suit, rest = Diamonds, strings.TrimSuffix(s, string(Diamonds))
	case strings.HasSuffix(s, string(Clubs)):
		suit, rest = Clubs, strings.TrimSuffix(s, string(Clubs))
	case len(s) >= 2:
		switch s[len(s)-1] {
		case 's', 'S':
			suit = Spades
		case 'h', 'H':
			suit = Hearts
		case 'd', 'D':
			suit = Diamonds
		case 'c', 'C':
			suit = Clubs
		default:
			return Card{}, fmt.Errorf("%w: unknown suit in %q", ErrInvalidCard, s)
		}
		rest = s[:len(s)-1]
	default:
		return Card{}, fmt.Errorf("%w: %q is too short", ErrInvalidCard, s)
	}

	rank, ok := rankByShorthand[strings.ToUpper(rest)]
	if !ok {
		return Card{}, fmt.Errorf("%w: unknown rank in %q", ErrInvalidCard, s)
	}

	return Card{Suit: suit, Rank: rank}, nil
}

// MustParseStack builds a stack from card shorthands and panics on bad input.
// Meant for fixtures and rigged shoes.
func MustParseStack(shorthands ...string) Stack {
	stack := make(Stack, 0, len(shorthands))
	for _, s := range shorthands {
		c, err := CardFromString(s)
		if err != nil {
			panic(err)
		}
		stack = append(stack, c)
	}
	return stack
}

// Suit represents a card suit
type Suit string

const (
	Spades   Suit = "♠"
	Hearts   Suit = "♥"
	Diamonds Suit = "♦"
	Clubs    Suit = "♣"
)

// Suits lists the four suits in deck order
var Suits = []Suit{Spades, Hearts, Diamonds, Clubs}

// Rank represents the labeled rank of a card
type Rank string

const (
	Ace   Rank = "A"
	King  Rank = "K"
	Queen Rank = "Q"
	Jack  Rank = "J"
	Ten   Rank = "10"
	Nine  Rank = "9"
	Eight Rank = "8"
	Seven Rank = "7"
	Six   Rank = "6"
	Five  Rank = "5"
	Four  Rank = "4"
	Three Rank = "3"
	Two   Rank = "2"
)

// Ranks lists the thirteen ranks in deck order
var Ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

var rankByShorthand = map[string]Rank{
	"A": Ace, "K": King, "Q": Queen, "J": Jack, "10": Ten, "T": Ten,
	"9": Nine, "8": Eight, "7": Seven, "6": Six, "5": Five, "4": Four, "3": Three, "2": Two,
}

var pointsByRank = map[Rank]int{
	Ace: 11, King: 10, Queen: 10, Jack: 10, Ten: 10,
	Nine: 9, Eight: 8, Seven: 7, Six: 6, Five: 5, Four: 4, Three: 3, Two: 2,
}

// Points returns the nominal blackjack value of the rank. Aces count 11.
func (r Rank) Points() int {
	return pointsByRank[r]
}

// Card represents a playing card
type Card struct {
	Suit Suit
	Rank Rank
}

// String returns the string representation of a card
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// Points returns the nominal blackjack value of the card
func (c Card) Points() int {
	return c.Rank.Points()
}

// IsAce reports whether the card is an ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// IsZero reports whether the card is the zero value (e.g. a face-down placeholder)
func (c Card) IsZero() bool {
	return c.Suit == "" && c.Rank == ""
}

// Equals checks if two cards are equal
func (c Card) Equals(other Card) bool {
	return c.Suit == other.Suit && c.Rank == other.Rank
}

// SameRank checks if two cards carry the same labeled rank.
// Jack and Jack match, Jack and Queen do not.
func (c Card) SameRank(other Card) bool {
	return c.Rank == other.Rank
}
