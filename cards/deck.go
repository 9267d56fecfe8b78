package cards

import (
	"math/rand"
	"time"
)

// NewDeck52 creates a standard, unshuffled deck of 52 cards
func NewDeck52() Stack {
	deck := make(Stack, 0, len(Suits)*len(Ranks))
	for _, suit := range Suits {
		for _, rank := range Ranks {
			deck.AddCard(Card{Suit: suit, Rank: rank})
		}
	}
	return deck
}

// NewRand returns a random source seeded with seed, or with the clock when seed is 0
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// ShuffleCards returns a shuffled copy of cards
func ShuffleCards(r *rand.Rand, cards Stack) Stack {
	shuffled := cards.Clone()
	r.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
