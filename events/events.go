package events

import (
	"time"

	"github.com/lazharichir/blackjack/cards"
)

// Session lifecycle

type SessionStarted struct {
	SessionID string
	Chips     int
	At        time.Time
}

func (e SessionStarted) EventName() string { return "session-started" }

type SessionEnded struct {
	SessionID   string
	Reason      string // "out-of-chips" or "player-left"
	Chips       int
	Rounds      int
	HandsPlayed int
	Wins        int
	Losses      int
	Pushes      int
	At          time.Time
}

func (e SessionEnded) EventName() string { return "session-ended" }

type ShoeReplenished struct {
	SessionID string
	Added     int
	ShoeSize  int
	At        time.Time
}

func (e ShoeReplenished) EventName() string { return "shoe-replenished" }

// Round lifecycle

type RoundStarted struct {
	SessionID string
	RoundID   string
	Chips     int
	At        time.Time
}

func (e RoundStarted) EventName() string { return "round-started" }

type BetPlaced struct {
	SessionID  string
	RoundID    string
	Amount     int
	ChipsAfter int
	At         time.Time
}

func (e BetPlaced) EventName() string { return "bet-placed" }

// CardDealt is emitted for every card of the initial deal. The dealer's hole card is
// announced with FaceDown set and a zero Card.
type CardDealt struct {
	SessionID string
	RoundID   string
	Recipient string // "player" or "dealer"
	HandIndex int
	Card      cards.Card
	FaceDown  bool
	At        time.Time
}

func (e CardDealt) EventName() string { return "card-dealt" }

type PlayerBlackjack struct {
	SessionID string
	RoundID   string
	HandIndex int
	At        time.Time
}

func (e PlayerBlackjack) EventName() string { return "player-blackjack" }

type PlayerHit struct {
	SessionID string
	RoundID   string
	HandIndex int
	Card      cards.Card
	Value     int
	Busted    bool
	At        time.Time
}

func (e PlayerHit) EventName() string { return "player-hit" }

type PlayerStood struct {
	SessionID string
	RoundID   string
	HandIndex int
	Value     int
	At        time.Time
}

func (e PlayerStood) EventName() string { return "player-stood" }

type HandSplit struct {
	SessionID    string
	RoundID      string
	HandIndex    int
	SiblingIndex int
	Bet          int
	ChipsAfter   int
	At           time.Time
}

func (e HandSplit) EventName() string { return "hand-split" }

// Dealer turn

type DealerRevealed struct {
	SessionID string
	RoundID   string
	Card      cards.Card
	Value     int
	At        time.Time
}

func (e DealerRevealed) EventName() string { return "dealer-revealed" }

type DealerHit struct {
	SessionID string
	RoundID   string
	Card      cards.Card
	Value     int
	At        time.Time
}

func (e DealerHit) EventName() string { return "dealer-hit" }

type DealerFinished struct {
	SessionID string
	RoundID   string
	Value     int
	Busted    bool
	Played    bool // false when no player hand stood and the dealer drew nothing
	At        time.Time
}

func (e DealerFinished) EventName() string { return "dealer-finished" }

// Settlement

type HandSettled struct {
	SessionID   string
	RoundID     string
	HandIndex   int
	Result      string
	Reason      string
	PlayerValue int
	DealerValue int
	Bet         int
	Payout      int
	ChipsAfter  int
	At          time.Time
}

func (e HandSettled) EventName() string { return "hand-settled" }

type RoundEnded struct {
	SessionID string
	RoundID   string
	Chips     int
	At        time.Time
}

func (e RoundEnded) EventName() string { return "round-ended" }
