package commands

type Command interface {
	Name() string
}

// StartSession opens a session for the sending client
type StartSession struct{}

func (s StartSession) Name() string { return "START_SESSION" }

// PlaceBet answers a bet request
type PlaceBet struct {
	Amount int
}

func (p PlaceBet) Name() string { return "PLACE_BET" }

// Decide answers a decision request with "hit", "stand" or "split"
type Decide struct {
	Decision string
}

func (d Decide) Name() string { return "DECIDE" }

// PlayAgain answers the end-of-round prompt
type PlayAgain struct {
	Again bool
}

func (p PlayAgain) Name() string { return "PLAY_AGAIN" }
