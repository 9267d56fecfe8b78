package domain

import (
	"context"

	"github.com/lazharichir/blackjack/cards"
)

// Shell is the interaction boundary of a session: it asks the player for bets and
// decisions and renders hands. Calls are synchronous and one at a time.
//
// Rejected carries the engine's reason for refusing the previous answer, so the shell
// can explain it before asking again.
type Shell interface {
	RequestBet(ctx context.Context, req BetRequest) (int, error)
	RequestDecision(ctx context.Context, req DecisionRequest) (Decision, error)
	RenderHand(ctx context.Context, view HandView) error
	RequestPlayAgain(ctx context.Context) (bool, error)
}

type BetRequest struct {
	RoundID  string
	MinBet   int
	MaxBet   int
	Rejected error
}

type DecisionRequest struct {
	RoundID      string
	HandIndex    int
	Hand         HandView
	DealerUpCard cards.Card
	Legal        []Decision
	Rejected     error
}
