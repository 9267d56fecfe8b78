package domain

import "errors"

var (
	// ErrInvalidBetAmount means the bet is not within [1, chips]. The shell should ask again.
	ErrInvalidBetAmount = errors.New("invalid bet amount")
	// ErrIllegalDecision means the decision is not in the current legal set. The shell should ask again.
	ErrIllegalDecision = errors.New("illegal decision")
	// ErrOutOfChips means the bankroll is empty at a round boundary and the session is over.
	ErrOutOfChips = errors.New("out of chips")
	// ErrWrongPhase means an operation was attempted outside the round phase it belongs to.
	ErrWrongPhase = errors.New("wrong round phase")
	// ErrRoundInProgress means a new round was requested before the previous one finished.
	ErrRoundInProgress = errors.New("a round is already in progress")
	// ErrInsufficientChips means a debit exceeds the bankroll.
	ErrInsufficientChips = errors.New("insufficient chips")
)
