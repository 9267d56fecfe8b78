package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lazharichir/blackjack/cards"
	"github.com/lazharichir/blackjack/events"
	"github.com/lazharichir/blackjack/logger"
	"go.uber.org/zap"
)

const (
	EndReasonOutOfChips = "out-of-chips"
	EndReasonPlayerLeft = "player-left"
)

// Summary is the end-of-session report
type Summary struct {
	SessionID     string
	Chips         int
	StartingChips int
	Rounds        int
	HandsPlayed   int
	Wins          int
	Losses        int
	Pushes        int
	Blackjacks    int
	Busts         int
	Splits        int
}

// Net is the chip gain or loss over the session
func (s Summary) Net() int {
	return s.Chips - s.StartingChips
}

// Session is one player's run at the table: a bankroll, a shoe that persists across rounds
// and the history of every settled hand.
type Session struct {
	ID        string
	Rules     Rules
	StartedAt time.Time

	shoe     *cards.Shoe
	bankroll *Bankroll
	current  *Round
	rounds   int
	started  bool
	ended    bool

	playerHistory []HandRecord
	dealerHistory []HandRecord

	eventHandlers []events.EventHandler
}

// NewSession creates a session with a fresh bankroll drawing from shoe
func NewSession(rules Rules, shoe *cards.Shoe) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Rules:     rules,
		StartedAt: time.Now(),
		shoe:      shoe,
		bankroll:  NewBankroll(rules.StartingChips),
	}
}

// NewShuffledShoe returns a one-deck shoe shuffled with seed. A zero seed uses the clock.
func NewShuffledShoe(seed int64) *cards.Shoe {
	shoe := cards.NewShoe()
	shoe.Seed(seed)
	shoe.Shuffle()
	return shoe
}

// RegisterEventHandler registers a callback function that will be called when events occur
func (s *Session) RegisterEventHandler(handler events.EventHandler) {
	s.eventHandlers = append(s.eventHandlers, handler)
}

func (s *Session) emitEvent(event events.Event) {
	for _, handler := range s.eventHandlers {
		handler(event)
	}
}

// Chips returns the current bankroll
func (s *Session) Chips() int {
	return s.bankroll.Chips()
}

// Shoe exposes the session's shoe
func (s *Session) Shoe() *cards.Shoe {
	return s.shoe
}

// CurrentRound returns the round in progress, if any
func (s *Session) CurrentRound() *Round {
	return s.current
}

// IsEnded reports whether the session has been closed
func (s *Session) IsEnded() bool {
	return s.ended
}

// Start announces the session. It is a no-op after the first call.
func (s *Session) Start() {
	if s.started {
		return
	}
	s.started = true

	s.emitEvent(events.SessionStarted{
		SessionID: s.ID,
		Chips:     s.bankroll.Chips(),
		At:        time.Now(),
	})
}

// CanPlay reports whether the bankroll can cover the minimum bet
func (s *Session) CanPlay() bool {
	return !s.ended && s.bankroll.Covers(s.Rules.MinBet) && s.Rules.MinBet > 0
}

// NewRound opens the next round. Rounds never overlap.
func (s *Session) NewRound() (*Round, error) {
	if s.ended {
		return nil, errors.New("session has ended")
	}
	if s.current != nil {
		return nil, ErrRoundInProgress
	}
	if !s.CanPlay() {
		return nil, ErrOutOfChips
	}

	round := NewRound(s.ID, s.Rules, s.shoe, s.bankroll)
	round.RegisterEventHandler(s.emitEvent)
	s.current = round

	s.emitEvent(events.RoundStarted{
		SessionID: s.ID,
		RoundID:   round.ID,
		Chips:     s.bankroll.Chips(),
		At:        time.Now(),
	})

	return round, nil
}

// FinishRound archives the settled round, returns its cards to the discard pile and
// refills the shoe when it runs low
func (s *Session) FinishRound(round *Round) error {
	if round == nil || round != s.current {
		return errors.New("round is not the current round")
	}

	records, err := round.Collect()
	if err != nil {
		return err
	}

	for _, record := range records {
		if record.Owner == OwnerDealer {
			s.dealerHistory = append(s.dealerHistory, record)
		} else {
			s.playerHistory = append(s.playerHistory, record)
		}
	}

	s.rounds++
	s.current = nil

	if added := s.shoe.ReplenishIfLow(s.Rules.ReplenishThreshold); added > 0 {
		logger.Log.Debug("shoe replenished",
			zap.String("session", s.ID),
			zap.Int("added", added),
			zap.Int("shoe", s.shoe.Len()),
		)
		s.emitEvent(events.ShoeReplenished{
			SessionID: s.ID,
			Added:     added,
			ShoeSize:  s.shoe.Len(),
			At:        time.Now(),
		})
	}

	return nil
}

// PlayRound runs one full round through the shell: bet, deal, player decisions, dealer
// turn, settlement. Invalid bets and illegal decisions are asked again.
func (s *Session) PlayRound(ctx context.Context, shell Shell) (*Round, error) {
	round, err := s.NewRound()
	if err != nil {
		return nil, err
	}

	if err := s.takeBet(ctx, shell, round); err != nil {
		return round, err
	}

	if err := round.Deal(); err != nil {
		return round, err
	}

	if err := shell.RenderHand(ctx, round.Dealer.View(false)); err != nil {
		return round, err
	}
	if err := shell.RenderHand(ctx, round.Hands[0].View(0)); err != nil {
		return round, err
	}

	for round.IsInPhase(RoundPhase_PlayerTurn) {
		if err := s.takeDecision(ctx, shell, round); err != nil {
			return round, err
		}
	}

	if err := round.PlayDealer(); err != nil {
		return round, err
	}

	if _, err := round.Settle(); err != nil {
		return round, err
	}

	if err := shell.RenderHand(ctx, round.Dealer.View(true)); err != nil {
		return round, err
	}
	for i, hand := range round.Hands {
		if err := shell.RenderHand(ctx, hand.View(i)); err != nil {
			return round, err
		}
	}

	return round, s.FinishRound(round)
}

func (s *Session) takeBet(ctx context.Context, shell Shell, round *Round) error {
	req := BetRequest{
		RoundID: round.ID,
		MinBet:  s.Rules.MinBet,
		MaxBet:  s.bankroll.Chips(),
	}

	for {
		amount, err := shell.RequestBet(ctx, req)
		if err != nil {
			return fmt.Errorf("requesting bet: %w", err)
		}

		err = round.PlaceBet(amount)
		if errors.Is(err, ErrInvalidBetAmount) {
			req.Rejected = err
			continue
		}
		return err
	}
}

func (s *Session) takeDecision(ctx context.Context, shell Shell, round *Round) error {
	hand, index, _ := round.ActiveHand()
	upCard, _ := round.Dealer.UpCard()

	req := DecisionRequest{
		RoundID:      round.ID,
		HandIndex:    index,
		Hand:         hand.View(index),
		DealerUpCard: upCard,
		Legal:        round.LegalDecisions(),
	}
	handsBefore := len(round.Hands)

	for {
		decision, err := shell.RequestDecision(ctx, req)
		if err != nil {
			return fmt.Errorf("requesting decision: %w", err)
		}

		err = round.Apply(decision)
		if errors.Is(err, ErrIllegalDecision) {
			req.Rejected = err
			continue
		}
		if err != nil {
			return err
		}
		break
	}

	// a split adds the sibling right after this hand
	last := index + len(round.Hands) - handsBefore
	for i := index; i <= last; i++ {
		if err := shell.RenderHand(ctx, round.Hands[i].View(i)); err != nil {
			return err
		}
	}

	return nil
}

// Run plays rounds until the player declines another or can no longer cover the minimum bet
func (s *Session) Run(ctx context.Context, shell Shell) (Summary, error) {
	s.Start()

	for {
		if !s.CanPlay() {
			return s.End(EndReasonOutOfChips), nil
		}

		if _, err := s.PlayRound(ctx, shell); err != nil {
			return s.Summary(), err
		}

		if !s.CanPlay() {
			continue
		}

		again, err := shell.RequestPlayAgain(ctx)
		if err != nil {
			return s.Summary(), fmt.Errorf("requesting play again: %w", err)
		}
		if !again {
			return s.End(EndReasonPlayerLeft), nil
		}
	}
}

// End closes the session and announces the summary. Later calls return the same summary.
func (s *Session) End(reason string) Summary {
	summary := s.Summary()
	if s.ended {
		return summary
	}
	s.ended = true

	s.emitEvent(events.SessionEnded{
		SessionID:   s.ID,
		Reason:      reason,
		Chips:       summary.Chips,
		Rounds:      summary.Rounds,
		HandsPlayed: summary.HandsPlayed,
		Wins:        summary.Wins,
		Losses:      summary.Losses,
		Pushes:      summary.Pushes,
		At:          time.Now(),
	})

	return summary
}

// Summary tallies the player's archived hands
func (s *Session) Summary() Summary {
	summary := Summary{
		SessionID:     s.ID,
		Chips:         s.bankroll.Chips(),
		StartingChips: s.Rules.StartingChips,
		Rounds:        s.rounds,
		HandsPlayed:   len(s.playerHistory),
	}

	for _, record := range s.playerHistory {
		switch record.Result {
		case ResultWin:
			summary.Wins++
		case ResultLose:
			summary.Losses++
		case ResultPush:
			summary.Pushes++
		}
		if record.BlackJack {
			summary.Blackjacks++
		}
		if record.Busted {
			summary.Busts++
		}
		if record.Split {
			summary.Splits++
		}
	}
	// both hands of a split are marked
	summary.Splits /= 2

	return summary
}

// PlayerHistory returns the archived player hands, oldest first
func (s *Session) PlayerHistory() []HandRecord {
	history := make([]HandRecord, len(s.playerHistory))
	copy(history, s.playerHistory)
	return history
}

// DealerHistory returns the archived dealer hands, oldest first
func (s *Session) DealerHistory() []HandRecord {
	history := make([]HandRecord, len(s.dealerHistory))
	copy(history, s.dealerHistory)
	return history
}
