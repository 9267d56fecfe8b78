package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lazharichir/blackjack/cards"
	"github.com/lazharichir/blackjack/events"
)

type RoundPhase string

const (
	RoundPhase_Betting    RoundPhase = "betting"
	RoundPhase_Dealing    RoundPhase = "dealing"
	RoundPhase_PlayerTurn RoundPhase = "player.turn"
	RoundPhase_DealerTurn RoundPhase = "dealer.turn"
	RoundPhase_Settlement RoundPhase = "settlement"
	RoundPhase_Ended      RoundPhase = "ended"
)

// Rules are the table constants of a session
type Rules struct {
	StartingChips      int
	MinBet             int
	ReplenishThreshold int
	DealerStandsOn     int
}

// DefaultRules returns the house rules: 100 chips, bets from 1, refill the shoe at 10 cards,
// dealer stands on 17.
func DefaultRules() Rules {
	return Rules{
		StartingChips:      100,
		MinBet:             1,
		ReplenishThreshold: 10,
		DealerStandsOn:     17,
	}
}

// Round is one bet-deal-play-settle cycle. Split hands live side by side in Hands;
// the sibling of a split hand is the next index.
type Round struct {
	ID        string
	SessionID string
	Phase     RoundPhase
	Rules     Rules
	StartedAt time.Time

	Hands       []*PlayerHand
	Dealer      *DealerHand
	Settlements []Settlement

	active    int
	collected bool
	shoe      *cards.Shoe
	bankroll  *Bankroll

	// events
	Events        []events.Event
	eventHandlers []events.EventHandler
}

// NewRound creates a round in the betting phase drawing from shoe and betting from bankroll
func NewRound(sessionID string, rules Rules, shoe *cards.Shoe, bankroll *Bankroll) *Round {
	return &Round{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Phase:     RoundPhase_Betting,
		Rules:     rules,
		StartedAt: time.Now(),
		Hands:     []*PlayerHand{},
		Dealer:    NewDealerHand(),
		shoe:      shoe,
		bankroll:  bankroll,
	}
}

// RegisterEventHandler registers a callback function that will be called when events occur
func (r *Round) RegisterEventHandler(handler events.EventHandler) {
	r.eventHandlers = append(r.eventHandlers, handler)
}

// emitEvent notifies all registered handlers of a new event
func (r *Round) emitEvent(event events.Event) {
	r.Events = append(r.Events, event)

	for _, handler := range r.eventHandlers {
		handler(event)
	}
}

func (r *Round) IsInPhase(phase RoundPhase) bool {
	return r.Phase == phase
}

func (r *Round) requirePhase(phase RoundPhase) error {
	if !r.IsInPhase(phase) {
		return fmt.Errorf("%w: round is in %s, not %s", ErrWrongPhase, r.Phase, phase)
	}
	return nil
}

func (r *Round) draw() (cards.Card, error) {
	card, err := r.shoe.Draw()
	if err != nil {
		return cards.Card{}, fmt.Errorf("round %s: %w", r.ID, err)
	}
	return card, nil
}

// PlaceBet debits the bet and opens the player's hand
func (r *Round) PlaceBet(amount int) error {
	if err := r.requirePhase(RoundPhase_Betting); err != nil {
		return err
	}

	if amount < r.Rules.MinBet || amount > r.bankroll.Chips() {
		return fmt.Errorf("%w: %d is not between %d and %d", ErrInvalidBetAmount, amount, r.Rules.MinBet, r.bankroll.Chips())
	}

	if err := r.bankroll.Debit(amount); err != nil {
		return err
	}

	r.Hands = []*PlayerHand{NewPlayerHand(amount)}
	r.Phase = RoundPhase_Dealing

	r.emitEvent(events.BetPlaced{
		SessionID:  r.SessionID,
		RoundID:    r.ID,
		Amount:     amount,
		ChipsAfter: r.bankroll.Chips(),
		At:         time.Now(),
	})

	return nil
}

// Deal gives two cards each, player first, alternating. The dealer's second card is face down.
func (r *Round) Deal() error {
	if err := r.requirePhase(RoundPhase_Dealing); err != nil {
		return err
	}

	player := r.Hands[0]
	for i := 0; i < 2; i++ {
		card, err := r.draw()
		if err != nil {
			return err
		}
		player.AddCard(card)
		r.emitEvent(events.CardDealt{
			SessionID: r.SessionID,
			RoundID:   r.ID,
			Recipient: OwnerPlayer,
			HandIndex: 0,
			Card:      card,
			At:        time.Now(),
		})

		card, err = r.draw()
		if err != nil {
			return err
		}
		r.Dealer.AddCard(card)

		dealt := events.CardDealt{
			SessionID: r.SessionID,
			RoundID:   r.ID,
			Recipient: OwnerDealer,
			Card:      card,
			At:        time.Now(),
		}
		if i == 1 {
			dealt.Card = cards.Card{}
			dealt.FaceDown = true
		}
		r.emitEvent(dealt)
	}

	r.Phase = RoundPhase_PlayerTurn
	r.announceBlackjack(0)
	r.active = 0
	r.advance()

	return nil
}

func (r *Round) announceBlackjack(index int) {
	if !r.Hands[index].IsBlackJack() {
		return
	}
	r.emitEvent(events.PlayerBlackjack{
		SessionID: r.SessionID,
		RoundID:   r.ID,
		HandIndex: index,
		At:        time.Now(),
	})
}

// advance moves to the next hand that still needs decisions and hands the turn to the
// dealer when none is left
func (r *Round) advance() {
	for r.active < len(r.Hands) && r.Hands[r.active].IsDone() {
		r.active++
	}
	if r.active >= len(r.Hands) {
		r.Phase = RoundPhase_DealerTurn
	}
}

// ActiveHand returns the hand awaiting a decision and its index
func (r *Round) ActiveHand() (*PlayerHand, int, bool) {
	if !r.IsInPhase(RoundPhase_PlayerTurn) || r.active >= len(r.Hands) {
		return nil, -1, false
	}
	return r.Hands[r.active], r.active, true
}

// CanSplit reports whether the active hand may split: same-rank pair, never split before,
// and enough chips left to match the bet
func (r *Round) CanSplit() bool {
	hand, _, ok := r.ActiveHand()
	if !ok {
		return false
	}
	return hand.CanSplit() && r.bankroll.Covers(hand.Bet)
}

// LegalDecisions lists what the active hand may do now
func (r *Round) LegalDecisions() []Decision {
	if _, _, ok := r.ActiveHand(); !ok {
		return nil
	}

	legal := []Decision{DecisionHit, DecisionStand}
	if r.CanSplit() {
		legal = append(legal, DecisionSplit)
	}
	return legal
}

// Apply performs a decision on the active hand after checking it is legal
func (r *Round) Apply(decision Decision) error {
	if err := r.requirePhase(RoundPhase_PlayerTurn); err != nil {
		return err
	}

	if !decision.In(r.LegalDecisions()) {
		return fmt.Errorf("%w: %q is not allowed now", ErrIllegalDecision, decision)
	}

	switch decision {
	case DecisionHit:
		_, err := r.Hit()
		return err
	case DecisionStand:
		return r.Stand()
	case DecisionSplit:
		return r.Split()
	}

	return fmt.Errorf("%w: %q", ErrIllegalDecision, decision)
}

// Hit draws a card into the active hand. A busted hand is finished.
func (r *Round) Hit() (HitOutcome, error) {
	hand, index, ok := r.ActiveHand()
	if !ok {
		return "", fmt.Errorf("%w: no hand awaits a decision", ErrWrongPhase)
	}

	card, err := r.draw()
	if err != nil {
		return "", err
	}

	outcome := hand.Hit(card)

	r.emitEvent(events.PlayerHit{
		SessionID: r.SessionID,
		RoundID:   r.ID,
		HandIndex: index,
		Card:      card,
		Value:     hand.Value(),
		Busted:    outcome == HitBusted,
		At:        time.Now(),
	})

	r.advance()
	return outcome, nil
}

// Stand finishes the active hand
func (r *Round) Stand() error {
	hand, index, ok := r.ActiveHand()
	if !ok {
		return fmt.Errorf("%w: no hand awaits a decision", ErrWrongPhase)
	}

	hand.Stand()

	r.emitEvent(events.PlayerStood{
		SessionID: r.SessionID,
		RoundID:   r.ID,
		HandIndex: index,
		Value:     hand.Value(),
		At:        time.Now(),
	})

	r.advance()
	return nil
}

// Split turns the active pair into two hands with equal bets. The second card moves to a new
// sibling hand placed right after it, and each hand draws one fresh card. Both hands are marked
// as split so neither can split again; the first is played out before the second.
func (r *Round) Split() error {
	hand, index, ok := r.ActiveHand()
	if !ok {
		return fmt.Errorf("%w: no hand awaits a decision", ErrWrongPhase)
	}
	if !r.CanSplit() {
		return fmt.Errorf("%w: hand %d cannot split", ErrIllegalDecision, index)
	}

	if err := r.bankroll.Debit(hand.Bet); err != nil {
		return err
	}

	moved, err := hand.RemoveCardAt(1)
	if err != nil {
		return err
	}

	sibling := NewPlayerHand(hand.Bet)
	sibling.HasSplit = true
	hand.HasSplit = true
	sibling.AddCard(moved)

	card, err := r.draw()
	if err != nil {
		return err
	}
	hand.AddCard(card)

	card, err = r.draw()
	if err != nil {
		return err
	}
	sibling.AddCard(card)

	r.Hands = append(r.Hands[:index+1], append([]*PlayerHand{sibling}, r.Hands[index+1:]...)...)

	r.emitEvent(events.HandSplit{
		SessionID:    r.SessionID,
		RoundID:      r.ID,
		HandIndex:    index,
		SiblingIndex: index + 1,
		Bet:          hand.Bet,
		ChipsAfter:   r.bankroll.Chips(),
		At:           time.Now(),
	})

	r.announceBlackjack(index)
	r.announceBlackjack(index + 1)
	r.advance()

	return nil
}

// DealerMustPlay reports whether any player hand stood. Busted and blackjack hands alone
// do not make the dealer draw.
func (r *Round) DealerMustPlay() bool {
	for _, hand := range r.Hands {
		if hand.Standing {
			return true
		}
	}
	return false
}

// PlayDealer reveals the hole card and, when a player hand stood, draws until the dealer
// reaches the stand value
func (r *Round) PlayDealer() error {
	if err := r.requirePhase(RoundPhase_DealerTurn); err != nil {
		return err
	}

	if len(r.Dealer.cards) > 1 {
		r.emitEvent(events.DealerRevealed{
			SessionID: r.SessionID,
			RoundID:   r.ID,
			Card:      r.Dealer.cards[1],
			Value:     r.Dealer.Value(),
			At:        time.Now(),
		})
	}

	played := r.DealerMustPlay()
	if played {
		for r.Dealer.MustHit(r.Rules.DealerStandsOn) {
			card, err := r.draw()
			if err != nil {
				return err
			}
			r.Dealer.AddCard(card)

			r.emitEvent(events.DealerHit{
				SessionID: r.SessionID,
				RoundID:   r.ID,
				Card:      card,
				Value:     r.Dealer.Value(),
				At:        time.Now(),
			})
		}
	}

	r.emitEvent(events.DealerFinished{
		SessionID: r.SessionID,
		RoundID:   r.ID,
		Value:     r.Dealer.Value(),
		Busted:    r.Dealer.IsBusted(),
		Played:    played,
		At:        time.Now(),
	})

	r.Phase = RoundPhase_Settlement
	return nil
}

// Settle evaluates every player hand against the dealer and credits the bankroll
func (r *Round) Settle() ([]Settlement, error) {
	if err := r.requirePhase(RoundPhase_Settlement); err != nil {
		return nil, err
	}

	for i, hand := range r.Hands {
		result, reason := Evaluate(hand, r.Dealer)
		payout := Payout(result, hand.Bet)

		r.bankroll.Credit(payout)
		hand.Result = result
		r.Dealer.Result = result.Complement()

		settlement := Settlement{
			HandIndex: i,
			Result:    result,
			Reason:    reason,
			Bet:       hand.Bet,
			Payout:    payout,
		}
		r.Settlements = append(r.Settlements, settlement)

		r.emitEvent(events.HandSettled{
			SessionID:   r.SessionID,
			RoundID:     r.ID,
			HandIndex:   i,
			Result:      string(result),
			Reason:      string(reason),
			PlayerValue: hand.Value(),
			DealerValue: r.Dealer.Value(),
			Bet:         hand.Bet,
			Payout:      payout,
			ChipsAfter:  r.bankroll.Chips(),
			At:          time.Now(),
		})
	}

	r.Phase = RoundPhase_Ended
	return r.Settlements, nil
}

// HandRecord is the archived outcome of one hand
type HandRecord struct {
	RoundID   string
	Owner     string
	Index     int
	Cards     cards.Stack
	Value     int
	BlackJack bool
	Busted    bool
	Split     bool
	Bet       int
	Result    Result
	Reason    Reason
}

// Collect archives the settled hands and moves every card into the shoe's discard pile
func (r *Round) Collect() ([]HandRecord, error) {
	if err := r.requirePhase(RoundPhase_Ended); err != nil {
		return nil, err
	}
	if r.collected {
		return nil, fmt.Errorf("%w: round %s already collected", ErrWrongPhase, r.ID)
	}

	records := make([]HandRecord, 0, len(r.Hands)+1)
	for i, hand := range r.Hands {
		record := HandRecord{
			RoundID:   r.ID,
			Owner:     OwnerPlayer,
			Index:     i,
			Cards:     hand.Cards(),
			Value:     hand.Value(),
			BlackJack: hand.IsBlackJack(),
			Busted:    hand.IsBusted(),
			Split:     hand.HasSplit,
			Bet:       hand.Bet,
			Result:    hand.Result,
		}
		if i < len(r.Settlements) {
			record.Reason = r.Settlements[i].Reason
		}
		records = append(records, record)
		r.shoe.Discard(hand.takeCards())
	}

	records = append(records, HandRecord{
		RoundID:   r.ID,
		Owner:     OwnerDealer,
		Cards:     r.Dealer.Cards(),
		Value:     r.Dealer.Value(),
		BlackJack: r.Dealer.IsBlackJack(),
		Busted:    r.Dealer.IsBusted(),
		Result:    r.Dealer.Result,
	})
	r.shoe.Discard(r.Dealer.takeCards())

	r.collected = true

	r.emitEvent(events.RoundEnded{
		SessionID: r.SessionID,
		RoundID:   r.ID,
		Chips:     r.bankroll.Chips(),
		At:        time.Now(),
	})

	return records, nil
}
