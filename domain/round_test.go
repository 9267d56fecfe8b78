package domain

import (
	"testing"

	"github.com/lazharichir/blackjack/cards"
	"github.com/lazharichir/blackjack/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// riggedRound builds a round over a shoe that deals the given cards in order.
// Initial deal order is player, dealer, player, dealer.
func riggedRound(t *testing.T, chips int, deal ...string) (*Round, *cards.Shoe, *Bankroll) {
	t.Helper()
	shoe := cards.NewShoeFrom(cards.MustParseStack(deal...))
	bankroll := NewBankroll(chips)
	round := NewRound("session-1", DefaultRules(), shoe, bankroll)
	return round, shoe, bankroll
}

func betAndDeal(t *testing.T, round *Round, amount int) {
	t.Helper()
	require.NoError(t, round.PlaceBet(amount))
	require.NoError(t, round.Deal())
}

func eventNames(evts []events.Event) []string {
	names := make([]string, 0, len(evts))
	for _, e := range evts {
		names = append(names, e.EventName())
	}
	return names
}

func TestRound_PlaceBet(t *testing.T) {
	tests := []struct {
		name    string
		amount  int
		wantErr bool
	}{
		{"zero", 0, true},
		{"negative", -5, true},
		{"more than the bankroll", 101, true},
		{"minimum", 1, false},
		{"whole bankroll", 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			round, _, bankroll := riggedRound(t, 100)

			err := round.PlaceBet(tt.amount)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidBetAmount)
				assert.Equal(t, 100, bankroll.Chips(), "a rejected bet debits nothing")
				assert.True(t, round.IsInPhase(RoundPhase_Betting))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, 100-tt.amount, bankroll.Chips())
			assert.True(t, round.IsInPhase(RoundPhase_Dealing))
			require.Len(t, round.Hands, 1)
			assert.Equal(t, tt.amount, round.Hands[0].Bet)
		})
	}
}

func TestRound_PlaceBet_WrongPhase(t *testing.T) {
	round, _, _ := riggedRound(t, 100, "2h", "3h", "4h", "5h")
	betAndDeal(t, round, 10)

	assert.ErrorIs(t, round.PlaceBet(10), ErrWrongPhase)
}

func TestRound_DealAlternates(t *testing.T) {
	round, _, _ := riggedRound(t, 100, "2h", "3h", "4h", "5h", "9c")
	betAndDeal(t, round, 10)

	assert.Equal(t, cards.MustParseStack("2h", "4h"), round.Hands[0].Cards())
	assert.Equal(t, cards.MustParseStack("3h", "5h"), round.Dealer.Cards())
	assert.True(t, round.IsInPhase(RoundPhase_PlayerTurn))

	var dealt []events.CardDealt
	for _, e := range round.Events {
		if cd, ok := e.(events.CardDealt); ok {
			dealt = append(dealt, cd)
		}
	}
	require.Len(t, dealt, 4)
	assert.Equal(t, OwnerPlayer, dealt[0].Recipient)
	assert.Equal(t, OwnerDealer, dealt[1].Recipient)
	assert.False(t, dealt[1].FaceDown, "the up card is shown")
	assert.True(t, dealt[3].FaceDown, "the hole card is hidden")
	assert.True(t, dealt[3].Card.IsZero(), "a hidden card is not leaked in the event")
}

func TestRound_DealFromEmptyShoe(t *testing.T) {
	round, _, _ := riggedRound(t, 100, "2h", "3h")
	require.NoError(t, round.PlaceBet(10))

	assert.ErrorIs(t, round.Deal(), cards.ErrEmptyShoe)
}

func TestRound_LegalDecisions(t *testing.T) {
	t.Run("pair offers split", func(t *testing.T) {
		round, _, _ := riggedRound(t, 100, "8h", "9c", "8s", "7d")
		betAndDeal(t, round, 10)

		assert.Equal(t, []Decision{DecisionHit, DecisionStand, DecisionSplit}, round.LegalDecisions())
	})

	t.Run("same value but different rank does not split", func(t *testing.T) {
		round, _, _ := riggedRound(t, 100, "Jh", "9c", "Qs", "7d")
		betAndDeal(t, round, 10)

		assert.Equal(t, []Decision{DecisionHit, DecisionStand}, round.LegalDecisions())
	})

	t.Run("pair without chips to match does not split", func(t *testing.T) {
		round, _, _ := riggedRound(t, 100, "8h", "9c", "8s", "7d")
		betAndDeal(t, round, 60)

		assert.False(t, round.CanSplit())
		assert.Equal(t, []Decision{DecisionHit, DecisionStand}, round.LegalDecisions())
		assert.ErrorIs(t, round.Apply(DecisionSplit), ErrIllegalDecision)
	})

	t.Run("no decisions outside the player turn", func(t *testing.T) {
		round, _, _ := riggedRound(t, 100)
		assert.Empty(t, round.LegalDecisions())
	})
}

func TestRound_Apply_Unknown(t *testing.T) {
	round, _, _ := riggedRound(t, 100, "8h", "9c", "5s", "7d")
	betAndDeal(t, round, 10)

	err := round.Apply(Decision("double"))
	assert.ErrorIs(t, err, ErrIllegalDecision)
	assert.True(t, round.IsInPhase(RoundPhase_PlayerTurn), "an illegal decision changes nothing")
}

func TestRound_HitUntilBust(t *testing.T) {
	round, _, bankroll := riggedRound(t, 100, "10h", "9c", "6s", "8d", "Kd")
	betAndDeal(t, round, 10)

	outcome, err := round.Hit()
	require.NoError(t, err)
	assert.Equal(t, HitBusted, outcome)
	assert.Equal(t, 26, round.Hands[0].Value())
	assert.True(t, round.IsInPhase(RoundPhase_DealerTurn), "a busted hand ends the player turn")

	require.NoError(t, round.PlayDealer())
	assert.Equal(t, 2, round.Dealer.Len(), "dealer draws nothing when no hand stood")

	settlements, err := round.Settle()
	require.NoError(t, err)
	require.Len(t, settlements, 1)
	assert.Equal(t, ResultLose, settlements[0].Result)
	assert.Equal(t, ReasonPlayerBusted, settlements[0].Reason)
	assert.Equal(t, 90, bankroll.Chips())
	assert.Equal(t, ResultWin, round.Dealer.Result)
}

func TestRound_SoftHandSurvivesHit(t *testing.T) {
	round, _, _ := riggedRound(t, 100, "Ah", "9c", "6s", "8d", "9d")
	betAndDeal(t, round, 10)

	outcome, err := round.Hit()
	require.NoError(t, err)
	assert.Equal(t, HitOK, outcome)
	assert.Equal(t, 16, round.Hands[0].Value(), "the ace drops to 1 instead of busting")
	assert.True(t, round.IsInPhase(RoundPhase_PlayerTurn))
}

func TestRound_Split(t *testing.T) {
	// player 8h 8s, dealer 10c 7d, then 3h to the first hand and 2c to the second
	round, _, bankroll := riggedRound(t, 100, "8h", "10c", "8s", "7d", "3h", "2c", "Kd", "9s")
	betAndDeal(t, round, 10)
	require.Equal(t, 90, bankroll.Chips())

	require.NoError(t, round.Apply(DecisionSplit))

	assert.Equal(t, 80, bankroll.Chips(), "split debits the bet once")
	require.Len(t, round.Hands, 2)

	first, second := round.Hands[0], round.Hands[1]
	assert.Equal(t, cards.MustParseStack("8h", "3h"), first.Cards())
	assert.Equal(t, cards.MustParseStack("8s", "2c"), second.Cards())
	assert.True(t, first.HasSplit)
	assert.True(t, second.HasSplit)
	assert.Equal(t, 10, first.Bet)
	assert.Equal(t, 10, second.Bet)

	_, active, ok := round.ActiveHand()
	require.True(t, ok)
	assert.Equal(t, 0, active, "the first hand is played out first")

	// 8h 3h + Kd = 21
	require.NoError(t, round.Apply(DecisionHit))
	require.NoError(t, round.Apply(DecisionStand))

	_, active, ok = round.ActiveHand()
	require.True(t, ok)
	assert.Equal(t, 1, active)
	assert.NotContains(t, round.LegalDecisions(), DecisionSplit, "a split hand never splits again")

	// 8s 2c + 9s = 19
	require.NoError(t, round.Apply(DecisionHit))
	require.NoError(t, round.Apply(DecisionStand))
	require.True(t, round.IsInPhase(RoundPhase_DealerTurn))

	require.NoError(t, round.PlayDealer())
	assert.Equal(t, 17, round.Dealer.Value())

	settlements, err := round.Settle()
	require.NoError(t, err)
	require.Len(t, settlements, 2)
	assert.Equal(t, ResultWin, settlements[0].Result)
	assert.Equal(t, ResultWin, settlements[1].Result)
	assert.Equal(t, 120, bankroll.Chips())

	assert.Contains(t, eventNames(round.Events), "hand-split")
}

func TestRound_SplitAcesIntoBlackjack(t *testing.T) {
	round, _, bankroll := riggedRound(t, 100, "Ah", "9c", "As", "8d", "Kh", "Qc")
	betAndDeal(t, round, 10)

	require.NoError(t, round.Apply(DecisionSplit))

	assert.True(t, round.Hands[0].IsBlackJack())
	assert.True(t, round.Hands[1].IsBlackJack())
	assert.True(t, round.IsInPhase(RoundPhase_DealerTurn), "two-card 21 after a split takes no decisions")

	require.NoError(t, round.PlayDealer())
	settlements, err := round.Settle()
	require.NoError(t, err)

	for _, s := range settlements {
		assert.Equal(t, ReasonPlayerBlackjack, s.Reason)
	}
	assert.Equal(t, 120, bankroll.Chips())
}

func TestRound_DealerStopsAtStandValue(t *testing.T) {
	tests := []struct {
		name      string
		deal      []string
		wantValue int
		wantCards int
	}{
		{"stands on hard 17 dealt", []string{"10h", "10c", "9s", "7d"}, 17, 2},
		{"stands on soft 17", []string{"10h", "Ac", "9s", "6d"}, 17, 2},
		{"draws from 12 to 17", []string{"10h", "10c", "9s", "2d", "5h"}, 17, 3},
		{"draws several cards", []string{"10h", "2c", "9s", "3d", "4h", "2s", "6c"}, 17, 5},
		{"busts", []string{"10h", "10c", "9s", "6d", "Kh"}, 26, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			round, _, _ := riggedRound(t, 100, tt.deal...)
			betAndDeal(t, round, 10)
			require.NoError(t, round.Apply(DecisionStand))

			require.NoError(t, round.PlayDealer())

			assert.Equal(t, tt.wantValue, round.Dealer.Value())
			assert.Equal(t, tt.wantCards, round.Dealer.Len())
			assert.GreaterOrEqual(t, round.Dealer.Value(), 17)
			assert.True(t, round.IsInPhase(RoundPhase_Settlement))
		})
	}
}

func TestRound_PlayerBlackjackEndToEnd(t *testing.T) {
	round, shoe, bankroll := riggedRound(t, 100, "Ah", "9c", "Kh", "7d")
	require.NoError(t, round.PlaceBet(10))
	require.NoError(t, round.Deal())

	assert.True(t, round.Hands[0].IsBlackJack())
	assert.True(t, round.IsInPhase(RoundPhase_DealerTurn), "a natural skips the player's decisions")

	require.NoError(t, round.PlayDealer())
	assert.Equal(t, 16, round.Dealer.Value(), "dealer does not draw against a lone blackjack")

	settlements, err := round.Settle()
	require.NoError(t, err)
	require.Len(t, settlements, 1)
	assert.Equal(t, ResultWin, settlements[0].Result)
	assert.Equal(t, 20, settlements[0].Payout)
	assert.Equal(t, 110, bankroll.Chips())

	records, err := round.Collect()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, ResultWin, records[0].Result)
	assert.True(t, records[0].BlackJack)
	assert.Equal(t, OwnerDealer, records[1].Owner)
	assert.Equal(t, ResultLose, records[1].Result)
	assert.Equal(t, 4, shoe.DiscardLen())
	assert.Equal(t, 0, round.Hands[0].Len())

	_, err = round.Collect()
	assert.ErrorIs(t, err, ErrWrongPhase)

	assert.Equal(t, []string{
		"bet-placed",
		"card-dealt", "card-dealt", "card-dealt", "card-dealt",
		"player-blackjack",
		"dealer-revealed",
		"dealer-finished",
		"hand-settled",
		"round-ended",
	}, eventNames(round.Events))
}

func TestRound_CardConservation(t *testing.T) {
	shoe := cards.NewShoe()
	shoe.Seed(42)
	shoe.Shuffle()
	bankroll := NewBankroll(1000)

	for i := 0; i < 20; i++ {
		round := NewRound("session-1", DefaultRules(), shoe, bankroll)
		require.NoError(t, round.PlaceBet(1))
		require.NoError(t, round.Deal())

		for round.IsInPhase(RoundPhase_PlayerTurn) {
			hand, _, _ := round.ActiveHand()
			decision := DecisionStand
			if round.CanSplit() {
				decision = DecisionSplit
			} else if hand.Value() < 15 {
				decision = DecisionHit
			}
			require.NoError(t, round.Apply(decision))
		}

		require.NoError(t, round.PlayDealer())
		_, err := round.Settle()
		require.NoError(t, err)
		_, err = round.Collect()
		require.NoError(t, err)

		assert.Equal(t, 52, shoe.Len()+shoe.DiscardLen(), "round %d lost or duplicated cards", i)
		// refill early so a long split round cannot run the shoe dry
		shoe.ReplenishIfLow(20)
	}
}
