package domain

// Reason names the rule that decided a hand
type Reason string

const (
	ReasonBothBlackjack   Reason = "both-blackjack"
	ReasonPlayerBlackjack Reason = "player-blackjack"
	ReasonPlayerBusted    Reason = "player-busted"
	ReasonDealerBusted    Reason = "dealer-busted"
	ReasonPlayerHigher    Reason = "player-higher"
	ReasonDealerHigher    Reason = "dealer-higher"
	ReasonEqualValues     Reason = "equal-values"
)

// Evaluate compares a finished player hand with the dealer hand. The first matching rule wins:
// both blackjack, player blackjack, player bust, dealer bust, higher value, equal values.
func Evaluate(player *PlayerHand, dealer *DealerHand) (Result, Reason) {
	switch {
	case player.IsBlackJack() && dealer.IsBlackJack():
		return ResultPush, ReasonBothBlackjack
	case player.IsBlackJack():
		return ResultWin, ReasonPlayerBlackjack
	case player.IsBusted():
		return ResultLose, ReasonPlayerBusted
	case dealer.IsBusted():
		return ResultWin, ReasonDealerBusted
	case player.Value() > dealer.Value():
		return ResultWin, ReasonPlayerHigher
	case dealer.Value() > player.Value():
		return ResultLose, ReasonDealerHigher
	default:
		return ResultPush, ReasonEqualValues
	}
}

// Payout is what the bankroll is credited for a settled bet. The stake was already debited
// when the bet was placed, so a win returns it doubled, a push returns it and a loss nothing.
func Payout(result Result, bet int) int {
	switch result {
	case ResultWin:
		return bet * 2
	case ResultPush:
		return bet
	default:
		return 0
	}
}

// Settlement is the outcome of one player hand
type Settlement struct {
	HandIndex int
	Result    Result
	Reason    Reason
	Bet       int
	Payout    int
}
