package shell

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/lazharichir/blackjack/domain"
	"github.com/lazharichir/blackjack/events"
	"github.com/sanity-io/litter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Console is a Shell reading answers line by line and printing to a terminal.
// It only checks that answers are well formed; the engine decides whether they are allowed.
type Console struct {
	in    *bufio.Scanner
	out   io.Writer
	p     *message.Printer
	title cases.Caser
	debug bool
}

// NewConsole creates a console shell. In debug mode every event is dumped as well.
func NewConsole(in io.Reader, out io.Writer, debug bool) *Console {
	return &Console{
		in:    bufio.NewScanner(in),
		out:   out,
		p:     message.NewPrinter(language.English),
		title: cases.Title(language.English),
		debug: debug,
	}
}

func (c *Console) printf(format string, args ...any) {
	c.p.Fprintf(c.out, format, args...)
}

func (c *Console) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) RequestBet(ctx context.Context, req domain.BetRequest) (int, error) {
	if req.Rejected != nil {
		c.printf(" Invalid bet amount! Place at least %d and at most %d chips.\n", req.MinBet, req.MaxBet)
	}

	c.printf("\n You have %d chips available\n", req.MaxBet)
	for {
		c.printf(" Please place your bet (no. of chips): ")
		line, err := c.readLine(ctx)
		if err != nil {
			return 0, err
		}

		amount, err := strconv.Atoi(line)
		if err != nil {
			c.printf(" Invalid bet. Enter a whole number of chips.\n")
			continue
		}
		return amount, nil
	}
}

// parseDecision accepts a decision name or its 1-based position in the legal list
func parseDecision(line string, legal []domain.Decision) (domain.Decision, error) {
	if n, err := strconv.Atoi(line); err == nil {
		if n < 1 || n > len(legal) {
			return "", errors.New("no such option")
		}
		return legal[n-1], nil
	}
	return domain.ParseDecision(line)
}

func (c *Console) RequestDecision(ctx context.Context, req domain.DecisionRequest) (domain.Decision, error) {
	if req.Rejected != nil {
		c.printf(" That move is not allowed now.\n")
	}

	c.printf("\n Hand %d: %s = %d, dealer shows %s\n", req.HandIndex+1, req.Hand.Cards, req.Hand.Value, req.DealerUpCard)

	options := make([]string, 0, len(req.Legal))
	for i, d := range req.Legal {
		options = append(options, c.p.Sprintf("%d) %s", i+1, c.title.String(string(d))))
	}

	for {
		c.printf(" %s: ", strings.Join(options, "  "))
		line, err := c.readLine(ctx)
		if err != nil {
			return "", err
		}

		decision, err := parseDecision(line, req.Legal)
		if err != nil {
			c.printf(" Invalid input. Choose one of the options.\n")
			continue
		}
		return decision, nil
	}
}

// FormatHand renders a hand view on one line
func (c *Console) FormatHand(view domain.HandView) string {
	var b strings.Builder

	if view.Owner == domain.OwnerDealer {
		b.WriteString("Dealer")
	} else {
		b.WriteString(c.p.Sprintf("Hand %d (bet %d)", view.Index+1, view.Bet))
	}

	b.WriteString(": ")
	b.WriteString(view.Cards.String())
	b.WriteString(c.p.Sprintf(" = %d", view.Value))

	switch {
	case view.BlackJack:
		b.WriteString(" blackjack")
	case view.Busted:
		b.WriteString(" busted")
	case view.Soft:
		b.WriteString(" soft")
	}

	if view.Owner == domain.OwnerPlayer && view.Result != domain.ResultNone {
		b.WriteString(" -> ")
		b.WriteString(c.title.String(string(view.Result)))
	}

	return b.String()
}

func (c *Console) RenderHand(ctx context.Context, view domain.HandView) error {
	c.printf(" %s\n", c.FormatHand(view))
	return nil
}

func (c *Console) RequestPlayAgain(ctx context.Context) (bool, error) {
	for {
		c.printf("\n Play another round? (y/n): ")
		line, err := c.readLine(ctx)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(line) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		c.printf(" Please answer y or n.\n")
	}
}

// HandleEvent prints the events a player wants narrated
func (c *Console) HandleEvent(event events.Event) {
	if c.debug {
		c.printf("%s\n", litter.Sdump(event))
	}

	switch e := event.(type) {
	case events.RoundStarted:
		c.printf("\n ---- New round ----\n")
	case events.BetPlaced:
		c.printf(" Your bet is %d chips and you have %d chips remaining\n", e.Amount, e.ChipsAfter)
	case events.PlayerBlackjack:
		c.printf(" Blackjack on hand %d!\n", e.HandIndex+1)
	case events.PlayerHit:
		if e.Busted {
			c.printf(" Drew %s, busted with %d\n", e.Card, e.Value)
		}
	case events.HandSplit:
		c.printf(" Split into hands %d and %d, %d chips remaining\n", e.HandIndex+1, e.SiblingIndex+1, e.ChipsAfter)
	case events.DealerRevealed:
		c.printf(" Dealer turns over %s\n", e.Card)
	case events.DealerHit:
		c.printf(" Dealer draws %s (%d)\n", e.Card, e.Value)
	case events.HandSettled:
		c.printf(" Hand %d: %s (%s), paid %d, chips %d\n", e.HandIndex+1, c.title.String(e.Result), e.Reason, e.Payout, e.ChipsAfter)
	case events.ShoeReplenished:
		c.printf(" Adding more cards to the dealer shoe\n")
	case events.SessionEnded:
		if e.Reason == domain.EndReasonOutOfChips {
			c.printf("\n Sorry! You are out of chips.\n")
		}
	}
}

// PrintSummary prints the end-of-session report
func (c *Console) PrintSummary(summary domain.Summary) {
	c.printf("\n ==== Game over ====\n")
	c.printf(" Chips remaining: %d (net %+d)\n", summary.Chips, summary.Net())
	c.printf(" Rounds played:   %d\n", summary.Rounds)
	c.printf(" Hands played:    %d\n", summary.HandsPlayed)
	c.printf(" Wins: %d  Losses: %d  Pushes: %d\n", summary.Wins, summary.Losses, summary.Pushes)
	c.printf(" Blackjacks: %d  Busts: %d  Splits: %d\n", summary.Blackjacks, summary.Busts, summary.Splits)
}
