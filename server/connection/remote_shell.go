package connection

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/lazharichir/blackjack/domain"
	"github.com/lazharichir/blackjack/domain/commands"
)

var (
	ErrShellClosed = errors.New("shell closed")
	ErrNotAwaiting = errors.New("an answer is already pending")
	ErrSendFailed  = errors.New("client is not reachable")
)

// RemoteShell plays a session over a websocket client. Prompts are sent as envelopes and
// answers arrive through Deliver, called by the command router.
type RemoteShell struct {
	clientID string
	connMgr  *Manager
	inbox    chan commands.Command

	closeOnce sync.Once
	done      chan struct{}
}

// NewRemoteShell creates the shell of a connected client
func NewRemoteShell(clientID string, connMgr *Manager) *RemoteShell {
	return &RemoteShell{
		clientID: clientID,
		connMgr:  connMgr,
		inbox:    make(chan commands.Command, 1),
		done:     make(chan struct{}),
	}
}

type betPrompt struct {
	RoundID  string `json:"roundId"`
	MinBet   int    `json:"minBet"`
	MaxBet   int    `json:"maxBet"`
	Rejected string `json:"rejected,omitempty"`
}

type handPayload struct {
	Owner     string   `json:"owner"`
	Index     int      `json:"index"`
	Cards     []string `json:"cards"`
	Value     int      `json:"value"`
	Soft      bool     `json:"soft"`
	BlackJack bool     `json:"blackjack"`
	Busted    bool     `json:"busted"`
	Bet       int      `json:"bet,omitempty"`
	Result    string   `json:"result,omitempty"`
	Revealed  bool     `json:"revealed"`
}

type decisionPrompt struct {
	RoundID      string      `json:"roundId"`
	HandIndex    int         `json:"handIndex"`
	Hand         handPayload `json:"hand"`
	DealerUpCard string      `json:"dealerUpCard"`
	Legal        []string    `json:"legal"`
	Rejected     string      `json:"rejected,omitempty"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func newHandPayload(view domain.HandView) handPayload {
	shown := make([]string, 0, len(view.Cards))
	for _, c := range view.Cards {
		shown = append(shown, c.String())
	}

	result := ""
	if view.Result != domain.ResultNone {
		result = string(view.Result)
	}

	return handPayload{
		Owner:     view.Owner,
		Index:     view.Index,
		Cards:     shown,
		Value:     view.Value,
		Soft:      view.Soft,
		BlackJack: view.BlackJack,
		Busted:    view.Busted,
		Bet:       view.Bet,
		Result:    result,
		Revealed:  view.RevealAll,
	}
}

func rejection(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Deliver hands an answer to the pending request. At most one answer is buffered.
func (s *RemoteShell) Deliver(cmd commands.Command) error {
	select {
	case <-s.done:
		return ErrShellClosed
	default:
	}

	select {
	case s.inbox <- cmd:
		return nil
	default:
		return ErrNotAwaiting
	}
}

// Close aborts any pending request. It is safe to call more than once.
func (s *RemoteShell) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Notify sends a message that needs no answer
func (s *RemoteShell) Notify(name string, payload any) error {
	select {
	case <-s.done:
		return ErrShellClosed
	default:
	}

	message, err := Encode(name, payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if !s.connMgr.SendToClient(s.clientID, message) {
		return ErrSendFailed
	}
	return nil
}

func (s *RemoteShell) await(ctx context.Context, expected string) (commands.Command, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.done:
			return nil, ErrShellClosed
		case cmd := <-s.inbox:
			if cmd.Name() == expected {
				return cmd, nil
			}
			if err := s.Notify("error", errorPayload{Message: fmt.Sprintf("expected %s, got %s", expected, cmd.Name())}); err != nil {
				return nil, err
			}
		}
	}
}

func (s *RemoteShell) RequestBet(ctx context.Context, req domain.BetRequest) (int, error) {
	prompt := betPrompt{
		RoundID:  req.RoundID,
		MinBet:   req.MinBet,
		MaxBet:   req.MaxBet,
		Rejected: rejection(req.Rejected),
	}
	if err := s.Notify("request-bet", prompt); err != nil {
		return 0, err
	}

	cmd, err := s.await(ctx, commands.PlaceBet{}.Name())
	if err != nil {
		return 0, err
	}
	return cmd.(commands.PlaceBet).Amount, nil
}

// RequestDecision passes the answer through unchecked; the round rejects anything illegal
// and the request comes back with the reason.
func (s *RemoteShell) RequestDecision(ctx context.Context, req domain.DecisionRequest) (domain.Decision, error) {
	legal := make([]string, 0, len(req.Legal))
	for _, d := range req.Legal {
		legal = append(legal, string(d))
	}

	prompt := decisionPrompt{
		RoundID:      req.RoundID,
		HandIndex:    req.HandIndex,
		Hand:         newHandPayload(req.Hand),
		DealerUpCard: req.DealerUpCard.String(),
		Legal:        legal,
		Rejected:     rejection(req.Rejected),
	}
	if err := s.Notify("request-decision", prompt); err != nil {
		return "", err
	}

	cmd, err := s.await(ctx, commands.Decide{}.Name())
	if err != nil {
		return "", err
	}
	return domain.Decision(strings.ToLower(strings.TrimSpace(cmd.(commands.Decide).Decision))), nil
}

func (s *RemoteShell) RenderHand(ctx context.Context, view domain.HandView) error {
	return s.Notify("hand", newHandPayload(view))
}

func (s *RemoteShell) RequestPlayAgain(ctx context.Context) (bool, error) {
	if err := s.Notify("request-play-again", struct{}{}); err != nil {
		return false, err
	}

	cmd, err := s.await(ctx, commands.PlayAgain{}.Name())
	if err != nil {
		return false, err
	}
	return cmd.(commands.PlayAgain).Again, nil
}
