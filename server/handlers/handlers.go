package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lazharichir/blackjack/domain"
	"github.com/lazharichir/blackjack/domain/commands"
	"github.com/lazharichir/blackjack/logger"
	"github.com/lazharichir/blackjack/server/connection"
	"go.uber.org/zap"
)

var (
	ErrUnknownCommand = errors.New("unknown command type")
	ErrNoSession      = errors.New("client has no session")
	ErrHasSession     = errors.New("client already has a session")
)

// CommandRouter routes incoming commands to the appropriate handler
type CommandRouter struct {
	ctx     context.Context
	lobby   *domain.Lobby
	connMgr *connection.Manager
}

// NewCommandRouter creates a new command router. Sessions it starts stop when ctx is done.
func NewCommandRouter(ctx context.Context, lobby *domain.Lobby, connMgr *connection.Manager) *CommandRouter {
	return &CommandRouter{
		ctx:     ctx,
		lobby:   lobby,
		connMgr: connMgr,
	}
}

// HandleCommand processes an incoming command message
func (r *CommandRouter) HandleCommand(client *connection.Client, message []byte) error {
	// First determine command type
	var baseCmd struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(message, &baseCmd); err != nil {
		return err
	}

	// Route to appropriate handler based on command type
	switch baseCmd.Name {
	case commands.StartSession{}.Name():
		return r.handleStartSession(client)

	case commands.PlaceBet{}.Name():
		var cmd commands.PlaceBet
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		return r.deliver(client, cmd)

	case commands.Decide{}.Name():
		var cmd commands.Decide
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		return r.deliver(client, cmd)

	case commands.PlayAgain{}.Name():
		var cmd commands.PlayAgain
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		return r.deliver(client, cmd)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, baseCmd.Name)
	}
}

func (r *CommandRouter) deliver(client *connection.Client, cmd commands.Command) error {
	if _, ok := r.connMgr.SessionOf(client.ID); !ok {
		return ErrNoSession
	}
	return client.Shell.Deliver(cmd)
}

func (r *CommandRouter) handleStartSession(client *connection.Client) error {
	if _, ok := r.connMgr.SessionOf(client.ID); ok {
		return ErrHasSession
	}

	session := r.lobby.OpenSession()
	if !r.connMgr.AttachSession(client.ID, session.ID) {
		_ = r.lobby.CloseSession(session.ID)
		return errors.New("client disconnected")
	}

	go r.runSession(client, session)
	return nil
}

// runSession plays the session to its end and reports the summary to the client
func (r *CommandRouter) runSession(client *connection.Client, session *domain.Session) {
	defer func() {
		r.connMgr.DetachSession(session.ID)
		if err := r.lobby.CloseSession(session.ID); err != nil {
			logger.Log.Warn("closing session", zap.String("session", session.ID), zap.Error(err))
		}
	}()

	summary, err := session.Run(r.ctx, client.Shell)
	if err != nil {
		logger.Log.Info("session aborted",
			zap.String("session", session.ID),
			zap.String("client", client.ID),
			zap.Error(err),
		)
		return
	}

	if err := client.Shell.Notify("session-summary", summary); err != nil {
		logger.Log.Warn("sending summary", zap.String("session", session.ID), zap.Error(err))
	}
}
