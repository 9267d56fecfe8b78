package events

import (
	"github.com/lazharichir/blackjack/events"
	"github.com/lazharichir/blackjack/logger"
	"github.com/lazharichir/blackjack/server/connection"
	"go.uber.org/zap"
)

// Dispatcher handles routing events to clients
type Dispatcher struct {
	connMgr *connection.Manager
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(connMgr *connection.Manager) *Dispatcher {
	return &Dispatcher{
		connMgr: connMgr,
	}
}

// HandleEvent sends a domain event to the client playing its session
func (d *Dispatcher) HandleEvent(event events.Event) {
	sessionID := events.GetSessionID(event)
	if sessionID == "" {
		return
	}

	envelopeData, err := connection.Encode(event.EventName(), event)
	if err != nil {
		logger.Log.Error("failed to encode event", zap.String("event", event.EventName()), zap.Error(err))
		return
	}

	if !d.connMgr.SendToSession(sessionID, envelopeData) {
		logger.Log.Debug("event not delivered",
			zap.String("event", event.EventName()),
			zap.String("session", sessionID),
		)
	}
}
