package domain

import (
	"errors"
	"sync"

	"github.com/lazharichir/blackjack/events"
	"github.com/lazharichir/blackjack/logger"
	"github.com/sanity-io/litter"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned when a lobby lookup misses
var ErrSessionNotFound = errors.New("session not found")

// Lobby keeps the open sessions of a server. Each session has its own shoe and bankroll.
type Lobby struct {
	rules Rules
	seed  int64

	mu       sync.RWMutex
	sessions map[string]*Session
	opened   int64

	eventHandlers []events.EventHandler
}

// NewLobby creates a lobby opening sessions with rules. A non-zero seed makes the shoe of
// the n-th session reproducible (seed+n).
func NewLobby(rules Rules, seed int64) *Lobby {
	return &Lobby{
		rules:    rules,
		seed:     seed,
		sessions: make(map[string]*Session),
	}
}

// AddEventHandler adds an event handler to the lobby. Register handlers before opening sessions.
func (l *Lobby) AddEventHandler(handler events.EventHandler) {
	l.eventHandlers = append(l.eventHandlers, handler)
}

func (l *Lobby) emitEvent(event events.Event) {
	for _, handler := range l.eventHandlers {
		handler(event)
	}
}

func (l *Lobby) handleSessionEvent(event events.Event) {
	if ce := logger.Log.Check(zap.DebugLevel, "session event"); ce != nil {
		ce.Write(zap.String("event", event.EventName()), zap.String("payload", litter.Sdump(event)))
	}

	l.emitEvent(event)
}

// OpenSession creates and registers a new session
func (l *Lobby) OpenSession() *Session {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.opened++
	seed := int64(0)
	if l.seed != 0 {
		seed = l.seed + l.opened
	}

	session := NewSession(l.rules, NewShuffledShoe(seed))
	session.RegisterEventHandler(l.handleSessionEvent)
	l.sessions[session.ID] = session

	logger.Log.Info("session opened", zap.String("session", session.ID), zap.Int("chips", session.Chips()))

	return session
}

// GetSession retrieves a session by ID
func (l *Lobby) GetSession(sessionID string) (*Session, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	session, exists := l.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}

	return session, nil
}

// CloseSession removes a session from the lobby
func (l *Lobby) CloseSession(sessionID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.sessions[sessionID]; !exists {
		return ErrSessionNotFound
	}
	delete(l.sessions, sessionID)

	logger.Log.Info("session closed", zap.String("session", sessionID))
	return nil
}

// SessionIDs returns the IDs of the open sessions
func (l *Lobby) SessionIDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := make([]string, 0, len(l.sessions))
	for id := range l.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of open sessions
func (l *Lobby) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.sessions)
}
