package connection

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Envelope wraps every outbound message with its name for client consumption
type Envelope struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// Encode builds the wire form of an envelope
func Encode(name string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Name: name, Payload: raw})
}

// Client represents a connected player
type Client struct {
	ID        string
	Conn      *websocket.Conn
	Send      chan []byte
	Shell     *RemoteShell
	SessionID string // session the client is playing, if any
}

// Manager handles all client connections
type Manager struct {
	clients    map[string]*Client // Map connection IDs to clients
	sessionMap map[string]string  // Map session IDs to connection IDs
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

// NewManager creates a new connection manager
func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		sessionMap: make(map[string]string),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start begins processing connection events
func (m *Manager) Start() {
	for {
		select {
		case client := <-m.Register:
			m.add(client)
		case client := <-m.Unregister:
			m.remove(client)
		}
	}
}

func (m *Manager) add(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.clients[client.ID] = client
	if client.SessionID != "" {
		m.sessionMap[client.SessionID] = client.ID
	}
}

func (m *Manager) remove(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, ok := m.clients[client.ID]; ok {
		if client.SessionID != "" {
			delete(m.sessionMap, client.SessionID)
		}
		delete(m.clients, client.ID)
		close(client.Send)
	}
}

// SendToClient queues a message for a connected client. It never blocks: a full or
// closed queue drops the message and reports false.
func (m *Manager) SendToClient(clientID string, message []byte) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	client, ok := m.clients[clientID]
	if !ok {
		return false
	}

	select {
	case client.Send <- message:
		return true
	default:
		return false
	}
}

// SendToSession sends a message to the client playing a session
func (m *Manager) SendToSession(sessionID string, message []byte) bool {
	m.mutex.RLock()
	clientID, exists := m.sessionMap[sessionID]
	m.mutex.RUnlock()

	if !exists {
		return false
	}
	return m.SendToClient(clientID, message)
}

// AttachSession links a session to a client. A client plays one session at a time.
func (m *Manager) AttachSession(clientID string, sessionID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	client, ok := m.clients[clientID]
	if !ok {
		return false
	}
	if client.SessionID != "" {
		delete(m.sessionMap, client.SessionID)
	}
	client.SessionID = sessionID
	m.sessionMap[sessionID] = clientID
	return true
}

// DetachSession unlinks a finished session from its client
func (m *Manager) DetachSession(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	clientID, exists := m.sessionMap[sessionID]
	if !exists {
		return
	}
	delete(m.sessionMap, sessionID)
	if client, ok := m.clients[clientID]; ok && client.SessionID == sessionID {
		client.SessionID = ""
	}
}

// SessionOf returns the session a client is playing
func (m *Manager) SessionOf(clientID string) (string, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	client, ok := m.clients[clientID]
	if !ok || client.SessionID == "" {
		return "", false
	}
	return client.SessionID, true
}

// Count returns the number of connected clients
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients)
}
