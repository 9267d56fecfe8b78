package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lazharichir/blackjack/domain"
	"github.com/lazharichir/blackjack/events"
	"github.com/lazharichir/blackjack/logger"
	"github.com/lazharichir/blackjack/server/connection"
	serverevents "github.com/lazharichir/blackjack/server/events"
	"github.com/lazharichir/blackjack/server/handlers"
	"go.uber.org/zap"
)

const pingPeriod = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server represents the WebSocket server
type Server struct {
	ctx        context.Context
	lobby      *domain.Lobby
	store      *events.InMemoryEventStore
	connMgr    *connection.Manager
	cmdRouter  *handlers.CommandRouter
	dispatcher *serverevents.Dispatcher
}

// EventResponse is one stored event in API responses
type EventResponse struct {
	Name    string       `json:"name"`
	Payload events.Event `json:"payload"`
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewServer creates a new blackjack WebSocket server. Sessions stop when ctx is done.
func NewServer(ctx context.Context, rules domain.Rules, seed int64) *Server {
	lobby := domain.NewLobby(rules, seed)
	store := events.NewInMemoryEventStore()
	connMgr := connection.NewManager()

	dispatcher := serverevents.NewDispatcher(connMgr)
	cmdRouter := handlers.NewCommandRouter(ctx, lobby, connMgr)

	lobby.AddEventHandler(func(event events.Event) {
		if err := store.Append(event); err != nil {
			logger.Log.Warn("event not stored", zap.String("event", event.EventName()), zap.Error(err))
		}
	})
	lobby.AddEventHandler(dispatcher.HandleEvent)

	return &Server{
		ctx:        ctx,
		lobby:      lobby,
		store:      store,
		connMgr:    connMgr,
		cmdRouter:  cmdRouter,
		dispatcher: dispatcher,
	}
}

// Routes builds the HTTP handler of the server
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/ws", s.handleWebSocket)

	r.Route("/api", func(r chi.Router) {
		r.Use(corsMiddleware)
		r.Get("/health", s.handleHealth)
		r.Get("/sessions", s.handleGetSessions)
		r.Get("/sessions/{sessionID}/events", s.handleGetSessionEvents)
	})

	return r
}

// Start serves on addr until the server context is done
func (s *Server) Start(addr string) error {
	go s.connMgr.Start()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-s.ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Log.Info("starting server", zap.String("addr", addr))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleWebSocket handles incoming WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warn("upgrading to websocket", zap.Error(err))
		return
	}

	// Create a new client with a unique ID
	clientID := uuid.NewString()
	logger.Log.Info("client connected", zap.String("remote", r.RemoteAddr), zap.String("client", clientID))

	client := &connection.Client{
		ID:   clientID,
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	client.Shell = connection.NewRemoteShell(clientID, s.connMgr)

	// Register with connection manager
	s.connMgr.Register <- client

	// Handle reading and writing in separate goroutines
	go s.readPump(client)
	go s.writePump(client)
}

// readPump reads messages from the WebSocket connection
func (s *Server) readPump(client *connection.Client) {
	defer func() {
		client.Shell.Close()
		s.connMgr.Unregister <- client
		client.Conn.Close()
		logger.Log.Info("client disconnected", zap.String("client", client.ID))
	}()

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Warn("reading from client", zap.String("client", client.ID), zap.Error(err))
			}
			break
		}

		// Process the message through the command router
		if err := s.cmdRouter.HandleCommand(client, message); err != nil {
			logger.Log.Debug("rejected command", zap.String("client", client.ID), zap.Error(err))
			_ = client.Shell.Notify("error", map[string]string{"message": err.Error()})
		}
	}
}

// writePump sends messages to the WebSocket connection and keeps it alive with pings
func (s *Server) writePump(client *connection.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			if !ok {
				// Channel closed
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Log.Warn("writing to client", zap.String("client", client.ID), zap.Error(err))
				return
			}

		case <-ticker.C:
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Warn("encoding response", zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.lobby.Len(),
		"clients":  s.connMgr.Count(),
	})
}

// handleGetSessions lists every session the server has seen, as told by its events
func (s *Server) handleGetSessions(w http.ResponseWriter, r *http.Request) {
	ids := s.store.SessionIDs()
	responses := make([]events.SessionProgress, 0, len(ids))

	for _, id := range ids {
		stored, err := s.store.LoadEvents(id)
		if err != nil {
			continue
		}
		responses = append(responses, events.Progress(stored))
	}

	sort.Slice(responses, func(i, j int) bool {
		return responses[i].StartedAt.Before(responses[j].StartedAt)
	})

	writeJSON(w, http.StatusOK, responses)
}

// handleGetSessionEvents returns the stored events of a session, open or finished
func (s *Server) handleGetSessionEvents(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	stored, err := s.store.LoadEvents(sessionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(stored) == 0 {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	responses := make([]EventResponse, 0, len(stored))
	for _, event := range stored {
		responses = append(responses, EventResponse{Name: event.EventName(), Payload: event})
	}

	writeJSON(w, http.StatusOK, responses)
}
