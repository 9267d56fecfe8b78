package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lazharichir/blackjack/domain"
	"github.com/lazharichir/blackjack/events"
	"github.com/lazharichir/blackjack/server/connection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	s := NewServer(ctx, domain.DefaultRules(), 2024)
	go s.connMgr.Start()

	ts := httptest.NewServer(s.Routes())
	t.Cleanup(ts.Close)
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg map[string]any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
}

func TestServer_Health(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestServer_UnknownSessionEvents(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/sessions/nope/events")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_CommandWithoutSession(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	send(t, conn, map[string]any{"name": "PLACE_BET", "amount": 10})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var env connection.Envelope
	require.NoError(t, conn.ReadJSON(&env))
	assert.Equal(t, "error", env.Name)
	assert.Contains(t, string(env.Payload), "no session")
}

// TestServer_PlaysOneRound stands on every hand and leaves after the first round
func TestServer_PlaysOneRound(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	send(t, conn, map[string]any{"name": "START_SESSION"})

	seen := map[string]int{}
	var summary domain.Summary

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for summary.SessionID == "" {
		var env connection.Envelope
		require.NoError(t, conn.ReadJSON(&env))
		seen[env.Name]++

		switch env.Name {
		case "request-bet":
			send(t, conn, map[string]any{"name": "PLACE_BET", "amount": 10})
		case "request-decision":
			send(t, conn, map[string]any{"name": "DECIDE", "decision": "stand"})
		case "request-play-again":
			send(t, conn, map[string]any{"name": "PLAY_AGAIN", "again": false})
		case "session-summary":
			require.NoError(t, json.Unmarshal(env.Payload, &summary))
		case "error":
			t.Fatalf("unexpected error message: %s", env.Payload)
		}
	}

	assert.Equal(t, 1, summary.Rounds)
	assert.Equal(t, 1, seen["request-bet"])
	assert.Equal(t, 1, seen["session-started"])
	assert.Equal(t, 1, seen["session-ended"])
	assert.Equal(t, 4, seen["card-dealt"])
	assert.GreaterOrEqual(t, seen["hand-settled"], 1)

	resp, err := http.Get(ts.URL + "/api/sessions")
	require.NoError(t, err)
	defer resp.Body.Close()

	var sessions []events.SessionProgress
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, summary.SessionID, sessions[0].SessionID)
	assert.True(t, sessions[0].Ended)
	assert.Equal(t, summary.Chips, sessions[0].Chips)

	eventsResp, err := http.Get(ts.URL + "/api/sessions/" + summary.SessionID + "/events")
	require.NoError(t, err)
	defer eventsResp.Body.Close()
	assert.Equal(t, http.StatusOK, eventsResp.StatusCode)
}
