package events

import (
	"sync"
	"testing"

	"github.com/lazharichir/blackjack/cards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noSessionID struct {
	OtherField string
}

func (noSessionID) EventName() string { return "no-session-id" }

func TestInMemoryEventStore(t *testing.T) {
	store := NewInMemoryEventStore()

	sessionID := "session-123"

	t.Run("Append and load events", func(t *testing.T) {
		require.NoError(t, store.Append(RoundStarted{SessionID: sessionID, RoundID: "r1", Chips: 100}))
		require.NoError(t, store.Append(BetPlaced{SessionID: sessionID, RoundID: "r1", Amount: 10, ChipsAfter: 90}))
		require.NoError(t, store.Append(CardDealt{
			SessionID: sessionID,
			RoundID:   "r1",
			Recipient: "player",
			Card:      cards.Card{Suit: cards.Spades, Rank: cards.Ace},
		}))

		events, err := store.LoadEvents(sessionID)
		require.NoError(t, err)
		require.Len(t, events, 3)

		assert.Equal(t, "round-started", events[0].EventName())
		assert.Equal(t, "bet-placed", events[1].EventName())
		assert.Equal(t, "card-dealt", events[2].EventName())
		assert.Equal(t, []string{sessionID}, store.SessionIDs())
	})

	t.Run("Load events for unknown session", func(t *testing.T) {
		events, err := store.LoadEvents("non-existent-session")
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("Reject events without session id", func(t *testing.T) {
		err := store.Append(noSessionID{OtherField: "x"})
		assert.Error(t, err)
	})

	t.Run("Loaded slice is a copy", func(t *testing.T) {
		events, err := store.LoadEvents(sessionID)
		require.NoError(t, err)
		events[0] = nil

		again, err := store.LoadEvents(sessionID)
		require.NoError(t, err)
		assert.NotNil(t, again[0])
	})
}

func TestInMemoryEventStore_ConcurrentAppend(t *testing.T) {
	store := NewInMemoryEventStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Append(RoundEnded{SessionID: "s", Chips: 1})
		}()
	}
	wg.Wait()

	events, err := store.LoadEvents("s")
	require.NoError(t, err)
	assert.Len(t, events, 50)
	assert.Len(t, store.GetEvents(), 50)
}

func TestGetSessionID(t *testing.T) {
	t.Run("struct with SessionID field", func(t *testing.T) {
		assert.Equal(t, "s1", GetSessionID(PlayerStood{SessionID: "s1"}))
	})

	t.Run("pointer to struct with SessionID field", func(t *testing.T) {
		assert.Equal(t, "s2", GetSessionID(&PlayerStood{SessionID: "s2"}))
	})

	t.Run("struct without SessionID field", func(t *testing.T) {
		assert.Equal(t, "", GetSessionID(noSessionID{OtherField: "noID"}))
	})

	t.Run("pointer to struct without SessionID field", func(t *testing.T) {
		assert.Equal(t, "", GetSessionID(&noSessionID{OtherField: "stillNoID"}))
	})
}
