package events

import "time"

// SessionProgress is the state of a session as told by its events
type SessionProgress struct {
	SessionID string    `json:"id"`
	StartedAt time.Time `json:"startedAt"`
	Chips     int       `json:"chips"`
	Rounds    int       `json:"rounds"`
	InRound   bool      `json:"inRound"`
	Ended     bool      `json:"ended"`
	EndReason string    `json:"endReason,omitempty"`
}

// Progress folds the events of one session, oldest first
func Progress(events []Event) SessionProgress {
	var p SessionProgress

	for _, event := range events {
		if p.SessionID == "" {
			p.SessionID = GetSessionID(event)
		}

		switch e := event.(type) {
		case SessionStarted:
			p.StartedAt = e.At
			p.Chips = e.Chips
		case RoundStarted:
			p.InRound = true
		case BetPlaced:
			p.Chips = e.ChipsAfter
		case HandSplit:
			p.Chips = e.ChipsAfter
		case HandSettled:
			p.Chips = e.ChipsAfter
		case RoundEnded:
			p.Chips = e.Chips
			p.Rounds++
			p.InRound = false
		case SessionEnded:
			p.Chips = e.Chips
			p.Ended = true
			p.EndReason = e.Reason
		}
	}

	return p
}
