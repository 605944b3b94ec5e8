package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event is one append-only audit record. Callers emit events after a
// successful transition; delivery is fire-and-forget.
type Event struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Action   string    `json:"action"`
	Info     string    `json:"info,omitempty"`
	At       time.Time `json:"at"`
}

// NewEvent stamps an event with an ID and the current time.
func NewEvent(username, action, info string) Event {
	return Event{
		ID:       uuid.NewString(),
		Username: username,
		Action:   action,
		Info:     info,
		At:       time.Now().UTC(),
	}
}
