package model

import "encoding/json"

const (
	EventJoin         = "JOIN"
	EventAdminRemoved = "ADMIN_REMOVED"
)

// Event is the transient envelope relayed between services. Data is kept
// raw so the relay forwards it unchanged.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// EventData is the payload shape the lock-related events carry.
type EventData struct {
	Email    string `json:"email,omitempty"`
	LockCode string `json:"lockCode,omitempty"`
}

func NewEvent(eventType string, data EventData) Event {
	raw, _ := json.Marshal(data)
	return Event{Type: eventType, Data: raw}
}
