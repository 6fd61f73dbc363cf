package model

import "time"

// LogEntry is one immutable line in a lock's action journal.
type LogEntry struct {
	User      string    `json:"user"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}
