package events

import "time"

// Event types
const (
	DatasetRegenerated = "dataset.regenerated"
	ProfileRegistered  = "profile.registered"
)

// Stream names
const (
	DatasetEventsStream = "dataset.events"
)

// Base event structure
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Dataset events
type DatasetRegeneratedEvent struct {
	RunID        string `json:"runId"`
	Generation   int64  `json:"generation"`
	Profiles     int    `json:"profiles"`
	Accounts     int    `json:"accounts"`
	Transactions int    `json:"transactions"`
}

type ProfileRegisteredEvent struct {
	ProfileID int    `json:"profileId"`
	AccountID int    `json:"accountId"`
	Username  string `json:"username"`
}
