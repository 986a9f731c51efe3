package core

import (
	"encoding/json"
	"time"
)

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventUserConnected notifies existing room members that a user joined.
	EventUserConnected EventKind = iota
	// EventUserDisconnected notifies remaining room members that a user left.
	EventUserDisconnected
	// EventSignal carries a relayed negotiation payload.
	EventSignal
	// EventReceiveMessage carries a chat message with the canonical server timestamp.
	EventReceiveMessage
)

// Event is sent to clients to describe what happened in a room.
type Event struct {
	Kind    EventKind
	Room    string
	User    string
	Signal  json.RawMessage
	Message ChatMessage
}

// ChatMessage is a chat message as broadcast by the hub. SentAt is stamped at
// hub receipt; client clocks are never trusted.
type ChatMessage struct {
	Room   string
	Sender string
	Text   string
	SentAt time.Time
}
