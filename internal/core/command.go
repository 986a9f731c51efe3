package core

import "encoding/json"

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoinRoom subscribes the client to a room.
	CommandJoinRoom CommandKind = iota
	// CommandSignal relays an opaque negotiation payload to the other room members.
	CommandSignal
	// CommandSendMessage delivers a chat message to all room members.
	CommandSendMessage
)

// Command represents an action requested by a client.
type Command struct {
	Kind CommandKind
	Room string
	// User is the sender identity carried in the payload. The hub adopts it
	// as the client's identity on first join.
	User string
	// Signal is relayed verbatim; the hub never inspects it.
	Signal json.RawMessage
	// Text is the chat message body.
	Text string
}
