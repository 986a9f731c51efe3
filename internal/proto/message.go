package proto

import "encoding/json"

// Inbound is the envelope for frames coming from a signaling client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoinRoom    = "join-room"
	InboundTypeSignal      = "signal"
	InboundTypeSendMessage = "send-message"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventUserConnected    = "user-connected"
	EventUserDisconnected = "user-disconnected"
	EventSignal           = "signal"
	EventReceiveMessage   = "receive-message"
)

// JoinRoomData asks to join a room under the given identity.
type JoinRoomData struct {
	Room string `json:"room"`
	User string `json:"user"`
}

// SignalData carries an opaque negotiation payload for the other room
// members. Signal is never parsed by the server.
type SignalData struct {
	Room   string          `json:"room"`
	User   string          `json:"user"`
	Signal json.RawMessage `json:"signal"`
}

// SendMessageData is a chat message from the client. The server assigns the
// timestamp.
type SendMessageData struct {
	Room    string `json:"room"`
	Message string `json:"message"`
	Sender  string `json:"sender"`
}

// Outbound is the envelope for frames sent to a signaling client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventPresence notifies about a user connecting to or disconnecting from a room.
type EventPresence struct {
	Room string `json:"room"`
	User string `json:"user"`
}

// EventSignalData is a relayed negotiation payload.
type EventSignalData struct {
	User   string          `json:"user"`
	Signal json.RawMessage `json:"signal"`
}

// EventMessageData is a chat message with the canonical server timestamp in
// unix milliseconds.
type EventMessageData struct {
	Room    string `json:"room"`
	Message string `json:"message"`
	Sender  string `json:"sender"`
	TS      int64  `json:"ts"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
