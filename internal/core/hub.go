package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Hub is the signaling relay. A single Run goroutine owns the registry and
// serializes every membership mutation and fan-out, so per-sender order is
// preserved and no two joins for the same room can interleave.
//
// The hub holds no call state: signal payloads are relayed opaquely and the
// negotiation state machine lives entirely in the two endpoints.
type Hub struct {
	registry   *Registry
	register   chan *Client
	unregister chan *Client
	inbound    chan inbound
	log        *zerolog.Logger
	now        func() time.Time
}

type inbound struct {
	client *Client
	cmd    *Command
}

// NewHub creates a hub around an injected registry. Passing the registry in
// keeps test instances independent of each other.
func NewHub(registry *Registry, logger *zerolog.Logger) *Hub {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		registry:   registry,
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		inbound:    make(chan inbound, 256),
		log:        logger,
		now:        time.Now,
	}
}

// RegisterClient announces a new transport connection to the hub.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// UnregisterClient tears the client down: it is removed from every room it
// joined and remaining members are told it disconnected. Safe to call more
// than once.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case <-c.Done():
	default:
		h.unregister <- c
	}
}

// Run processes registrations and client commands until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			go h.forward(c)
		case c := <-h.unregister:
			h.handleDisconnect(c)
		case in := <-h.inbound:
			h.handleCommand(in.client, in.cmd)
		}
	}
}

// forward pumps one client's commands into the hub loop, preserving the
// client's send order. It exits once the hub has torn the client down.
func (h *Hub) forward(c *Client) {
	for {
		select {
		case <-c.Done():
			return
		case cmd := <-c.Commands:
			select {
			case h.inbound <- inbound{client: c, cmd: cmd}:
			case <-c.Done():
				return
			}
		}
	}
}

func (h *Hub) handleCommand(c *Client, cmd *Command) {
	if cmd == nil {
		return
	}
	select {
	case <-c.Done():
		// Commands racing a disconnect are dropped.
		return
	default:
	}

	switch cmd.Kind {
	case CommandJoinRoom:
		h.handleJoin(c, cmd)
	case CommandSignal:
		h.handleSignal(c, cmd)
	case CommandSendMessage:
		h.handleMessage(c, cmd)
	default:
		h.log.Warn().Int("kind", int(cmd.Kind)).Str("client_id", c.ID).Msg("unknown command kind")
	}
}

func (h *Hub) handleJoin(c *Client, cmd *Command) {
	if c.User == "" {
		c.User = cmd.User
	}
	if c.User == "" {
		c.User = c.ID
	}

	// Collect the pre-existing members before mutating, so the joiner never
	// sees its own join.
	others := h.registry.MembersExcept(cmd.Room, c)
	if !h.registry.Join(cmd.Room, c) {
		// Re-join of the same room is a no-op; members were already told.
		return
	}

	h.log.Debug().Str("room", cmd.Room).Str("user", c.User).Msg("joined room")
	ev := &Event{Kind: EventUserConnected, Room: cmd.Room, User: c.User}
	for _, m := range others {
		h.deliver(m, ev)
	}
}

func (h *Hub) handleSignal(c *Client, cmd *Command) {
	if !h.registry.IsMember(cmd.Room, c) {
		// Fire-and-forget: no error back to the sender.
		return
	}
	user := cmd.User
	if user == "" {
		user = c.User
	}
	ev := &Event{Kind: EventSignal, Room: cmd.Room, User: user, Signal: cmd.Signal}
	for _, m := range h.registry.MembersExcept(cmd.Room, c) {
		h.deliver(m, ev)
	}
}

func (h *Hub) handleMessage(c *Client, cmd *Command) {
	if !h.registry.IsMember(cmd.Room, c) {
		return
	}
	sender := cmd.User
	if sender == "" {
		sender = c.User
	}
	ev := &Event{
		Kind: EventReceiveMessage,
		Room: cmd.Room,
		User: sender,
		Message: ChatMessage{
			Room:   cmd.Room,
			Sender: sender,
			Text:   cmd.Text,
			SentAt: h.now(),
		},
	}
	// Chat includes the sender: the echoed copy carries the canonical timestamp.
	for _, m := range h.registry.Members(cmd.Room) {
		h.deliver(m, ev)
	}
}

func (h *Hub) handleDisconnect(c *Client) {
	select {
	case <-c.Done():
		return
	default:
	}

	remaining := h.registry.RemoveFromAllRooms(c)
	for room, members := range remaining {
		ev := &Event{Kind: EventUserDisconnected, Room: room, User: c.User}
		for _, m := range members {
			h.deliver(m, ev)
		}
	}
	c.close()
	close(c.Events)
	h.log.Debug().Str("client_id", c.ID).Int("rooms", len(remaining)).Msg("client disconnected")
}

func (h *Hub) deliver(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
		// Drop for slow consumers; one stalled client must not block a room.
		h.log.Warn().Str("client_id", c.ID).Str("room", ev.Room).Msg("event dropped, client backlogged")
	}
}
