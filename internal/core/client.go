package core

import "sync"

// Client is one active signaling connection as seen by the core layer.
// ID is assigned by the transport; User is the identity the client announced
// on its first join-room.
type Client struct {
	ID       string
	User     string
	Commands chan *Command
	Events   chan *Event
	Rooms    map[string]struct{}

	done     chan struct{}
	doneOnce sync.Once
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 16),
		Events:   make(chan *Event, 16),
		Rooms:    make(map[string]struct{}),
		done:     make(chan struct{}),
	}
}

// Done is closed when the hub has finished tearing the client down.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) close() {
	c.doneOnce.Do(func() { close(c.done) })
}
