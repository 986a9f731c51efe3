package core

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func startHub(t *testing.T) *Hub {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)

	hub := NewHub(NewRegistry(), nil)
	go hub.Run(ctx)
	return hub
}

func join(hub *Hub, c *Client, room, user string) {
	c.Commands <- &Command{Kind: CommandJoinRoom, Room: room, User: user}
}

func TestJoinNotifiesExistingMembersOnly(t *testing.T) {
	hub := startHub(t)

	u1 := NewClient("c1")
	u2 := NewClient("c2")
	hub.RegisterClient(u1)
	hub.RegisterClient(u2)

	join(hub, u1, "r1", "u1")
	// First member sees nothing.
	mustNoEvent(t, u1.Events, EventUserConnected)

	join(hub, u2, "r1", "u2")
	ev := mustEvent(t, u1.Events, EventUserConnected)
	if ev.User != "u2" || ev.Room != "r1" {
		t.Fatalf("unexpected join event: %+v", ev)
	}
	// The joiner does not receive its own join.
	mustNoEvent(t, u2.Events, EventUserConnected)
}

func TestRejoinDoesNotRenotify(t *testing.T) {
	hub := startHub(t)

	u1 := NewClient("c1")
	u2 := NewClient("c2")
	hub.RegisterClient(u1)
	hub.RegisterClient(u2)

	join(hub, u1, "r1", "u1")
	join(hub, u2, "r1", "u2")
	mustEvent(t, u1.Events, EventUserConnected)

	join(hub, u2, "r1", "u2")
	mustNoEvent(t, u1.Events, EventUserConnected)
}

func TestSignalSkipsSender(t *testing.T) {
	hub := startHub(t)

	u1 := NewClient("c1")
	u2 := NewClient("c2")
	hub.RegisterClient(u1)
	hub.RegisterClient(u2)

	join(hub, u1, "r1", "u1")
	join(hub, u2, "r1", "u2")
	mustEvent(t, u1.Events, EventUserConnected)

	payload := json.RawMessage(`{"type":"offer","sdp":"v=0"}`)
	u1.Commands <- &Command{Kind: CommandSignal, Room: "r1", User: "u1", Signal: payload}

	ev := mustEvent(t, u2.Events, EventSignal)
	if ev.User != "u1" || string(ev.Signal) != string(payload) {
		t.Fatalf("unexpected signal event: %+v", ev)
	}
	mustNoEvent(t, u1.Events, EventSignal)
}

func TestSignalStaysInRoom(t *testing.T) {
	hub := startHub(t)

	u1 := NewClient("c1")
	u2 := NewClient("c2")
	outsider := NewClient("c3")
	hub.RegisterClient(u1)
	hub.RegisterClient(u2)
	hub.RegisterClient(outsider)

	join(hub, u1, "r1", "u1")
	join(hub, u2, "r1", "u2")
	join(hub, outsider, "r2", "u3")

	u1.Commands <- &Command{Kind: CommandSignal, Room: "r1", User: "u1", Signal: json.RawMessage(`{}`)}

	mustEvent(t, u2.Events, EventSignal)
	mustNoEvent(t, outsider.Events, EventSignal)
}

func TestSignalWithoutMembershipIsDropped(t *testing.T) {
	hub := startHub(t)

	u1 := NewClient("c1")
	u2 := NewClient("c2")
	hub.RegisterClient(u1)
	hub.RegisterClient(u2)

	join(hub, u2, "r1", "u2")

	// u1 never joined r1; nothing is relayed and nothing crashes.
	u1.Commands <- &Command{Kind: CommandSignal, Room: "r1", User: "u1", Signal: json.RawMessage(`{}`)}
	mustNoEvent(t, u2.Events, EventSignal)
}

func TestChatIncludesSenderWithServerTimestamp(t *testing.T) {
	hub := startHub(t)

	u1 := NewClient("c1")
	u2 := NewClient("c2")
	hub.RegisterClient(u1)
	hub.RegisterClient(u2)

	join(hub, u1, "r1", "u1")
	join(hub, u2, "r1", "u2")
	mustEvent(t, u1.Events, EventUserConnected)

	before := time.Now()
	u1.Commands <- &Command{Kind: CommandSendMessage, Room: "r1", User: "u1", Text: "hello"}

	for _, c := range []*Client{u1, u2} {
		ev := mustEvent(t, c.Events, EventReceiveMessage)
		if ev.Message.Text != "hello" || ev.Message.Sender != "u1" || ev.Message.Room != "r1" {
			t.Fatalf("unexpected message event: %+v", ev)
		}
		if ev.Message.SentAt.Before(before) {
			t.Fatalf("timestamp not assigned at receipt: %v", ev.Message.SentAt)
		}
	}
}

func TestChatStaysInRoom(t *testing.T) {
	hub := startHub(t)

	u1 := NewClient("c1")
	outsider := NewClient("c2")
	hub.RegisterClient(u1)
	hub.RegisterClient(outsider)

	join(hub, u1, "r1", "u1")
	join(hub, outsider, "r2", "u2")

	u1.Commands <- &Command{Kind: CommandSendMessage, Room: "r1", User: "u1", Text: "hi"}

	mustEvent(t, u1.Events, EventReceiveMessage)
	mustNoEvent(t, outsider.Events, EventReceiveMessage)
}

func TestDisconnectCleansUpAndNotifiesOnce(t *testing.T) {
	hub := startHub(t)

	u1 := NewClient("c1")
	u2 := NewClient("c2")
	hub.RegisterClient(u1)
	hub.RegisterClient(u2)

	join(hub, u1, "r1", "u1")
	join(hub, u1, "r2", "u1")
	join(hub, u2, "r1", "u2")
	mustEvent(t, u1.Events, EventUserConnected)

	hub.UnregisterClient(u1)

	ev := mustEvent(t, u2.Events, EventUserDisconnected)
	if ev.User != "u1" || ev.Room != "r1" {
		t.Fatalf("unexpected disconnect event: %+v", ev)
	}
	// Exactly one disconnect event per shared room.
	mustNoEvent(t, u2.Events, EventUserDisconnected)

	// Rejoining the same room id from a new connection starts fresh: the
	// newcomer is announced to u2, and only u2 exists to be told.
	u3 := NewClient("c3")
	hub.RegisterClient(u3)
	join(hub, u3, "r1", "u3")

	ev = mustEvent(t, u2.Events, EventUserConnected)
	if ev.User != "u3" {
		t.Fatalf("unexpected join event after rejoin: %+v", ev)
	}
	mustNoEvent(t, u3.Events, EventUserConnected)
}

func TestUnregisterIsIdempotent(t *testing.T) {
	hub := startHub(t)

	u1 := NewClient("c1")
	hub.RegisterClient(u1)
	join(hub, u1, "r1", "u1")

	hub.UnregisterClient(u1)
	<-u1.Done()
	hub.UnregisterClient(u1)

	if hub.registry.RoomCount() != 0 {
		// Registry access is safe here: the hub loop has observed the
		// disconnect before Done closes.
		t.Fatalf("expected no rooms after disconnect")
	}
}
