package http

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/dineshsuthar123/telecare-realtime/internal/proto"
)

func dialWS(t *testing.T, ctx context.Context, baseURL string) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(baseURL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func sendInbound(t *testing.T, ctx context.Context, conn *websocket.Conn, msgType string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s payload: %v", msgType, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: payload}); err != nil {
		t.Fatalf("send %s: %v", msgType, err)
	}
}

// readEvent reads outbound frames until one with the wanted event name arrives.
func readEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, event string) json.RawMessage {
	t.Helper()

	for {
		var outbound struct {
			Type  string          `json:"type"`
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			t.Fatalf("read outbound waiting for %s: %v", event, err)
		}
		if outbound.Type == proto.OutboundTypeEvent && outbound.Event == event {
			return outbound.Data
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts, _, _ := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestSignalingJoinSignalAndChat(t *testing.T) {
	ts, _, _ := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts.URL)
	connB := dialWS(t, ctx, ts.URL)

	sendInbound(t, ctx, connA, proto.InboundTypeJoinRoom, proto.JoinRoomData{Room: "r1", User: "u1"})
	// Give the first join time to land so u1 is a pre-existing member.
	time.Sleep(50 * time.Millisecond)
	sendInbound(t, ctx, connB, proto.InboundTypeJoinRoom, proto.JoinRoomData{Room: "r1", User: "u2"})

	var joined proto.EventPresence
	if err := json.Unmarshal(readEvent(t, ctx, connA, proto.EventUserConnected), &joined); err != nil {
		t.Fatalf("unmarshal user-connected: %v", err)
	}
	if joined.User != "u2" || joined.Room != "r1" {
		t.Fatalf("unexpected user-connected payload: %+v", joined)
	}

	// Relayed signal reaches the peer, never the sender.
	sendInbound(t, ctx, connA, proto.InboundTypeSignal, proto.SignalData{
		Room:   "r1",
		User:   "u1",
		Signal: json.RawMessage(`{"type":"offer","sdp":"v=0"}`),
	})

	var sig proto.EventSignalData
	if err := json.Unmarshal(readEvent(t, ctx, connB, proto.EventSignal), &sig); err != nil {
		t.Fatalf("unmarshal signal: %v", err)
	}
	if sig.User != "u1" || !strings.Contains(string(sig.Signal), `"offer"`) {
		t.Fatalf("unexpected signal payload: %+v", sig)
	}

	// Chat reaches both, stamped by the server.
	sendInbound(t, ctx, connA, proto.InboundTypeSendMessage, proto.SendMessageData{
		Room:    "r1",
		Message: "hello",
		Sender:  "u1",
	})

	for _, conn := range []*websocket.Conn{connA, connB} {
		var msg proto.EventMessageData
		if err := json.Unmarshal(readEvent(t, ctx, conn, proto.EventReceiveMessage), &msg); err != nil {
			t.Fatalf("unmarshal receive-message: %v", err)
		}
		if msg.Message != "hello" || msg.Sender != "u1" || msg.TS == 0 {
			t.Fatalf("unexpected receive-message payload: %+v", msg)
		}
	}
}

func TestSignalingPeerDisconnectNotifies(t *testing.T) {
	ts, _, _ := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts.URL)
	connB := dialWS(t, ctx, ts.URL)

	sendInbound(t, ctx, connA, proto.InboundTypeJoinRoom, proto.JoinRoomData{Room: "r1", User: "u1"})
	time.Sleep(50 * time.Millisecond)
	sendInbound(t, ctx, connB, proto.InboundTypeJoinRoom, proto.JoinRoomData{Room: "r1", User: "u2"})
	readEvent(t, ctx, connA, proto.EventUserConnected)

	_ = connB.Close(websocket.StatusNormalClosure, "leaving")

	var left proto.EventPresence
	if err := json.Unmarshal(readEvent(t, ctx, connA, proto.EventUserDisconnected), &left); err != nil {
		t.Fatalf("unmarshal user-disconnected: %v", err)
	}
	if left.User != "u2" || left.Room != "r1" {
		t.Fatalf("unexpected user-disconnected payload: %+v", left)
	}
}

func TestSignalingMalformedFrameGetsErrorAndConnectionSurvives(t *testing.T) {
	ts, _, _ := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts.URL)

	// Unknown type.
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: "bogus"}); err != nil {
		t.Fatalf("send bogus: %v", err)
	}

	var outbound proto.Outbound
	if err := wsjson.Read(ctx, conn, &outbound); err != nil {
		t.Fatalf("read error frame: %v", err)
	}
	if outbound.Type != proto.OutboundTypeError || outbound.Error == nil {
		t.Fatalf("expected error frame, got %+v", outbound)
	}

	// The connection still works afterwards.
	sendInbound(t, ctx, conn, proto.InboundTypeJoinRoom, proto.JoinRoomData{Room: "r1", User: "u1"})
	sendInbound(t, ctx, conn, proto.InboundTypeSendMessage, proto.SendMessageData{Room: "r1", Message: "still here", Sender: "u1"})

	var msg proto.EventMessageData
	if err := json.Unmarshal(readEvent(t, ctx, conn, proto.EventReceiveMessage), &msg); err != nil {
		t.Fatalf("unmarshal receive-message: %v", err)
	}
	if msg.Message != "still here" {
		t.Fatalf("unexpected message after error frame: %+v", msg)
	}
}
