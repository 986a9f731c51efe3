package http

import (
	"encoding/json"

	"github.com/dineshsuthar123/telecare-realtime/internal/core"
	"github.com/dineshsuthar123/telecare-realtime/internal/proto"
)

// inboundToCommand validates an inbound frame and maps it to a tagged core
// command. A malformed frame yields a proto error for the sender and never
// reaches the hub.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error) {
	switch inbound.Type {
	case proto.InboundTypeJoinRoom:
		var join proto.JoinRoomData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, &proto.Error{Code: "bad_payload", Msg: "malformed join-room payload"}
		}
		if join.Room == "" {
			return nil, &proto.Error{Code: "bad_request", Msg: "room is required"}
		}
		return &core.Command{
			Kind: core.CommandJoinRoom,
			Room: join.Room,
			User: join.User,
		}, nil
	case proto.InboundTypeSignal:
		var sig proto.SignalData
		if err := json.Unmarshal(inbound.Data, &sig); err != nil {
			return nil, &proto.Error{Code: "bad_payload", Msg: "malformed signal payload"}
		}
		if sig.Room == "" || len(sig.Signal) == 0 {
			return nil, &proto.Error{Code: "bad_request", Msg: "room and signal are required"}
		}
		return &core.Command{
			Kind:   core.CommandSignal,
			Room:   sig.Room,
			User:   sig.User,
			Signal: sig.Signal,
		}, nil
	case proto.InboundTypeSendMessage:
		var msg proto.SendMessageData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, &proto.Error{Code: "bad_payload", Msg: "malformed send-message payload"}
		}
		if msg.Room == "" || msg.Message == "" {
			return nil, &proto.Error{Code: "bad_request", Msg: "room and message are required"}
		}
		return &core.Command{
			Kind: core.CommandSendMessage,
			Room: msg.Room,
			User: msg.Sender,
			Text: msg.Message,
		}, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventUserConnected:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventUserConnected,
			Data: proto.EventPresence{
				Room: event.Room,
				User: event.User,
			},
		}
	case core.EventUserDisconnected:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventUserDisconnected,
			Data: proto.EventPresence{
				Room: event.Room,
				User: event.User,
			},
		}
	case core.EventSignal:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventSignal,
			Data: proto.EventSignalData{
				User:   event.User,
				Signal: event.Signal,
			},
		}
	case core.EventReceiveMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventReceiveMessage,
			Data: proto.EventMessageData{
				Room:    event.Message.Room,
				Message: event.Message.Text,
				Sender:  event.Message.Sender,
				TS:      event.Message.SentAt.UnixMilli(),
			},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
