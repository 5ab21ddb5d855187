package http

import (
	"encoding/json"
	"errors"

	"roomcast/internal/core"
	"roomcast/internal/proto"
)

// apply decodes an inbound frame and runs it against the registry. A non-nil
// proto.Error means the frame was understood but rejected; a non-nil error
// means the frame could not be decoded at all.
func (h *WSHandler) apply(client *core.Conn, inbound proto.Inbound) (*proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if len(inbound.Data) > 0 {
			if err := json.Unmarshal(inbound.Data, &join); err != nil {
				return nil, err
			}
		}
		if join.User == "" || join.Room == "" {
			return &proto.Error{Code: core.ErrCodeBadRequest, Msg: "user and room are required"}, nil
		}
		if err := h.reg.Join(client.ID, join.User, join.Room); err != nil {
			if errors.Is(err, core.ErrBadRequest) {
				return &proto.Error{Code: core.ErrCodeBadRequest, Msg: "user and room are required"}, nil
			}
			return nil, err
		}
		return nil, nil
	case proto.InboundTypeLeave:
		// The room is resolved from the session, not the frame.
		h.reg.Leave(client.ID)
		return nil, nil
	case proto.InboundTypeMsg:
		var msg proto.MsgData
		if len(inbound.Data) > 0 {
			if err := json.Unmarshal(inbound.Data, &msg); err != nil {
				return nil, err
			}
		}
		h.reg.ChatMessage(client.ID, msg.Text)
		return nil, nil
	case proto.InboundTypeMedia:
		var msg proto.MsgData
		if len(inbound.Data) > 0 {
			if err := json.Unmarshal(inbound.Data, &msg); err != nil {
				return nil, err
			}
		}
		h.reg.RoomMessage(client.ID, msg.Text)
		return nil, nil
	default:
		return &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventRoomMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventRoomMessage,
			Data: proto.EventMessage{
				User:    event.User,
				Message: event.Message,
			},
		}
	case core.EventChatMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventChatMessage,
			Data: proto.EventMessage{
				User:    event.User,
				Message: event.Message,
			},
		}
	case core.EventRoomList:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventRoomListUpdated,
			Data: proto.EventRoomList{
				Rooms: event.Rooms,
			},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
