package proto

import "encoding/json"

// Inbound is the envelope for frames coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoin  = "join"
	InboundTypeLeave = "leave"
	InboundTypeMsg   = "msg"
	InboundTypeMedia = "media"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventRoomMessage     = "room_message"
	EventChatMessage     = "chat_message"
	EventRoomListUpdated = "room_list_updated"
)

// JoinData requests to join or leave a room under a username.
type JoinData struct {
	User string `json:"user"`
	Room string `json:"room"`
}

// MsgData is a chat line or media reference from the client. The target room
// is resolved from the sender's session, never from the frame.
type MsgData struct {
	Text string `json:"text"`
}

// Outbound is the envelope for frames sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventMessage is a room-scoped message, either a user chat line or a
// system/media room message.
type EventMessage struct {
	User    string `json:"user"`
	Message string `json:"message"`
}

// EventRoomList carries the ordered room names.
type EventRoomList struct {
	Rooms []string `json:"rooms"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
