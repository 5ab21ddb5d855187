package core

// EventKind is a notification the registry emits to connections.
type EventKind int

const (
	// EventRoomMessage carries a system notice or media payload scoped to a room.
	EventRoomMessage EventKind = iota
	// EventChatMessage carries a user chat message scoped to a room.
	EventChatMessage
	// EventRoomList carries the current room names, sent to every connection.
	EventRoomList
)

// Event describes something that happened in the registry.
type Event struct {
	Kind    EventKind
	Room    string
	User    string
	Message string
	Rooms   []string // for EventRoomList
}

// SystemUser is the author of join/leave notices.
const SystemUser = "System"
