package core

// Conn is a live client connection as seen by the registry.
// The transport owns the channel's read side; the registry only writes.
type Conn struct {
	ID     string
	Events chan Event
}

// NewConn constructs a connection with a buffered event channel.
func NewConn(id string, buffer int) *Conn {
	if buffer <= 0 {
		buffer = 16
	}
	return &Conn{
		ID:     id,
		Events: make(chan Event, buffer),
	}
}
