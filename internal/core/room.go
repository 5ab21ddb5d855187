package core

import "time"

// Member is a room occupant as exposed to the management API.
type Member struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type session struct {
	conn     *Conn
	username string
	room     string
}

// Room groups the sessions joined to the same name.
// A room with no members exists only while its deletion timer is pending.
type Room struct {
	Name    string
	members []*session

	// Deletion timer state. epoch increments on every arm/cancel so a
	// stale in-flight expiry can detect it was superseded and no-op.
	timer *time.Timer
	epoch uint64
}

func newRoom(name string) *Room {
	return &Room{Name: name}
}

func (r *Room) addMember(s *session) {
	r.members = append(r.members, s)
}

// removeMember deletes the session with the given connection id.
// Returns true if a member was removed.
func (r *Room) removeMember(connID string) bool {
	for i, s := range r.members {
		if s.conn.ID == connID {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Room) empty() bool {
	return len(r.members) == 0
}
