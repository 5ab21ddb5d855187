package core

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"roomcast/internal/metrics"
)

// DefaultGracePeriod is how long an empty room survives before it is purged.
// It absorbs disconnect/reconnect churn without flickering the room list.
const DefaultGracePeriod = 5 * time.Second

// Registry is the authoritative store of room and session state.
// Every mutation and read runs under one mutex so no caller ever observes
// a partially-applied transition; deletion timers re-acquire the same lock
// before touching state.
type Registry struct {
	mu    sync.Mutex
	log   *zerolog.Logger
	grace time.Duration

	conns    map[string]*Conn
	rooms    map[string]*Room
	order    []string // room names in creation order, for deterministic listings
	sessions map[string]*session
}

// NewRegistry constructs an empty registry. A non-positive grace falls back
// to DefaultGracePeriod.
func NewRegistry(grace time.Duration, logger *zerolog.Logger) *Registry {
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	return &Registry{
		log:      logger,
		grace:    grace,
		conns:    make(map[string]*Conn),
		rooms:    make(map[string]*Room),
		sessions: make(map[string]*session),
	}
}

// AddConn registers a live connection so it receives global events.
func (r *Registry) AddConn(c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.conns[c.ID] = c
	metrics.ConnectionsOpen.Inc()
	r.log.Debug().Str("conn_id", c.ID).Msg("connection registered")
}

// Join puts the connection into a room under the given username, creating the
// room if needed and cancelling any pending deletion for it. A connection
// already joined elsewhere is first removed from its previous room; the
// membership map and the session pointer never diverge.
func (r *Registry) Join(connID, username, room string) error {
	if username == "" || room == "" {
		return ErrBadRequest
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conns[connID]
	if !ok {
		return ErrBadRequest
	}

	if prev := r.sessions[connID]; prev != nil {
		r.leaveLocked(prev)
	}

	rm, ok := r.rooms[room]
	if ok {
		r.cancelDeletionLocked(rm)
	} else {
		rm = newRoom(room)
		r.rooms[room] = rm
		r.order = append(r.order, room)
		metrics.RoomsLive.Inc()
	}

	s := &session{conn: c, username: username, room: room}
	rm.addMember(s)
	r.sessions[connID] = s

	r.log.Info().Str("user", username).Str("room", room).Msg("user joined room")

	r.broadcastRoomLocked(rm, Event{
		Kind:    EventRoomMessage,
		Room:    room,
		User:    SystemUser,
		Message: fmt.Sprintf("%s has joined the room.", username),
	})
	r.broadcastRoomListLocked()
	return nil
}

// Leave removes the connection from its room. A connection with no session
// is a no-op.
func (r *Registry) Leave(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.sessions[connID]
	if s == nil {
		return
	}

	r.leaveLocked(s)
	r.log.Info().Str("user", s.username).Str("room", s.room).Msg("user left room")
	r.broadcastRoomListLocked()
}

// Disconnect handles transport-level connection loss: same effect as Leave,
// plus the connection stops receiving global events. Safe to call after an
// explicit Leave already cleared the session.
func (r *Registry) Disconnect(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conns[connID]
	if !ok {
		return
	}

	if s := r.sessions[connID]; s != nil {
		r.leaveLocked(s)
		r.log.Info().Str("user", s.username).Str("room", s.room).Msg("user disconnected from room")
		r.broadcastRoomListLocked()
	}

	delete(r.conns, c.ID)
	metrics.ConnectionsOpen.Dec()
	r.log.Debug().Str("conn_id", connID).Msg("connection removed")
}

// ChatMessage relays a chat line to everyone in the sender's room. Messages
// from connections with no session are dropped, not errors.
func (r *Registry) ChatMessage(connID, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.sessions[connID]
	if s == nil {
		metrics.MessagesDropped.Inc()
		r.log.Debug().Str("conn_id", connID).Msg("chat message from connection without session dropped")
		return
	}

	rm := r.rooms[s.room]
	if rm == nil {
		metrics.MessagesDropped.Inc()
		return
	}

	metrics.MessagesRelayed.Inc()
	r.broadcastRoomLocked(rm, Event{
		Kind:    EventChatMessage,
		Room:    s.room,
		User:    s.username,
		Message: text,
	})
}

// RoomMessage relays an arbitrary room-scoped payload (e.g. a media
// reference) on behalf of the connection's session.
func (r *Registry) RoomMessage(connID, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.sessions[connID]
	if s == nil {
		metrics.MessagesDropped.Inc()
		return
	}

	rm := r.rooms[s.room]
	if rm == nil {
		metrics.MessagesDropped.Inc()
		return
	}

	metrics.MessagesRelayed.Inc()
	r.broadcastRoomLocked(rm, Event{
		Kind:    EventRoomMessage,
		Room:    s.room,
		User:    s.username,
		Message: text,
	})
}

// ListRooms returns a snapshot of room names in creation order. Rooms inside
// their deletion grace period are still listed.
func (r *Registry) ListRooms() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.roomNamesLocked()
}

// roomNamesLocked copies the creation-order name list. Always non-nil so it
// serializes as an empty array rather than null.
func (r *Registry) roomNamesLocked() []string {
	names := make([]string, 0, len(r.order))
	return append(names, r.order...)
}

// RoomMembers returns the members of a room in join order.
func (r *Registry) RoomMembers(room string) ([]Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[room]
	if !ok {
		return nil, ErrRoomNotFound
	}

	members := make([]Member, 0, len(rm.members))
	for _, s := range rm.members {
		members = append(members, Member{ID: s.conn.ID, Username: s.username})
	}
	return members, nil
}

// DeleteRoom unconditionally removes a room regardless of membership and
// cancels any pending deletion timer. Sessions of remaining members are
// cleared so they cannot point at a room that no longer exists; their
// subsequent chat messages are silently dropped until they rejoin.
func (r *Registry) DeleteRoom(room string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[room]
	if !ok {
		return ErrRoomNotFound
	}

	r.cancelDeletionLocked(rm)
	for _, s := range rm.members {
		delete(r.sessions, s.conn.ID)
	}
	r.purgeRoomLocked(room)

	r.log.Info().Str("room", room).Int("members", len(rm.members)).Msg("room force deleted")
	r.broadcastRoomListLocked()
	return nil
}

// leaveLocked detaches a session from its room and emits the left notice to
// the remaining members. Arms the deletion timer when the room empties out.
// The caller emits the room list update.
func (r *Registry) leaveLocked(s *session) {
	delete(r.sessions, s.conn.ID)

	rm := r.rooms[s.room]
	if rm == nil {
		return
	}
	if !rm.removeMember(s.conn.ID) {
		return
	}

	r.broadcastRoomLocked(rm, Event{
		Kind:    EventRoomMessage,
		Room:    rm.Name,
		User:    SystemUser,
		Message: fmt.Sprintf("%s has left the room.", s.username),
	})

	if rm.empty() {
		r.armDeletionLocked(rm)
	}
}

// armDeletionLocked schedules the grace-period purge for an empty room,
// replacing any timer already pending for it.
func (r *Registry) armDeletionLocked(rm *Room) {
	rm.epoch++
	epoch := rm.epoch
	if rm.timer != nil {
		rm.timer.Stop()
	}
	name := rm.Name
	rm.timer = time.AfterFunc(r.grace, func() {
		r.expire(name, epoch)
	})
	r.log.Debug().Str("room", name).Dur("grace", r.grace).Msg("room empty, deletion scheduled")
}

// cancelDeletionLocked invalidates any pending or in-flight expiry for the
// room. Bumping the epoch is what actually wins the race: an expiry that
// already fired but has not yet taken the lock will see a newer epoch.
func (r *Registry) cancelDeletionLocked(rm *Room) {
	rm.epoch++
	if rm.timer != nil {
		rm.timer.Stop()
		rm.timer = nil
	}
}

// expire runs when a deletion timer fires. Membership is re-checked under
// the lock: a join that raced in before us wins and the room survives.
func (r *Registry) expire(name string, epoch uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[name]
	if !ok || rm.epoch != epoch || !rm.empty() {
		return
	}

	rm.timer = nil
	r.purgeRoomLocked(name)
	r.log.Info().Str("room", name).Msg("room deleted after grace period")
	r.broadcastRoomListLocked()
}

func (r *Registry) purgeRoomLocked(name string) {
	delete(r.rooms, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	metrics.RoomsLive.Dec()
}

// broadcastRoomLocked fans an event out to every member of a room. Slow
// consumers are dropped rather than blocking the registry.
func (r *Registry) broadcastRoomLocked(rm *Room, ev Event) {
	for _, s := range rm.members {
		r.send(s.conn, ev)
	}
}

// broadcastRoomListLocked sends the current room names to every connection,
// joined or not. One update per logical state transition.
func (r *Registry) broadcastRoomListLocked() {
	ev := Event{
		Kind:  EventRoomList,
		Rooms: r.roomNamesLocked(),
	}
	for _, c := range r.conns {
		r.send(c, ev)
	}
}

func (r *Registry) send(c *Conn, ev Event) {
	select {
	case c.Events <- ev:
	default:
		metrics.EventsDropped.Inc()
		r.log.Warn().Str("conn_id", c.ID).Msg("event dropped, slow consumer")
	}
}
