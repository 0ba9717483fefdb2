/*
Package chat contains the core logic for handling real-time chat rooms, user sessions, and message broadcasting.

This file defines the Registry, the single owner of all presence state: the
connection-to-session map and the per-room membership counts. Every mutation
and read goes through its mutex; the raw maps are never exposed.
*/
package chat

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"chatrelay/internal/pkg/logx"
)

// Session is the (username, room) binding held by a joined connection.
// A connection has at most one session; changing rooms requires leave + join.
type Session struct {
	Username string
	Room     string
}

// Registry tracks which connection is joined where and which usernames each
// room currently lists. Membership is reference-counted per (room, username):
// two connections sharing a username keep the name listed until both depart.
type Registry struct {
	// mu guards sessions and members together; invariants between the two
	// maps only hold under this lock.
	mu sync.Mutex

	// sessions maps connection ID to its session.
	sessions map[string]Session

	// members maps room name to username to live-connection count.
	members map[string]map[string]int

	logger zerolog.Logger
}

// NewRegistry constructs an empty presence registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]Session),
		members:  make(map[string]map[string]int),
		logger:   logx.Logger().With().Str("component", "Registry").Logger(),
	}
}

// Register binds the connection to (username, room). A connection that already
// holds a session is silently re-registered: the old membership entry is
// released first, so repeated joins never leak counts.
func (r *Registry) Register(connID, username, room string) Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.sessions[connID]; ok {
		r.releaseLocked(old)
		r.logger.Debug().
			Str("conn_id", connID).
			Str("old_room", old.Room).
			Msg("Connection re-registered; previous session replaced.")
	}

	sess := Session{Username: username, Room: room}
	r.sessions[connID] = sess

	roomMembers, ok := r.members[room]
	if !ok {
		roomMembers = make(map[string]int)
		r.members[room] = roomMembers
	}
	roomMembers[username]++

	return sess
}

// Unregister removes and returns the connection's session. It is idempotent:
// a connection without a session reports ok=false and changes nothing.
func (r *Registry) Unregister(connID string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[connID]
	if !ok {
		return Session{}, false
	}

	delete(r.sessions, connID)
	r.releaseLocked(sess)

	return sess, true
}

// releaseLocked decrements the session's membership count, dropping the
// username at zero and pruning the room when its last member leaves.
func (r *Registry) releaseLocked(sess Session) {
	roomMembers, ok := r.members[sess.Room]
	if !ok {
		return
	}

	if roomMembers[sess.Username] <= 1 {
		delete(roomMembers, sess.Username)
	} else {
		roomMembers[sess.Username]--
	}

	if len(roomMembers) == 0 {
		delete(r.members, sess.Room)
	}
}

// SessionOf returns the session bound to the connection, if any.
func (r *Registry) SessionOf(connID string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[connID]
	return sess, ok
}

// MembersOf returns a lexicographically sorted snapshot of the room's
// usernames. Unknown rooms yield an empty slice.
func (r *Registry) MembersOf(room string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomMembers := r.members[room]
	out := make([]string, 0, len(roomMembers))
	for username := range roomMembers {
		out = append(out, username)
	}

	sort.Strings(out)
	return out
}

// ConnsInRoom returns the IDs of all connections whose session is in the room.
func (r *Registry) ConnsInRoom(room string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, 8)
	for connID, sess := range r.sessions {
		if sess.Room == room {
			out = append(out, connID)
		}
	}

	return out
}
