/*
Package chat contains the core logic for handling real-time chat rooms, user sessions, and message broadcasting.

This file defines the Engine, the session lifecycle state machine. It drives
join, message, image, typing, leave, and disconnect handling, coordinating the
presence registry, the message store, the file storage service, and the room
broadcaster. One method per inbound event; the transport adapter is the only
caller.
*/
package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"chatrelay/internal/app/history"
	"chatrelay/internal/app/storage"
	"chatrelay/internal/pkg/logx"
)

// Defaults applied when a join request omits fields.
const (
	DefaultUsername = "Guest"
	DefaultRoom     = "public"
)

// Engine coordinates sessions, rooms, persistence, and fan-out.
//
// Locking discipline: each room has its own mutex, taken for the full span of
// a join/leave/disconnect or a message persist so the sequence appears atomic
// to concurrent handlers on the same room. At most one room lock is held at a
// time, and the registry mutex nests inside it; store and file I/O for one
// room never blocks another room.
type Engine struct {
	registry    *Registry
	broadcaster *Broadcaster
	store       history.Store
	files       storage.Service

	// roomMu guards roomLocks.
	roomMu    sync.Mutex
	roomLocks map[string]*sync.Mutex

	logger zerolog.Logger
}

// NewEngine constructs the chat engine with a fresh registry and broadcaster.
func NewEngine(store history.Store, files storage.Service) *Engine {
	registry := NewRegistry()

	return &Engine{
		registry:    registry,
		broadcaster: NewBroadcaster(registry),
		store:       store,
		files:       files,
		roomLocks:   make(map[string]*sync.Mutex),
		logger:      logx.Logger().With().Str("component", "Engine").Logger(),
	}
}

// Registry exposes presence lookups for handlers and tests.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Subscribe attaches a freshly opened connection to the broadcaster. The
// connection receives nothing until it joins a room.
func (e *Engine) Subscribe(conn Conn) {
	e.broadcaster.Subscribe(conn)
}

// roomLock returns the mutex serializing mutations of one room.
func (e *Engine) roomLock(room string) *sync.Mutex {
	e.roomMu.Lock()
	defer e.roomMu.Unlock()

	mu, ok := e.roomLocks[room]
	if !ok {
		mu = &sync.Mutex{}
		e.roomLocks[room] = mu
	}

	return mu
}

// Join registers the connection in the room, replays the room's history to the
// joiner oldest first, then announces the join and the updated member list.
// Empty fields default to DefaultUsername and DefaultRoom. A connection that
// was already joined is re-registered; its old membership entry is released.
func (e *Engine) Join(ctx context.Context, conn Conn, username, room string) {
	username = strings.TrimSpace(username)
	if username == "" {
		username = DefaultUsername
	}

	room = strings.TrimSpace(room)
	if room == "" {
		room = DefaultRoom
	}

	mu := e.roomLock(room)
	mu.Lock()
	defer mu.Unlock()

	e.registry.Register(conn.ID(), username, room)

	// History replay goes to the joiner alone, before the join notice, so the
	// new member never sees its own arrival interleaved ahead of old messages.
	msgs, err := e.store.History(ctx, room)
	if err != nil {
		e.logger.Error().
			Err(err).
			Str("room", room).
			Str("conn_id", conn.ID()).
			Msg("History fetch failed; joining without replay.")
	} else {
		for _, msg := range msgs {
			e.broadcaster.ToConn(conn.ID(), NewMessageEvent(msg))
		}
	}

	now := time.Now()
	e.broadcaster.ToRoom(room, NewSystemEvent(fmt.Sprintf("%s joined %s", username, room), now), "")
	e.broadcaster.ToRoom(room, NewMembersEvent(room, e.registry.MembersOf(room)), "")

	e.logger.Info().
		Str("conn_id", conn.ID()).
		Str("username", username).
		Str("room", room).
		Msg("Client joined room.")
}

// Message persists a text message and broadcasts it to the sender's room,
// sender included. Connections without a session and empty (after trimming)
// texts are silent no-ops. A failed persist aborts the broadcast so every
// delivered message has a durable record.
func (e *Engine) Message(ctx context.Context, conn Conn, text string) error {
	sess, ok := e.registry.SessionOf(conn.ID())
	if !ok {
		return nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	mu := e.roomLock(sess.Room)
	mu.Lock()
	defer mu.Unlock()

	msg := history.Message{
		Room:      sess.Room,
		Username:  sess.Username,
		Content:   text,
		Kind:      history.KindText,
		Timestamp: time.Now(),
	}

	if err := e.store.Append(ctx, msg); err != nil {
		e.logger.Error().
			Err(err).
			Str("room", sess.Room).
			Str("username", sess.Username).
			Msg("Message persist failed; broadcast suppressed.")
		return err
	}

	e.broadcaster.ToRoom(sess.Room, NewMessageEvent(msg), "")
	return nil
}

// Image stores the uploaded bytes, persists an image message whose content is
// the resulting locator, and broadcasts it to the room, sender included.
// No session or an empty payload is a silent no-op; storage or persist
// failures abort without broadcasting.
func (e *Engine) Image(ctx context.Context, conn Conn, filename string, data []byte) error {
	sess, ok := e.registry.SessionOf(conn.ID())
	if !ok {
		return nil
	}

	if len(data) == 0 {
		return nil
	}

	locator, err := e.files.Save(ctx, filename, data)
	if err != nil {
		e.logger.Error().
			Err(err).
			Str("room", sess.Room).
			Str("username", sess.Username).
			Str("filename", filename).
			Msg("Image save failed; nothing persisted or broadcast.")
		return err
	}

	mu := e.roomLock(sess.Room)
	mu.Lock()
	defer mu.Unlock()

	msg := history.Message{
		Room:      sess.Room,
		Username:  sess.Username,
		Content:   locator,
		Kind:      history.KindImage,
		Timestamp: time.Now(),
	}

	if err := e.store.Append(ctx, msg); err != nil {
		e.logger.Error().
			Err(err).
			Str("room", sess.Room).
			Str("username", sess.Username).
			Msg("Image message persist failed; broadcast suppressed.")
		return err
	}

	e.broadcaster.ToRoom(sess.Room, NewMessageEvent(msg), "")
	return nil
}

// Typing broadcasts a typing indicator to the sender's room, excluding the
// sender. No session is a silent no-op.
func (e *Engine) Typing(conn Conn) {
	e.typing(conn, true)
}

// StopTyping broadcasts the end of a typing indicator, excluding the sender.
func (e *Engine) StopTyping(conn Conn) {
	e.typing(conn, false)
}

func (e *Engine) typing(conn Conn, typing bool) {
	sess, ok := e.registry.SessionOf(conn.ID())
	if !ok {
		return
	}

	e.broadcaster.ToRoom(sess.Room, NewTypingEvent(sess.Username, typing), conn.ID())
}

// Leave unregisters the connection and announces the departure and the updated
// member list to the remaining members. Idempotent: a connection without a
// session is a silent no-op, so a duplicate leave produces no second notice.
func (e *Engine) Leave(_ context.Context, conn Conn) {
	e.depart(conn, func(sess Session) string {
		return fmt.Sprintf("%s left %s", sess.Username, sess.Room)
	})
}

// Disconnect is Leave triggered by transport-level connection loss: same side
// effects with a different notice, plus removal from the broadcaster. Safe to
// call for connections that never joined.
func (e *Engine) Disconnect(_ context.Context, conn Conn) {
	e.broadcaster.Unsubscribe(conn.ID())
	e.depart(conn, func(sess Session) string {
		return fmt.Sprintf("%s disconnected", sess.Username)
	})
}

// depart runs the shared leave/disconnect sequence under the room lock.
func (e *Engine) depart(conn Conn, notice func(Session) string) {
	sess, ok := e.registry.SessionOf(conn.ID())
	if !ok {
		return
	}

	mu := e.roomLock(sess.Room)
	mu.Lock()
	defer mu.Unlock()

	// Re-check under the lock; a concurrent leave/disconnect may have won.
	sess, ok = e.registry.Unregister(conn.ID())
	if !ok {
		return
	}

	now := time.Now()
	e.broadcaster.ToRoom(sess.Room, NewSystemEvent(notice(sess), now), "")
	e.broadcaster.ToRoom(sess.Room, NewMembersEvent(sess.Room, e.registry.MembersOf(sess.Room)), "")

	e.logger.Info().
		Str("conn_id", conn.ID()).
		Str("username", sess.Username).
		Str("room", sess.Room).
		Msg("Client left room.")
}
