/*
Package chat contains the core logic for handling real-time chat rooms, user sessions, and message broadcasting.

This file defines the Broadcaster, which fans out encoded events to the live
connections of a room and unicasts history replay to individual connections.
*/
package chat

import (
	"sync"

	"github.com/rs/zerolog"

	"chatrelay/internal/pkg/logx"
)

// Conn is the outbound half of one live transport connection. Send must not
// block: slow consumers queue into a bounded buffer and drop on overflow.
type Conn interface {
	ID() string
	Send(data []byte) error
}

// Broadcaster delivers events to connections. Room targeting is resolved
// against the registry at send time, so broadcasts always reflect the
// membership state current at the moment of the triggering mutation.
type Broadcaster struct {
	registry *Registry

	// mu guards conns.
	mu    sync.RWMutex
	conns map[string]Conn

	logger zerolog.Logger
}

// NewBroadcaster constructs a broadcaster routing through the given registry.
func NewBroadcaster(registry *Registry) *Broadcaster {
	return &Broadcaster{
		registry: registry,
		conns:    make(map[string]Conn),
		logger:   logx.Logger().With().Str("component", "Broadcaster").Logger(),
	}
}

// Subscribe makes the connection reachable for unicast and room delivery.
func (b *Broadcaster) Subscribe(conn Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.conns[conn.ID()] = conn
}

// Unsubscribe removes the connection from the delivery table. Idempotent.
func (b *Broadcaster) Unsubscribe(connID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.conns, connID)
}

// ToRoom delivers the event to every connection currently joined to the room,
// skipping excludeID when non-empty. Successive calls from one handler reach
// each recipient in program order.
func (b *Broadcaster) ToRoom(room string, event Event, excludeID string) {
	data, err := event.Encode()
	if err != nil {
		b.logger.Error().Err(err).Str("event", event.Name).Msg("Error marshaling event for broadcast.")
		return
	}

	targets := b.registry.ConnsInRoom(room)

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, connID := range targets {
		if connID == excludeID {
			continue
		}

		conn, ok := b.conns[connID]
		if !ok {
			continue
		}

		if err := conn.Send(data); err != nil {
			b.logger.Warn().
				Str("conn_id", connID).
				Str("event", event.Name).
				Err(err).
				Msg("Dropped event for slow or closed connection.")
		}
	}
}

// ToConn unicasts the event to one connection. Unknown connections are ignored.
func (b *Broadcaster) ToConn(connID string, event Event) {
	data, err := event.Encode()
	if err != nil {
		b.logger.Error().Err(err).Str("event", event.Name).Msg("Error marshaling event for unicast.")
		return
	}

	b.mu.RLock()
	conn, ok := b.conns[connID]
	b.mu.RUnlock()

	if !ok {
		return
	}

	if err := conn.Send(data); err != nil {
		b.logger.Warn().
			Str("conn_id", connID).
			Str("event", event.Name).
			Err(err).
			Msg("Dropped unicast event for slow or closed connection.")
	}
}
