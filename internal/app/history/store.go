/*
Package history provides durable, ordered-by-time storage for chat messages.

It defines the narrow Store contract the chat engine depends on (append one
message, read a room's messages oldest first) together with the persisted
message model. Implementations live in this package: a Postgres store for
production and an in-memory store for development and tests.
*/
package history

import (
	"context"
	"errors"
	"time"
)

// ErrStoreUnavailable reports that the persistence layer could not be reached
// or rejected the operation. Callers must not broadcast content that failed to
// persist.
var ErrStoreUnavailable = errors.New("message store unavailable")

// Kind distinguishes plain text messages from image messages whose content is
// a resource locator.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Message is one persisted chat message. Messages are immutable once appended.
type Message struct {
	Room      string
	Username  string
	Content   string
	Kind      Kind
	Timestamp time.Time
}

// Store is the durable, append-only message log scoped by room.
type Store interface {
	// Append persists one message. It returns an error wrapping
	// ErrStoreUnavailable when the backing store cannot complete the write.
	Append(ctx context.Context, msg Message) error

	// History returns all messages for the room in ascending timestamp order.
	// An unknown room yields an empty slice, not an error.
	History(ctx context.Context, room string) ([]Message, error)

	// Close releases any resources held by the store.
	Close()
}
