package history

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-process Store used for development and tests.
// Messages are kept per room in timestamp order.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string][]Message
}

// NewMemoryStore constructs an empty in-memory message store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms: make(map[string][]Message),
	}
}

// Append stores the message, keeping the room's slice sorted by timestamp.
// Appends arriving in timestamp order take the fast path.
func (s *MemoryStore) Append(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.rooms[msg.Room]

	if n := len(msgs); n == 0 || !msg.Timestamp.Before(msgs[n-1].Timestamp) {
		s.rooms[msg.Room] = append(msgs, msg)
		return nil
	}

	idx := sort.Search(len(msgs), func(i int) bool {
		return msgs[i].Timestamp.After(msg.Timestamp)
	})

	msgs = append(msgs, Message{})
	copy(msgs[idx+1:], msgs[idx:])
	msgs[idx] = msg
	s.rooms[msg.Room] = msgs

	return nil
}

// History returns a copy of the room's messages, oldest first.
func (s *MemoryStore) History(_ context.Context, room string) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.rooms[room]
	out := make([]Message, len(msgs))
	copy(out, msgs)

	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() {}
