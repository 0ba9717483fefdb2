package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"chatrelay/internal/app/history"
)

// fakeConn records every event delivered to it, decoded back into envelopes.
type fakeConn struct {
	id string

	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (c *fakeConn) ID() string {
	return c.id
}

func (c *fakeConn) Send(data []byte) error {
	var ev recordedEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return fmt.Errorf("undecodable event: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = append(c.events, ev)
	return nil
}

// Events returns a snapshot of everything delivered so far.
func (c *fakeConn) Events() []recordedEvent {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]recordedEvent, len(c.events))
	copy(out, c.events)
	return out
}

// Reset discards recorded events.
func (c *fakeConn) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = nil
}

// decodeData unmarshals an event payload into dst, failing the test on error.
func decodeData(t *testing.T, ev recordedEvent, dst any) {
	t.Helper()

	if err := json.Unmarshal(ev.Data, dst); err != nil {
		t.Fatalf("failed to decode %s payload: %v", ev.Name, err)
	}
}

// failingStore rejects every append and history read.
type failingStore struct{}

func (failingStore) Append(context.Context, history.Message) error {
	return fmt.Errorf("%w: connection refused", history.ErrStoreUnavailable)
}

func (failingStore) History(context.Context, string) ([]history.Message, error) {
	return nil, fmt.Errorf("%w: connection refused", history.ErrStoreUnavailable)
}

func (failingStore) Close() {}

// fakeFiles is a file-storage stub returning predictable locators.
type fakeFiles struct {
	mu    sync.Mutex
	saved int
	fail  bool
}

func (f *fakeFiles) Save(_ context.Context, originalFilename string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return "", errors.New("disk full")
	}

	f.saved++
	return fmt.Sprintf("/static/uploads/upload-%d.png", f.saved), nil
}

// newTestEngine wires an engine over the in-memory store and stub file storage.
func newTestEngine() (*Engine, *fakeFiles) {
	files := &fakeFiles{}
	return NewEngine(history.NewMemoryStore(), files), files
}

// joinConn subscribes a fresh fake connection and joins it to the room.
func joinConn(ctx context.Context, e *Engine, id, username, room string) *fakeConn {
	conn := newFakeConn(id)
	e.Subscribe(conn)
	e.Join(ctx, conn, username, room)
	return conn
}
