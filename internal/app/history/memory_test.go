package history

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreOrdersByTimestamp(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Deliberately append out of timestamp order.
	inserts := []struct {
		content string
		offset  time.Duration
	}{
		{"third", 2 * time.Second},
		{"first", 0},
		{"second", time.Second},
	}

	for _, in := range inserts {
		err := s.Append(ctx, Message{
			Room:      "r",
			Username:  "alice",
			Content:   in.content,
			Kind:      KindText,
			Timestamp: base.Add(in.offset),
		})
		if err != nil {
			t.Fatalf("Append(%s): %v", in.content, err)
		}
	}

	msgs, err := s.History(ctx, "r")
	if err != nil {
		t.Fatalf("History: %v", err)
	}

	want := []string{"first", "second", "third"}
	if len(msgs) != len(want) {
		t.Fatalf("History returned %d messages, want %d", len(msgs), len(want))
	}
	for i, content := range want {
		if msgs[i].Content != content {
			t.Fatalf("message %d = %q, want %q", i, msgs[i].Content, content)
		}
	}
}

func TestMemoryStoreUnknownRoomEmpty(t *testing.T) {
	s := NewMemoryStore()

	msgs, err := s.History(context.Background(), "nowhere")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("unknown room returned %d messages", len(msgs))
	}
}

func TestMemoryStoreHistoryIsACopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Append(ctx, Message{Room: "r", Username: "alice", Content: "hi", Kind: KindText, Timestamp: time.Now()}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	msgs, _ := s.History(ctx, "r")
	msgs[0].Content = "tampered"

	again, _ := s.History(ctx, "r")
	if again[0].Content != "hi" {
		t.Fatal("History exposed internal state to mutation")
	}
}

func TestMemoryStoreRoomsIsolated(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Append(ctx, Message{Room: "a", Username: "alice", Content: "for a", Kind: KindText, Timestamp: time.Now()})
	s.Append(ctx, Message{Room: "b", Username: "bob", Content: "for b", Kind: KindText, Timestamp: time.Now()})

	msgsA, _ := s.History(ctx, "a")
	if len(msgsA) != 1 || msgsA[0].Content != "for a" {
		t.Fatalf("room a history = %+v", msgsA)
	}
}
