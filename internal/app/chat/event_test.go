package chat

import (
	"encoding/json"
	"testing"
	"time"

	"chatrelay/internal/app/history"
)

func TestMessageEventEncoding(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 589793238, time.UTC)

	ev := NewMessageEvent(history.Message{
		Room:      "r",
		Username:  "alice",
		Content:   "hi",
		Kind:      history.KindText,
		Timestamp: ts,
	})

	data, err := ev.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var decoded struct {
		Event string         `json:"event"`
		Data  MessagePayload `json:"data"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("round trip failed: %v", err)
	}

	if decoded.Event != EventMessage {
		t.Fatalf("event name = %q", decoded.Event)
	}
	// Second precision: sub-second digits never reach the wire.
	if decoded.Data.Timestamp != "2025-03-14T09:26:53" {
		t.Fatalf("timestamp = %q", decoded.Data.Timestamp)
	}
	if decoded.Data.Username != "alice" || decoded.Data.Text != "hi" || decoded.Data.Type != "text" {
		t.Fatalf("payload = %+v", decoded.Data)
	}
}

func TestTypingEventNames(t *testing.T) {
	if ev := NewTypingEvent("alice", true); ev.Name != EventTyping {
		t.Fatalf("typing event name = %q", ev.Name)
	}
	if ev := NewTypingEvent("alice", false); ev.Name != EventStopTyping {
		t.Fatalf("stop-typing event name = %q", ev.Name)
	}
}
