/*
Package chat contains the core logic for handling real-time chat rooms, user sessions, and message broadcasting.

This file defines the outbound event model: the envelope written to client
connections and the typed payloads for chat messages, system notices, member
lists, and typing indicators.
*/
package chat

import (
	"encoding/json"
	"time"

	"chatrelay/internal/app/history"
)

// Outbound event names.
const (
	EventMessage    = "message"
	EventSystem     = "system"
	EventMembers    = "members"
	EventTyping     = "typing"
	EventStopTyping = "stop_typing"
)

// TimestampLayout renders timestamps with second precision, the format chat
// clients display and history replay reuses.
const TimestampLayout = "2006-01-02T15:04:05"

// Event is the envelope delivered to client connections.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

// Encode serializes the event for the wire.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// MessagePayload carries a chat message, live or replayed from history.
// Text holds the image locator when Type is "image".
type MessagePayload struct {
	Username  string `json:"username"`
	Text      string `json:"text"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

// SystemPayload carries a room-wide system notice.
type SystemPayload struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// MembersPayload carries the full member list of a room after a change.
type MembersPayload struct {
	Room    string   `json:"room"`
	Members []string `json:"members"`
}

// TypingPayload identifies the user whose typing state changed.
type TypingPayload struct {
	Username string `json:"username"`
}

// NewMessageEvent builds a message event from a persisted message.
func NewMessageEvent(msg history.Message) Event {
	return Event{
		Name: EventMessage,
		Data: MessagePayload{
			Username:  msg.Username,
			Text:      msg.Content,
			Type:      string(msg.Kind),
			Timestamp: msg.Timestamp.Format(TimestampLayout),
		},
	}
}

// NewSystemEvent builds a system notice event.
func NewSystemEvent(message string, ts time.Time) Event {
	return Event{
		Name: EventSystem,
		Data: SystemPayload{
			Message:   message,
			Timestamp: ts.Format(TimestampLayout),
		},
	}
}

// NewMembersEvent builds a member-list event.
func NewMembersEvent(room string, members []string) Event {
	return Event{
		Name: EventMembers,
		Data: MembersPayload{
			Room:    room,
			Members: members,
		},
	}
}

// NewTypingEvent builds a typing or stop-typing event for the given user.
func NewTypingEvent(username string, typing bool) Event {
	name := EventTyping
	if !typing {
		name = EventStopTyping
	}

	return Event{
		Name: name,
		Data: TypingPayload{Username: username},
	}
}
