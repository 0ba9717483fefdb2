/*
Package handler provides the HTTP handlers and routing setup for the chat relay.

This file defines the wsClient, the transport adapter for one WebSocket
connection. It runs the read and write pumps, decodes inbound event envelopes,
dispatches them to the chat engine, and reports transport-level disconnects.
*/
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"chatrelay/internal/app/chat"
	"chatrelay/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	// Sized to fit a base64-encoded image payload.
	maxInboundBytes = 8 << 20

	// MaxContentBytes is the maximum allowed size for text message content.
	MaxContentBytes = 5000

	// MaxImageBytes is the maximum allowed size of a decoded image payload.
	MaxImageBytes = 5 << 20

	// sendQueueSize bounds the per-connection outbound buffer.
	sendQueueSize = 256
)

// errSendQueueFull reports an outbound event dropped because the connection's
// send queue was full.
var errSendQueueFull = errors.New("client send queue full")

// Inbound event names accepted from clients.
const (
	inboundJoin       = "join"
	inboundMessage    = "message"
	inboundImage      = "image"
	inboundTyping     = "typing"
	inboundStopTyping = "stop_typing"
	inboundLeave      = "leave"
)

// wsClient adapts one WebSocket connection to the chat engine's Conn contract.
type wsClient struct {
	id     string
	conn   *websocket.Conn
	engine *chat.Engine

	// send queues encoded outbound events for the write pump.
	send chan []byte

	logger zerolog.Logger
}

// newWSClient constructs the transport adapter for an upgraded connection.
func newWSClient(id string, conn *websocket.Conn, engine *chat.Engine) *wsClient {
	return &wsClient{
		id:     id,
		conn:   conn,
		engine: engine,
		send:   make(chan []byte, sendQueueSize),
		logger: logx.Logger().With().Str("conn_id", id).Logger(),
	}
}

// ID returns the process-unique connection identifier.
func (c *wsClient) ID() string {
	return c.id
}

// Send queues an encoded event for delivery. It never blocks: a full queue
// drops the event and reports the overflow to the caller.
func (c *wsClient) Send(data []byte) error {
	select {
	case c.send <- data:
		return nil
	default:
		return errSendQueueFull
	}
}

// ReadPump reads frames from the WebSocket connection until it closes,
// handling heartbeats and dispatching decoded events to the engine.
func (c *wsClient) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxInboundBytes)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			break
		}

		c.processInbound(messageBytes)
	}
}

// cleanupOnDisconnect reports the transport-level disconnect to the engine and
// releases the connection. Closing the send channel stops the write pump; the
// engine has already detached this connection from fan-out at that point.
func (c *wsClient) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.engine.Disconnect(context.Background(), c)

	close(c.send)

	if err := c.conn.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Client connection close error")
	}
}

// processInbound decodes one event envelope and dispatches it. Malformed
// frames are logged and dropped; they never terminate the connection.
func (c *wsClient) processInbound(messageBytes []byte) {
	var envelope struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data,omitempty"`
	}

	if err := json.Unmarshal(messageBytes, &envelope); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid JSON")
		return
	}

	ctx := context.Background()

	switch envelope.Event {
	case inboundJoin:
		c.handleJoin(ctx, envelope.Data)

	case inboundMessage:
		c.handleMessage(ctx, envelope.Data)

	case inboundImage:
		c.handleImage(ctx, envelope.Data)

	case inboundTyping:
		c.engine.Typing(c)

	case inboundStopTyping:
		c.engine.StopTyping(c)

	case inboundLeave:
		c.engine.Leave(ctx, c)

	default:
		c.logger.Warn().Str("event", envelope.Event).Msg("Client sent unsupported event type")
	}
}

// handleJoin decodes the join payload. Missing fields fall back to the
// engine's defaults; an undecodable payload still joins as a default guest.
func (c *wsClient) handleJoin(ctx context.Context, data json.RawMessage) {
	var payload struct {
		Username string `json:"username"`
		Room     string `json:"room"`
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &payload); err != nil {
			c.logger.Warn().Err(err).Msg("Client sent invalid JOIN payload; using defaults")
		}
	}

	c.engine.Join(ctx, c, payload.Username, payload.Room)
}

// handleMessage decodes and forwards a text message.
func (c *wsClient) handleMessage(ctx context.Context, data json.RawMessage) {
	var payload struct {
		Text string `json:"text"`
	}

	if err := json.Unmarshal(data, &payload); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid MESSAGE payload")
		return
	}

	if len(payload.Text) > MaxContentBytes {
		c.logger.Warn().Int("content_bytes", len(payload.Text)).Msg("Message content too long, dropped")
		return
	}

	if err := c.engine.Message(ctx, c, payload.Text); err != nil {
		c.logger.Error().Err(err).Msg("Message handling failed")
	}
}

// handleImage decodes a base64 image payload and forwards it.
func (c *wsClient) handleImage(ctx context.Context, data json.RawMessage) {
	var payload struct {
		Name string `json:"name"`
		Data string `json:"data"`
	}

	if err := json.Unmarshal(data, &payload); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid IMAGE payload")
		return
	}

	raw, err := base64.StdEncoding.DecodeString(payload.Data)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Client sent undecodable image data")
		return
	}

	if len(raw) > MaxImageBytes {
		c.logger.Warn().Int("image_bytes", len(raw)).Msg("Image payload too large, dropped")
		return
	}

	if err := c.engine.Image(ctx, c, payload.Name, raw); err != nil {
		c.logger.Error().Err(err).Msg("Image handling failed")
	}
}

// WritePump writes queued events to the WebSocket connection and keeps the
// heartbeat alive.
func (c *wsClient) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !c.writeQueuedMessage(message, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage writes one queued frame. Returns false when the write
// pump should terminate.
func (c *wsClient) writeQueuedMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Error().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends the periodic WebSocket Ping. Returns false when the
// write pump should terminate.
func (c *wsClient) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
