/*
Package handler provides the HTTP handlers and routing setup for the chat relay.

This file contains the HandleWebSocket function, which upgrades the HTTP
connection, mints a connection identity, and starts the client's read and
write pumps.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/logx"
	"chatrelay/internal/pkg/randx"
	"chatrelay/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc that upgrades requests to
// WebSocket and attaches the resulting connection to the chat engine.
func HandleWebSocket(upgrader websocket.Upgrader, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connID, err := randx.ConnID()
		if err != nil {
			logx.Error(err, "Failed to generate connection ID")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := newWSClient(connID, conn, deps.Engine)

		deps.Engine.Subscribe(client)

		go client.WritePump()

		logx.Info("WebSocket connection established", "conn_id", connID)

		client.ReadPump()
	}
}
