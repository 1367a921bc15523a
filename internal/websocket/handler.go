package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs attaches an upgraded connection to the hub and blocks until the
// peer goes away.
func ServeWs(hub *Hub, c *websocket.Conn, userID uuid.UUID) {
	client := NewClient(hub, c, userID)
	hub.Register(client)

	go client.writePump()
	client.readPump()
}
