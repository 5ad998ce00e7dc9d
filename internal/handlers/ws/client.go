package ws

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mfournier/cubetag/internal/models"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Large enough for a background
	// upload as a data URL.
	maxMessageSize = 2 << 20

	// Outbound buffer per connection
	sendBufferSize = 256
)

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	id       string
	identity models.Identity
	handler  *Handler
	conn     *websocket.Conn
	send     chan []byte
}

// trySend queues a message without ever blocking the caller. A full buffer
// means the peer stopped reading; the write side will tear the connection
// down once it notices.
func (c *Client) trySend(data []byte) {
	select {
	case c.send <- data:
	default:
		log.Printf("ws: dropping message to slow client %s", c.id)
	}
}

// readPump pumps messages from the websocket connection into the handler.
func (c *Client) readPump() {
	defer func() {
		c.handler.disconnect(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws: read error from %s: %v", c.id, err)
			}
			break
		}
		c.handler.handleMessage(c, message)
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
