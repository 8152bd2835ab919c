package chathub

import (
	"encoding/json"
	"log"
	"time"

	"futuremesh/backend/internal/config"
	"futuremesh/backend/internal/models"

	"github.com/gorilla/websocket"
)

// WebSocketClient implements the Client interface over gorilla/websocket.
type WebSocketClient struct {
	userID string
	Conn   *websocket.Conn
	Hub    *ManagerService
	Send   chan models.ServerEvent
}

func NewWebSocketClient(hub *ManagerService, conn *websocket.Conn) *WebSocketClient {
	return &WebSocketClient{
		Hub:  hub,
		Conn: conn,
		Send: make(chan models.ServerEvent, config.SendBufferSize),
	}
}

func (c *WebSocketClient) GetUserID() string                         { return c.userID }
func (c *WebSocketClient) BindUser(userID string)                    { c.userID = userID }
func (c *WebSocketClient) GetSendChannel() chan<- models.ServerEvent { return c.Send }

// Run starts the read and write pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close shuts the Send channel, which ends the write pump. Only the hub loop
// calls this, after the client has been removed from presence and routing.
func (c *WebSocketClient) Close() {
	close(c.Send)
}

// readPump decodes inbound frames and hands them to the hub. It owns the
// read side of the connection: when it returns, the connection is dead and
// the hub is told to unregister.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.UnregisterCh <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(config.PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(config.PongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading message: %v", err)
			}
			break
		}

		var ev models.ClientEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			log.Printf("Error decoding frame from %s: %v", c.Conn.RemoteAddr(), err)
			continue
		}

		c.Hub.IncomingCh <- Inbound{Client: c, Event: ev}
	}
}

// writePump drains Send onto the wire and keeps the connection alive with
// pings. Write errors just end the pump; the read pump notices the dead
// connection and drives the unregister.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(config.PingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteJSON(event); err != nil {
				return
			}

			// Flush anything already queued behind this event.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				if err := c.Conn.WriteJSON(<-c.Send); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
