package session

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is one websocket connection attached to a session: the recipient's
// renderer, or an authoring preview following along.
type Client struct {
	session *Session
	conn    *websocket.Conn
	send    chan []byte
}

func NewClient(s *Session, conn *websocket.Conn) *Client {
	return &Client{
		session: s,
		conn:    conn,
		send:    make(chan []byte, 256),
	}
}

// readPump decodes inbound client events and forwards them to the session
// loop. A malformed frame is logged and skipped.
func (c *Client) readPump() {
	defer func() {
		c.session.detach(c)
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("reveal-service: ws read: %v", err)
			}
			return
		}
		var ev ClientEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			log.Printf("reveal-service: ws decode: %v", err)
			continue
		}
		c.session.Deliver(ev)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
