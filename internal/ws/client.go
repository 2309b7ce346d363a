package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Wire events. Incoming and outgoing frames share the envelope
// {"event": ..., "data": ...}.
const (
	EventJoin    = "join"
	EventInit    = "init"
	EventMessage = "private message"
	EventError   = "error"
)

// Frame is the wire envelope.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type joinData struct {
	Token string `json:"token"`
}

type messageData struct {
	ChatID string `json:"chat_id"`
	Body   string `json:"body"`
}

type errorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client is one websocket connection. userID is empty until a join frame
// authenticates it; only then does the client sit in a hub room.
type Client struct {
	gw     *Gateway
	conn   *websocket.Conn
	sendCh chan []byte
	userID string
}

// readPump consumes frames until the connection dies. It runs on its own
// goroutine and is the only reader of the connection. Frames are handled
// sequentially, which preserves per-sender message order.
func (c *Client) readPump() {
	defer func() {
		if c.userID != "" {
			c.gw.hub.unregister <- c
			connectedClients.Dec()
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(c.gw.maxMessageBytes)
	c.conn.SetReadDeadline(time.Now().Add(c.gw.pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.gw.pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("user_id", c.userID).Msg("ws read failed")
			}
			return
		}
		var f Frame
		if err := json.Unmarshal(raw, &f); err != nil {
			c.sendError("bad_frame", "malformed frame")
			continue
		}
		c.gw.handleFrame(context.Background(), c, &f)
	}
}

// writePump drains the send channel onto the connection and keeps the
// connection alive with pings. It is the only writer of the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.gw.pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.sendCh:
			c.conn.SetWriteDeadline(time.Now().Add(c.gw.writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.gw.writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue puts a frame on this connection's send channel, dropping it when
// the buffer is full (the hub handles slow consumers for room traffic; this
// path serves direct replies like init and error frames).
func (c *Client) enqueue(payload []byte) {
	select {
	case c.sendCh <- payload:
	default:
	}
}

func (c *Client) sendError(code, msg string) {
	payload, err := marshalFrame(EventError, errorData{Code: code, Message: msg})
	if err != nil {
		return
	}
	c.enqueue(payload)
}

func marshalFrame(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: event, Data: raw})
}
