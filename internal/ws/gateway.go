package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/nvasilas/go-tandem-backend/internal/auth"
	"github.com/nvasilas/go-tandem-backend/internal/config"
	"github.com/nvasilas/go-tandem-backend/internal/services"
)

// Gateway upgrades HTTP connections and speaks the chat protocol on top of
// the hub. Identity comes exclusively from the join frame's JWT; nothing in
// the URL is trusted.
type Gateway struct {
	hub    *Hub
	chats  *services.ChatService
	issuer *auth.TokenIssuer

	upgrader        websocket.Upgrader
	maxMessageBytes int64
	writeTimeout    time.Duration
	pingInterval    time.Duration
	pongWait        time.Duration
	sendBuffer      int
}

// NewGateway wires a gateway onto a running hub.
func NewGateway(hub *Hub, chats *services.ChatService, issuer *auth.TokenIssuer, cfg config.WSConfig) *Gateway {
	return &Gateway{
		hub:    hub,
		chats:  chats,
		issuer: issuer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		maxMessageBytes: cfg.MaxMessageBytes,
		writeTimeout:    cfg.WriteTimeout,
		pingInterval:    cfg.PingInterval,
		pongWait:        cfg.PingInterval * 2,
		sendBuffer:      cfg.SendBuffer,
	}
}

// Handle is the gin handler for the websocket endpoint.
func (g *Gateway) Handle(c *gin.Context) {
	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	client := &Client{
		gw:     g,
		conn:   conn,
		sendCh: make(chan []byte, g.sendBuffer),
	}
	go client.writePump()
	go client.readPump()
}

// handleFrame dispatches one inbound frame. Runs on the client's read
// goroutine.
func (g *Gateway) handleFrame(ctx context.Context, c *Client, f *Frame) {
	switch f.Event {
	case EventJoin:
		g.handleJoin(ctx, c, f)
	case EventMessage:
		g.handleMessage(ctx, c, f)
	default:
		c.sendError("unknown_event", "unsupported event: "+f.Event)
	}
}

func (g *Gateway) handleJoin(ctx context.Context, c *Client, f *Frame) {
	if c.userID != "" {
		c.sendError("already_joined", "connection already joined")
		return
	}
	var in joinData
	if err := unmarshalData(f.Data, &in); err != nil || in.Token == "" {
		c.sendError("bad_frame", "join requires a token")
		return
	}
	claims, err := g.issuer.Verify(in.Token)
	if err != nil {
		c.sendError("unauthorized", "invalid token")
		return
	}

	c.userID = claims.Subject
	g.hub.register <- c
	connectedClients.Inc()

	chats, err := g.chats.ListChatsWithHistory(ctx, c.userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", c.userID).Msg("ws init snapshot failed")
		c.sendError("internal", "could not load chats")
		return
	}
	payload, err := marshalFrame(EventInit, gin.H{"chats": chats})
	if err != nil {
		log.Error().Err(err).Msg("ws init marshal failed")
		return
	}
	c.enqueue(payload)
}

func (g *Gateway) handleMessage(ctx context.Context, c *Client, f *Frame) {
	if c.userID == "" {
		c.sendError("unauthorized", "join before sending")
		return
	}
	var in messageData
	if err := unmarshalData(f.Data, &in); err != nil || in.ChatID == "" {
		c.sendError("bad_frame", "message requires chat_id and body")
		return
	}

	m, err := g.chats.SendMessage(ctx, in.ChatID, c.userID, in.Body)
	if err != nil {
		c.sendError("send_failed", err.Error())
		return
	}

	payload, err := marshalFrame(EventMessage, m)
	if err != nil {
		log.Error().Err(err).Msg("ws message marshal failed")
		return
	}
	// Both parties' rooms get the persisted message, so every open tab of
	// the sender converges too.
	g.hub.Send(m.RecipientID, payload)
	g.hub.Send(m.SenderID, payload)
}

func unmarshalData(raw []byte, v any) error {
	if len(raw) == 0 {
		return errors.New("empty frame data")
	}
	return json.Unmarshal(raw, v)
}
