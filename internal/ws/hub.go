// Package ws is the realtime chat gateway.
//
// Every connection lands in a room keyed by user id once it authenticates
// with a `join` frame, so one user may hold several live connections (tabs,
// devices) and all of them receive the same traffic. Messages are persisted
// before fan-out; a failed write produces an error frame for the sender and
// nothing for anyone else.
package ws

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

var (
	connectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tandem",
		Subsystem: "ws",
		Name:      "connected_clients",
		Help:      "Currently connected websocket clients.",
	})
	deliveredMessages = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tandem",
		Subsystem: "ws",
		Name:      "delivered_messages_total",
		Help:      "Chat message frames delivered to client connections.",
	})
)

// outbound is a marshaled frame addressed to a user's room.
type outbound struct {
	userID  string
	payload []byte
}

// Hub tracks rooms and fans frames out to every connection in a room. All
// room mutation happens on the Run goroutine; the channels are the API.
type Hub struct {
	rooms map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	send       chan outbound
	done       chan struct{}
}

// NewHub returns an idle hub; call Run to start it.
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		send:       make(chan outbound, 64),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and fan-out until Stop is called. Run it on
// its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			room, ok := h.rooms[c.userID]
			if !ok {
				room = make(map[*Client]struct{})
				h.rooms[c.userID] = room
			}
			room[c] = struct{}{}
			log.Debug().Str("user_id", c.userID).Int("conns", len(room)).Msg("ws client joined")

		case c := <-h.unregister:
			if room, ok := h.rooms[c.userID]; ok {
				if _, in := room[c]; in {
					delete(room, c)
					close(c.sendCh)
					if len(room) == 0 {
						delete(h.rooms, c.userID)
					}
					log.Debug().Str("user_id", c.userID).Msg("ws client left")
				}
			}

		case out := <-h.send:
			for c := range h.rooms[out.userID] {
				select {
				case c.sendCh <- out.payload:
					deliveredMessages.Inc()
				default:
					// Slow consumer: drop the connection, not the hub.
					delete(h.rooms[out.userID], c)
					close(c.sendCh)
				}
			}

		case <-h.done:
			for _, room := range h.rooms {
				for c := range room {
					close(c.sendCh)
				}
			}
			h.rooms = make(map[string]map[*Client]struct{})
			return
		}
	}
}

// Stop shuts the hub down and closes every client send channel.
func (h *Hub) Stop() {
	close(h.done)
}

// Send queues a frame for every live connection of the given user. A user
// with no connections is a silent no-op; history is in the store.
func (h *Hub) Send(userID string, payload []byte) {
	select {
	case h.send <- outbound{userID: userID, payload: payload}:
	case <-h.done:
	}
}
