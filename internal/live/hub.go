// Package live pushes scoring events to connected websocket clients.
package live

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/pitwall/internal/metrics"
)

// Event is one message pushed to live clients
type Event struct {
	Type     string    `json:"type"`
	RaceID   uuid.UUID `json:"race_id"`
	SeasonID uuid.UUID `json:"season_id"`
}

// EventRaceScored is sent after a race's scores have been persisted
const EventRaceScored = "race_scored"

// Hub fans scoring events out to websocket subscribers. Slow clients
// get dropped rather than blocking the broadcast.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *logrus.Logger

	mu      sync.Mutex
	clients map[chan Event]struct{}
}

// NewHub creates an empty hub
func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger:  logger,
		clients: make(map[chan Event]struct{}),
	}
}

// RaceScored broadcasts a race_scored event. It satisfies the scoring
// service's notifier contract.
func (h *Hub) RaceScored(raceID, seasonID uuid.UUID) {
	h.broadcast(Event{Type: EventRaceScored, RaceID: raceID, SeasonID: seasonID})
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and streams events until the client
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Debug("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	events := h.register()
	defer h.unregister(events)

	done := make(chan struct{})

	// reader: the client sends nothing meaningful, but reading is what
	// surfaces the close frame
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event := <-events:
			if err := conn.WriteJSON(event); err != nil {
				h.logger.WithError(err).Debug("Websocket write failed")
				return
			}
		case <-done:
			return
		}
	}
}

func (h *Hub) register() chan Event {
	events := make(chan Event, 16)
	h.mu.Lock()
	h.clients[events] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	metrics.UpdateLiveClients(float64(count))
	return events
}

func (h *Hub) unregister(events chan Event) {
	h.mu.Lock()
	delete(h.clients, events)
	count := len(h.clients)
	h.mu.Unlock()

	metrics.UpdateLiveClients(float64(count))
}

func (h *Hub) broadcast(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for events := range h.clients {
		select {
		case events <- event:
		default:
			// full buffer means a stalled client, skip it
		}
	}
}
