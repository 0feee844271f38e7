package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"goldboard/internal/domain/model"
)

// Push event shapes. initialData carries the full snapshot; the rest
// are incremental.
const (
	msgInitialData    = "initialData"
	msgPriceUpdate    = "priceUpdate"
	msgStatusUpdate   = "statusUpdate"
	msgNewTransaction = "newTransaction"
)

type wsMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

type wsClient struct {
	conn *websocket.Conn
	out  chan wsMessage
	done chan struct{}
}

// Hub fans board events out to every connected subscriber. A new
// subscriber gets the current snapshot queued into its FIFO before it
// is registered for broadcasts, so the initial snapshot always arrives
// ahead of any incremental update. Slow clients drop messages instead
// of blocking the publisher; a dead client is just unregistered.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*wsClient]struct{}
	snapshot func() model.Snapshot
}

func NewHub(snapshot func() model.Snapshot) *Hub {
	return &Hub{
		clients:  make(map[*wsClient]struct{}),
		snapshot: snapshot,
	}
}

func (h *Hub) PublishPrices(prices map[model.Instrument]model.Quote) {
	h.broadcast(wsMessage{Type: msgPriceUpdate, Data: prices})
}

func (h *Hub) PublishStatuses(statuses map[model.Instrument]model.Status) {
	h.broadcast(wsMessage{Type: msgStatusUpdate, Data: statuses})
}

func (h *Hub) PublishTransaction(tx model.Transaction) {
	h.broadcast(wsMessage{Type: msgNewTransaction, Data: tx})
}

func (h *Hub) broadcast(msg wsMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for cl := range h.clients {
		select {
		case cl.out <- msg:
		default:
		}
	}
}

// ClientCount reports the number of registered subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and runs the subscriber until its
// connection drops.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	cl := &wsClient{
		conn: conn,
		out:  make(chan wsMessage, 256),
		done: make(chan struct{}),
	}

	// Snapshot and registration happen under the write lock, which
	// excludes broadcasts: the snapshot is first in the FIFO and no
	// update published before registration is delivered.
	h.mu.Lock()
	cl.out <- wsMessage{Type: msgInitialData, Data: h.snapshot()}
	h.clients[cl] = struct{}{}
	h.mu.Unlock()

	log.Info().Str("remote", conn.RemoteAddr().String()).Msg("subscriber connected")

	go cl.writeLoop()
	cl.readLoop()

	close(cl.done)
	h.mu.Lock()
	delete(h.clients, cl)
	h.mu.Unlock()

	log.Info().Str("remote", conn.RemoteAddr().String()).Msg("subscriber disconnected")
}

func (c *wsClient) writeLoop() {
	ping := time.NewTicker(45 * time.Second)
	defer ping.Stop()
	for {
		select {
		case msg := <-c.out:
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ping.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// readLoop drains the connection; subscribers send nothing we act on,
// but reads drive pong handling and disconnect detection.
func (c *wsClient) readLoop() {
	_ = c.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
