package notify

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	queueSize    = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by CORS and the bearer token on the upgrade request
	CheckOrigin: func(r *http.Request) bool { return true },
}

type message struct {
	userID  uuid.UUID
	payload any
}

// Hub keeps the live websocket connections of every user and delivers
// payloads to all connections of one user. All writes happen on the Run
// goroutine.
type Hub struct {
	mu        sync.Mutex
	clients   map[uuid.UUID]map[*websocket.Conn]bool
	broadcast chan message
	stop      chan struct{}
	wg        sync.WaitGroup
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[uuid.UUID]map[*websocket.Conn]bool),
		broadcast: make(chan message, queueSize),
		stop:      make(chan struct{}),
	}
}

// Start launches the delivery loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop ends the delivery loop and closes every connection
func (h *Hub) Stop() {
	close(h.stop)
	h.wg.Wait()

	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, conns := range h.clients {
		for conn := range conns {
			conn.Close()
		}
		delete(h.clients, userID)
	}
}

// Publish queues v for the user's connections. When the queue is full the
// payload is dropped; notifications stay readable over the REST endpoint.
func (h *Hub) Publish(userID uuid.UUID, v any) {
	select {
	case h.broadcast <- message{userID: userID, payload: v}:
	default:
		log.Printf("[Notify] Queue full, dropping live notification for user %s", userID)
	}
}

// Subscribers returns the number of open connections of a user
func (h *Hub) Subscribers(userID uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID])
}

// ServeWS upgrades the request and registers the connection for userID.
// It blocks until the client disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Notify] WebSocket upgrade error: %v", err)
		return
	}

	h.register(userID, conn)
	defer h.unregister(userID, conn)

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Clients never send anything useful; reading drives pong handling and
	// detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) register(userID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*websocket.Conn]bool)
	}
	h.clients[userID][conn] = true
}

func (h *Hub) unregister(userID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[userID]; ok {
		if conns[conn] {
			delete(conns, conn)
			conn.Close()
		}
		if len(conns) == 0 {
			delete(h.clients, userID)
		}
	}
}

func (h *Hub) run() {
	defer h.wg.Done()
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg := <-h.broadcast:
			h.deliver(msg)
		case <-ticker.C:
			h.ping()
		case <-h.stop:
			return
		}
	}
}

func (h *Hub) deliver(msg message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients[msg.userID] {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg.payload); err != nil {
			conn.Close()
			delete(h.clients[msg.userID], conn)
		}
	}
}

func (h *Hub) ping() {
	h.mu.Lock()
	defer h.mu.Unlock()
	deadline := time.Now().Add(writeWait)
	for userID, conns := range h.clients {
		for conn := range conns {
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				conn.Close()
				delete(conns, conn)
			}
		}
		if len(conns) == 0 {
			delete(h.clients, userID)
		}
	}
}
