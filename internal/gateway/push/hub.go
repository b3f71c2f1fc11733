package push

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Payload is an inbound push delivery.
type Payload struct {
	Title   string `json:"title"`
	Body    string `json:"body"`
	URL     string `json:"url,omitempty"`
	StoryID string `json:"storyId,omitempty"`
}

// Message is what travels between the hub and a connected app shell.
// The hub delivers notifications with action "notify"; the shell reports
// an activation with action "activated"; the hub answers with
// action "navigate". The hub itself never navigates.
type Message struct {
	Action string `json:"action"`
	ID     string `json:"id,omitempty"`
	Title  string `json:"title,omitempty"`
	Body   string `json:"body,omitempty"`
	URL    string `json:"url,omitempty"`
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex // serializes writes to the conn
}

func (c *client) send(m Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub keeps the websocket connections of subscribed app shells and routes
// notification activations back to them as navigation messages.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*client
	pending  map[string]string // notification id -> target url
	logger   *zap.SugaredLogger
	upgrader websocket.Upgrader
}

func NewHub(logger *zap.SugaredLogger) *Hub {
	return &Hub{
		clients: make(map[string]*client),
		pending: make(map[string]string),
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades a shell connection. Subscribing requires a present
// bearer credential (header or, for browser websockets, a token query
// parameter); validity is the API's concern, presence is ours.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		http.Error(w, "missing bearer credential", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnw("ws upgrade failed", "error", err)
		return
	}

	id := uuid.NewString()
	c := &client{conn: conn}
	h.mu.Lock()
	h.clients[id] = c
	h.mu.Unlock()
	h.logger.Infow("shell subscribed", "conn", id)

	go h.readLoop(id, c)
}

func (h *Hub) readLoop(id string, c *client) {
	defer h.drop(id)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var m Message
		if err := json.Unmarshal(data, &m); err != nil {
			h.logger.Warnw("bad shell message", "conn", id, "error", err)
			continue
		}
		if m.Action != "activated" {
			continue
		}
		h.mu.Lock()
		url, ok := h.pending[m.ID]
		delete(h.pending, m.ID)
		h.mu.Unlock()
		if !ok {
			url = "/#/home"
		}
		if err := c.send(Message{Action: "navigate", URL: url}); err != nil {
			h.logger.Warnw("navigate send failed", "conn", id, "error", err)
			return
		}
	}
}

func (h *Hub) drop(id string) {
	h.mu.Lock()
	if c, ok := h.clients[id]; ok {
		_ = c.conn.Close()
		delete(h.clients, id)
	}
	h.mu.Unlock()
	h.logger.Infow("shell unsubscribed", "conn", id)
}

// Broadcast delivers a push payload to every connected shell. Returns how
// many shells received it.
func (h *Hub) Broadcast(p Payload) int {
	target := targetURL(p)

	h.mu.RLock()
	conns := make(map[string]*client, len(h.clients))
	for id, c := range h.clients {
		conns[id] = c
	}
	h.mu.RUnlock()

	delivered := 0
	for id, c := range conns {
		notifID := uuid.NewString()
		h.mu.Lock()
		h.pending[notifID] = target
		h.mu.Unlock()
		if err := c.send(Message{Action: "notify", ID: notifID, Title: p.Title, Body: p.Body}); err != nil {
			h.logger.Warnw("notify send failed", "conn", id, "error", err)
			h.drop(id)
			continue
		}
		delivered++
	}
	return delivered
}

// Subscribers returns the number of connected shells.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func targetURL(p Payload) string {
	if p.StoryID != "" {
		return "/#/detail/" + p.StoryID
	}
	if p.URL != "" {
		return p.URL
	}
	return "/#/home"
}
