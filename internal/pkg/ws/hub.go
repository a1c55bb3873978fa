package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub tracks back-office websocket sessions per agency. One agency can hold
// several connections (multiple tabs, reconnects).
type Hub struct {
	clients map[int64]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	AgencyID int64
	Conn     *websocket.Conn
	mu       sync.Mutex // serializes writes on the connection
}

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]map[*Client]struct{}),
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.AgencyID] == nil {
		h.clients[client.AgencyID] = make(map[*Client]struct{})
	}
	h.clients[client.AgencyID][client] = struct{}{}
	log.Printf("Agency %d connected, conns: %d", client.AgencyID, len(h.clients[client.AgencyID]))
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.clients[client.AgencyID]; ok {
		delete(conns, client)
		if len(conns) == 0 {
			delete(h.clients, client.AgencyID)
		}
	}
	log.Printf("Agency %d disconnected", client.AgencyID)
}

// SendToAgency delivers the message to every open session of the agency.
func (h *Hub) SendToAgency(agencyID int64, msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mu.RLock()
	conns, ok := h.clients[agencyID]
	if !ok {
		h.mu.RUnlock()
		return nil
	}
	clients := make([]*Client, 0, len(conns))
	for c := range conns {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.mu.Lock()
		err := c.Conn.WriteMessage(websocket.TextMessage, data)
		c.mu.Unlock()
		if err != nil {
			log.Printf("SendToAgency write error for agency %d: %v", agencyID, err)
		}
	}
	return nil
}

// IsOnline checks whether the agency has any open session.
func (h *Hub) IsOnline(agencyID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	conns, ok := h.clients[agencyID]
	return ok && len(conns) > 0
}

// ConnectionCount returns the total open connection count.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, conns := range h.clients {
		total += len(conns)
	}
	return total
}
