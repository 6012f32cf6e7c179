package ws

import (
	"log"
	"net/http"
	"sync"

	"oskar-api/services"
	"oskar-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// PanierHub pushes the recomputed cart summary to every connection of an
// owner after a mutation, so the front's cart badge stays live.
type PanierHub struct {
	clients    map[string]map[*websocket.Conn]bool // owner key -> set of clients
	broadcast  chan CartUpdate
	register   chan Subscription
	unregister chan Subscription
	mu         sync.Mutex
}

// Subscription is one websocket connection of a cart owner.
type Subscription struct {
	Conn     *websocket.Conn
	OwnerKey string
}

// CartUpdate is pushed to every connection of the owner.
type CartUpdate struct {
	OwnerKey string
	Summary  *services.CartSummary
}

func NewPanierHub() *PanierHub {
	return &PanierHub{
		clients:    make(map[string]map[*websocket.Conn]bool),
		broadcast:  make(chan CartUpdate),
		register:   make(chan Subscription),
		unregister: make(chan Subscription),
	}
}

// Run listens for register/unregister/broadcast events.
func (h *PanierHub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			if h.clients[sub.OwnerKey] == nil {
				h.clients[sub.OwnerKey] = make(map[*websocket.Conn]bool)
			}
			h.clients[sub.OwnerKey][sub.Conn] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[sub.OwnerKey][sub.Conn]; ok {
				delete(h.clients[sub.OwnerKey], sub.Conn)
				sub.Conn.Close()
			}
			if len(h.clients[sub.OwnerKey]) == 0 {
				delete(h.clients, sub.OwnerKey)
			}
			h.mu.Unlock()

		case upd := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients[upd.OwnerKey] {
				if err := conn.WriteJSON(upd.Summary); err != nil {
					log.Printf("ws write error: %v", err)
					conn.Close()
					delete(h.clients[upd.OwnerKey], conn)
				}
			}
			if len(h.clients[upd.OwnerKey]) == 0 {
				delete(h.clients, upd.OwnerKey)
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues a summary push for every connection of the owner.
func (h *PanierHub) Publish(ownerKey string, summary *services.CartSummary) {
	h.broadcast <- CartUpdate{OwnerKey: ownerKey, Summary: summary}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WS route: /ws/panier
func (h *PanierHub) HandleWebSocket(c *gin.Context) {
	ownerKey := utils.CurrentUserUUID(c)
	if ownerKey == "" {
		ownerKey = utils.CurrentSessionID(c)
	}
	if ownerKey == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing owner"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	sub := Subscription{Conn: conn, OwnerKey: ownerKey}
	h.register <- sub

	go h.keepAlive(sub)
}

// keepAlive drains the connection so pings are answered; the hub only ever
// pushes, it never consumes client messages.
func (h *PanierHub) keepAlive(sub Subscription) {
	defer func() { h.unregister <- sub }()

	for {
		if _, _, err := sub.Conn.ReadMessage(); err != nil {
			break
		}
	}
}
