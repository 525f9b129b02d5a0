package kds

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Event types
const (
	EventZoneCreate      = "zone_create"
	EventZoneUpdate      = "zone_update"
	EventZoneDelete      = "zone_delete"
	EventTableCreate     = "table_create"
	EventTableUpdate     = "table_update"
	EventTableDelete     = "table_delete"
	EventOrderUpdate     = "order_update"
	EventOrderAlert      = "order_alert"
	EventKitchenUpdate   = "kitchen_update"
	EventDashboardUpdate = "dashboard_update"
	EventNotification    = "notification"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub fans floor events out to every connected screen.
type Hub struct {
	mu      sync.Mutex
	clients map[Conn]string // conn -> role
	log     *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{clients: make(map[Conn]string), log: log}
}

var defaultHub = NewHub(nil)

// Default returns the process-wide hub used by the controllers.
func Default() *Hub { return defaultHub }

// SetLogger replaces the logger of the default hub.
func SetLogger(l *logrus.Logger) {
	defaultHub.mu.Lock()
	defer defaultHub.mu.Unlock()
	if l != nil {
		defaultHub.log = l
	}
}

func (h *Hub) Register(conn Conn, role string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = role
}

func (h *Hub) Unregister(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast writes msg to every client. Clients that fail the write are dropped.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.WithError(err).WithField("event", msg.Event).Error("marshal broadcast")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, role := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.WithError(err).WithFields(logrus.Fields{"event": msg.Event, "role": role}).
				Warn("dropping websocket client")
			delete(h.clients, conn)
			conn.Close()
		}
	}
	h.log.WithFields(logrus.Fields{"event": msg.Event, "clients": len(h.clients)}).Debug("broadcast")
}

func RegisterClient(conn Conn, role string) { defaultHub.Register(conn, role) }

func UnregisterClient(conn Conn) { defaultHub.Unregister(conn) }

// BroadcastMessage -> broadcast on the default hub
func BroadcastMessage(msg Message) { defaultHub.Broadcast(msg) }

func BroadcastZoneChange(event string, zone interface{}) {
	BroadcastMessage(Message{Event: event, Data: zone})
}

func BroadcastTableChange(event string, table interface{}) {
	BroadcastMessage(Message{Event: event, Data: table})
}

func BroadcastOrderUpdate(order interface{}) {
	BroadcastMessage(Message{Event: EventOrderUpdate, Data: order})
}

func BroadcastDashboardUpdate(stats interface{}) {
	BroadcastMessage(Message{Event: EventDashboardUpdate, Data: stats})
}
