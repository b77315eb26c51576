package websockets

import (
	"time"
	"vehiclecare/internal/events"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	PING_INTERVAL     = 30 * time.Second
	PONG_TIMEOUT      = 60 * time.Second
	WRITE_TIMEOUT     = 10 * time.Second
	MAX_MESSAGE_SIZE  = 64 * 1024
	SEND_CHANNEL_SIZE = 64

	SYSTEM_CHANNEL       = "system"
	NOTIFICATION_CHANNEL = "notifications"
)

type Message struct {
	ID        string             `json:"id"`
	Type      events.MessageType `json:"type"`
	Channel   string             `json:"channel,omitempty"`
	Action    string             `json:"action,omitempty"`
	Data      map[string]any     `json:"data,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// TokenValidator resolves an access token to the user it was issued to.
type TokenValidator interface {
	ValidateToken(token string) (uuid.UUID, error)
}

// conn is the subset of *websocket.Conn the pumps use.
type conn interface {
	ReadJSON(v any) error
	WriteJSON(v any) error
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

type Manager struct {
	hub         *Hub
	log         logger.Logger
	eventBus    *events.EventBus
	validator   TokenValidator
	authTimeout time.Duration
}

// New starts the hub and, when an event bus is given, forwards notification events to
// the recipient's authenticated sockets.
func New(eventBus *events.EventBus, validator TokenValidator) (*Manager, error) {
	log := logger.New("websockets")

	manager := &Manager{
		hub: &Hub{
			register:   make(chan *Client),
			unregister: make(chan *Client),
			clients:    make(map[string]*Client),
		},
		log:         log,
		eventBus:    eventBus,
		validator:   validator,
		authTimeout: AUTH_HANDSHAKE_TIMEOUT,
	}

	log.Function("New").Info("Starting websocket hub")
	go manager.hub.run(manager)

	if eventBus != nil {
		if err := eventBus.Subscribe(events.NOTIFICATION_CHANNEL, manager.handleNotificationEvent); err != nil {
			return nil, log.Function("New").Err("failed to subscribe to notification events", err)
		}
	}

	return manager, nil
}

func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	m.serve(c)
}

func (m *Manager) serve(connection conn) {
	log := m.log.Function("serve")

	client := newClient(m, connection)
	if err := client.sendAuthRequest(); err != nil {
		if err := connection.Close(); err != nil {
			log.Er("failed to close connection", err)
		}
		return
	}

	m.hub.register <- client
	defer func() {
		log.Info("Client disconnected", "clientID", client.ID)
		m.hub.unregister <- client
		_ = connection.Close()
	}()

	client.startAuthTimeout()

	go client.readPump()
	client.writePump()
}

func (m *Manager) handleNotificationEvent(event events.Event) error {
	log := m.log.Function("handleNotificationEvent")

	if event.UserID == nil {
		log.Warn("Notification event without recipient", "eventID", event.ID)
		return nil
	}

	m.SendMessageToUser(*event.UserID, Message{
		ID:        uuid.New().String(),
		Type:      events.NOTIFICATION,
		Channel:   NOTIFICATION_CHANNEL,
		Action:    "created",
		Data:      event.Data,
		Timestamp: time.Now(),
	})
	return nil
}

func (c *Client) readPump() {
	log := c.Manager.log.Function("readPump")
	defer func() {
		c.Manager.hub.unregister <- c
		_ = c.Connection.Close()
	}()

	c.Connection.SetReadLimit(MAX_MESSAGE_SIZE)
	if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
		log.Er("failed to set read deadline", err, "clientID", c.ID)
	}
	c.Connection.SetPongHandler(func(string) error {
		return c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
	})

	for {
		var message Message
		if err := c.Connection.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
			) {
				log.Er("Unexpected close error", err, "clientID", c.ID)
			}
			return
		}

		message.Timestamp = time.Now()
		c.routeMessage(message)
	}
}

func (c *Client) routeMessage(message Message) {
	log := c.Manager.log.Function("routeMessage")

	if message.Type == events.AUTH_RESPONSE {
		c.handleAuthResponse(message)
		return
	}

	if status, _ := c.identity(); status != STATUS_AUTHENTICATED {
		c.handleUnauthenticatedMessage(message)
		return
	}

	switch message.Type {
	case events.PING:
		c.enqueue(Message{
			ID:        uuid.New().String(),
			Type:      events.PONG,
			Channel:   SYSTEM_CHANNEL,
			Timestamp: time.Now(),
		})
	default:
		log.Warn("Unknown message type", "type", message.Type, "clientID", c.ID)
		c.enqueue(Message{
			ID:        uuid.New().String(),
			Type:      events.ERROR,
			Channel:   SYSTEM_CHANNEL,
			Data:      map[string]any{"reason": "Unknown message type"},
			Timestamp: time.Now(),
		})
	}
}

func (c *Client) writePump() {
	log := c.Manager.log.Function("writePump")

	ticker := time.NewTicker(PING_INTERVAL)
	defer func() {
		ticker.Stop()
		_ = c.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline", err, "clientID", c.ID)
			}
			if !ok {
				_ = c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Connection.WriteJSON(message); err != nil {
				log.Er("WebSocket write error", err, "clientID", c.ID)
				return
			}

		case <-ticker.C:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline for ping", err, "clientID", c.ID)
			}
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
