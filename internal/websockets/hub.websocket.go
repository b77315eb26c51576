package websockets

import (
	"sync"

	"github.com/google/uuid"
)

const (
	STATUS_UNAUTHENTICATED = iota
	STATUS_AUTHENTICATED
)

type Hub struct {
	register   chan *Client
	unregister chan *Client
	clients    map[string]*Client
	mutex      sync.RWMutex
}

// Client is one socket. Status and UserID change after registration, so they are read
// and written only under mutex.
type Client struct {
	ID         string
	Connection conn
	Manager    *Manager

	mutex  sync.RWMutex
	status int
	userID uuid.UUID
	closed bool
	send   chan Message
}

func newClient(m *Manager, connection conn) *Client {
	return &Client{
		ID:         uuid.New().String(),
		Connection: connection,
		Manager:    m,
		status:     STATUS_UNAUTHENTICATED,
		send:       make(chan Message, SEND_CHANNEL_SIZE),
	}
}

func (c *Client) identity() (int, uuid.UUID) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.status, c.userID
}

func (c *Client) authenticate(userID uuid.UUID) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.status = STATUS_AUTHENTICATED
	c.userID = userID
}

// enqueue drops the message when the client is gone or its buffer is full.
func (c *Client) enqueue(message Message) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- message:
		return true
	default:
		c.Manager.log.Function("enqueue").Warn("Client send channel full, dropping message",
			"clientID", c.ID,
			"messageType", message.Type)
		return false
	}
}

func (c *Client) closeSend() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (h *Hub) run(m *Manager) {
	for {
		select {
		case client := <-h.register:
			m.registerClient(client)

		case client := <-h.unregister:
			m.unregisterClient(client)
		}
	}
}

func (m *Manager) registerClient(client *Client) {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	m.hub.clients[client.ID] = client
	m.log.Function("registerClient").Info("Client registered", "clientID", client.ID)
}

// unregisterClient is idempotent; both pumps unregister on exit.
func (m *Manager) unregisterClient(client *Client) {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	if _, ok := m.hub.clients[client.ID]; !ok {
		return
	}

	delete(m.hub.clients, client.ID)
	client.closeSend()

	_, userID := client.identity()
	m.log.Function("unregisterClient").Info("Client unregistered",
		"clientID", client.ID,
		"userID", userID)
}

func (m *Manager) promoteClientToAuthenticated(client *Client) {
	_, userID := client.identity()
	m.log.Function("promoteClientToAuthenticated").Info(
		"Client promoted to authenticated",
		"clientID", client.ID,
		"userID", userID,
	)
}

func (m *Manager) ClientCount() int {
	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()
	return len(m.hub.clients)
}

// SendMessageToUser delivers to every authenticated connection of the user and
// returns how many accepted the message.
func (m *Manager) SendMessageToUser(userID uuid.UUID, message Message) int {
	log := m.log.Function("SendMessageToUser")

	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()

	sent := 0
	connections := 0
	for _, client := range m.hub.clients {
		status, clientUserID := client.identity()
		if status != STATUS_AUTHENTICATED || clientUserID != userID {
			continue
		}

		connections++
		if client.enqueue(message) {
			sent++
		}
	}

	if connections == 0 {
		log.Debug("No connections found for user", "userID", userID)
		return 0
	}

	log.Info("Message sent to user connections",
		"userID", userID,
		"messageID", message.ID,
		"sentTo", sent,
		"totalConnections", connections)
	return sent
}
