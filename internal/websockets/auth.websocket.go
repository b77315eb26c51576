package websockets

import (
	"time"
	"vehiclecare/internal/events"

	"github.com/google/uuid"
)

const AUTH_HANDSHAKE_TIMEOUT = 10 * time.Second

// startAuthTimeout disconnects the client if it has not authenticated in time
func (c *Client) startAuthTimeout() {
	log := c.Manager.log.Function("startAuthTimeout")

	time.AfterFunc(c.Manager.authTimeout, func() {
		if status, _ := c.identity(); status == STATUS_AUTHENTICATED {
			return
		}

		log.Warn("Client failed to authenticate within timeout, disconnecting",
			"clientID", c.ID,
			"timeout", c.Manager.authTimeout)

		c.enqueue(Message{
			ID:        uuid.New().String(),
			Type:      events.AUTH_FAILURE,
			Channel:   SYSTEM_CHANNEL,
			Action:    "authentication_timeout",
			Data:      map[string]any{"reason": "Authentication timeout"},
			Timestamp: time.Now(),
		})

		time.Sleep(100 * time.Millisecond)
		if err := c.Connection.Close(); err != nil {
			log.Er("failed to close connection after auth timeout", err, "clientID", c.ID)
		}
	})
}

func (c *Client) handleAuthResponse(message Message) {
	log := c.Manager.log.Function("handleAuthResponse")

	if status, _ := c.identity(); status == STATUS_AUTHENTICATED {
		log.Warn("Auth response from already authenticated client", "clientID", c.ID)
		return
	}

	token, ok := message.Data["token"].(string)
	if !ok || token == "" {
		log.Warn("Invalid token in auth response", "clientID", c.ID)
		c.sendAuthFailure("Invalid token format")
		return
	}

	userID, err := c.Manager.validator.ValidateToken(token)
	if err != nil {
		log.Info("WebSocket token validation failed", "clientID", c.ID, "error", err.Error())
		c.sendAuthFailure("Authentication failed")
		return
	}

	c.authenticate(userID)
	c.Manager.promoteClientToAuthenticated(c)

	c.enqueue(Message{
		ID:        uuid.New().String(),
		Type:      events.AUTH_SUCCESS,
		Channel:   SYSTEM_CHANNEL,
		Action:    "authenticated",
		Data:      map[string]any{"userId": userID.String()},
		Timestamp: time.Now(),
	})
}

// sendAuthFailure tells the client why and closes the connection shortly after
func (c *Client) sendAuthFailure(reason string) {
	log := c.Manager.log.Function("sendAuthFailure")

	c.enqueue(Message{
		ID:        uuid.New().String(),
		Type:      events.AUTH_FAILURE,
		Channel:   SYSTEM_CHANNEL,
		Action:    "authentication_failed",
		Data:      map[string]any{"reason": reason},
		Timestamp: time.Now(),
	})

	log.Info("Auth failure sent, closing connection", "clientID", c.ID, "reason", reason)

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = c.Connection.Close()
	}()
}

func (c *Client) sendAuthRequest() error {
	log := c.Manager.log.Function("sendAuthRequest")

	authRequest := Message{
		ID:        uuid.New().String(),
		Type:      events.AUTH_REQUEST,
		Channel:   SYSTEM_CHANNEL,
		Action:    "authenticate",
		Timestamp: time.Now(),
	}

	if err := c.Connection.WriteJSON(authRequest); err != nil {
		return log.Err("failed to send auth request", err, "clientID", c.ID)
	}

	log.Info("Auth request sent to client", "clientID", c.ID)
	return nil
}

func (c *Client) handleUnauthenticatedMessage(message Message) {
	c.Manager.log.Function("handleUnauthenticatedMessage").Warn(
		"Blocking message from unauthenticated client",
		"clientID", c.ID,
		"messageType", message.Type,
	)

	c.enqueue(Message{
		ID:        uuid.New().String(),
		Type:      events.AUTH_FAILURE,
		Channel:   SYSTEM_CHANNEL,
		Action:    "authentication_required",
		Data:      map[string]any{"reason": "Authentication required"},
		Timestamp: time.Now(),
	})
}
