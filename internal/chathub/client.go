package chathub

import "webchat/backend/internal/models"

// Client is the interface for one live connection. It abstracts the
// underlying transport so the hub can drive real WebSocket connections and
// test doubles uniformly.
type Client interface {
	// GetUserID returns the authenticated user id bound to this connection.
	GetUserID() string
	// GetProfile returns the display profile captured at handshake time.
	GetProfile() models.Profile

	// GetSendChannel returns the channel the hub writes outbound events to.
	// It is a send-only channel; the client's write pump drains it.
	GetSendChannel() chan<- models.OutEvent

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts the outbound channel down. Safe to call more than once.
	Close()
}
