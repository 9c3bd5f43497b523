package chathub_test

import (
	"sync"
	"testing"
	"time"

	"webchat/backend/internal/models"
)

// MockClient captures whatever the hub sends without any real transport.
type MockClient struct {
	userID  string
	profile models.Profile

	// Recv receives everything the hub pushes to this client.
	Recv chan models.OutEvent

	mu     sync.Mutex
	closed bool
}

func newMockClient(userID, username string) *MockClient {
	return &MockClient{
		userID:  userID,
		profile: models.Profile{ID: userID, Username: username},
		Recv:    make(chan models.OutEvent, 64),
	}
}

func (c *MockClient) GetUserID() string                      { return c.userID }
func (c *MockClient) GetProfile() models.Profile             { return c.profile }
func (c *MockClient) GetSendChannel() chan<- models.OutEvent { return c.Recv }

func (c *MockClient) Run() {}

// Close shuts the Recv channel like the real client closes Send, so a hub
// write to a closed client would panic here too. Idempotent.
func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Recv)
	}
}

// isClosed allows assertions from the test goroutine while the hub runs.
func (c *MockClient) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// nextEvent waits briefly for the next event pushed to the client.
func (c *MockClient) nextEvent(t *testing.T) (models.OutEvent, bool) {
	t.Helper()
	select {
	case ev := <-c.Recv:
		return ev, true
	case <-time.After(500 * time.Millisecond):
		return models.OutEvent{}, false
	}
}

// awaitEvent drains the client's channel until an event of the wanted type
// arrives or the timeout hits.
func (c *MockClient) awaitEvent(t *testing.T, eventType string) (models.OutEvent, bool) {
	t.Helper()
	deadline := time.After(500 * time.Millisecond)
	for {
		select {
		case ev := <-c.Recv:
			if ev.Type == eventType {
				return ev, true
			}
		case <-deadline:
			return models.OutEvent{}, false
		}
	}
}

// drain discards everything buffered so far.
func (c *MockClient) drain() {
	for {
		select {
		case <-c.Recv:
		default:
			return
		}
	}
}
