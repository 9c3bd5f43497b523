package chathub

import (
	"time"

	"webchat/backend/internal/models"
)

// Session binds a user to their current connection. There is exactly one per
// connected user; a second connection for the same user replaces the first.
type Session struct {
	UserID   string
	Client   Client
	Profile  models.Profile
	Status   string
	LastSeen time.Time
}

// SessionRegistry is the authoritative user -> live session map. It is a
// plain map: only the hub's Run goroutine touches it.
type SessionRegistry struct {
	sessions map[string]*Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*Session)}
}

// Register inserts or overwrites the session for a user and returns the
// client of the replaced session, if any, so the caller can close it.
func (r *SessionRegistry) Register(userID string, c Client, profile models.Profile) Client {
	var prev Client
	if old, ok := r.sessions[userID]; ok {
		prev = old.Client
	}
	r.sessions[userID] = &Session{
		UserID:   userID,
		Client:   c,
		Profile:  profile,
		Status:   "online",
		LastSeen: time.Now(),
	}
	return prev
}

func (r *SessionRegistry) Lookup(userID string) (*Session, bool) {
	s, ok := r.sessions[userID]
	return s, ok
}

// Unregister removes and returns the session so the caller can cascade
// cleanup through the other indices.
func (r *SessionRegistry) Unregister(userID string) (*Session, bool) {
	s, ok := r.sessions[userID]
	if ok {
		delete(r.sessions, userID)
	}
	return s, ok
}

func (r *SessionRegistry) Count() int {
	return len(r.sessions)
}

// Touch refreshes the last-seen instant for a user, if connected.
func (r *SessionRegistry) Touch(userID string) {
	if s, ok := r.sessions[userID]; ok {
		s.LastSeen = time.Now()
	}
}
