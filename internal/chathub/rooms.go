package chathub

import (
	"time"

	"webchat/backend/internal/models"
)

// RoomIndex tracks who is live in each room, the room's in-memory message
// buffer and the deferred-cleanup timer for rooms that are temporarily empty.
// Message history exists nowhere else: when a room is purged the conversation
// is gone.
type RoomIndex struct {
	members  map[string]map[string]struct{}
	messages map[string][]models.RoomMessage
	timers   map[string]*time.Timer

	grace  time.Duration
	expire func(roomID string) // fires off the hub goroutine; must only hand off
}

// NewRoomIndex builds an index whose empty rooms are purged after grace has
// elapsed. The expire callback runs on a timer goroutine, so it must do
// nothing but deliver the room id back to the hub loop.
func NewRoomIndex(grace time.Duration, expire func(roomID string)) *RoomIndex {
	return &RoomIndex{
		members:  make(map[string]map[string]struct{}),
		messages: make(map[string][]models.RoomMessage),
		timers:   make(map[string]*time.Timer),
		grace:    grace,
		expire:   expire,
	}
}

// Join adds the user to the room's member set, creating it lazily. Joining
// cancels any pending cleanup: the room is live again and its buffer is kept.
func (r *RoomIndex) Join(roomID, userID string) error {
	set, ok := r.members[roomID]
	if !ok {
		set = make(map[string]struct{})
		r.members[roomID] = set
	}
	if _, member := set[userID]; member {
		return ErrAlreadyInRoom
	}
	set[userID] = struct{}{}
	r.cancelCleanup(roomID)
	return nil
}

// Leave removes the user and reports (wasMember, becameEmpty). When the room
// empties, a cleanup timer is armed rather than purging immediately; a rejoin
// before the deadline keeps the buffer.
func (r *RoomIndex) Leave(roomID, userID string) (bool, bool) {
	set, ok := r.members[roomID]
	if !ok {
		return false, false
	}
	if _, member := set[userID]; !member {
		return false, false
	}
	delete(set, userID)
	if len(set) == 0 {
		r.armCleanup(roomID)
		return true, true
	}
	return true, false
}

// IsMember reports whether the user is currently in the room.
func (r *RoomIndex) IsMember(roomID, userID string) bool {
	set, ok := r.members[roomID]
	if !ok {
		return false
	}
	_, member := set[userID]
	return member
}

// Members returns the current member ids of a room.
func (r *RoomIndex) Members(roomID string) []string {
	set := r.members[roomID]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}

// RoomsOf returns every room the user is a member of. Used by the disconnect
// cascade.
func (r *RoomIndex) RoomsOf(userID string) []string {
	var rooms []string
	for roomID, set := range r.members {
		if _, ok := set[userID]; ok {
			rooms = append(rooms, roomID)
		}
	}
	return rooms
}

// Append stores a message in the room's ephemeral buffer.
func (r *RoomIndex) Append(msg models.RoomMessage) {
	r.messages[msg.RoomID] = append(r.messages[msg.RoomID], msg)
}

// Messages returns the room's buffer, empty (never nil) for untracked rooms.
func (r *RoomIndex) Messages(roomID string) []models.RoomMessage {
	msgs := r.messages[roomID]
	if msgs == nil {
		return []models.RoomMessage{}
	}
	return msgs
}

// Tracked reports whether the index still holds state for the room.
func (r *RoomIndex) Tracked(roomID string) bool {
	_, ok := r.members[roomID]
	return ok
}

// Purge drops the member set, the message buffer and any pending timer.
func (r *RoomIndex) Purge(roomID string) {
	r.cancelCleanup(roomID)
	delete(r.members, roomID)
	delete(r.messages, roomID)
}

// ExpireIfEmpty purges the room if it is still empty when its cleanup
// deadline is delivered. A room revived in the meantime is left alone.
func (r *RoomIndex) ExpireIfEmpty(roomID string) bool {
	set, ok := r.members[roomID]
	if !ok || len(set) > 0 {
		return false
	}
	r.Purge(roomID)
	return true
}

func (r *RoomIndex) armCleanup(roomID string) {
	r.cancelCleanup(roomID)
	if r.expire == nil {
		return
	}
	r.timers[roomID] = time.AfterFunc(r.grace, func() {
		r.expire(roomID)
	})
}

func (r *RoomIndex) cancelCleanup(roomID string) {
	if t, ok := r.timers[roomID]; ok {
		t.Stop()
		delete(r.timers, roomID)
	}
}

// HasCleanupTimer reports whether a cleanup timer is armed for the room.
func (r *RoomIndex) HasCleanupTimer(roomID string) bool {
	_, ok := r.timers[roomID]
	return ok
}
