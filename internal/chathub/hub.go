package chathub

import (
	"crypto/rand"
	"encoding/json"
	"log"
	"strings"
	"time"

	"webchat/backend/internal/models"
	"webchat/backend/internal/storage"

	"github.com/oklog/ulid/v2"
)

// Inbound is one decoded frame from a client, queued into the hub's mailbox.
type Inbound struct {
	Client Client
	Event  models.Event
}

// Hub is the live session coordinator. It owns the session registry, the
// matchmaking queue, the pairing table and the room index; all four are
// mutated exclusively by the Run goroutine, which drains one command channel
// entry to completion before the next. Persistence calls for side effects
// (presence, room deletion, activity bumps) are fired on their own goroutines
// and never gate an in-memory operation.
type Hub struct {
	Sessions *SessionRegistry
	Matcher  *Matcher
	Rooms    *RoomIndex

	RegisterCh   chan Client
	UnregisterCh chan Client
	IncomingCh   chan Inbound

	roomExpiredCh chan string

	Storage storage.Storage

	msgEntropy *ulid.MonotonicEntropy
}

// NewHub wires up a hub whose empty rooms are purged after the given grace
// period.
func NewHub(s storage.Storage, roomGrace time.Duration) *Hub {
	h := &Hub{
		Sessions:      NewSessionRegistry(),
		Matcher:       NewMatcher(),
		RegisterCh:    make(chan Client),
		UnregisterCh:  make(chan Client),
		IncomingCh:    make(chan Inbound),
		roomExpiredCh: make(chan string, 16),
		Storage:       s,
		msgEntropy:    ulid.Monotonic(rand.Reader, 0),
	}
	h.Rooms = NewRoomIndex(roomGrace, func(roomID string) {
		h.roomExpiredCh <- roomID
	})
	return h
}

// Run is the hub's single mutation goroutine.
func (h *Hub) Run() {
	log.Println("Chat hub started.")
	for {
		select {
		case c := <-h.RegisterCh:
			h.handleRegister(c)
		case c := <-h.UnregisterCh:
			h.handleUnregister(c)
		case in := <-h.IncomingCh:
			h.handleEvent(in.Client, in.Event)
		case roomID := <-h.roomExpiredCh:
			h.handleRoomExpired(roomID)
		}
	}
}

func (h *Hub) handleRegister(c Client) {
	userID := c.GetUserID()

	// A second connection for the same user replaces the first.
	prev := h.Sessions.Register(userID, c, c.GetProfile())
	if prev != nil && prev != c {
		log.Printf("Replacing live connection for user %s", userID)
		prev.Close()
	}

	h.send(c, models.EvOnlineCount, h.Sessions.Count())

	go func() {
		_ = h.Storage.SetUserPresence(userID, "online", time.Now())
	}()
	log.Printf("User connected: %s", userID)
}

// handleUnregister unwinds every index the user participates in. The whole
// cascade runs inside one mailbox entry, so no other event can observe it
// half done.
func (h *Hub) handleUnregister(c Client) {
	userID := c.GetUserID()

	sess, ok := h.Sessions.Lookup(userID)
	if !ok || sess.Client != c {
		// Stale unregister from a connection that was already replaced.
		c.Close()
		return
	}

	h.Matcher.Dequeue(userID)

	if partnerID, paired := h.Matcher.Dissolve(userID); paired {
		h.notify(partnerID, models.EvPartnerLeft, nil)
	}

	for _, roomID := range h.Rooms.RoomsOf(userID) {
		h.removeFromRoom(roomID, sess.Profile)
	}

	h.Sessions.Unregister(userID)
	c.Close()

	go func() {
		_ = h.Storage.SetUserPresence(userID, "offline", time.Now())
	}()
	log.Printf("User disconnected: %s", userID)
}

func (h *Hub) handleEvent(c Client, ev models.Event) {
	userID := c.GetUserID()

	// A replaced connection's read pump may still deliver one last frame
	// after its session was taken over. Its send channel is already closed,
	// so answering it would panic; drop the frame instead.
	sess, ok := h.Sessions.Lookup(userID)
	if !ok || sess.Client != c {
		return
	}
	h.Sessions.Touch(userID)

	switch ev.Type {
	case models.EvFindChat:
		h.handleFindChat(c, ev.Payload)
	case models.EvLeaveChat:
		h.handleLeaveChat(c)
	case models.EvSendMessage:
		h.handleSendMessage(c, ev.Payload)
	case models.EvTypingStart:
		h.handleTyping(c, models.EvUserTyping)
	case models.EvTypingStop:
		h.handleTyping(c, models.EvUserStoppedTyping)
	case models.EvJoinRoom:
		h.handleJoinRoom(c, ev.Payload)
	case models.EvLeaveRoom:
		h.handleLeaveRoom(c, ev.Payload)
	case models.EvSendRoomMessage:
		h.handleSendRoomMessage(c, ev.Payload)
	case models.EvRoomTypingStart:
		h.handleRoomTyping(c, ev.Payload, models.EvUserTypingRoom)
	case models.EvRoomTypingStop:
		h.handleRoomTyping(c, ev.Payload, models.EvUserStoppedTypingRoom)
	case models.EvGetRoomMessages:
		h.handleGetRoomMessages(c, ev.Payload)
	case models.EvCallOffer, models.EvCallAnswer, models.EvCallICE, models.EvCallEnd, models.EvCallReject:
		h.relaySignal(c, ev.Type, ev.Payload)
	default:
		h.sendErrorMsg(c, "unknown event: "+ev.Type)
	}
}

// --- 1:1 chat ---

func (h *Hub) handleFindChat(c Client, payload json.RawMessage) {
	var p models.FindChatPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			h.sendErrorMsg(c, "malformed find_chat payload")
			return
		}
	}

	userID := c.GetUserID()
	sess, ok := h.Sessions.Lookup(userID)
	if !ok {
		return
	}

	err := h.Matcher.Enqueue(QueueEntry{
		UserID:          userID,
		Profile:         sess.Profile,
		PreferredTopics: p.PreferredTopics,
	})
	if err != nil {
		h.sendError(c, err)
		return
	}

	h.send(c, models.EvSearching, models.RoomNoticePayload{Message: "Looking for a chat partner..."})

	if match, ok := h.Matcher.TryMatch(); ok {
		h.announceMatch(match)
	}
}

// announceMatch notifies both sides with the partner's profile and the
// (possibly empty) topic intersection.
func (h *Hub) announceMatch(match Match) {
	notifySide := func(self, other QueueEntry) {
		h.notify(self.UserID, models.EvChatFound, models.ChatFoundPayload{
			Partner:      other.Profile,
			ChatID:       match.Pairing.ChatID,
			CommonTopics: match.CommonTopics,
		})
	}
	notifySide(match.First, match.Second)
	notifySide(match.Second, match.First)
	log.Printf("Matched %s with %s (common topics: %v)",
		match.First.UserID, match.Second.UserID, match.CommonTopics)
}

// handleLeaveChat removes the user from the queue if waiting, or dissolves
// the pairing if matched. Doing neither is not an error.
func (h *Hub) handleLeaveChat(c Client) {
	userID := c.GetUserID()
	if h.Matcher.Dequeue(userID) {
		return
	}
	if partnerID, ok := h.Matcher.Dissolve(userID); ok {
		h.notify(partnerID, models.EvPartnerLeft, nil)
		log.Printf("User %s left chat with %s", userID, partnerID)
	}
}

func (h *Hub) handleSendMessage(c Client, payload json.RawMessage) {
	var p models.SendMessagePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		h.sendErrorMsg(c, "malformed send_message payload")
		return
	}

	userID := c.GetUserID()
	pairing, ok := h.Matcher.PairingFor(userID)
	if !ok {
		h.sendError(c, ErrNotPaired)
		return
	}

	content := strings.TrimSpace(p.Content)
	if content == "" {
		h.sendError(c, ErrEmptyMessage)
		return
	}

	sess, _ := h.Sessions.Lookup(userID)
	msg := models.ChatMessage{
		ID:        h.nextMessageID(),
		Content:   content,
		User:      sess.Profile,
		Timestamp: time.Now(),
	}

	// Both sides get the message; the sender's client does not render
	// optimistically.
	h.send(c, models.EvNewMessage, msg)
	h.notify(pairing.Partner(userID), models.EvNewMessage, msg)
}

func (h *Hub) handleTyping(c Client, outType string) {
	userID := c.GetUserID()
	pairing, ok := h.Matcher.PairingFor(userID)
	if !ok {
		return
	}
	sess, _ := h.Sessions.Lookup(userID)
	h.notify(pairing.Partner(userID), outType, models.TypingPayload{
		ID:       userID,
		Username: sess.Profile.Username,
	})
}

// --- rooms ---

func (h *Hub) handleJoinRoom(c Client, payload json.RawMessage) {
	var p models.RoomPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.RoomID == "" {
		h.sendErrorMsg(c, "room id is required")
		return
	}

	userID := c.GetUserID()
	sess, ok := h.Sessions.Lookup(userID)
	if !ok {
		return
	}

	if err := h.Rooms.Join(p.RoomID, userID); err != nil {
		h.sendError(c, err)
		return
	}

	h.broadcastRoom(p.RoomID, userID, models.EvUserJoinedRoom, models.UserEventPayload{User: sess.Profile})

	// Membership list resolved against the session registry, joiner included.
	members := []models.Profile{}
	for _, id := range h.Rooms.Members(p.RoomID) {
		if s, ok := h.Sessions.Lookup(id); ok {
			members = append(members, s.Profile)
		}
	}
	h.send(c, models.EvRoomUsers, members)
	h.send(c, models.EvRoomJoined, models.RoomJoinedPayload{
		RoomID:  p.RoomID,
		Message: "Successfully joined room " + p.RoomID,
	})
	log.Printf("User %s joined room %s (%d members)", userID, p.RoomID, len(members))
}

// handleLeaveRoom is the explicit leave path. Only here is room ownership
// consulted: an owner leaving tears the room down for everyone and deletes
// the persisted record.
func (h *Hub) handleLeaveRoom(c Client, payload json.RawMessage) {
	var p models.RoomPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.RoomID == "" {
		h.sendErrorMsg(c, "room id is required")
		return
	}

	userID := c.GetUserID()
	if !h.Rooms.IsMember(p.RoomID, userID) {
		h.sendError(c, ErrNotInRoom)
		return
	}

	isOwner := false
	if room, err := h.Storage.GetRoomByID(p.RoomID); err == nil {
		isOwner = room.CreatedByID == userID
	}

	sess, _ := h.Sessions.Lookup(userID)
	h.Rooms.Leave(p.RoomID, userID)

	if isOwner {
		h.broadcastRoom(p.RoomID, "", models.EvRoomClosed, models.RoomNoticePayload{
			RoomID:  p.RoomID,
			Message: "Room has been closed by the creator",
		})
		h.Rooms.Purge(p.RoomID)
		roomID := p.RoomID
		go func() {
			if err := h.Storage.DeleteRoom(roomID); err != nil {
				log.Printf("ERROR: Failed to delete room %s: %v", roomID, err)
			}
		}()
		log.Printf("Room %s closed by creator %s", p.RoomID, userID)
		return
	}

	h.broadcastRoom(p.RoomID, "", models.EvUserLeftRoom, models.UserEventPayload{User: sess.Profile})
	log.Printf("User %s left room %s", userID, p.RoomID)
}

// removeFromRoom is the disconnect path: plain membership removal, no
// ownership lookup. An empty room is left to its cleanup timer.
func (h *Hub) removeFromRoom(roomID string, profile models.Profile) {
	wasMember, _ := h.Rooms.Leave(roomID, profile.ID)
	if !wasMember {
		return
	}
	h.broadcastRoom(roomID, "", models.EvUserLeftRoom, models.UserEventPayload{User: profile})
}

func (h *Hub) handleSendRoomMessage(c Client, payload json.RawMessage) {
	var p models.RoomMessagePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		h.sendErrorMsg(c, "malformed send_room_message payload")
		return
	}

	userID := c.GetUserID()
	if !h.Rooms.IsMember(p.RoomID, userID) {
		h.sendError(c, ErrNotInRoom)
		return
	}

	content := strings.TrimSpace(p.Content)
	if content == "" {
		h.sendError(c, ErrEmptyMessage)
		return
	}

	sess, _ := h.Sessions.Lookup(userID)
	msg := models.RoomMessage{
		ID:        h.nextMessageID(),
		RoomID:    p.RoomID,
		Content:   content,
		User:      sess.Profile,
		Timestamp: time.Now(),
	}
	h.Rooms.Append(msg)

	// Fan out to every member, sender included (explicit echo).
	h.broadcastRoom(p.RoomID, "", models.EvNewRoomMessage, msg)

	roomID := p.RoomID
	go func() {
		if err := h.Storage.TouchRoomActivity(roomID); err != nil {
			log.Printf("ERROR: Failed to bump activity for room %s: %v", roomID, err)
		}
	}()
}

func (h *Hub) handleRoomTyping(c Client, payload json.RawMessage, outType string) {
	var p models.RoomPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.RoomID == "" {
		return
	}
	userID := c.GetUserID()
	if !h.Rooms.IsMember(p.RoomID, userID) {
		return
	}
	sess, _ := h.Sessions.Lookup(userID)
	h.broadcastRoom(p.RoomID, userID, outType, models.TypingPayload{
		ID:       userID,
		Username: sess.Profile.Username,
		RoomID:   p.RoomID,
	})
}

func (h *Hub) handleGetRoomMessages(c Client, payload json.RawMessage) {
	var p models.RoomPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.RoomID == "" {
		h.sendErrorMsg(c, "room id is required")
		return
	}
	h.send(c, models.EvRoomMessages, h.Rooms.Messages(p.RoomID))
}

// handleRoomExpired fires when an empty room's grace period has elapsed. A
// room that came back to life in the meantime is left untouched.
func (h *Hub) handleRoomExpired(roomID string) {
	if h.Rooms.ExpireIfEmpty(roomID) {
		h.broadcastRoom(roomID, "", models.EvRoomCleared, models.RoomNoticePayload{
			RoomID:  roomID,
			Message: "All users have left the room. Messages have been cleared.",
		})
		log.Printf("Room %s expired, ephemeral messages cleared", roomID)
	}
}

// --- delivery helpers ---

// send delivers best-effort: a client whose send buffer is full loses the
// event rather than stalling the hub.
func (h *Hub) send(c Client, eventType string, payload any) {
	select {
	case c.GetSendChannel() <- models.OutEvent{Type: eventType, Payload: payload}:
	default:
		log.Printf("Dropping %s event for slow client %s", eventType, c.GetUserID())
	}
}

func (h *Hub) notify(userID, eventType string, payload any) {
	if sess, ok := h.Sessions.Lookup(userID); ok {
		h.send(sess.Client, eventType, payload)
	}
}

func (h *Hub) broadcastRoom(roomID, skipUserID, eventType string, payload any) {
	for _, id := range h.Rooms.Members(roomID) {
		if id == skipUserID {
			continue
		}
		h.notify(id, eventType, payload)
	}
}

func (h *Hub) sendError(c Client, err error) {
	h.send(c, models.EvError, models.ErrorPayload{Message: err.Error()})
}

func (h *Hub) sendErrorMsg(c Client, msg string) {
	h.send(c, models.EvError, models.ErrorPayload{Message: msg})
}

// nextMessageID returns a monotonic, globally unique message id so consumers
// can deduplicate by identity instead of content heuristics. Only the Run
// goroutine calls this, which keeps the entropy source race-free.
func (h *Hub) nextMessageID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), h.msgEntropy).String()
}
