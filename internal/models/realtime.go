package models

import (
	"encoding/json"
	"time"
)

// Event names accepted from clients.
const (
	EvFindChat        = "find_chat"
	EvLeaveChat       = "leave_chat"
	EvSendMessage     = "send_message"
	EvTypingStart     = "typing_start"
	EvTypingStop      = "typing_stop"
	EvJoinRoom        = "join_room"
	EvLeaveRoom       = "leave_room"
	EvSendRoomMessage = "send_room_message"
	EvRoomTypingStart = "room_typing_start"
	EvRoomTypingStop  = "room_typing_stop"
	EvGetRoomMessages = "get_room_messages"

	EvCallOffer  = "video_call_offer"
	EvCallAnswer = "video_call_answer"
	EvCallICE    = "video_call_ice_candidate"
	EvCallEnd    = "video_call_end"
	EvCallReject = "video_call_reject"
)

// Event names emitted to clients.
const (
	EvOnlineCount       = "online_count"
	EvSearching         = "searching"
	EvChatFound         = "chat_found"
	EvPartnerLeft       = "partner_left"
	EvNewMessage        = "new_message"
	EvUserTyping        = "user_typing"
	EvUserStoppedTyping = "user_stopped_typing"

	EvRoomUsers             = "room_users"
	EvRoomJoined            = "room_joined"
	EvUserJoinedRoom        = "user_joined_room"
	EvUserLeftRoom          = "user_left_room"
	EvNewRoomMessage        = "new_room_message"
	EvUserTypingRoom        = "user_typing_room"
	EvUserStoppedTypingRoom = "user_stopped_typing_room"
	EvRoomMessages          = "room_messages"
	EvRoomClosed            = "room_closed"
	EvRoomCleared           = "room_cleared"

	EvError = "error"
)

// Event is the JSON envelope of an inbound websocket frame. The payload is
// kept raw; the hub decodes it once the type is known.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// OutEvent is the envelope of an outbound frame.
type OutEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// --- inbound payloads ---

type FindChatPayload struct {
	PreferredTopics []string `json:"preferred_topics"`
}

type SendMessagePayload struct {
	Content string `json:"content"`
}

type RoomPayload struct {
	RoomID string `json:"room_id"`
}

type RoomMessagePayload struct {
	RoomID  string `json:"room_id"`
	Content string `json:"content"`
}

// SignalPayload addresses a call-negotiation frame at the chat partner. Data
// is relayed verbatim; the server never looks inside.
type SignalPayload struct {
	TargetUserID string          `json:"target_user_id"`
	Data         json.RawMessage `json:"payload,omitempty"`
}

// --- outbound payloads ---

type ChatFoundPayload struct {
	Partner      Profile  `json:"partner"`
	ChatID       string   `json:"chat_id"`
	CommonTopics []string `json:"common_topics"`
}

// ChatMessage is a 1:1 chat message fanned out to both sides of a pairing.
// It is never persisted.
type ChatMessage struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	User      Profile   `json:"user"`
	Timestamp time.Time `json:"timestamp"`
}

// RoomMessage is an ephemeral room message. The whole buffer for a room is
// dropped when the room is torn down.
type RoomMessage struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	Content   string    `json:"content"`
	User      Profile   `json:"user"`
	Timestamp time.Time `json:"timestamp"`
}

// UserEventPayload announces a user joining or leaving a room.
type UserEventPayload struct {
	User Profile `json:"user"`
}

type TypingPayload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	RoomID   string `json:"room_id,omitempty"`
}

type RoomJoinedPayload struct {
	RoomID  string `json:"room_id"`
	Message string `json:"message"`
}

type RoomNoticePayload struct {
	RoomID  string `json:"room_id,omitempty"`
	Message string `json:"message"`
}

// SignalForward is a relayed call-negotiation frame with the sender attached.
type SignalForward struct {
	FromUserID   string          `json:"from_user_id"`
	FromUsername string          `json:"from_username"`
	Data         json.RawMessage `json:"payload,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
