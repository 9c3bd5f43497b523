package chathub

import (
	"encoding/json"

	"webchat/backend/internal/models"
)

// relaySignal forwards a call-negotiation frame to the sender's chat partner.
// The relay holds no call state and never inspects the payload: offers,
// answers and candidates pass through verbatim with the sender's identity
// attached. Signaling is only permitted inside an active pairing, and only
// towards the partner.
func (h *Hub) relaySignal(c Client, kind string, payload json.RawMessage) {
	var p models.SignalPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			h.sendErrorMsg(c, "malformed signaling payload")
			return
		}
	}

	userID := c.GetUserID()
	pairing, ok := h.Matcher.PairingFor(userID)
	if !ok {
		h.sendError(c, ErrNotPaired)
		return
	}
	if p.TargetUserID != pairing.Partner(userID) {
		h.sendError(c, ErrNotPaired)
		return
	}

	target, ok := h.Sessions.Lookup(p.TargetUserID)
	if !ok {
		// Partner vanished mid-handshake; the caller gets a notice and the
		// call setup simply stalls.
		h.sendError(c, ErrTargetUnavailable)
		return
	}

	sess, _ := h.Sessions.Lookup(userID)
	h.send(target.Client, kind, models.SignalForward{
		FromUserID:   userID,
		FromUsername: sess.Profile.Username,
		Data:         p.Data,
	})
}
