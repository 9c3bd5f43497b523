package chathub_test

import (
	"testing"
	"time"

	"webchat/backend/internal/chathub"
	"webchat/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestSignalRelayToPartner verifies the whole call handshake passes through
// verbatim with the sender's identity attached.
func TestSignalRelayToPartner(t *testing.T) {
	h, _ := newTestHub(time.Minute)

	c1 := connect(t, h, "user_A", "alice")
	c2 := connect(t, h, "user_B", "bob")
	pairUp(t, h, c1, c2)

	sendEvent(h, c1, models.EvCallOffer,
		`{"target_user_id":"user_B","payload":{"sdp":"v=0 offer"}}`)

	ev, ok := c2.awaitEvent(t, models.EvCallOffer)
	require.True(t, ok)
	fwd := ev.Payload.(models.SignalForward)
	assert.Equal(t, "user_A", fwd.FromUserID)
	assert.Equal(t, "alice", fwd.FromUsername)
	assert.JSONEq(t, `{"sdp":"v=0 offer"}`, string(fwd.Data))

	// The answer flows the other way under its own event name.
	sendEvent(h, c2, models.EvCallAnswer,
		`{"target_user_id":"user_A","payload":{"sdp":"v=0 answer"}}`)
	ev, ok = c1.awaitEvent(t, models.EvCallAnswer)
	require.True(t, ok)
	assert.Equal(t, "user_B", ev.Payload.(models.SignalForward).FromUserID)

	// Frames without a body, like hangups, relay too.
	sendEvent(h, c1, models.EvCallEnd, `{"target_user_id":"user_B"}`)
	ev, ok = c2.awaitEvent(t, models.EvCallEnd)
	require.True(t, ok)
	assert.Empty(t, ev.Payload.(models.SignalForward).Data)
}

func TestSignalRejectedWhenUnpaired(t *testing.T) {
	h, _ := newTestHub(time.Minute)

	c1 := connect(t, h, "user_A", "alice")
	sendEvent(h, c1, models.EvCallOffer, `{"target_user_id":"user_B"}`)

	ev, ok := c1.awaitEvent(t, models.EvError)
	require.True(t, ok)
	assert.Equal(t, models.ErrorPayload{Message: "you are not in a chat"}, ev.Payload)
}

// TestSignalRejectedForNonPartnerTarget verifies signaling cannot reach
// arbitrary connected users.
func TestSignalRejectedForNonPartnerTarget(t *testing.T) {
	h, _ := newTestHub(time.Minute)

	c1 := connect(t, h, "user_A", "alice")
	c2 := connect(t, h, "user_B", "bob")
	c3 := connect(t, h, "user_C", "carol")
	pairUp(t, h, c1, c2)

	sendEvent(h, c1, models.EvCallOffer, `{"target_user_id":"user_C"}`)

	ev, ok := c1.awaitEvent(t, models.EvError)
	require.True(t, ok)
	assert.Equal(t, models.ErrorPayload{Message: "you are not in a chat"}, ev.Payload)

	_, leaked := c3.nextEvent(t)
	assert.False(t, leaked, "A non-partner must never receive the frame")
}

// TestSignalTargetWithoutSession verifies the caller is told when the partner
// has no live connection to deliver to.
func TestSignalTargetWithoutSession(t *testing.T) {
	st := new(MockStorage)
	st.On("SetUserPresence", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	h := chathub.NewHub(st, time.Minute)

	// Seed a pairing whose second participant never connects, before the hub
	// loop starts.
	require.NoError(t, h.Matcher.Enqueue(chathub.QueueEntry{UserID: "user_A"}))
	require.NoError(t, h.Matcher.Enqueue(chathub.QueueEntry{UserID: "user_B"}))
	_, ok := h.Matcher.TryMatch()
	require.True(t, ok)
	go h.Run()

	c1 := connect(t, h, "user_A", "alice")
	sendEvent(h, c1, models.EvCallOffer, `{"target_user_id":"user_B"}`)

	ev, ok := c1.awaitEvent(t, models.EvError)
	require.True(t, ok)
	assert.Equal(t, models.ErrorPayload{Message: "target user not found"}, ev.Payload)
}
