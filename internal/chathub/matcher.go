package chathub

import (
	"webchat/backend/internal/models"
)

// QueueEntry is one user waiting for a random partner.
type QueueEntry struct {
	UserID          string
	Profile         models.Profile
	PreferredTopics []string
}

// Pairing is an active 1:1 chat edge between two users.
type Pairing struct {
	ChatID string
	UserA  string
	UserB  string
}

// Partner returns the other side of the pairing.
func (p *Pairing) Partner(userID string) string {
	if p.UserA == userID {
		return p.UserB
	}
	return p.UserA
}

// Match is the outcome of a committed match: both queue entries plus the
// topic intersection (informational only, may be empty).
type Match struct {
	Pairing      *Pairing
	First        QueueEntry
	Second       QueueEntry
	CommonTopics []string
}

// Matcher holds the ordered waiting queue and the pairing table. Like every
// other hub index it is mutated only from the hub's Run goroutine.
type Matcher struct {
	queue    []QueueEntry
	pairings map[string]*Pairing // both directions point at the same Pairing
}

func NewMatcher() *Matcher {
	return &Matcher{pairings: make(map[string]*Pairing)}
}

// Enqueue adds a user to the waiting queue. Re-enqueueing is idempotent: any
// previous entry for the user is dropped first, so the latest preferred
// topics win. Users already in a chat are rejected.
func (m *Matcher) Enqueue(entry QueueEntry) error {
	if _, paired := m.pairings[entry.UserID]; paired {
		return ErrAlreadyPaired
	}
	m.Dequeue(entry.UserID)
	m.queue = append(m.queue, entry)
	return nil
}

// Dequeue removes a waiting user, reporting whether they were queued.
func (m *Matcher) Dequeue(userID string) bool {
	for i, e := range m.queue {
		if e.UserID == userID {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			return true
		}
	}
	return false
}

// TryMatch attempts to pair the most recently enqueued user. Candidates are
// scanned from oldest to newest, excluding the newest entry itself; the first
// one sharing a preferred topic wins, with an empty topic set on either side
// treated as "match anyone". When no candidate qualifies by topic the oldest
// entry is taken anyway, trading topic precision for bounded wait time.
func (m *Matcher) TryMatch() (Match, bool) {
	if len(m.queue) < 2 {
		return Match{}, false
	}

	newest := m.queue[len(m.queue)-1]

	matchIdx := -1
	for i := 0; i < len(m.queue)-1; i++ {
		if topicsCompatible(newest.PreferredTopics, m.queue[i].PreferredTopics) {
			matchIdx = i
			break
		}
	}
	if matchIdx == -1 {
		matchIdx = 0
	}

	candidate := m.queue[matchIdx]

	// Remove the candidate first, then the newest entry (now last).
	m.queue = append(m.queue[:matchIdx], m.queue[matchIdx+1:]...)
	m.queue = m.queue[:len(m.queue)-1]

	pairing := &Pairing{
		ChatID: pairingID(candidate.UserID, newest.UserID),
		UserA:  candidate.UserID,
		UserB:  newest.UserID,
	}
	m.pairings[candidate.UserID] = pairing
	m.pairings[newest.UserID] = pairing

	return Match{
		Pairing:      pairing,
		First:        candidate,
		Second:       newest,
		CommonTopics: commonTopics(candidate.PreferredTopics, newest.PreferredTopics),
	}, true
}

// PairingFor looks up the active pairing for a user.
func (m *Matcher) PairingFor(userID string) (*Pairing, bool) {
	p, ok := m.pairings[userID]
	return p, ok
}

// Dissolve removes a user's pairing symmetrically and returns the partner's
// id. Dissolving an unpaired user is a no-op.
func (m *Matcher) Dissolve(userID string) (string, bool) {
	p, ok := m.pairings[userID]
	if !ok {
		return "", false
	}
	partner := p.Partner(userID)
	delete(m.pairings, userID)
	delete(m.pairings, partner)
	return partner, true
}

// QueueLen reports how many users are waiting.
func (m *Matcher) QueueLen() int {
	return len(m.queue)
}

// Waiting reports whether the user currently sits in the queue.
func (m *Matcher) Waiting(userID string) bool {
	for _, e := range m.queue {
		if e.UserID == userID {
			return true
		}
	}
	return false
}

func topicsCompatible(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return true
	}
	return len(commonTopics(a, b)) > 0
}

// commonTopics returns the intersection, never nil so it serializes to [].
func commonTopics(a, b []string) []string {
	common := []string{}
	seen := make(map[string]struct{}, len(b))
	for _, t := range b {
		seen[t] = struct{}{}
	}
	for _, t := range a {
		if _, ok := seen[t]; ok {
			common = append(common, t)
		}
	}
	return common
}

// pairingID derives a stable chat id from both participants regardless of
// which side enqueued first.
func pairingID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return "chat_" + a + "_" + b
}
