package chathub

import (
	"sync"

	"futuremesh/backend/internal/models"
)

// Channel key prefixes. User IDs are UUIDs, which never contain an
// underscore, so the "_" separator keeps pair keys collision-free.
const (
	pairChannelPrefix     = "chat_"
	personalChannelPrefix = "user_"
	jobChannelPrefix      = "job_notifications_"
)

// PairChannel derives the canonical channel key for an unordered pair of
// user identities: PairChannel(a, b) == PairChannel(b, a).
func PairChannel(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return pairChannelPrefix + a + "_" + b
}

// PersonalChannel is the private channel a user receives direct
// notifications on.
func PersonalChannel(userID string) string {
	return personalChannelPrefix + userID
}

// JobChannel is the channel job-posting notifications fan out on for a user.
func JobChannel(userID string) string {
	return jobChannelPrefix + userID
}

// ChannelRouter tracks which connections are members of which channels and
// fans events out to them. Membership is connection-scoped: it vanishes when
// the connection leaves or disconnects (LeaveAll).
type ChannelRouter struct {
	mu      sync.RWMutex
	members map[string]map[Client]struct{}
	joined  map[Client]map[string]struct{}
}

func NewChannelRouter() *ChannelRouter {
	return &ChannelRouter{
		members: make(map[string]map[Client]struct{}),
		joined:  make(map[Client]map[string]struct{}),
	}
}

// Join adds the connection to the channel. Joining twice is idempotent.
func (r *ChannelRouter) Join(c Client, channel string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.members[channel] == nil {
		r.members[channel] = make(map[Client]struct{})
	}
	r.members[channel][c] = struct{}{}

	if r.joined[c] == nil {
		r.joined[c] = make(map[string]struct{})
	}
	r.joined[c][channel] = struct{}{}
}

// Leave removes the connection from the channel, dropping the channel
// entirely once its last member is gone.
func (r *ChannelRouter) Leave(c Client, channel string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leave(c, channel)
}

func (r *ChannelRouter) leave(c Client, channel string) {
	if set, ok := r.members[channel]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(r.members, channel)
		}
	}
	if set, ok := r.joined[c]; ok {
		delete(set, channel)
		if len(set) == 0 {
			delete(r.joined, c)
		}
	}
}

// LeaveAll removes the connection from every channel it joined. Called on
// disconnect.
func (r *ChannelRouter) LeaveAll(c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for channel := range r.joined[c] {
		r.leave(c, channel)
	}
}

// Members reports how many connections are in the channel.
func (r *ChannelRouter) Members(channel string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members[channel])
}

// Broadcast delivers the event to every member of the channel except
// exclude (pass nil to include everyone). Delivery is best-effort: a member
// whose outbound buffer is full has the event dropped rather than stalling
// the caller.
func (r *ChannelRouter) Broadcast(channel string, event models.ServerEvent, exclude Client) {
	r.mu.RLock()
	targets := make([]Client, 0, len(r.members[channel]))
	for c := range r.members[channel] {
		if c == exclude {
			continue
		}
		targets = append(targets, c)
	}
	r.mu.RUnlock()

	for _, c := range targets {
		select {
		case c.GetSendChannel() <- event:
		default:
		}
	}
}
