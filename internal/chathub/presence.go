package chathub

import "sync"

// PresenceRegistry is the process-wide record of which users currently hold
// an active connection. At most one connection per user: a reconnect
// overwrites the previous entry (last write wins) and the superseded
// connection is returned to the caller.
//
// The hub loop is the only writer, but reads may come from other goroutines
// (notification bridge, HTTP handlers), so the maps are mutex-guarded.
type PresenceRegistry struct {
	mu       sync.RWMutex
	byUser   map[string]Client
	byClient map[Client]string
}

func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		byUser:   make(map[string]Client),
		byClient: make(map[Client]string),
	}
}

// SetOnline registers the connection for the user, superseding any previous
// one. Returns the superseded connection, or nil.
func (p *PresenceRegistry) SetOnline(userID string, c Client) Client {
	p.mu.Lock()
	defer p.mu.Unlock()

	prev := p.byUser[userID]
	if prev == c {
		return nil
	}
	if prev != nil {
		delete(p.byClient, prev)
	}
	p.byUser[userID] = c
	p.byClient[c] = userID
	return prev
}

// SetOffline removes the entry owned by the connection, if any, and returns
// the user it belonged to. A connection that never authenticated (or was
// superseded by a reconnect) is a no-op.
func (p *PresenceRegistry) SetOffline(c Client) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	userID, ok := p.byClient[c]
	if !ok {
		return "", false
	}
	delete(p.byClient, c)
	delete(p.byUser, userID)
	return userID, true
}

func (p *PresenceRegistry) IsOnline(userID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.byUser[userID]
	return ok
}

// Lookup returns the active connection for a user.
func (p *PresenceRegistry) Lookup(userID string) (Client, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.byUser[userID]
	return c, ok
}

// OnlineCount reports how many users are currently present.
func (p *PresenceRegistry) OnlineCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.byUser)
}
