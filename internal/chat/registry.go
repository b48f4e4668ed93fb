package chat

import (
	"sort"
	"sync"

	"github.com/samber/lo"
)

// Registry is the process-wide mapping from username to live session. Every
// connection mutates it concurrently, so all access goes through the mutex.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// TryAdd inserts the session iff the username is non-empty and not already
// registered, and reports whether the insert happened. The check and the
// insert are a single atomic step: two simultaneous joins with the same name
// cannot both succeed.
func (r *Registry) TryAdd(username string, s *Session) bool {
	if username == "" {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.sessions[username]; taken {
		return false
	}
	r.sessions[username] = s
	return true
}

// Remove deletes the entry if present. Removing an absent name is a no-op.
func (r *Registry) Remove(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, username)
}

// Lookup returns the session registered under username, if any.
func (r *Registry) Lookup(username string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[username]
	return s, ok
}

// Snapshot returns a point-in-time copy of the registered sessions for
// fan-out. The live map is never handed out, so callers may iterate while
// other connections join or leave.
func (r *Registry) Snapshot() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Values(r.sessions)
}

// Count returns the number of registered sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Usernames returns the registered names in sorted order.
func (r *Registry) Usernames() []string {
	r.mu.RLock()
	names := lo.Keys(r.sessions)
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}
