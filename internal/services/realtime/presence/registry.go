// Package presence tracks which users hold live connections to this process.
//
// A user is online iff at least one of their connections is registered. The
// registry is process-local and is rebuilt from client re-registration after
// a restart.
package presence

import (
	"sort"
	"strings"
	"sync"
)

// Registry maps user IDs to their live connection IDs.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]map[string]struct{}
	byConn map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[string]map[string]struct{}),
		byConn: make(map[string]string),
	}
}

// Register adds connectionID to the user's connection set. Registering the
// same pair twice is a no-op; registering a connection under a new user moves
// it.
func (r *Registry) Register(userID, connectionID string) {
	userID = strings.TrimSpace(userID)
	connectionID = strings.TrimSpace(connectionID)
	if userID == "" || connectionID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if previous, ok := r.byConn[connectionID]; ok {
		if previous == userID {
			return
		}
		r.removeLocked(previous, connectionID)
	}
	conns, ok := r.byUser[userID]
	if !ok {
		conns = make(map[string]struct{})
		r.byUser[userID] = conns
	}
	conns[connectionID] = struct{}{}
	r.byConn[connectionID] = userID
}

// Unregister removes connectionID from whichever user owns it and returns
// that user. Unknown connections are ignored.
func (r *Registry) Unregister(connectionID string) (string, bool) {
	connectionID = strings.TrimSpace(connectionID)

	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.byConn[connectionID]
	if !ok {
		return "", false
	}
	delete(r.byConn, connectionID)
	r.removeLocked(userID, connectionID)
	return userID, true
}

func (r *Registry) removeLocked(userID, connectionID string) {
	conns := r.byUser[userID]
	delete(conns, connectionID)
	if len(conns) == 0 {
		delete(r.byUser, userID)
	}
}

// ConnectionsFor returns a sorted copy of the user's connection IDs.
func (r *Registry) ConnectionsFor(userID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := r.byUser[strings.TrimSpace(userID)]
	if len(conns) == 0 {
		return nil
	}
	out := make([]string, 0, len(conns))
	for id := range conns {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// IsOnline reports whether the user has any live connection.
func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[strings.TrimSpace(userID)]) > 0
}

// UserFor returns the user that owns connectionID.
func (r *Registry) UserFor(connectionID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	userID, ok := r.byConn[strings.TrimSpace(connectionID)]
	return userID, ok
}

// OnlineUsers returns how many distinct users are online.
func (r *Registry) OnlineUsers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}
