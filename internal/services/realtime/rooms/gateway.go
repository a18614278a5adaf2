// Package rooms tracks which live connections are subscribed to which club
// rooms.
package rooms

import (
	"context"
	"sort"
	"strings"
	"sync"

	apperrors "github.com/louisbranch/clubhouse/internal/platform/errors"
)

// MembershipChecker answers the durable club membership question.
type MembershipChecker interface {
	IsMember(ctx context.Context, clubID string, userID string) (bool, error)
}

// Gateway keeps room subscriptions for live connections. Membership is
// checked only at join time.
type Gateway struct {
	members MembershipChecker

	mu          sync.Mutex
	subscribers map[string]map[string]struct{}
	joined      map[string]map[string]struct{}
}

// NewGateway returns a gateway that authorizes joins with members.
func NewGateway(members MembershipChecker) *Gateway {
	return &Gateway{
		members:     members,
		subscribers: make(map[string]map[string]struct{}),
		joined:      make(map[string]map[string]struct{}),
	}
}

// Join subscribes connectionID to clubID's room when userID is a member.
// A denied join leaves subscriptions unchanged and the connection usable.
func (g *Gateway) Join(ctx context.Context, connectionID, userID, clubID string) error {
	connectionID = strings.TrimSpace(connectionID)
	userID = strings.TrimSpace(userID)
	clubID = strings.TrimSpace(clubID)
	if connectionID == "" || userID == "" || clubID == "" {
		return apperrors.New(apperrors.CodeInvalidInput, "connection, user, and club ids are required")
	}
	if g.members == nil {
		return apperrors.New(apperrors.CodePersistenceFailure, "membership checker is not configured")
	}

	ok, err := g.members.IsMember(ctx, clubID, userID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodePersistenceFailure, "check club membership", err)
	}
	if !ok {
		return apperrors.WithMetadata(apperrors.CodeUnauthorized, "not a member of this club", map[string]string{"club_id": clubID})
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	addTo(g.subscribers, clubID, connectionID)
	addTo(g.joined, connectionID, clubID)
	return nil
}

// Leave removes one subscription and reports whether it existed.
func (g *Gateway) Leave(connectionID, clubID string) bool {
	connectionID = strings.TrimSpace(connectionID)
	clubID = strings.TrimSpace(clubID)

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.joined[connectionID][clubID]; !ok {
		return false
	}
	removeFrom(g.subscribers, clubID, connectionID)
	removeFrom(g.joined, connectionID, clubID)
	return true
}

// SubscribersOf returns a sorted snapshot of the room's connections.
func (g *Gateway) SubscribersOf(clubID string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return sortedKeys(g.subscribers[strings.TrimSpace(clubID)])
}

// RoomsOf returns a sorted snapshot of the rooms a connection has joined.
func (g *Gateway) RoomsOf(connectionID string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return sortedKeys(g.joined[strings.TrimSpace(connectionID)])
}

// DropConnection removes every subscription held by connectionID and
// returns the rooms it was in.
func (g *Gateway) DropConnection(connectionID string) []string {
	connectionID = strings.TrimSpace(connectionID)

	g.mu.Lock()
	defer g.mu.Unlock()
	rooms := sortedKeys(g.joined[connectionID])
	for _, clubID := range rooms {
		removeFrom(g.subscribers, clubID, connectionID)
	}
	delete(g.joined, connectionID)
	return rooms
}

func addTo(index map[string]map[string]struct{}, key, value string) {
	set, ok := index[key]
	if !ok {
		set = make(map[string]struct{})
		index[key] = set
	}
	set[value] = struct{}{}
}

func removeFrom(index map[string]map[string]struct{}, key, value string) {
	set := index[key]
	delete(set, value)
	if len(set) == 0 {
		delete(index, key)
	}
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
