// Package unread keeps per-user read state and signals clients when their
// unread totals may have changed.
//
// Counts are never pushed. Clients receive updateUnreadCount and re-pull the
// authoritative numbers from the store.
package unread

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/louisbranch/clubhouse/internal/platform/errors"
	"github.com/louisbranch/clubhouse/internal/services/realtime/storage"
	"github.com/louisbranch/clubhouse/internal/services/realtime/wire"
)

// Presence resolves a user's live connections.
type Presence interface {
	ConnectionsFor(userID string) []string
}

// Config wires reconciler collaborators.
type Config struct {
	Messages      storage.MessageStore
	Notifications storage.NotificationStore
	Presence      Presence
	Emitter       wire.Emitter
	// Logf reports push failures; nil discards them.
	Logf func(format string, args ...any)
}

// Reconciler computes unread counts and applies read-state changes.
type Reconciler struct {
	messages      storage.MessageStore
	notifications storage.NotificationStore
	presence      Presence
	emitter       wire.Emitter
	logf          func(format string, args ...any)
}

// New validates cfg and returns a reconciler.
func New(cfg Config) (*Reconciler, error) {
	if cfg.Messages == nil {
		return nil, errors.New("message store is required")
	}
	if cfg.Notifications == nil {
		return nil, errors.New("notification store is required")
	}
	if cfg.Presence == nil {
		return nil, errors.New("presence registry is required")
	}
	if cfg.Emitter == nil {
		return nil, errors.New("emitter is required")
	}
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Reconciler{
		messages:      cfg.Messages,
		notifications: cfg.Notifications,
		presence:      cfg.Presence,
		emitter:       cfg.Emitter,
		logf:          logf,
	}, nil
}

// MarkRoomRead marks every message in the room that is unread for the user.
// It returns how many messages were newly marked.
func (r *Reconciler) MarkRoomRead(ctx context.Context, userID, clubID string) (int, error) {
	userID = strings.TrimSpace(userID)
	clubID = strings.TrimSpace(clubID)
	if userID == "" || clubID == "" {
		return 0, apperrors.New(apperrors.CodeInvalidInput, "user id and club id are required")
	}

	marked, err := r.messages.MarkClubRead(ctx, clubID, userID)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodePersistenceFailure, "mark messages read", err)
	}
	if marked > 0 {
		r.PushCountDelta(ctx, userID)
	}
	return marked, nil
}

// MarkMessagesRead marks the listed room messages that are unread for the
// user. Ids outside the room are ignored.
func (r *Reconciler) MarkMessagesRead(ctx context.Context, userID, clubID string, messageIDs []string) (int, error) {
	userID = strings.TrimSpace(userID)
	clubID = strings.TrimSpace(clubID)
	if userID == "" || clubID == "" {
		return 0, apperrors.New(apperrors.CodeInvalidInput, "user id and club id are required")
	}
	if len(messageIDs) == 0 {
		return 0, nil
	}

	marked, err := r.messages.AddReadBy(ctx, clubID, messageIDs, userID)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodePersistenceFailure, "mark messages read", err)
	}
	if marked > 0 {
		r.PushCountDelta(ctx, userID)
	}
	return marked, nil
}

// UnreadCountForRoom recomputes the user's unread count for one room.
func (r *Reconciler) UnreadCountForRoom(ctx context.Context, userID, clubID string) (int, error) {
	userID = strings.TrimSpace(userID)
	clubID = strings.TrimSpace(clubID)
	if userID == "" || clubID == "" {
		return 0, apperrors.New(apperrors.CodeInvalidInput, "user id and club id are required")
	}
	count, err := r.messages.CountUnread(ctx, clubID, userID)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodePersistenceFailure, "count unread messages", err)
	}
	return count, nil
}

// UnreadCountsForRooms is the batched form of UnreadCountForRoom. Every
// requested room appears in the result.
func (r *Reconciler) UnreadCountsForRooms(ctx context.Context, userID string, clubIDs []string) (map[string]int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "user id is required")
	}
	ids := make([]string, 0, len(clubIDs))
	seen := make(map[string]struct{}, len(clubIDs))
	for _, id := range clubIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return map[string]int{}, nil
	}

	counts, err := r.messages.CountUnreadByClubs(ctx, userID, ids)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodePersistenceFailure, "count unread messages", err)
	}
	out := make(map[string]int, len(ids))
	for _, id := range ids {
		out[id] = counts[id]
	}
	return out, nil
}

// UnreadNotifications returns the user's unread notification count.
func (r *Reconciler) UnreadNotifications(ctx context.Context, userID string) (int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, apperrors.New(apperrors.CodeInvalidInput, "user id is required")
	}
	count, err := r.notifications.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodePersistenceFailure, "count unread notifications", err)
	}
	return count, nil
}

// PushCountDelta signals every live connection of the user to re-fetch
// unread counts and returns how many connections were signalled.
func (r *Reconciler) PushCountDelta(ctx context.Context, userID string) int {
	signalled := 0
	for _, connectionID := range r.presence.ConnectionsFor(userID) {
		if err := r.emitter.Emit(ctx, connectionID, wire.UpdateUnreadCount{}); err != nil {
			r.logf("unread: push count delta failed user=%q conn=%q err=%v", userID, connectionID, err)
			continue
		}
		signalled++
	}
	return signalled
}
