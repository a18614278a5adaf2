package server

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/clubhouse/internal/platform/timeouts"
	"github.com/louisbranch/clubhouse/internal/services/realtime/dispatch"
	"github.com/louisbranch/clubhouse/internal/services/realtime/fanout"
	"github.com/louisbranch/clubhouse/internal/services/realtime/presence"
	"github.com/louisbranch/clubhouse/internal/services/realtime/rooms"
	"github.com/louisbranch/clubhouse/internal/services/realtime/storage"
	"github.com/louisbranch/clubhouse/internal/services/realtime/unread"
)

// ServicesConfig lists the stores and knobs the realtime core runs on.
type ServicesConfig struct {
	Messages      storage.MessageStore
	Notifications storage.NotificationStore
	Clubs         storage.ClubStore
	// Locale selects notification wording; empty means en-US.
	Locale string
	Clock  func() time.Time
	NewID  func() (string, error)
	Logf   func(format string, args ...any)
}

// Services is the realtime core wired over one set of stores. It is shared
// by the websocket, REST, and gRPC surfaces.
type Services struct {
	Presence *presence.Registry
	Rooms    *rooms.Gateway
	Unread   *unread.Reconciler
	Fanout   *fanout.Engine
	Dispatch *dispatch.Dispatcher
	Clubs    storage.ClubStore

	connections *connectionTable
	logf        func(format string, args ...any)
}

// NewServices builds the core components and wires them to the live
// connection table.
func NewServices(cfg ServicesConfig) (*Services, error) {
	if cfg.Messages == nil {
		return nil, errors.New("message store is required")
	}
	if cfg.Notifications == nil {
		return nil, errors.New("notification store is required")
	}
	if cfg.Clubs == nil {
		return nil, errors.New("club store is required")
	}
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	registry := presence.NewRegistry()
	gateway := rooms.NewGateway(cfg.Clubs)
	connections := newConnectionTable()

	reconciler, err := unread.New(unread.Config{
		Messages:      cfg.Messages,
		Notifications: cfg.Notifications,
		Presence:      registry,
		Emitter:       connections,
		Logf:          logf,
	})
	if err != nil {
		return nil, err
	}
	engine, err := fanout.New(fanout.Config{
		Messages: cfg.Messages,
		Members:  cfg.Clubs,
		Rooms:    gateway,
		Presence: registry,
		Emitter:  connections,
		Counts:   reconciler,
		Clock:    cfg.Clock,
		NewID:    cfg.NewID,
		Logf:     logf,
	})
	if err != nil {
		return nil, err
	}
	renderer, err := dispatch.NewRenderer(cfg.Locale)
	if err != nil {
		return nil, err
	}
	dispatcher, err := dispatch.New(dispatch.Config{
		Notifications: cfg.Notifications,
		Clubs:         cfg.Clubs,
		Presence:      registry,
		Emitter:       connections,
		Counts:        reconciler,
		Renderer:      renderer,
		Clock:         cfg.Clock,
		NewID:         cfg.NewID,
		Logf:          logf,
	})
	if err != nil {
		return nil, err
	}

	return &Services{
		Presence:    registry,
		Rooms:       gateway,
		Unread:      reconciler,
		Fanout:      engine,
		Dispatch:    dispatcher,
		Clubs:       cfg.Clubs,
		connections: connections,
		logf:        logf,
	}, nil
}

// Disconnect forgets a closed connection and marks every room it had open
// as read for its user.
func (s *Services) Disconnect(connectionID string) {
	openRooms := s.Rooms.DropConnection(connectionID)
	userID, registered := s.Presence.Unregister(connectionID)
	s.connections.remove(connectionID)
	if !registered {
		return
	}
	for _, clubID := range openRooms {
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.StoreCall)
		s.markRead(ctx, "close", userID, clubID)
		cancel()
	}
}

// RegisterConnection binds connectionID to userID. A connection that
// belonged to another user leaves its rooms first, and those rooms are
// marked read for the previous user.
func (s *Services) RegisterConnection(ctx context.Context, userID, connectionID string) {
	if previous, ok := s.Presence.UserFor(connectionID); ok && previous != userID {
		for _, clubID := range s.Rooms.DropConnection(connectionID) {
			s.markRead(ctx, "re-register", previous, clubID)
		}
	}
	s.Presence.Register(userID, connectionID)
}

func (s *Services) markRead(ctx context.Context, cause, userID, clubID string) {
	if _, err := s.Unread.MarkRoomRead(ctx, userID, clubID); err != nil {
		s.logf("realtime: mark read on %s failed user=%q club=%q err=%v", cause, userID, clubID, err)
	}
}
