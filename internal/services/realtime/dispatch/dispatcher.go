// Package dispatch turns domain events from club controllers into durable
// notification records and live alerts.
//
// All records of one event are committed before any alert is pushed, so a
// client that polls instead of listening still observes them.
package dispatch

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "github.com/louisbranch/clubhouse/internal/platform/errors"
	"github.com/louisbranch/clubhouse/internal/platform/filter"
	"github.com/louisbranch/clubhouse/internal/platform/id"
	"github.com/louisbranch/clubhouse/internal/platform/pagination"
	"github.com/louisbranch/clubhouse/internal/services/realtime/storage"
	"github.com/louisbranch/clubhouse/internal/services/realtime/wire"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/louisbranch/clubhouse/internal/services/realtime/dispatch"

var inboxPageSize = pagination.PageSizeConfig{Default: 20, Max: 100}

// Clubs resolves recipients and display names.
type Clubs interface {
	MembersOf(ctx context.Context, clubID string) ([]string, error)
	ClubName(ctx context.Context, clubID string) (string, error)
}

// Presence answers liveness for recipients.
type Presence interface {
	IsOnline(userID string) bool
	ConnectionsFor(userID string) []string
}

// CountPusher signals a user to re-fetch unread counts.
type CountPusher interface {
	PushCountDelta(ctx context.Context, userID string) int
}

// Config wires dispatcher collaborators.
type Config struct {
	Notifications storage.NotificationStore
	Clubs         Clubs
	Presence      Presence
	Emitter       wire.Emitter
	Counts        CountPusher
	// Renderer defaults to en-US.
	Renderer *Renderer
	Clock    func() time.Time
	NewID    func() (string, error)
	Logf     func(format string, args ...any)
}

// Dispatcher fans domain events out to recipients and manages inboxes.
type Dispatcher struct {
	notifications storage.NotificationStore
	clubs         Clubs
	presence      Presence
	emitter       wire.Emitter
	counts        CountPusher
	renderer      *Renderer
	clock         func() time.Time
	newID         func() (string, error)
	logf          func(format string, args ...any)
	inboxFilter   *filter.Schema
	tracer        trace.Tracer
}

// New validates cfg and returns a dispatcher.
func New(cfg Config) (*Dispatcher, error) {
	switch {
	case cfg.Notifications == nil:
		return nil, errors.New("notification store is required")
	case cfg.Clubs == nil:
		return nil, errors.New("club directory is required")
	case cfg.Presence == nil:
		return nil, errors.New("presence registry is required")
	case cfg.Emitter == nil:
		return nil, errors.New("emitter is required")
	case cfg.Counts == nil:
		return nil, errors.New("count pusher is required")
	}
	d := &Dispatcher{
		notifications: cfg.Notifications,
		clubs:         cfg.Clubs,
		presence:      cfg.Presence,
		emitter:       cfg.Emitter,
		counts:        cfg.Counts,
		renderer:      cfg.Renderer,
		clock:         cfg.Clock,
		newID:         cfg.NewID,
		logf:          cfg.Logf,
		tracer:        otel.Tracer(instrumentationName),
	}
	if d.renderer == nil {
		renderer, err := NewRenderer("")
		if err != nil {
			return nil, err
		}
		d.renderer = renderer
	}
	if d.clock == nil {
		d.clock = time.Now
	}
	if d.newID == nil {
		d.newID = id.NewID
	}
	if d.logf == nil {
		d.logf = func(string, ...any) {}
	}
	schema, err := filter.NewSchema(
		filter.Field{Name: "kind", Column: "n.kind"},
		filter.Field{Name: "club_id", Column: "n.club_id"},
		filter.Field{Name: "entity_id", Column: "n.entity_id"},
		filter.Field{Name: "created_at", Column: "n.created_at", Type: filter.Timestamp},
	)
	if err != nil {
		return nil, err
	}
	d.inboxFilter = schema
	return d, nil
}

// DomainEvent is a club-side change that users should hear about.
type DomainEvent struct {
	Kind            storage.NotificationKind
	ActorID         string
	ClubID          string
	RelatedEntityID string
	// RecipientIDs defaults to every club member when nil.
	RecipientIDs []string
}

// DispatchResult summarizes one fan-out.
type DispatchResult struct {
	Notifications []storage.NotificationRecord
	// Alerted counts notification pushes that reached a connection.
	Alerted int
	// Signalled counts updateUnreadCount pushes.
	Signalled int
}

// FanOutDomainEvent persists one notification per recipient, excluding the
// actor, and then alerts the recipients that are online.
func (d *Dispatcher) FanOutDomainEvent(ctx context.Context, event DomainEvent) (result DispatchResult, err error) {
	ctx, span := d.tracer.Start(ctx, "dispatch.FanOutDomainEvent", trace.WithAttributes(
		attribute.String("notification.kind", string(event.Kind)),
		attribute.String("club.id", strings.TrimSpace(event.ClubID)),
	))
	defer func() { endSpan(span, err) }()

	clubID := strings.TrimSpace(event.ClubID)
	actorID := strings.TrimSpace(event.ActorID)
	if !event.Kind.Valid() {
		return DispatchResult{}, apperrors.WithMetadata(apperrors.CodeInvalidInput, "unknown notification kind", map[string]string{"kind": string(event.Kind)})
	}
	if clubID == "" {
		return DispatchResult{}, apperrors.New(apperrors.CodeInvalidInput, "club id is required")
	}

	candidates := event.RecipientIDs
	if candidates == nil {
		candidates, err = d.clubs.MembersOf(ctx, clubID)
		if err != nil {
			return DispatchResult{}, apperrors.Wrap(apperrors.CodePersistenceFailure, "list club members", err)
		}
	}
	recipients := resolveRecipients(candidates, actorID)
	span.SetAttributes(attribute.Int("notification.recipients", len(recipients)))
	if len(recipients) == 0 {
		return DispatchResult{}, nil
	}

	createdAt := d.clock().UTC()
	records := make([]storage.NotificationRecord, 0, len(recipients))
	for _, recipientID := range recipients {
		notificationID, err := d.newID()
		if err != nil {
			return DispatchResult{}, apperrors.Wrap(apperrors.CodeUnknown, "generate notification id", err)
		}
		records = append(records, storage.NotificationRecord{
			ID:              notificationID,
			RecipientID:     recipientID,
			Kind:            event.Kind,
			ClubID:          clubID,
			RelatedEntityID: strings.TrimSpace(event.RelatedEntityID),
			CreatedAt:       createdAt,
		})
	}
	if err = d.notifications.BulkInsertNotifications(ctx, records); err != nil {
		return DispatchResult{}, apperrors.Wrap(apperrors.CodePersistenceFailure, "persist notifications", err)
	}
	result.Notifications = records

	title, body := d.renderer.Render(event.Kind, d.clubName(ctx, clubID))
	alert := wire.Notification{Title: title, Message: body, Club: clubID}
	for _, recipientID := range recipients {
		if d.presence.IsOnline(recipientID) {
			for _, connectionID := range d.presence.ConnectionsFor(recipientID) {
				if err := d.emitter.Emit(ctx, connectionID, alert); err != nil {
					d.logf("dispatch: alert failed user=%q conn=%q err=%v", recipientID, connectionID, err)
					continue
				}
				result.Alerted++
			}
		}
		result.Signalled += d.counts.PushCountDelta(ctx, recipientID)
	}
	span.SetAttributes(attribute.Int("push.alerted", result.Alerted))
	return result, nil
}

func (d *Dispatcher) clubName(ctx context.Context, clubID string) string {
	name, err := d.clubs.ClubName(ctx, clubID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			d.logf("dispatch: club name lookup failed club=%q err=%v", clubID, err)
		}
		return clubID
	}
	if strings.TrimSpace(name) == "" {
		return clubID
	}
	return name
}

func resolveRecipients(candidates []string, actorID string) []string {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" || candidate == actorID {
			continue
		}
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}
		out = append(out, candidate)
	}
	return out
}

// ListInboxInput selects one page of a recipient's notifications.
type ListInboxInput struct {
	RecipientID string
	PageSize    int
	PageToken   string
	// Filter is an AIP-160 expression over kind, club_id, entity_id, and
	// created_at.
	Filter     string
	UnreadOnly bool
}

// ListInbox returns one newest-first page of notifications.
func (d *Dispatcher) ListInbox(ctx context.Context, in ListInboxInput) (storage.NotificationPage, error) {
	recipientID := strings.TrimSpace(in.RecipientID)
	if recipientID == "" {
		return storage.NotificationPage{}, apperrors.New(apperrors.CodeInvalidInput, "recipient id is required")
	}
	condition, err := d.inboxFilter.Parse(in.Filter)
	if err != nil {
		return storage.NotificationPage{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid filter", err)
	}
	page, err := d.notifications.ListNotifications(ctx, storage.NotificationQuery{
		RecipientID: recipientID,
		PageSize:    pagination.ClampPageSize(in.PageSize, inboxPageSize),
		PageToken:   strings.TrimSpace(in.PageToken),
		UnreadOnly:  in.UnreadOnly,
		Filter:      condition,
	})
	if err != nil {
		return storage.NotificationPage{}, apperrors.Wrap(apperrors.CodePersistenceFailure, "list notifications", err)
	}
	return page, nil
}

// MarkAllRead marks every unread notification of userID as read.
func (d *Dispatcher) MarkAllRead(ctx context.Context, userID string) (int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, apperrors.New(apperrors.CodeInvalidInput, "user id is required")
	}
	marked, err := d.notifications.MarkAllNotificationsRead(ctx, userID, d.clock().UTC())
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodePersistenceFailure, "mark notifications read", err)
	}
	if marked > 0 {
		d.counts.PushCountDelta(ctx, userID)
	}
	return marked, nil
}

// Delete removes one notification owned by userID.
func (d *Dispatcher) Delete(ctx context.Context, userID, notificationID string) error {
	userID = strings.TrimSpace(userID)
	notificationID = strings.TrimSpace(notificationID)
	if userID == "" || notificationID == "" {
		return apperrors.New(apperrors.CodeInvalidInput, "user id and notification id are required")
	}
	err := d.notifications.DeleteNotification(ctx, userID, notificationID)
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.New(apperrors.CodeNotFound, "notification not found")
	}
	if err != nil {
		return apperrors.Wrap(apperrors.CodePersistenceFailure, "delete notification", err)
	}
	d.counts.PushCountDelta(ctx, userID)
	return nil
}

// DeleteAll clears userID's inbox and returns how many records were removed.
func (d *Dispatcher) DeleteAll(ctx context.Context, userID string) (int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, apperrors.New(apperrors.CodeInvalidInput, "user id is required")
	}
	deleted, err := d.notifications.DeleteAllNotifications(ctx, userID)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodePersistenceFailure, "delete notifications", err)
	}
	if deleted > 0 {
		d.counts.PushCountDelta(ctx, userID)
	}
	return deleted, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperrors.GetCode(err)))
	}
	span.End()
}
