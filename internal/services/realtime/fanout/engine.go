// Package fanout persists chat messages and pushes them to the other live
// connections subscribed to the club's room.
//
// Delivery is best effort and at most once per connection. A connection that
// is not subscribed when a message is sent catches up through History.
package fanout

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/louisbranch/clubhouse/internal/platform/errors"
	"github.com/louisbranch/clubhouse/internal/platform/id"
	"github.com/louisbranch/clubhouse/internal/platform/pagination"
	"github.com/louisbranch/clubhouse/internal/platform/requestctx"
	"github.com/louisbranch/clubhouse/internal/services/realtime/storage"
	"github.com/louisbranch/clubhouse/internal/services/realtime/wire"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// MaxBodyRunes bounds a message body after trimming.
	MaxBodyRunes = 2000
	// MaxDedupeKeyRunes bounds a client dedupe key.
	MaxDedupeKeyRunes = 128
)

var historyPageSize = pagination.PageSizeConfig{Default: 50, Max: 200}

const instrumentationName = "github.com/louisbranch/clubhouse/internal/services/realtime/fanout"

// Members answers durable club membership questions.
type Members interface {
	IsMember(ctx context.Context, clubID string, userID string) (bool, error)
	MembersOf(ctx context.Context, clubID string) ([]string, error)
}

// Subscribers lists the connections subscribed to a room.
type Subscribers interface {
	SubscribersOf(clubID string) []string
}

// Presence lists a user's live connections.
type Presence interface {
	ConnectionsFor(userID string) []string
}

// CountPusher signals a user to re-fetch unread counts.
type CountPusher interface {
	PushCountDelta(ctx context.Context, userID string) int
}

// Config wires engine collaborators.
type Config struct {
	Messages storage.MessageStore
	Members  Members
	Rooms    Subscribers
	Presence Presence
	Emitter  wire.Emitter
	Counts   CountPusher
	// Clock defaults to time.Now.
	Clock func() time.Time
	// NewID defaults to id.NewID.
	NewID func() (string, error)
	Logf  func(format string, args ...any)
}

// Engine sends chat messages.
type Engine struct {
	messages storage.MessageStore
	members  Members
	rooms    Subscribers
	presence Presence
	emitter  wire.Emitter
	counts   CountPusher
	clock    func() time.Time
	newID    func() (string, error)
	logf     func(format string, args ...any)

	tracer       trace.Tracer
	pushed       metric.Int64Counter
	pushFailures metric.Int64Counter
}

// New validates cfg and returns an engine.
func New(cfg Config) (*Engine, error) {
	switch {
	case cfg.Messages == nil:
		return nil, errors.New("message store is required")
	case cfg.Members == nil:
		return nil, errors.New("club members are required")
	case cfg.Rooms == nil:
		return nil, errors.New("room gateway is required")
	case cfg.Presence == nil:
		return nil, errors.New("presence registry is required")
	case cfg.Emitter == nil:
		return nil, errors.New("emitter is required")
	case cfg.Counts == nil:
		return nil, errors.New("count pusher is required")
	}
	e := &Engine{
		messages: cfg.Messages,
		members:  cfg.Members,
		rooms:    cfg.Rooms,
		presence: cfg.Presence,
		emitter:  cfg.Emitter,
		counts:   cfg.Counts,
		clock:    cfg.Clock,
		newID:    cfg.NewID,
		logf:     cfg.Logf,
		tracer:   otel.Tracer(instrumentationName),
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	if e.newID == nil {
		e.newID = id.NewID
	}
	if e.logf == nil {
		e.logf = func(string, ...any) {}
	}

	meter := otel.Meter(instrumentationName)
	var err error
	if e.pushed, err = meter.Int64Counter("realtime.fanout.pushes",
		metric.WithDescription("Chat messages pushed to live connections")); err != nil {
		return nil, err
	}
	if e.pushFailures, err = meter.Int64Counter("realtime.fanout.push_failures",
		metric.WithDescription("Chat message pushes that failed")); err != nil {
		return nil, err
	}
	return e, nil
}

// SendInput is one chat send request.
type SendInput struct {
	SenderID string
	ClubID   string
	Body     string
	// DedupeKey is the client idempotency token; blank keys get a server id.
	DedupeKey string
}

// SendResult describes a persisted send.
type SendResult struct {
	Message storage.MessageRecord
	// Duplicate is set when the dedupe key was already stored for the
	// sender. The stored body is updated and nothing is pushed again.
	Duplicate bool
	Delivered int
	Failed    int
}

// Send validates, persists, and then pushes one message. No push happens
// unless persistence succeeded.
func (e *Engine) Send(ctx context.Context, in SendInput) (result SendResult, err error) {
	ctx, span := e.tracer.Start(ctx, "fanout.Send", trace.WithAttributes(
		attribute.String("club.id", strings.TrimSpace(in.ClubID)),
		attribute.String("sender.id", strings.TrimSpace(in.SenderID)),
	))
	defer func() { endSpan(span, err) }()
	if connectionID := requestctx.ConnectionIDFromContext(ctx); connectionID != "" {
		span.SetAttributes(attribute.String("connection.id", connectionID))
	}

	senderID := strings.TrimSpace(in.SenderID)
	clubID := strings.TrimSpace(in.ClubID)
	body := strings.TrimSpace(in.Body)
	dedupeKey := strings.TrimSpace(in.DedupeKey)
	if senderID == "" || clubID == "" {
		return SendResult{}, apperrors.New(apperrors.CodeInvalidInput, "sender and club are required")
	}
	if body == "" {
		return SendResult{}, apperrors.New(apperrors.CodeInvalidInput, "message body is required")
	}
	if utf8.RuneCountInString(body) > MaxBodyRunes {
		return SendResult{}, apperrors.New(apperrors.CodeInvalidInput, "message body is too long")
	}
	if utf8.RuneCountInString(dedupeKey) > MaxDedupeKeyRunes {
		return SendResult{}, apperrors.New(apperrors.CodeInvalidInput, "dedupe key is too long")
	}

	member, err := e.members.IsMember(ctx, clubID, senderID)
	if err != nil {
		return SendResult{}, apperrors.Wrap(apperrors.CodePersistenceFailure, "check club membership", err)
	}
	if !member {
		return SendResult{}, apperrors.WithMetadata(apperrors.CodeForbidden, "not a member of this club", map[string]string{"club_id": clubID})
	}

	messageID, err := e.newID()
	if err != nil {
		return SendResult{}, apperrors.Wrap(apperrors.CodeUnknown, "generate message id", err)
	}
	if dedupeKey == "" {
		dedupeKey = messageID
	}

	inserted, err := e.messages.InsertMessage(ctx, storage.MessageRecord{
		ID:        messageID,
		SenderID:  senderID,
		ClubID:    clubID,
		Body:      body,
		DedupeKey: dedupeKey,
		CreatedAt: e.clock().UTC(),
	})
	if errors.Is(err, storage.ErrConflict) {
		return SendResult{}, apperrors.WithMetadata(apperrors.CodeConflict, "dedupe key belongs to another message", map[string]string{"dID": dedupeKey})
	}
	if err != nil {
		return SendResult{}, apperrors.Wrap(apperrors.CodePersistenceFailure, "persist message", err)
	}
	result = SendResult{Message: inserted.Message, Duplicate: inserted.Duplicate}
	span.SetAttributes(attribute.Bool("message.duplicate", inserted.Duplicate))
	if inserted.Duplicate {
		return result, nil
	}

	own := make(map[string]struct{})
	for _, connectionID := range e.presence.ConnectionsFor(senderID) {
		own[connectionID] = struct{}{}
	}
	event := wire.Message{
		Message:   inserted.Message.Body,
		Sender:    senderID,
		CreatedAt: inserted.Message.CreatedAt,
		DID:       inserted.Message.DedupeKey,
	}
	for _, connectionID := range e.rooms.SubscribersOf(clubID) {
		if _, skip := own[connectionID]; skip {
			continue
		}
		if err := e.emitter.Emit(ctx, connectionID, event); err != nil {
			result.Failed++
			e.logf("fanout: push failed club=%q conn=%q err=%v", clubID, connectionID, err)
			continue
		}
		result.Delivered++
	}
	clubAttr := metric.WithAttributes(attribute.String("club.id", clubID))
	e.pushed.Add(ctx, int64(result.Delivered), clubAttr)
	e.pushFailures.Add(ctx, int64(result.Failed), clubAttr)

	members, err := e.members.MembersOf(ctx, clubID)
	if err != nil {
		// The message is committed; clients still converge on their next pull.
		e.logf("fanout: list members failed club=%q err=%v", clubID, err)
		return result, nil
	}
	for _, userID := range members {
		if userID == senderID {
			continue
		}
		e.counts.PushCountDelta(ctx, userID)
	}
	span.SetAttributes(
		attribute.Int("push.delivered", result.Delivered),
		attribute.Int("push.failed", result.Failed),
	)
	return result, nil
}

// MarkDeletedForSelf hides a message from userID only. A repeat call fails
// with CodeAlreadyDone, which callers may treat as success.
func (e *Engine) MarkDeletedForSelf(ctx context.Context, userID, dedupeKey string) (err error) {
	ctx, span := e.tracer.Start(ctx, "fanout.MarkDeletedForSelf", trace.WithAttributes(
		attribute.String("user.id", strings.TrimSpace(userID)),
	))
	defer func() { endSpan(span, err) }()

	userID = strings.TrimSpace(userID)
	dedupeKey = strings.TrimSpace(dedupeKey)
	if userID == "" || dedupeKey == "" {
		return apperrors.New(apperrors.CodeInvalidInput, "user id and dedupe key are required")
	}

	err = e.messages.AddDeletedFor(ctx, dedupeKey, userID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.New(apperrors.CodeNotFound, "message not found")
	case errors.Is(err, storage.ErrAlreadyDone):
		return apperrors.New(apperrors.CodeAlreadyDone, "message already deleted")
	case err != nil:
		return apperrors.Wrap(apperrors.CodePersistenceFailure, "delete message", err)
	}
	e.counts.PushCountDelta(ctx, userID)
	return nil
}

// History returns the newest messages of a room visible to userID, oldest
// first.
func (e *Engine) History(ctx context.Context, userID, clubID string, limit int) (messages []storage.MessageRecord, err error) {
	ctx, span := e.tracer.Start(ctx, "fanout.History", trace.WithAttributes(
		attribute.String("club.id", strings.TrimSpace(clubID)),
	))
	defer func() { endSpan(span, err) }()

	userID = strings.TrimSpace(userID)
	clubID = strings.TrimSpace(clubID)
	if userID == "" || clubID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "user id and club id are required")
	}
	member, err := e.members.IsMember(ctx, clubID, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodePersistenceFailure, "check club membership", err)
	}
	if !member {
		return nil, apperrors.New(apperrors.CodeForbidden, "not a member of this club")
	}
	messages, err = e.messages.FindMessages(ctx, storage.MessageQuery{
		ClubID:   clubID,
		ViewerID: userID,
		Limit:    pagination.ClampPageSize(limit, historyPageSize),
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodePersistenceFailure, "load messages", err)
	}
	return messages, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperrors.GetCode(err)))
	}
	span.End()
}
