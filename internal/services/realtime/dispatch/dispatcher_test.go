package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	apperrors "github.com/louisbranch/clubhouse/internal/platform/errors"
	"github.com/louisbranch/clubhouse/internal/services/realtime/presence"
	"github.com/louisbranch/clubhouse/internal/services/realtime/storage"
	"github.com/louisbranch/clubhouse/internal/services/realtime/unread"
	"github.com/louisbranch/clubhouse/internal/services/realtime/wire"
	"github.com/louisbranch/clubhouse/internal/testkit/realtimefakes"
)

type harness struct {
	journal       *realtimefakes.Journal
	notifications *realtimefakes.NotificationStore
	clubs         *realtimefakes.ClubStore
	registry      *presence.Registry
	emitter       *realtimefakes.Emitter
	reconciler    *unread.Reconciler
	dispatcher    *Dispatcher
}

func newHarness(t *testing.T) harness {
	t.Helper()
	journal := &realtimefakes.Journal{}
	h := harness{
		journal:       journal,
		notifications: realtimefakes.NewNotificationStore(),
		clubs:         realtimefakes.NewClubStore(map[string][]string{"C": {"actor", "A", "B"}}),
		registry:      presence.NewRegistry(),
		emitter:       realtimefakes.NewEmitter(),
	}
	h.notifications.Journal = journal
	h.emitter.Journal = journal
	h.clubs.Names["C"] = "Chess"

	reconciler, err := unread.New(unread.Config{
		Messages:      realtimefakes.NewMessageStore(),
		Notifications: h.notifications,
		Presence:      h.registry,
		Emitter:       h.emitter,
	})
	if err != nil {
		t.Fatalf("new reconciler: %v", err)
	}
	h.reconciler = reconciler

	var mu sync.Mutex
	next := 0
	dispatcher, err := New(Config{
		Notifications: h.notifications,
		Clubs:         h.clubs,
		Presence:      h.registry,
		Emitter:       h.emitter,
		Counts:        reconciler,
		Clock:         func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) },
		NewID: func() (string, error) {
			mu.Lock()
			defer mu.Unlock()
			next++
			return fmt.Sprintf("n-%d", next), nil
		},
	})
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	h.dispatcher = dispatcher
	return h
}

// A is offline when an announcement names them as a recipient.
func TestFanOutOfflineRecipientPersistsWithoutPush(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	before, err := h.reconciler.UnreadNotifications(ctx, "A")
	if err != nil {
		t.Fatalf("count before: %v", err)
	}
	result, err := h.dispatcher.FanOutDomainEvent(ctx, DomainEvent{
		Kind:         storage.NotificationKindAnnouncement,
		ActorID:      "actor",
		ClubID:       "C",
		RecipientIDs: []string{"A"},
	})
	if err != nil {
		t.Fatalf("fan out: %v", err)
	}

	records := h.notifications.ForRecipient("A")
	if len(records) != 1 || records[0].IsRead() || records[0].Kind != storage.NotificationKindAnnouncement {
		t.Fatalf("records = %+v, want one unread announcement", records)
	}
	if got := h.emitter.Total(wire.EventNotification); got != 0 {
		t.Fatalf("notification pushes = %d, want 0", got)
	}
	if result.Alerted != 0 || result.Signalled != 0 {
		t.Fatalf("result = %+v, want no pushes", result)
	}
	after, err := h.reconciler.UnreadNotifications(ctx, "A")
	if err != nil {
		t.Fatalf("count after: %v", err)
	}
	if after != before+1 {
		t.Fatalf("unread after = %d, want %d", after, before+1)
	}
}

func TestFanOutDefaultsToMembersAndExcludesActor(t *testing.T) {
	h := newHarness(t)
	h.registry.Register("B", "b-tab-1")
	h.registry.Register("B", "b-tab-2")
	h.registry.Register("actor", "actor-tab")

	result, err := h.dispatcher.FanOutDomainEvent(context.Background(), DomainEvent{
		Kind:            storage.NotificationKindEvent,
		ActorID:         "actor",
		ClubID:          "C",
		RelatedEntityID: "event-9",
	})
	if err != nil {
		t.Fatalf("fan out: %v", err)
	}
	if len(result.Notifications) != 2 {
		t.Fatalf("records = %d, want 2", len(result.Notifications))
	}
	if got := h.notifications.ForRecipient("actor"); len(got) != 0 {
		t.Fatalf("actor records = %d, want 0", len(got))
	}
	for _, tab := range []string{"b-tab-1", "b-tab-2"} {
		events := h.emitter.For(tab)
		if len(events) != 2 {
			t.Fatalf("%s events = %d, want notification + count signal", tab, len(events))
		}
		alert, ok := events[0].(wire.Notification)
		if !ok {
			t.Fatalf("%s first event = %T, want wire.Notification", tab, events[0])
		}
		if alert.Title != "New event" || alert.Message != "A new event was posted in Chess." || alert.Club != "C" {
			t.Fatalf("alert = %+v", alert)
		}
		if events[1].EventName() != wire.EventUpdateUnreadCount {
			t.Fatalf("%s second event = %s, want updateUnreadCount", tab, events[1].EventName())
		}
	}
	if len(h.emitter.For("actor-tab")) != 0 {
		t.Fatal("actor received pushes")
	}
	if result.Alerted != 2 || result.Signalled != 2 {
		t.Fatalf("result = %+v, want 2 alerted, 2 signalled", result)
	}
}

func TestFanOutPersistsAllBeforeAnyPush(t *testing.T) {
	h := newHarness(t)
	h.registry.Register("A", "a-tab")
	h.registry.Register("B", "b-tab")

	if _, err := h.dispatcher.FanOutDomainEvent(context.Background(), DomainEvent{
		Kind: storage.NotificationKindGeneral, ActorID: "actor", ClubID: "C",
	}); err != nil {
		t.Fatalf("fan out: %v", err)
	}
	entries := h.journal.Entries()
	if len(entries) == 0 || entries[0] != "bulk-insert" {
		t.Fatalf("journal = %v, want bulk-insert first", entries)
	}
	for _, entry := range entries[1:] {
		if entry == "bulk-insert" {
			t.Fatalf("journal = %v, want a single bulk insert", entries)
		}
	}
}

func TestFanOutPersistenceFailurePushesNothing(t *testing.T) {
	h := newHarness(t)
	h.registry.Register("A", "a-tab")
	h.notifications.Err = errors.New("store down")

	_, err := h.dispatcher.FanOutDomainEvent(context.Background(), DomainEvent{
		Kind: storage.NotificationKindEvent, ActorID: "actor", ClubID: "C",
	})
	if !apperrors.IsCode(err, apperrors.CodePersistenceFailure) {
		t.Fatalf("code = %v, want %v", apperrors.GetCode(err), apperrors.CodePersistenceFailure)
	}
	if n := len(h.emitter.For("a-tab")); n != 0 {
		t.Fatalf("pushes = %d, want 0", n)
	}
}

func TestFanOutPushFailureKeepsRecords(t *testing.T) {
	h := newHarness(t)
	h.registry.Register("A", "a-tab")
	h.emitter.FailFor["a-tab"] = errors.New("socket gone")

	result, err := h.dispatcher.FanOutDomainEvent(context.Background(), DomainEvent{
		Kind: storage.NotificationKindEvent, ActorID: "actor", ClubID: "C", RecipientIDs: []string{"A"},
	})
	if err != nil {
		t.Fatalf("fan out: %v", err)
	}
	if len(h.notifications.ForRecipient("A")) != 1 {
		t.Fatal("record rolled back after push failure")
	}
	if result.Alerted != 0 {
		t.Fatalf("alerted = %d, want 0", result.Alerted)
	}
}

func TestFanOutValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	if _, err := h.dispatcher.FanOutDomainEvent(ctx, DomainEvent{Kind: "poll", ClubID: "C"}); !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("kind code = %v, want %v", apperrors.GetCode(err), apperrors.CodeInvalidInput)
	}
	if _, err := h.dispatcher.FanOutDomainEvent(ctx, DomainEvent{Kind: storage.NotificationKindEvent}); !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("club code = %v, want %v", apperrors.GetCode(err), apperrors.CodeInvalidInput)
	}
}

func TestFanOutDedupesRecipientsAndFallsBackToClubID(t *testing.T) {
	h := newHarness(t)
	h.registry.Register("A", "a-tab")

	result, err := h.dispatcher.FanOutDomainEvent(context.Background(), DomainEvent{
		Kind: storage.NotificationKindGeneral, ActorID: "actor", ClubID: "unnamed",
		RecipientIDs: []string{"A", " A", "actor", ""},
	})
	if err != nil {
		t.Fatalf("fan out: %v", err)
	}
	if len(result.Notifications) != 1 {
		t.Fatalf("records = %d, want 1", len(result.Notifications))
	}
	events := h.emitter.For("a-tab")
	alert, ok := events[0].(wire.Notification)
	if !ok || alert.Message != "There is news in unnamed." {
		t.Fatalf("alert = %+v", events[0])
	}
}

func TestFanOutEmptyRecipientListIsNoop(t *testing.T) {
	h := newHarness(t)
	result, err := h.dispatcher.FanOutDomainEvent(context.Background(), DomainEvent{
		Kind: storage.NotificationKindGeneral, ActorID: "actor", ClubID: "C", RecipientIDs: []string{},
	})
	if err != nil {
		t.Fatalf("fan out: %v", err)
	}
	if len(result.Notifications) != 0 || len(h.journal.Entries()) != 0 {
		t.Fatalf("result = %+v journal = %v, want nothing", result, h.journal.Entries())
	}
}

func TestInboxOperations(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.registry.Register("A", "a-tab")
	if _, err := h.dispatcher.FanOutDomainEvent(ctx, DomainEvent{Kind: storage.NotificationKindEvent, ActorID: "actor", ClubID: "C", RecipientIDs: []string{"A", "B"}}); err != nil {
		t.Fatalf("fan out 1: %v", err)
	}
	if _, err := h.dispatcher.FanOutDomainEvent(ctx, DomainEvent{Kind: storage.NotificationKindAnnouncement, ActorID: "actor", ClubID: "C", RecipientIDs: []string{"A"}}); err != nil {
		t.Fatalf("fan out 2: %v", err)
	}

	page, err := h.dispatcher.ListInbox(ctx, ListInboxInput{RecipientID: "A", Filter: `kind = "event"`})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// The in-memory store ignores the SQL filter.
	if len(page.Notifications) != 2 {
		t.Fatalf("inbox = %d, want 2", len(page.Notifications))
	}
	if _, err := h.dispatcher.ListInbox(ctx, ListInboxInput{RecipientID: "A", Filter: `color = "red"`}); !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("bad filter code = %v, want %v", apperrors.GetCode(err), apperrors.CodeInvalidInput)
	}

	signals := h.emitter.Count("a-tab", wire.EventUpdateUnreadCount)
	marked, err := h.dispatcher.MarkAllRead(ctx, "A")
	if err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	if marked != 2 {
		t.Fatalf("marked = %d, want 2", marked)
	}
	if got := h.emitter.Count("a-tab", wire.EventUpdateUnreadCount); got != signals+1 {
		t.Fatalf("signals = %d, want %d", got, signals+1)
	}

	bNotification := h.notifications.ForRecipient("B")[0].ID
	if err := h.dispatcher.Delete(ctx, "A", bNotification); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("cross delete code = %v, want %v", apperrors.GetCode(err), apperrors.CodeNotFound)
	}
	aNotification := h.notifications.ForRecipient("A")[0].ID
	if err := h.dispatcher.Delete(ctx, "A", aNotification); err != nil {
		t.Fatalf("delete: %v", err)
	}
	deleted, err := h.dispatcher.DeleteAll(ctx, "A")
	if err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}
	if len(h.notifications.ForRecipient("B")) != 1 {
		t.Fatal("B's inbox was touched")
	}
}
