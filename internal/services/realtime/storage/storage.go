// Package storage defines the durable records and store contracts the
// realtime core reads and writes.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/clubhouse/internal/platform/filter"
)

var (
	// ErrNotFound indicates a requested message or notification is missing.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates a write conflicts with a uniqueness constraint
	// owned by someone else (e.g. another sender's dedupe key).
	ErrConflict = errors.New("record conflict")
	// ErrAlreadyDone indicates an add-only set already contains the member.
	ErrAlreadyDone = errors.New("record already updated")
)

// MessageRecord is one persisted chat message.
type MessageRecord struct {
	ID         string
	SenderID   string
	ClubID     string
	Body       string
	DedupeKey  string
	CreatedAt  time.Time
	ReadBy     []string
	DeletedFor []string
}

// HasReader reports whether userID is in ReadBy.
func (m MessageRecord) HasReader(userID string) bool {
	for _, reader := range m.ReadBy {
		if reader == userID {
			return true
		}
	}
	return false
}

// MessageQuery selects the room view for one viewer.
type MessageQuery struct {
	ClubID string
	// ViewerID excludes messages the viewer deleted for themselves.
	ViewerID string
	// Limit keeps only the newest messages; zero loads the whole room.
	Limit int
}

// InsertResult reports how an insert resolved against the dedupe key.
type InsertResult struct {
	Message MessageRecord
	// Duplicate is true when the dedupe key already existed for the sender
	// and the stored message was updated in place.
	Duplicate bool
}

// NotificationKind classifies what produced a notification.
type NotificationKind string

const (
	NotificationKindEvent        NotificationKind = "event"
	NotificationKindAnnouncement NotificationKind = "announcement"
	NotificationKindGeneral      NotificationKind = "general"
)

// Valid reports whether k is a known kind.
func (k NotificationKind) Valid() bool {
	switch k {
	case NotificationKindEvent, NotificationKindAnnouncement, NotificationKindGeneral:
		return true
	default:
		return false
	}
}

// NotificationRecord stores one recipient notification.
type NotificationRecord struct {
	ID              string
	RecipientID     string
	Kind            NotificationKind
	ClubID          string
	RelatedEntityID string
	CreatedAt       time.Time
	ReadAt          *time.Time
}

// IsRead reports whether the recipient has read the notification.
func (n NotificationRecord) IsRead() bool {
	return n.ReadAt != nil
}

// NotificationQuery configures one inbox listing.
type NotificationQuery struct {
	RecipientID string
	PageSize    int
	PageToken   string
	UnreadOnly  bool
	Filter      filter.SQLCondition
}

// NotificationPage stores a paged inbox listing result.
type NotificationPage struct {
	Notifications []NotificationRecord
	NextPageToken string
}

// MessageStore persists chat messages and their per-user read/delete sets.
type MessageStore interface {
	InsertMessage(ctx context.Context, record MessageRecord) (InsertResult, error)
	FindMessages(ctx context.Context, query MessageQuery) ([]MessageRecord, error)
	AddReadBy(ctx context.Context, clubID string, messageIDs []string, userID string) (int, error)
	MarkClubRead(ctx context.Context, clubID string, userID string) (int, error)
	AddDeletedFor(ctx context.Context, dedupeKey string, userID string) error
	CountUnread(ctx context.Context, clubID string, userID string) (int, error)
	CountUnreadByClubs(ctx context.Context, userID string, clubIDs []string) (map[string]int, error)
}

// NotificationStore persists recipient notifications.
type NotificationStore interface {
	BulkInsertNotifications(ctx context.Context, records []NotificationRecord) error
	CountUnreadNotifications(ctx context.Context, recipientID string) (int, error)
	MarkAllNotificationsRead(ctx context.Context, recipientID string, readAt time.Time) (int, error)
	DeleteNotification(ctx context.Context, recipientID string, notificationID string) error
	DeleteAllNotifications(ctx context.Context, recipientID string) (int, error)
	ListNotifications(ctx context.Context, query NotificationQuery) (NotificationPage, error)
}

// ClubStore mirrors durable club membership owned by the club service.
type ClubStore interface {
	IsMember(ctx context.Context, clubID string, userID string) (bool, error)
	MembersOf(ctx context.Context, clubID string) ([]string, error)
	ClubName(ctx context.Context, clubID string) (string, error)
	PutClub(ctx context.Context, clubID string, name string) error
	PutClubMember(ctx context.Context, clubID string, userID string) error
	RemoveClubMember(ctx context.Context, clubID string, userID string) error
}
