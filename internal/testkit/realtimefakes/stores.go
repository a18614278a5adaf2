// Package realtimefakes provides in-memory realtime collaborators for tests.
package realtimefakes

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/clubhouse/internal/services/realtime/storage"
)

// Journal records store writes and emits in call order so tests can assert
// persistence happens before pushes.
type Journal struct {
	mu      sync.Mutex
	entries []string
}

// Record appends one entry.
func (j *Journal) Record(entry string) {
	if j == nil {
		return
	}
	j.mu.Lock()
	j.entries = append(j.entries, entry)
	j.mu.Unlock()
}

// Entries returns a copy of the recorded entries.
func (j *Journal) Entries() []string {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

// MessageStore is an in-memory storage.MessageStore.
type MessageStore struct {
	mu       sync.Mutex
	Messages []storage.MessageRecord
	// Err fails every call when set.
	Err     error
	Journal *Journal
	Inserts int
}

// NewMessageStore returns an empty message store.
func NewMessageStore() *MessageStore {
	return &MessageStore{}
}

func (s *MessageStore) InsertMessage(_ context.Context, record storage.MessageRecord) (storage.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Journal.Record("insert:" + record.DedupeKey)
	if s.Err != nil {
		return storage.InsertResult{}, s.Err
	}
	for i, existing := range s.Messages {
		if existing.DedupeKey != record.DedupeKey {
			continue
		}
		if existing.SenderID != record.SenderID || existing.ClubID != record.ClubID {
			return storage.InsertResult{}, storage.ErrConflict
		}
		s.Messages[i].Body = record.Body
		return storage.InsertResult{Message: cloneMessage(s.Messages[i]), Duplicate: true}, nil
	}
	s.Inserts++
	record.ReadBy = nil
	record.DeletedFor = nil
	s.Messages = append(s.Messages, record)
	return storage.InsertResult{Message: cloneMessage(record)}, nil
}

func (s *MessageStore) FindMessages(_ context.Context, query storage.MessageQuery) ([]storage.MessageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []storage.MessageRecord
	for _, message := range s.Messages {
		if message.ClubID != query.ClubID || contains(message.DeletedFor, query.ViewerID) {
			continue
		}
		out = append(out, cloneMessage(message))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if query.Limit > 0 && len(out) > query.Limit {
		out = out[len(out)-query.Limit:]
	}
	return out, nil
}

func (s *MessageStore) AddReadBy(_ context.Context, clubID string, messageIDs []string, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Journal.Record("read:" + userID)
	if s.Err != nil {
		return 0, s.Err
	}
	marked := 0
	for _, id := range messageIDs {
		for i := range s.Messages {
			if s.Messages[i].ID == id && unreadFor(s.Messages[i], clubID, userID) {
				s.Messages[i].ReadBy = append(s.Messages[i].ReadBy, userID)
				marked++
			}
		}
	}
	return marked, nil
}

func (s *MessageStore) AddDeletedFor(_ context.Context, dedupeKey string, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i := range s.Messages {
		if s.Messages[i].DedupeKey != dedupeKey {
			continue
		}
		if contains(s.Messages[i].DeletedFor, userID) {
			return storage.ErrAlreadyDone
		}
		s.Messages[i].DeletedFor = append(s.Messages[i].DeletedFor, userID)
		return nil
	}
	return storage.ErrNotFound
}

func (s *MessageStore) CountUnread(_ context.Context, clubID string, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return s.countLocked(clubID, userID), nil
}

func (s *MessageStore) CountUnreadByClubs(_ context.Context, userID string, clubIDs []string) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make(map[string]int, len(clubIDs))
	for _, clubID := range clubIDs {
		out[clubID] = s.countLocked(clubID, userID)
	}
	return out, nil
}

func (s *MessageStore) MarkClubRead(_ context.Context, clubID string, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Journal.Record("read:" + userID)
	if s.Err != nil {
		return 0, s.Err
	}
	marked := 0
	for i := range s.Messages {
		if unreadFor(s.Messages[i], clubID, userID) {
			s.Messages[i].ReadBy = append(s.Messages[i].ReadBy, userID)
			marked++
		}
	}
	return marked, nil
}

func (s *MessageStore) countLocked(clubID, userID string) int {
	count := 0
	for _, message := range s.Messages {
		if unreadFor(message, clubID, userID) {
			count++
		}
	}
	return count
}

func unreadFor(message storage.MessageRecord, clubID, userID string) bool {
	return message.ClubID == clubID &&
		message.SenderID != userID &&
		!contains(message.ReadBy, userID) &&
		!contains(message.DeletedFor, userID)
}

// Message returns the stored message with the dedupe key.
func (s *MessageStore) Message(dedupeKey string) (storage.MessageRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, message := range s.Messages {
		if message.DedupeKey == dedupeKey {
			return cloneMessage(message), true
		}
	}
	return storage.MessageRecord{}, false
}

// NotificationStore is an in-memory storage.NotificationStore. The SQL
// filter on list queries is ignored.
type NotificationStore struct {
	mu      sync.Mutex
	Records []storage.NotificationRecord
	Err     error
	Journal *Journal
}

// NewNotificationStore returns an empty notification store.
func NewNotificationStore() *NotificationStore {
	return &NotificationStore{}
}

func (s *NotificationStore) BulkInsertNotifications(_ context.Context, records []storage.NotificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Journal.Record("bulk-insert")
	if s.Err != nil {
		return s.Err
	}
	s.Records = append(s.Records, records...)
	return nil
}

func (s *NotificationStore) CountUnreadNotifications(_ context.Context, recipientID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	count := 0
	for _, record := range s.Records {
		if record.RecipientID == recipientID && !record.IsRead() {
			count++
		}
	}
	return count, nil
}

func (s *NotificationStore) MarkAllNotificationsRead(_ context.Context, recipientID string, readAt time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	marked := 0
	for i := range s.Records {
		if s.Records[i].RecipientID == recipientID && !s.Records[i].IsRead() {
			at := readAt
			s.Records[i].ReadAt = &at
			marked++
		}
	}
	return marked, nil
}

func (s *NotificationStore) DeleteNotification(_ context.Context, recipientID string, notificationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i, record := range s.Records {
		if record.ID == notificationID && record.RecipientID == recipientID {
			s.Records = append(s.Records[:i], s.Records[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *NotificationStore) DeleteAllNotifications(_ context.Context, recipientID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	kept := s.Records[:0]
	deleted := 0
	for _, record := range s.Records {
		if record.RecipientID == recipientID {
			deleted++
			continue
		}
		kept = append(kept, record)
	}
	s.Records = kept
	return deleted, nil
}

func (s *NotificationStore) ListNotifications(_ context.Context, query storage.NotificationQuery) (storage.NotificationPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return storage.NotificationPage{}, s.Err
	}
	var matched []storage.NotificationRecord
	for _, record := range s.Records {
		if record.RecipientID != query.RecipientID || (query.UnreadOnly && record.IsRead()) {
			continue
		}
		matched = append(matched, record)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if query.PageToken != "" {
		for i, record := range matched {
			if record.ID == query.PageToken {
				matched = matched[i+1:]
				break
			}
		}
	}
	page := storage.NotificationPage{Notifications: matched}
	if query.PageSize > 0 && len(matched) > query.PageSize {
		page.Notifications = matched[:query.PageSize]
		page.NextPageToken = matched[query.PageSize-1].ID
	}
	return page, nil
}

// ForRecipient returns the stored records of one recipient.
func (s *NotificationStore) ForRecipient(recipientID string) []storage.NotificationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []storage.NotificationRecord
	for _, record := range s.Records {
		if record.RecipientID == recipientID {
			out = append(out, record)
		}
	}
	return out
}

// ClubStore is an in-memory storage.ClubStore.
type ClubStore struct {
	mu      sync.Mutex
	Names   map[string]string
	Members map[string]map[string]bool
	Err     error
}

// NewClubStore returns a club store seeded with clubID to member lists.
func NewClubStore(members map[string][]string) *ClubStore {
	s := &ClubStore{Names: map[string]string{}, Members: map[string]map[string]bool{}}
	for clubID, users := range members {
		for _, userID := range users {
			_ = s.PutClubMember(context.Background(), clubID, userID)
		}
	}
	return s
}

func (s *ClubStore) IsMember(_ context.Context, clubID string, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	return s.Members[clubID][userID], nil
}

func (s *ClubStore) MembersOf(_ context.Context, clubID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []string
	for userID := range s.Members[clubID] {
		out = append(out, userID)
	}
	sort.Strings(out)
	return out, nil
}

func (s *ClubStore) ClubName(_ context.Context, clubID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	name, ok := s.Names[clubID]
	if !ok {
		return "", storage.ErrNotFound
	}
	return name, nil
}

func (s *ClubStore) PutClub(_ context.Context, clubID string, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Names[clubID] = strings.TrimSpace(name)
	return nil
}

func (s *ClubStore) PutClubMember(_ context.Context, clubID string, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.Members[clubID] == nil {
		s.Members[clubID] = map[string]bool{}
	}
	s.Members[clubID][userID] = true
	return nil
}

func (s *ClubStore) RemoveClubMember(_ context.Context, clubID string, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.Members[clubID], userID)
	return nil
}

func contains(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}

func cloneMessage(message storage.MessageRecord) storage.MessageRecord {
	message.ReadBy = append([]string(nil), message.ReadBy...)
	message.DeletedFor = append([]string(nil), message.DeletedFor...)
	return message
}
