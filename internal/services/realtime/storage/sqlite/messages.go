package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/clubhouse/internal/services/realtime/storage"
)

// unreadPredicate is the single definition of "unread for a viewer": sent by
// someone else, not read by the viewer, not deleted for the viewer. Binds
// the viewer ID three times.
const unreadPredicate = `m.sender_id != ?
  AND NOT EXISTS (SELECT 1 FROM message_reads r WHERE r.message_id = m.id AND r.user_id = ?)
  AND NOT EXISTS (SELECT 1 FROM message_deletions d WHERE d.message_id = m.id AND d.user_id = ?)`

// maxIDsPerQuery keeps batched IN lists well under SQLite's variable limit.
const maxIDsPerQuery = 500

// InsertMessage stores a new message. A dedupe key that already belongs to
// the same sender and club updates the stored body instead of inserting.
func (s *Store) InsertMessage(ctx context.Context, record storage.MessageRecord) (storage.InsertResult, error) {
	if err := s.ready(ctx); err != nil {
		return storage.InsertResult{}, err
	}
	record.ID = strings.TrimSpace(record.ID)
	record.SenderID = strings.TrimSpace(record.SenderID)
	record.ClubID = strings.TrimSpace(record.ClubID)
	record.DedupeKey = strings.TrimSpace(record.DedupeKey)
	if record.ID == "" || record.SenderID == "" || record.ClubID == "" || record.DedupeKey == "" {
		return storage.InsertResult{}, fmt.Errorf("message id, sender id, club id, and dedupe key are required")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.clock()
	}
	record.CreatedAt = record.CreatedAt.UTC()

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO messages (id, club_id, sender_id, body, dedupe_key, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.ClubID,
		record.SenderID,
		record.Body,
		record.DedupeKey,
		toMillis(record.CreatedAt),
		toMillis(record.CreatedAt),
	)
	if err == nil {
		record.ReadBy = nil
		record.DeletedFor = nil
		return storage.InsertResult{Message: record}, nil
	}
	if !isUniqueConstraintError(err) {
		return storage.InsertResult{}, fmt.Errorf("insert message: %w", err)
	}

	existing, err := s.messageByDedupeKey(ctx, record.DedupeKey)
	if errors.Is(err, storage.ErrNotFound) {
		// The collision was on the message ID, not the dedupe key.
		return storage.InsertResult{}, storage.ErrConflict
	}
	if err != nil {
		return storage.InsertResult{}, err
	}
	if existing.SenderID != record.SenderID || existing.ClubID != record.ClubID {
		return storage.InsertResult{}, storage.ErrConflict
	}
	if existing.Body != record.Body {
		if _, err := s.sqlDB.ExecContext(ctx,
			`UPDATE messages SET body = ?, updated_at = ? WHERE id = ?`,
			record.Body, toMillis(s.clock()), existing.ID,
		); err != nil {
			return storage.InsertResult{}, fmt.Errorf("update message body: %w", err)
		}
		existing.Body = record.Body
	}
	return storage.InsertResult{Message: existing, Duplicate: true}, nil
}

// FindMessages returns the room view for the viewer in ascending creation
// order, with read and delete sets attached.
func (s *Store) FindMessages(ctx context.Context, query storage.MessageQuery) ([]storage.MessageRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	clubID := strings.TrimSpace(query.ClubID)
	if clubID == "" {
		return nil, fmt.Errorf("club id is required")
	}
	limit := query.Limit
	if limit <= 0 {
		// SQLite treats a negative LIMIT as unbounded.
		limit = -1
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT m.id, m.club_id, m.sender_id, m.body, m.dedupe_key, m.created_at
FROM messages m
WHERE m.club_id = ?
  AND NOT EXISTS (SELECT 1 FROM message_deletions d WHERE d.message_id = m.id AND d.user_id = ?)
ORDER BY m.created_at DESC, m.rowid DESC
LIMIT ?`,
		clubID, strings.TrimSpace(query.ViewerID), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []storage.MessageRecord
	for rows.Next() {
		message, err := scanMessage(rows.Scan)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	if len(messages) == 0 {
		return nil, nil
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	ids := make([]string, len(messages))
	index := make(map[string]int, len(messages))
	for i, message := range messages {
		ids[i] = message.ID
		index[message.ID] = i
	}
	if err := s.attachUserSets(ctx, "message_reads", ids, index, func(i int, userID string) {
		messages[i].ReadBy = append(messages[i].ReadBy, userID)
	}); err != nil {
		return nil, err
	}
	if err := s.attachUserSets(ctx, "message_deletions", ids, index, func(i int, userID string) {
		messages[i].DeletedFor = append(messages[i].DeletedFor, userID)
	}); err != nil {
		return nil, err
	}
	return messages, nil
}

// attachUserSets loads table rows for the given message ids only.
func (s *Store) attachUserSets(ctx context.Context, table string, ids []string, index map[string]int, add func(int, string)) error {
	for start := 0; start < len(ids); start += maxIDsPerQuery {
		chunk := ids[start:min(start+maxIDsPerQuery, len(ids))]
		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}
		rows, err := s.sqlDB.QueryContext(ctx, `
SELECT x.message_id, x.user_id
FROM `+table+` x
WHERE x.message_id IN (`+placeholders(len(chunk))+`)
ORDER BY x.rowid`, args...)
		if err != nil {
			return fmt.Errorf("query %s: %w", table, err)
		}
		for rows.Next() {
			var messageID, userID string
			if err := rows.Scan(&messageID, &userID); err != nil {
				rows.Close()
				return fmt.Errorf("scan %s: %w", table, err)
			}
			if i, ok := index[messageID]; ok {
				add(i, userID)
			}
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return fmt.Errorf("iterate %s: %w", table, err)
		}
	}
	return nil
}

// AddReadBy adds userID to the read set of each listed club message that is
// unread for userID and returns how many messages were newly marked. Ids
// from other clubs are ignored.
func (s *Store) AddReadBy(ctx context.Context, clubID string, messageIDs []string, userID string) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	clubID = strings.TrimSpace(clubID)
	userID = strings.TrimSpace(userID)
	if clubID == "" || userID == "" {
		return 0, fmt.Errorf("club id and user id are required")
	}
	ids := uniqueTrimmed(messageIDs)
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin read tx: %w", err)
	}
	rollbackWith := func(cause error) error {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w: rollback: %v", cause, rollbackErr)
		}
		return cause
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT OR IGNORE INTO message_reads (message_id, user_id, read_at)
SELECT m.id, ?, ? FROM messages m WHERE m.id = ? AND m.club_id = ? AND `+unreadPredicate)
	if err != nil {
		return 0, rollbackWith(fmt.Errorf("prepare read insert: %w", err))
	}
	defer stmt.Close()

	readAt := toMillis(s.clock())
	marked := 0
	for _, id := range ids {
		result, err := stmt.ExecContext(ctx, userID, readAt, id, clubID, userID, userID, userID)
		if err != nil {
			return 0, rollbackWith(fmt.Errorf("mark message %s read: %w", id, err))
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, rollbackWith(fmt.Errorf("read rows affected: %w", err))
		}
		marked += int(affected)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit read tx: %w", err)
	}
	return marked, nil
}

// MarkClubRead adds userID to the read set of every message in the club
// that is unread for userID, in one statement. It returns how many messages
// were newly marked.
func (s *Store) MarkClubRead(ctx context.Context, clubID string, userID string) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	clubID = strings.TrimSpace(clubID)
	userID = strings.TrimSpace(userID)
	if clubID == "" || userID == "" {
		return 0, fmt.Errorf("club id and user id are required")
	}
	result, err := s.sqlDB.ExecContext(ctx, `
INSERT OR IGNORE INTO message_reads (message_id, user_id, read_at)
SELECT m.id, ?, ? FROM messages m WHERE m.club_id = ? AND `+unreadPredicate,
		userID, toMillis(s.clock()), clubID, userID, userID, userID,
	)
	if err != nil {
		return 0, fmt.Errorf("mark club read: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read rows affected: %w", err)
	}
	return int(affected), nil
}

// AddDeletedFor hides the message identified by dedupeKey from userID.
func (s *Store) AddDeletedFor(ctx context.Context, dedupeKey string, userID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	dedupeKey = strings.TrimSpace(dedupeKey)
	userID = strings.TrimSpace(userID)
	if dedupeKey == "" || userID == "" {
		return fmt.Errorf("dedupe key and user id are required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO message_deletions (message_id, user_id, deleted_at)
SELECT id, ?, ? FROM messages WHERE dedupe_key = ?`,
		userID, toMillis(s.clock()), dedupeKey,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return storage.ErrAlreadyDone
		}
		return fmt.Errorf("delete message for user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CountUnread returns the unread count of one room for userID.
func (s *Store) CountUnread(ctx context.Context, clubID string, userID string) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	clubID = strings.TrimSpace(clubID)
	userID = strings.TrimSpace(userID)
	if clubID == "" || userID == "" {
		return 0, fmt.Errorf("club id and user id are required")
	}
	var count int
	if err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM messages m WHERE m.club_id = ? AND `+unreadPredicate,
		clubID, userID, userID, userID,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}

// CountUnreadByClubs returns unread counts for every requested club. Clubs
// without unread messages map to zero.
func (s *Store) CountUnreadByClubs(ctx context.Context, userID string, clubIDs []string) (map[string]int, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	ids := uniqueTrimmed(clubIDs)
	counts := make(map[string]int, len(ids))
	for _, id := range ids {
		counts[id] = 0
	}

	for start := 0; start < len(ids); start += maxIDsPerQuery {
		end := min(start+maxIDsPerQuery, len(ids))
		chunk := ids[start:end]
		args := make([]any, 0, len(chunk)+3)
		for _, id := range chunk {
			args = append(args, id)
		}
		args = append(args, userID, userID, userID)

		rows, err := s.sqlDB.QueryContext(ctx, `
SELECT m.club_id, COUNT(1)
FROM messages m
WHERE m.club_id IN (`+placeholders(len(chunk))+`) AND `+unreadPredicate+`
GROUP BY m.club_id`, args...)
		if err != nil {
			return nil, fmt.Errorf("count unread by clubs: %w", err)
		}
		for rows.Next() {
			var clubID string
			var count int
			if err := rows.Scan(&clubID, &count); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan unread count: %w", err)
			}
			counts[clubID] = count
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("iterate unread counts: %w", err)
		}
	}
	return counts, nil
}

func (s *Store) messageByDedupeKey(ctx context.Context, dedupeKey string) (storage.MessageRecord, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, club_id, sender_id, body, dedupe_key, created_at
FROM messages WHERE dedupe_key = ?`, dedupeKey)
	message, err := scanMessage(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.MessageRecord{}, storage.ErrNotFound
	}
	return message, err
}

func scanMessage(scan scanner) (storage.MessageRecord, error) {
	var (
		message   storage.MessageRecord
		createdAt int64
	)
	if err := scan(
		&message.ID,
		&message.ClubID,
		&message.SenderID,
		&message.Body,
		&message.DedupeKey,
		&createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.MessageRecord{}, err
		}
		return storage.MessageRecord{}, fmt.Errorf("scan message: %w", err)
	}
	message.CreatedAt = fromMillis(createdAt)
	return message, nil
}
