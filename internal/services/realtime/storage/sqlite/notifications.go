package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/clubhouse/internal/services/realtime/storage"
)

const notificationColumns = `n.id, n.recipient_id, n.kind, n.club_id, n.entity_id, n.created_at, n.read_at`

// BulkInsertNotifications stores all records in one transaction; either every
// record is persisted or none is.
func (s *Store) BulkInsertNotifications(ctx context.Context, records []storage.NotificationRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin notification tx: %w", err)
	}
	rollbackWith := func(cause error) error {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w: rollback: %v", cause, rollbackErr)
		}
		return cause
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO notifications (id, recipient_id, kind, club_id, entity_id, created_at, read_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return rollbackWith(fmt.Errorf("prepare notification insert: %w", err))
	}
	defer stmt.Close()

	for _, record := range records {
		record.ID = strings.TrimSpace(record.ID)
		record.RecipientID = strings.TrimSpace(record.RecipientID)
		record.ClubID = strings.TrimSpace(record.ClubID)
		if record.ID == "" || record.RecipientID == "" || record.ClubID == "" {
			return rollbackWith(fmt.Errorf("notification id, recipient id, and club id are required"))
		}
		if !record.Kind.Valid() {
			return rollbackWith(fmt.Errorf("invalid notification kind %q", record.Kind))
		}
		createdAt := record.CreatedAt
		if createdAt.IsZero() {
			createdAt = s.clock()
		}
		var readAt sql.NullInt64
		if record.ReadAt != nil {
			readAt = sql.NullInt64{Int64: toMillis(*record.ReadAt), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			record.ID,
			record.RecipientID,
			string(record.Kind),
			record.ClubID,
			strings.TrimSpace(record.RelatedEntityID),
			toMillis(createdAt),
			readAt,
		); err != nil {
			if isUniqueConstraintError(err) {
				return rollbackWith(storage.ErrConflict)
			}
			return rollbackWith(fmt.Errorf("insert notification: %w", err))
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit notification tx: %w", err)
	}
	return nil
}

// CountUnreadNotifications returns the unread inbox count for one recipient.
func (s *Store) CountUnreadNotifications(ctx context.Context, recipientID string) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	recipientID = strings.TrimSpace(recipientID)
	if recipientID == "" {
		return 0, fmt.Errorf("recipient id is required")
	}
	var count int
	if err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM notifications WHERE recipient_id = ? AND read_at IS NULL`,
		recipientID,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// MarkAllNotificationsRead stamps every unread notification of the recipient
// and returns how many changed.
func (s *Store) MarkAllNotificationsRead(ctx context.Context, recipientID string, readAt time.Time) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	recipientID = strings.TrimSpace(recipientID)
	if recipientID == "" {
		return 0, fmt.Errorf("recipient id is required")
	}
	if readAt.IsZero() {
		readAt = s.clock()
	}
	result, err := s.sqlDB.ExecContext(ctx,
		`UPDATE notifications SET read_at = ? WHERE recipient_id = ? AND read_at IS NULL`,
		toMillis(readAt), recipientID,
	)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return rowsAffected(result)
}

// DeleteNotification removes one notification owned by the recipient.
func (s *Store) DeleteNotification(ctx context.Context, recipientID string, notificationID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	recipientID = strings.TrimSpace(recipientID)
	notificationID = strings.TrimSpace(notificationID)
	if recipientID == "" || notificationID == "" {
		return fmt.Errorf("recipient id and notification id are required")
	}
	result, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM notifications WHERE recipient_id = ? AND id = ?`,
		recipientID, notificationID,
	)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	affected, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteAllNotifications clears the recipient's inbox.
func (s *Store) DeleteAllNotifications(ctx context.Context, recipientID string) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	recipientID = strings.TrimSpace(recipientID)
	if recipientID == "" {
		return 0, fmt.Errorf("recipient id is required")
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM notifications WHERE recipient_id = ?`, recipientID)
	if err != nil {
		return 0, fmt.Errorf("delete notifications: %w", err)
	}
	return rowsAffected(result)
}

// ListNotifications returns one newest-first page of the recipient's inbox.
// The page token is the ID of the last notification of the previous page.
func (s *Store) ListNotifications(ctx context.Context, query storage.NotificationQuery) (storage.NotificationPage, error) {
	if err := s.ready(ctx); err != nil {
		return storage.NotificationPage{}, err
	}
	recipientID := strings.TrimSpace(query.RecipientID)
	pageToken := strings.TrimSpace(query.PageToken)
	if recipientID == "" {
		return storage.NotificationPage{}, fmt.Errorf("recipient id is required")
	}
	if query.PageSize <= 0 {
		return storage.NotificationPage{}, fmt.Errorf("page size must be greater than zero")
	}

	where := []string{"n.recipient_id = ?"}
	args := []any{recipientID}
	if query.UnreadOnly {
		where = append(where, "n.read_at IS NULL")
	}
	if !query.Filter.Empty() {
		where = append(where, query.Filter.Clause)
		args = append(args, query.Filter.Params...)
	}
	if pageToken != "" {
		tokenCreatedAt, err := s.notificationCreatedAtByID(ctx, recipientID, pageToken)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return storage.NotificationPage{}, nil
			}
			return storage.NotificationPage{}, err
		}
		where = append(where, "(n.created_at < ? OR (n.created_at = ? AND n.id < ?))")
		args = append(args, toMillis(tokenCreatedAt), toMillis(tokenCreatedAt), pageToken)
	}
	args = append(args, query.PageSize+1)

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT `+notificationColumns+`
FROM notifications n
WHERE `+strings.Join(where, " AND ")+`
ORDER BY n.created_at DESC, n.id DESC
LIMIT ?`, args...)
	if err != nil {
		return storage.NotificationPage{}, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	return collectNotificationPage(rows, query.PageSize)
}

func (s *Store) notificationCreatedAtByID(ctx context.Context, recipientID string, notificationID string) (time.Time, error) {
	var createdAt int64
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT created_at FROM notifications WHERE recipient_id = ? AND id = ?`,
		recipientID, notificationID,
	).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, storage.ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("lookup page token: %w", err)
	}
	return fromMillis(createdAt), nil
}

func collectNotificationPage(rows *sql.Rows, pageSize int) (storage.NotificationPage, error) {
	page := storage.NotificationPage{
		Notifications: make([]storage.NotificationRecord, 0, pageSize),
	}
	for rows.Next() {
		record, err := scanNotification(rows.Scan)
		if err != nil {
			return storage.NotificationPage{}, fmt.Errorf("scan notification row: %w", err)
		}
		page.Notifications = append(page.Notifications, record)
	}
	if err := rows.Err(); err != nil {
		return storage.NotificationPage{}, fmt.Errorf("iterate notification rows: %w", err)
	}
	if len(page.Notifications) > pageSize {
		page.NextPageToken = page.Notifications[pageSize-1].ID
		page.Notifications = page.Notifications[:pageSize]
	}
	return page, nil
}

func scanNotification(scan scanner) (storage.NotificationRecord, error) {
	var (
		record    storage.NotificationRecord
		kind      string
		createdAt int64
		readAt    sql.NullInt64
	)
	if err := scan(
		&record.ID,
		&record.RecipientID,
		&kind,
		&record.ClubID,
		&record.RelatedEntityID,
		&createdAt,
		&readAt,
	); err != nil {
		return storage.NotificationRecord{}, err
	}
	record.Kind = storage.NotificationKind(kind)
	record.CreatedAt = fromMillis(createdAt)
	if readAt.Valid {
		value := fromMillis(readAt.Int64)
		record.ReadAt = &value
	}
	return record, nil
}

func rowsAffected(result sql.Result) (int, error) {
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(affected), nil
}
