package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/clubhouse/internal/services/realtime/storage"
)

// IsMember reports whether userID belongs to clubID.
func (s *Store) IsMember(ctx context.Context, clubID string, userID string) (bool, error) {
	if err := s.ready(ctx); err != nil {
		return false, err
	}
	clubID = strings.TrimSpace(clubID)
	userID = strings.TrimSpace(userID)
	if clubID == "" || userID == "" {
		return false, nil
	}
	var found int
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT 1 FROM club_members WHERE club_id = ? AND user_id = ?`,
		clubID, userID,
	).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return true, nil
}

// MembersOf lists the club's members ordered by user ID.
func (s *Store) MembersOf(ctx context.Context, clubID string) ([]string, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return nil, fmt.Errorf("club id is required")
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT user_id FROM club_members WHERE club_id = ? ORDER BY user_id`, clubID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return members, nil
}

// ClubName returns the display name stored for clubID.
func (s *Store) ClubName(ctx context.Context, clubID string) (string, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}
	var name string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT name FROM clubs WHERE id = ?`, strings.TrimSpace(clubID),
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lookup club name: %w", err)
	}
	return name, nil
}

// PutClub creates or renames a club.
func (s *Store) PutClub(ctx context.Context, clubID string, name string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return fmt.Errorf("club id is required")
	}
	now := toMillis(s.clock())
	if _, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO clubs (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at`,
		clubID, strings.TrimSpace(name), now, now,
	); err != nil {
		return fmt.Errorf("put club: %w", err)
	}
	return nil
}

// PutClubMember adds userID to clubID; repeats are no-ops.
func (s *Store) PutClubMember(ctx context.Context, clubID string, userID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	clubID = strings.TrimSpace(clubID)
	userID = strings.TrimSpace(userID)
	if clubID == "" || userID == "" {
		return fmt.Errorf("club id and user id are required")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO club_members (club_id, user_id, joined_at) VALUES (?, ?, ?)
ON CONFLICT (club_id, user_id) DO NOTHING`,
		clubID, userID, toMillis(s.clock()),
	); err != nil {
		return fmt.Errorf("put club member: %w", err)
	}
	return nil
}

// RemoveClubMember removes userID from clubID; removing a non-member is a
// no-op.
func (s *Store) RemoveClubMember(ctx context.Context, clubID string, userID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	clubID = strings.TrimSpace(clubID)
	userID = strings.TrimSpace(userID)
	if clubID == "" || userID == "" {
		return fmt.Errorf("club id and user id are required")
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM club_members WHERE club_id = ? AND user_id = ?`, clubID, userID,
	); err != nil {
		return fmt.Errorf("remove club member: %w", err)
	}
	return nil
}
