package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vovakirdan/shinehub-server/internal/store"
)

// Follow creates an edge follower -> following.
func (s *SQLiteStore) Follow(ctx context.Context, followerID, followingID int64) error {
	query := `INSERT INTO follows (follower_id, following_id) VALUES (?, ?)`
	if _, err := s.db.ExecContext(ctx, query, followerID, followingID); err != nil {
		return fmt.Errorf("insert follow: %w", mapConstraintErr(err))
	}
	return nil
}

// Unfollow removes the edge if present.
func (s *SQLiteStore) Unfollow(ctx context.Context, followerID, followingID int64) error {
	query := `DELETE FROM follows WHERE follower_id = ? AND following_id = ?`
	if _, err := s.db.ExecContext(ctx, query, followerID, followingID); err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	return nil
}

// IsFollowing reports whether followerID follows followingID.
func (s *SQLiteStore) IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error) {
	query := `SELECT 1 FROM follows WHERE follower_id = ? AND following_id = ?`
	var exists int
	err := s.db.QueryRowContext(ctx, query, followerID, followingID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("query follow: %w", err)
	}
	return true, nil
}

// ListFollowing returns the users followerID follows.
func (s *SQLiteStore) ListFollowing(ctx context.Context, followerID int64) ([]*store.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		JOIN follows f ON u.id = f.following_id
		WHERE f.follower_id = ?
		ORDER BY u.name, u.id
	`
	rows, err := s.db.QueryContext(ctx, query, followerID)
	if err != nil {
		return nil, fmt.Errorf("query following: %w", err)
	}
	return scanUsers(rows)
}
