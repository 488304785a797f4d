package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vovakirdan/shinehub-server/internal/store"
)

const groupColumns = `g.id, g.name, g.photo_url, g.admin_id, g.created_at`

func scanGroup(row rowScanner) (*store.Group, error) {
	var (
		group   store.Group
		photo   sql.NullString
		adminID sql.NullInt64
	)
	if err := row.Scan(&group.ID, &group.Name, &photo, &adminID, &group.CreatedAt); err != nil {
		return nil, err
	}
	group.PhotoURL = nullStringPtr(photo)
	group.AdminID = nullInt64Ptr(adminID)
	return &group, nil
}

// CreateGroup creates a group with adminID as group admin and memberIDs as members.
// The whole group is rolled back if any member does not exist.
func (s *SQLiteStore) CreateGroup(ctx context.Context, name string, adminID int64, memberIDs []int64) (*store.Group, error) {
	var groupID int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `INSERT INTO groups (name, admin_id) VALUES (?, ?)`, name, adminID)
		if err != nil {
			return fmt.Errorf("insert group: %w", mapConstraintErr(err))
		}
		groupID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("get last insert id: %w", err)
		}

		memberQuery := `INSERT OR IGNORE INTO group_members (group_id, user_id, role) VALUES (?, ?, ?)`
		if _, err := tx.ExecContext(ctx, memberQuery, groupID, adminID, string(store.GroupRoleAdmin)); err != nil {
			return fmt.Errorf("add group admin: %w", mapConstraintErr(err))
		}
		for _, memberID := range memberIDs {
			if _, err := tx.ExecContext(ctx, memberQuery, groupID, memberID, string(store.GroupRoleMember)); err != nil {
				return fmt.Errorf("add group member %d: %w", memberID, mapConstraintErr(err))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetGroup(ctx, groupID)
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, id int64) (*store.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups g WHERE g.id = ?`
	group, err := scanGroup(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound("group", err)
	}
	return group, nil
}

// ListGroupsForUser lists the groups a user belongs to.
func (s *SQLiteStore) ListGroupsForUser(ctx context.Context, userID int64) ([]*store.Group, error) {
	query := `
		SELECT ` + groupColumns + `
		FROM groups g
		JOIN group_members gm ON g.id = gm.group_id
		WHERE gm.user_id = ?
		ORDER BY g.id
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query groups: %w", err)
	}
	defer rows.Close()

	groups := make([]*store.Group, 0)
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}

// AddGroupMember adds a member; a no-op if already present.
func (s *SQLiteStore) AddGroupMember(ctx context.Context, groupID, userID int64, role store.GroupRole) error {
	query := `INSERT OR IGNORE INTO group_members (group_id, user_id, role) VALUES (?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, groupID, userID, string(role)); err != nil {
		return fmt.Errorf("insert group member: %w", mapConstraintErr(err))
	}
	return nil
}

// RemoveGroupMember removes a member if present.
func (s *SQLiteStore) RemoveGroupMember(ctx context.Context, groupID, userID int64) error {
	query := `DELETE FROM group_members WHERE group_id = ? AND user_id = ?`
	if _, err := s.db.ExecContext(ctx, query, groupID, userID); err != nil {
		return fmt.Errorf("delete group member: %w", err)
	}
	return nil
}

// IsGroupMember checks whether userID belongs to groupID.
func (s *SQLiteStore) IsGroupMember(ctx context.Context, groupID, userID int64) (bool, error) {
	query := `SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?`
	var exists int
	err := s.db.QueryRowContext(ctx, query, groupID, userID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("query membership: %w", err)
	}
	return true, nil
}

// ListGroupMembers returns the current member ids, empty if the group is absent.
func (s *SQLiteStore) ListGroupMembers(ctx context.Context, groupID int64) ([]int64, error) {
	query := `SELECT user_id FROM group_members WHERE group_id = ? ORDER BY user_id`
	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	members := make([]int64, 0)
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, userID)
	}
	return members, rows.Err()
}
