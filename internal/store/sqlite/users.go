package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vovakirdan/shinehub-server/internal/store"
)

const userColumns = `u.id, u.name, u.class, u.section, u.username, u.password,
	u.profile_photo, u.role, u.is_banned, u.last_login, u.created_at`

func scanUser(row rowScanner) (*store.User, error) {
	var (
		user      store.User
		photo     sql.NullString
		role      string
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Class,
		&user.Section,
		&user.Username,
		&user.PasswordHash,
		&photo,
		&role,
		&user.IsBanned,
		&lastLogin,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.ProfilePhoto = nullStringPtr(photo)
	user.Role = store.Role(role)
	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}
	return &user, nil
}

func scanUsers(rows *sql.Rows) ([]*store.User, error) {
	defer rows.Close()

	users := make([]*store.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// CreateUser inserts a user. Returns store.ErrConflict when the username is taken.
func (s *SQLiteStore) CreateUser(ctx context.Context, u store.NewUser) (*store.User, error) {
	query := `
		INSERT INTO users (name, class, section, username, password, role)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	role := u.Role
	if role == "" {
		role = store.RoleUser
	}
	result, err := s.db.ExecContext(ctx, query, u.Name, u.Class, u.Section, u.Username, u.PasswordHash, string(role))
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", mapConstraintErr(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.GetUserByID(ctx, id)
}

// GetUserByID retrieves a user by ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*store.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id = ?`
	user, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound("user", err)
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*store.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.username = ?`
	user, err := scanUser(s.db.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, notFound("user", err)
	}
	return user, nil
}

// TouchLastLogin stamps the user's last login time.
func (s *SQLiteStore) TouchLastLogin(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// ListUsers returns every user ordered by id.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*store.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users u ORDER BY u.id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	return scanUsers(rows)
}

// SuggestUsers returns users the given user does not follow yet, classmates first.
func (s *SQLiteStore) SuggestUsers(ctx context.Context, userID int64, limit int) ([]*store.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u, (SELECT class, section FROM users WHERE id = ?) me
		WHERE u.id != ?
		  AND u.is_banned = 0
		  AND u.id NOT IN (SELECT following_id FROM follows WHERE follower_id = ?)
		ORDER BY (u.class = me.class AND u.section = me.section) DESC, u.created_at DESC, u.id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, userID, userID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query suggested users: %w", err)
	}
	return scanUsers(rows)
}

// BanUser marks a user as banned.
func (s *SQLiteStore) BanUser(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `UPDATE users SET is_banned = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("ban user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user %d: %w", id, store.ErrNotFound)
	}
	return nil
}

// DeleteUser removes a user. Follows, memberships, messages, reports and
// comments go with it through ON DELETE CASCADE.
func (s *SQLiteStore) DeleteUser(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user %d: %w", id, store.ErrNotFound)
	}
	return nil
}
