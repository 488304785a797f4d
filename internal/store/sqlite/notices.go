package sqlite

import (
	"context"
	"fmt"

	"github.com/vovakirdan/shinehub-server/internal/store"
)

// CreateNotice posts a notice on behalf of an admin.
func (s *SQLiteStore) CreateNotice(ctx context.Context, adminID int64, title, content string) (*store.Notice, error) {
	query := `INSERT INTO notices (title, content, admin_id) VALUES (?, ?, ?)`
	result, err := s.db.ExecContext(ctx, query, title, content, adminID)
	if err != nil {
		return nil, fmt.Errorf("insert notice: %w", mapConstraintErr(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.GetNotice(ctx, id)
}

// GetNotice retrieves a notice by ID.
func (s *SQLiteStore) GetNotice(ctx context.Context, id int64) (*store.Notice, error) {
	query := `
		SELECT n.id, n.title, n.content, n.admin_id, u.name, n.created_at
		FROM notices n
		JOIN users u ON n.admin_id = u.id
		WHERE n.id = ?
	`
	var n store.Notice
	err := s.db.QueryRowContext(ctx, query, id).Scan(&n.ID, &n.Title, &n.Content, &n.AdminID, &n.AdminName, &n.CreatedAt)
	if err != nil {
		return nil, notFound("notice", err)
	}
	return &n, nil
}

// ListNotices returns notices, newest first.
func (s *SQLiteStore) ListNotices(ctx context.Context) ([]*store.Notice, error) {
	query := `
		SELECT n.id, n.title, n.content, n.admin_id, u.name, n.created_at
		FROM notices n
		JOIN users u ON n.admin_id = u.id
		ORDER BY n.created_at DESC, n.id DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query notices: %w", err)
	}
	defer rows.Close()

	notices := make([]*store.Notice, 0)
	for rows.Next() {
		var n store.Notice
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.AdminID, &n.AdminName, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notice: %w", err)
		}
		notices = append(notices, &n)
	}
	return notices, rows.Err()
}

// CreateNoticeComment adds a comment to a notice.
func (s *SQLiteStore) CreateNoticeComment(ctx context.Context, noticeID, userID int64, content string) (*store.NoticeComment, error) {
	query := `INSERT INTO notice_comments (notice_id, user_id, content) VALUES (?, ?, ?)`
	result, err := s.db.ExecContext(ctx, query, noticeID, userID, content)
	if err != nil {
		return nil, fmt.Errorf("insert notice comment: %w", mapConstraintErr(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	var c store.NoticeComment
	err = s.db.QueryRowContext(ctx, `
		SELECT nc.id, nc.notice_id, nc.user_id, u.name, nc.content, nc.created_at
		FROM notice_comments nc
		JOIN users u ON nc.user_id = u.id
		WHERE nc.id = ?
	`, id).Scan(&c.ID, &c.NoticeID, &c.UserID, &c.UserName, &c.Content, &c.CreatedAt)
	if err != nil {
		return nil, notFound("notice comment", err)
	}
	return &c, nil
}

// ListNoticeComments returns a notice's comments, oldest first.
func (s *SQLiteStore) ListNoticeComments(ctx context.Context, noticeID int64) ([]*store.NoticeComment, error) {
	query := `
		SELECT nc.id, nc.notice_id, nc.user_id, u.name, nc.content, nc.created_at
		FROM notice_comments nc
		JOIN users u ON nc.user_id = u.id
		WHERE nc.notice_id = ?
		ORDER BY nc.created_at ASC, nc.id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, noticeID)
	if err != nil {
		return nil, fmt.Errorf("query notice comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*store.NoticeComment, 0)
	for rows.Next() {
		var c store.NoticeComment
		if err := rows.Scan(&c.ID, &c.NoticeID, &c.UserID, &c.UserName, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notice comment: %w", err)
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}
