package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vovakirdan/shinehub-server/internal/store"
)

const messageColumns = `m.id, m.sender_id, COALESCE(u.name, ''), m.type, m.receiver_id,
	m.group_id, m.content, m.image_url, m.created_at`

func scanMessage(row rowScanner) (*store.Message, error) {
	var (
		msg        store.Message
		kind       string
		receiverID sql.NullInt64
		groupID    sql.NullInt64
		content    sql.NullString
		imageURL   sql.NullString
	)
	err := row.Scan(
		&msg.ID,
		&msg.SenderID,
		&msg.SenderName,
		&kind,
		&receiverID,
		&groupID,
		&content,
		&imageURL,
		&msg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	msg.Kind = store.MessageKind(kind)
	msg.ReceiverID = nullInt64Ptr(receiverID)
	msg.GroupID = nullInt64Ptr(groupID)
	msg.Content = nullStringPtr(content)
	msg.ImageURL = nullStringPtr(imageURL)
	return &msg, nil
}

func scanMessages(rows *sql.Rows) ([]*store.Message, error) {
	defer rows.Close()

	messages := make([]*store.Message, 0)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// InsertMessage persists msg and fills ID, CreatedAt and SenderName.
// A missing sender, receiver or group surfaces as store.ErrNotFound.
func (s *SQLiteStore) InsertMessage(ctx context.Context, msg *store.Message) error {
	createdAt := time.Now().UTC()

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO messages (sender_id, receiver_id, group_id, content, image_url, type, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`
		result, err := tx.ExecContext(ctx, query,
			msg.SenderID, msg.ReceiverID, msg.GroupID, msg.Content, msg.ImageURL, string(msg.Kind), createdAt)
		if err != nil {
			return fmt.Errorf("insert message: %w", mapConstraintErr(err))
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("get last insert id: %w", err)
		}

		var senderName string
		if err := tx.QueryRowContext(ctx, `SELECT name FROM users WHERE id = ?`, msg.SenderID).Scan(&senderName); err != nil {
			return notFound("sender", err)
		}

		msg.ID = id
		msg.SenderName = senderName
		return nil
	})
	if err != nil {
		return err
	}

	msg.CreatedAt = createdAt
	return nil
}

// GetMessage retrieves a message by ID.
func (s *SQLiteStore) GetMessage(ctx context.Context, id int64) (*store.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages m LEFT JOIN users u ON u.id = m.sender_id WHERE m.id = ?`
	msg, err := scanMessage(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound("message", err)
	}
	return msg, nil
}

// ListPrivateMessages returns the conversation between two users, oldest first.
func (s *SQLiteStore) ListPrivateMessages(ctx context.Context, userID, otherID int64) ([]*store.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages m
		LEFT JOIN users u ON u.id = m.sender_id
		WHERE m.type = 'private'
		  AND ((m.sender_id = ? AND m.receiver_id = ?) OR (m.sender_id = ? AND m.receiver_id = ?))
		ORDER BY m.created_at ASC, m.id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID, otherID, otherID, userID)
	if err != nil {
		return nil, fmt.Errorf("query private messages: %w", err)
	}
	return scanMessages(rows)
}

// ListGroupMessages returns a group's history, oldest first.
func (s *SQLiteStore) ListGroupMessages(ctx context.Context, groupID int64) ([]*store.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages m
		LEFT JOIN users u ON u.id = m.sender_id
		WHERE m.group_id = ?
		ORDER BY m.created_at ASC, m.id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("query group messages: %w", err)
	}
	return scanMessages(rows)
}
