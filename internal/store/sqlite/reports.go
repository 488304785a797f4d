package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vovakirdan/shinehub-server/internal/store"
)

// CreateReport files a moderation report and fills its ID.
func (s *SQLiteStore) CreateReport(ctx context.Context, r *store.Report) error {
	query := `
		INSERT INTO reports (reporter_id, reported_user_id, message_id, reason)
		VALUES (?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, r.ReporterID, r.ReportedUserID, r.MessageID, r.Reason)
	if err != nil {
		return fmt.Errorf("insert report: %w", mapConstraintErr(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	r.ID = id
	if r.Status == "" {
		r.Status = "pending"
	}
	return nil
}

// ListReports returns all reports, newest first.
func (s *SQLiteStore) ListReports(ctx context.Context) ([]*store.Report, error) {
	query := `
		SELECT id, reporter_id, reported_user_id, message_id, reason, status, created_at
		FROM reports
		ORDER BY id DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	reports := make([]*store.Report, 0)
	for rows.Next() {
		var (
			r         store.Report
			messageID sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.ReporterID, &r.ReportedUserID, &messageID, &r.Reason, &r.Status, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		r.MessageID = nullInt64Ptr(messageID)
		reports = append(reports, &r)
	}
	return reports, rows.Err()
}
