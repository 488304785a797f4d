package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/shinehub-server/internal/store"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidReport    = errors.New("invalid report")
	ErrCannotTargetSelf = errors.New("cannot moderate yourself")
)

// Kicker disconnects a user's live connection.
type Kicker interface {
	Kick(userID int64) bool
}

// Store is the persistence moderation needs.
type Store interface {
	store.UserStore
	store.ReportStore
}

// Service files reports and applies bans and deletions.
type Service struct {
	store  Store
	kicker Kicker
	log    *zerolog.Logger
}

// New creates a moderation service. kicker may be nil.
func New(st Store, kicker Kicker, logger *zerolog.Logger) *Service {
	return &Service{store: st, kicker: kicker, log: logger}
}

// ReportInput is a user report about another user or one of their messages.
type ReportInput struct {
	ReportedUserID int64
	MessageID      *int64
	Reason         string
}

// Report files a report from reporterID.
func (s *Service) Report(ctx context.Context, reporterID int64, in ReportInput) (*store.Report, error) {
	reason := strings.TrimSpace(in.Reason)
	if in.ReportedUserID <= 0 || reason == "" {
		return nil, ErrInvalidReport
	}
	if in.MessageID != nil && *in.MessageID <= 0 {
		in.MessageID = nil
	}

	report := &store.Report{
		ReporterID:     reporterID,
		ReportedUserID: in.ReportedUserID,
		MessageID:      in.MessageID,
		Reason:         reason,
	}
	if err := s.store.CreateReport(ctx, report); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown user or message", ErrInvalidReport)
		}
		return nil, fmt.Errorf("create report: %w", err)
	}
	return report, nil
}

// Reports lists all reports, newest first.
func (s *Service) Reports(ctx context.Context) ([]*store.Report, error) {
	reports, err := s.store.ListReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// Users lists every account.
func (s *Service) Users(ctx context.Context) ([]*store.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Ban bans userID and drops their live connection.
func (s *Service) Ban(ctx context.Context, adminID, userID int64) error {
	if adminID == userID {
		return ErrCannotTargetSelf
	}
	if err := s.store.BanUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("ban user: %w", err)
	}

	s.kick(userID)
	s.log.Info().Int64("admin_id", adminID).Int64("user_id", userID).Msg("user banned")
	return nil
}

// Delete removes userID with everything they own and drops their live connection.
func (s *Service) Delete(ctx context.Context, adminID, userID int64) error {
	if adminID == userID {
		return ErrCannotTargetSelf
	}
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	s.kick(userID)
	s.log.Info().Int64("admin_id", adminID).Int64("user_id", userID).Msg("user deleted")
	return nil
}

func (s *Service) kick(userID int64) {
	if s.kicker == nil {
		return
	}
	s.kicker.Kick(userID)
}
