package notices

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vovakirdan/shinehub-server/internal/store"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNoticeNotFound = errors.New("notice not found")
)

// NoticeInput is a new notice board post.
type NoticeInput struct {
	Title   string `validate:"required,max=200"`
	Content string `validate:"required,max=10000"`
}

// CommentInput is a new comment on a notice.
type CommentInput struct {
	Content string `validate:"required,max=2000"`
}

// Service runs the notice board.
type Service struct {
	store    store.NoticeStore
	validate *validator.Validate
}

// New creates a notice board service.
func New(st store.NoticeStore) *Service {
	return &Service{store: st, validate: validator.New()}
}

// Post publishes a notice. Callers must have checked that adminID is an admin.
func (s *Service) Post(ctx context.Context, adminID int64, in NoticeInput) (*store.Notice, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	notice, err := s.store.CreateNotice(ctx, adminID, in.Title, in.Content)
	if err != nil {
		return nil, fmt.Errorf("create notice: %w", err)
	}
	return notice, nil
}

// List returns all notices, newest first.
func (s *Service) List(ctx context.Context) ([]*store.Notice, error) {
	notices, err := s.store.ListNotices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notices: %w", err)
	}
	return notices, nil
}

// Comment adds userID's comment to a notice.
func (s *Service) Comment(ctx context.Context, noticeID, userID int64, in CommentInput) (*store.NoticeComment, error) {
	in.Content = strings.TrimSpace(in.Content)
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	comment, err := s.store.CreateNoticeComment(ctx, noticeID, userID, in.Content)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoticeNotFound
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// Comments lists a notice's comments, oldest first.
func (s *Service) Comments(ctx context.Context, noticeID int64) ([]*store.NoticeComment, error) {
	if _, err := s.store.GetNotice(ctx, noticeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoticeNotFound
		}
		return nil, fmt.Errorf("get notice: %w", err)
	}

	comments, err := s.store.ListNoticeComments(ctx, noticeID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}
