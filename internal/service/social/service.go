package social

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/vovakirdan/shinehub-server/internal/store"
)

// SuggestionLimit caps how many users Suggested returns.
const SuggestionLimit = 10

// Common errors for social operations.
var (
	ErrCannotFollowSelf = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following")
	ErrUserNotFound     = errors.New("user not found")
	ErrGroupNotFound    = errors.New("group not found")
	ErrNotGroupMember   = errors.New("not a group member")
	ErrInvalidGroupName = errors.New("group name is required")
)

// Store is the persistence the social service needs.
type Store interface {
	store.UserStore
	store.FollowStore
	store.GroupStore
	store.MessageStore
}

// Service provides the follow graph, groups and conversation history.
type Service struct {
	store Store
}

// New creates a new social service.
func New(st Store) *Service {
	return &Service{store: st}
}

// Follow makes userID follow targetID.
func (s *Service) Follow(ctx context.Context, userID, targetID int64) error {
	if userID == targetID {
		return ErrCannotFollowSelf
	}

	err := s.store.Follow(ctx, userID, targetID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrConflict):
		return ErrAlreadyFollowing
	case errors.Is(err, store.ErrNotFound):
		return ErrUserNotFound
	default:
		return fmt.Errorf("follow: %w", err)
	}
}

// Unfollow removes the follow edge if there is one.
func (s *Service) Unfollow(ctx context.Context, userID, targetID int64) error {
	if err := s.store.Unfollow(ctx, userID, targetID); err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}
	return nil
}

// Friends lists the users userID follows.
func (s *Service) Friends(ctx context.Context, userID int64) ([]*store.User, error) {
	users, err := s.store.ListFollowing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return users, nil
}

// Suggested lists users userID might want to follow, classmates first.
func (s *Service) Suggested(ctx context.Context, userID int64) ([]*store.User, error) {
	users, err := s.store.SuggestUsers(ctx, userID, SuggestionLimit)
	if err != nil {
		return nil, fmt.Errorf("suggest users: %w", err)
	}
	return users, nil
}

// CreateGroup creates a group owned by adminID. The admin is always a member;
// duplicate and self ids in memberIDs are ignored.
func (s *Service) CreateGroup(ctx context.Context, adminID int64, name string, memberIDs []int64) (*store.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidGroupName
	}

	members := lo.Without(lo.Uniq(memberIDs), adminID)
	group, err := s.store.CreateGroup(ctx, name, adminID, members)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("create group: %w", err)
	}
	return group, nil
}

// Groups lists the groups userID belongs to.
func (s *Service) Groups(ctx context.Context, userID int64) ([]*store.Group, error) {
	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// PrivateHistory returns the conversation between userID and otherID, oldest first.
func (s *Service) PrivateHistory(ctx context.Context, userID, otherID int64) ([]*store.Message, error) {
	msgs, err := s.store.ListPrivateMessages(ctx, userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("list private messages: %w", err)
	}
	return msgs, nil
}

// GroupHistory returns a group's messages, oldest first. Only members may read it.
func (s *Service) GroupHistory(ctx context.Context, userID, groupID int64) ([]*store.Message, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("get group: %w", err)
	}

	ok, err := s.store.IsGroupMember(ctx, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if !ok {
		return nil, ErrNotGroupMember
	}

	msgs, err := s.store.ListGroupMessages(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list group messages: %w", err)
	}
	return msgs, nil
}
