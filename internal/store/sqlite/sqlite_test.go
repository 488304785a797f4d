package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/shinehub-server/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewWithSetup(":memory:", Migrate)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedUser(t *testing.T, s *SQLiteStore, username, class, section string) *store.User {
	t.Helper()

	u, err := s.CreateUser(context.Background(), store.NewUser{
		Name:         "Name " + username,
		Class:        class,
		Section:      section,
		Username:     username,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return u
}

func strPtr(s string) *string { return &s }
func idPtr(id int64) *int64   { return &id }

func TestCreateUserConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, s, "alice", "10", "A")
	require.Equal(t, store.RoleUser, alice.Role)
	require.False(t, alice.IsBanned)
	require.Nil(t, alice.LastLogin)

	_, err := s.CreateUser(ctx, store.NewUser{Name: "x", Class: "1", Section: "B", Username: "alice", PasswordHash: "h"})
	require.ErrorIs(t, err, store.ErrConflict)

	_, err = s.GetUserByUsername(ctx, "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTouchLastLoginAndBan(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice", "10", "A")

	require.NoError(t, s.TouchLastLogin(ctx, alice.ID))
	require.NoError(t, s.BanUser(ctx, alice.ID))

	got, err := s.GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, got.IsBanned)
	require.NotNil(t, got.LastLogin)

	require.ErrorIs(t, s.BanUser(ctx, 999), store.ErrNotFound)
}

func TestInsertMessageFillsServerFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice", "10", "A")
	bob := seedUser(t, s, "bob", "10", "A")

	msg := &store.Message{
		SenderID:   alice.ID,
		Kind:       store.MessageKindPrivate,
		ReceiverID: idPtr(bob.ID),
		Content:    strPtr("hi"),
	}
	require.NoError(t, s.InsertMessage(ctx, msg))
	require.NotZero(t, msg.ID)
	require.False(t, msg.CreatedAt.IsZero())
	require.Equal(t, "Name alice", msg.SenderName)

	got, err := s.GetMessage(ctx, msg.ID)
	require.NoError(t, err)
	require.Equal(t, "hi", *got.Content)
	require.Nil(t, got.ImageURL)
	require.Nil(t, got.GroupID)
	require.Equal(t, bob.ID, *got.ReceiverID)
}

func TestInsertMessageRejectsUnknownGroup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice", "10", "A")

	msg := &store.Message{
		SenderID: alice.ID,
		Kind:     store.MessageKindGroup,
		GroupID:  idPtr(42),
		ImageURL: strPtr("/uploads/x.png"),
	}
	require.ErrorIs(t, s.InsertMessage(ctx, msg), store.ErrNotFound)
	require.Zero(t, msg.ID)
}

func TestListPrivateMessagesBothDirections(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice", "10", "A")
	bob := seedUser(t, s, "bob", "10", "A")
	carol := seedUser(t, s, "carol", "10", "A")

	send := func(from, to int64, text string) {
		require.NoError(t, s.InsertMessage(ctx, &store.Message{
			SenderID: from, Kind: store.MessageKindPrivate, ReceiverID: idPtr(to), Content: strPtr(text),
		}))
	}
	send(alice.ID, bob.ID, "one")
	send(bob.ID, alice.ID, "two")
	send(alice.ID, carol.ID, "other")

	history, err := s.ListPrivateMessages(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "one", *history[0].Content)
	require.Equal(t, "two", *history[1].Content)
	require.Equal(t, "Name bob", history[1].SenderName)
}

func TestGroupMembership(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice", "10", "A")
	bob := seedUser(t, s, "bob", "10", "A")
	carol := seedUser(t, s, "carol", "10", "A")

	group, err := s.CreateGroup(ctx, "study", alice.ID, []int64{bob.ID, carol.ID, alice.ID})
	require.NoError(t, err)
	require.Equal(t, alice.ID, *group.AdminID)

	members, err := s.ListGroupMembers(ctx, group.ID)
	require.NoError(t, err)
	require.Equal(t, []int64{alice.ID, bob.ID, carol.ID}, members)

	require.NoError(t, s.RemoveGroupMember(ctx, group.ID, bob.ID))
	ok, err := s.IsGroupMember(ctx, group.ID, bob.ID)
	require.NoError(t, err)
	require.False(t, ok)

	absent, err := s.ListGroupMembers(ctx, 999)
	require.NoError(t, err)
	require.Empty(t, absent)

	groups, err := s.ListGroupsForUser(ctx, carol.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
}

func TestCreateGroupRollsBackOnUnknownMember(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice", "10", "A")

	_, err := s.CreateGroup(ctx, "broken", alice.ID, []int64{404})
	require.ErrorIs(t, err, store.ErrNotFound)

	groups, err := s.ListGroupsForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Empty(t, groups)
}

func TestFollowsAndSuggestions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice", "10", "A")
	bob := seedUser(t, s, "bob", "9", "B")
	carol := seedUser(t, s, "carol", "10", "A")
	dave := seedUser(t, s, "dave", "8", "C")

	require.NoError(t, s.Follow(ctx, alice.ID, dave.ID))
	require.ErrorIs(t, s.Follow(ctx, alice.ID, dave.ID), store.ErrConflict)
	require.ErrorIs(t, s.Follow(ctx, alice.ID, 777), store.ErrNotFound)

	following, err := s.ListFollowing(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	require.Equal(t, dave.ID, following[0].ID)

	suggested, err := s.SuggestUsers(ctx, alice.ID, 10)
	require.NoError(t, err)
	require.Len(t, suggested, 2)
	require.Equal(t, carol.ID, suggested[0].ID, "classmates come first")
	require.Equal(t, bob.ID, suggested[1].ID)

	require.NoError(t, s.Unfollow(ctx, alice.ID, dave.ID))
	ok, err := s.IsFollowing(ctx, alice.ID, dave.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDeleteUserCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice", "10", "A")
	bob := seedUser(t, s, "bob", "10", "A")

	group, err := s.CreateGroup(ctx, "g", alice.ID, []int64{bob.ID})
	require.NoError(t, err)
	require.NoError(t, s.Follow(ctx, bob.ID, alice.ID))
	msg := &store.Message{SenderID: alice.ID, Kind: store.MessageKindGroup, GroupID: idPtr(group.ID), Content: strPtr("x")}
	require.NoError(t, s.InsertMessage(ctx, msg))
	require.NoError(t, s.CreateReport(ctx, &store.Report{ReporterID: bob.ID, ReportedUserID: alice.ID, MessageID: &msg.ID, Reason: "spam"}))

	require.NoError(t, s.DeleteUser(ctx, alice.ID))

	members, err := s.ListGroupMembers(ctx, group.ID)
	require.NoError(t, err)
	require.Equal(t, []int64{bob.ID}, members)

	history, err := s.ListGroupMessages(ctx, group.ID)
	require.NoError(t, err)
	require.Empty(t, history)

	reports, err := s.ListReports(ctx)
	require.NoError(t, err)
	require.Empty(t, reports)

	g, err := s.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Nil(t, g.AdminID)

	require.ErrorIs(t, s.DeleteUser(ctx, alice.ID), store.ErrNotFound)
}

func TestNoticesAndComments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	admin := seedUser(t, s, "admin", "staff", "-")
	bob := seedUser(t, s, "bob", "10", "A")

	first, err := s.CreateNotice(ctx, admin.ID, "Exams", "Monday")
	require.NoError(t, err)
	require.Equal(t, "Name admin", first.AdminName)
	second, err := s.CreateNotice(ctx, admin.ID, "Trip", "Friday")
	require.NoError(t, err)

	notices, err := s.ListNotices(ctx)
	require.NoError(t, err)
	require.Len(t, notices, 2)
	require.Equal(t, second.ID, notices[0].ID)

	comment, err := s.CreateNoticeComment(ctx, first.ID, bob.ID, "good luck")
	require.NoError(t, err)
	require.Equal(t, "Name bob", comment.UserName)

	_, err = s.CreateNoticeComment(ctx, 999, bob.ID, "lost")
	require.ErrorIs(t, err, store.ErrNotFound)

	comments, err := s.ListNoticeComments(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
}
