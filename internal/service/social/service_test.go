package social

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/shinehub-server/internal/store"
	"github.com/vovakirdan/shinehub-server/internal/store/sqlite"
)

func newTestService(t *testing.T) (*Service, *sqlite.SQLiteStore) {
	t.Helper()

	st, err := sqlite.NewWithSetup(":memory:", sqlite.Migrate)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return New(st), st
}

func seed(t *testing.T, st *sqlite.SQLiteStore, username, class, section string) *store.User {
	t.Helper()

	u, err := st.CreateUser(context.Background(), store.NewUser{
		Name: username, Class: class, Section: section, Username: username, PasswordHash: "x",
	})
	require.NoError(t, err)
	return u
}

func TestFollow(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	alice := seed(t, st, "alice", "10", "A")
	bob := seed(t, st, "bob", "10", "A")

	require.ErrorIs(t, svc.Follow(ctx, alice.ID, alice.ID), ErrCannotFollowSelf)
	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))
	require.ErrorIs(t, svc.Follow(ctx, alice.ID, bob.ID), ErrAlreadyFollowing)
	require.ErrorIs(t, svc.Follow(ctx, alice.ID, 999), ErrUserNotFound)

	friends, err := svc.Friends(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)

	suggested, err := svc.Suggested(ctx, alice.ID)
	require.NoError(t, err)
	require.Empty(t, suggested)

	require.NoError(t, svc.Unfollow(ctx, alice.ID, bob.ID))
	require.NoError(t, svc.Unfollow(ctx, alice.ID, bob.ID))

	suggested, err = svc.Suggested(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, suggested, 1)
}

func TestCreateGroup(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	alice := seed(t, st, "alice", "10", "A")
	bob := seed(t, st, "bob", "10", "A")

	_, err := svc.CreateGroup(ctx, alice.ID, "  ", nil)
	require.ErrorIs(t, err, ErrInvalidGroupName)

	_, err = svc.CreateGroup(ctx, alice.ID, "ghosts", []int64{404})
	require.ErrorIs(t, err, ErrUserNotFound)

	group, err := svc.CreateGroup(ctx, alice.ID, " study ", []int64{bob.ID, bob.ID, alice.ID})
	require.NoError(t, err)
	require.Equal(t, "study", group.Name)

	members, err := st.ListGroupMembers(ctx, group.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []int64{alice.ID, bob.ID}, members)

	groups, err := svc.Groups(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
}

func TestGroupHistoryRequiresMembership(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	alice := seed(t, st, "alice", "10", "A")
	bob := seed(t, st, "bob", "10", "A")
	eve := seed(t, st, "eve", "9", "C")

	group, err := svc.CreateGroup(ctx, alice.ID, "study", []int64{bob.ID})
	require.NoError(t, err)

	text := "hello"
	require.NoError(t, st.InsertMessage(ctx, &store.Message{
		SenderID: alice.ID, Kind: store.MessageKindGroup, GroupID: &group.ID, Content: &text,
	}))

	history, err := svc.GroupHistory(ctx, bob.ID, group.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "alice", history[0].SenderName)

	_, err = svc.GroupHistory(ctx, eve.ID, group.ID)
	require.ErrorIs(t, err, ErrNotGroupMember)

	_, err = svc.GroupHistory(ctx, bob.ID, 999)
	require.ErrorIs(t, err, ErrGroupNotFound)
}

func TestPrivateHistory(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	alice := seed(t, st, "alice", "10", "A")
	bob := seed(t, st, "bob", "10", "A")

	img := "/uploads/cat.png"
	require.NoError(t, st.InsertMessage(ctx, &store.Message{
		SenderID: bob.ID, Kind: store.MessageKindPrivate, ReceiverID: &alice.ID, ImageURL: &img,
	}))

	history, err := svc.PrivateHistory(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Nil(t, history[0].Content)
	require.Equal(t, img, *history[0].ImageURL)
}
