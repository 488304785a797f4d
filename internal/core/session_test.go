package core

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vovakirdan/shinehub-server/internal/core/mocks"
	"github.com/vovakirdan/shinehub-server/internal/store"
)

var testUsers = map[string]Identity{
	"token-alice": {ID: 1, Username: "alice", Role: RoleUser},
	"token-bob":   {ID: 2, Username: "bob", Role: RoleUser},
}

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	return NewHub(tokenVerifier(testUsers), &memoryMessages{}, staticMembers{}, nil, 8)
}

func TestSessionSendBeforeAuthIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	messages := mocks.NewMockMessageStore(ctrl)
	members := mocks.NewMockMembershipOracle(ctrl)
	hub := NewHub(tokenVerifier(testUsers), messages, members, nil, 8)

	bob := hub.NewSession()
	require.NoError(t, bob.Handle(context.Background(), Command{Kind: CommandAuth, Token: "token-bob"}))

	anon := hub.NewSession()
	err := anon.Handle(context.Background(), Command{
		Kind:  CommandSend,
		Draft: Draft{Kind: store.MessageKindPrivate, ReceiverID: idPtr(2), Text: strPtr("hi")},
	})
	require.ErrorIs(t, err, ErrNotAuthenticated)
	require.Equal(t, StateUnauthenticated, anon.State())
	require.False(t, anon.Conn().Closed())
	require.Empty(t, drain(bob.Conn()))
}

func TestSessionAuthFailureAllowsRetry(t *testing.T) {
	hub := newTestHub(t)
	s := hub.NewSession()
	ctx := context.Background()

	require.Error(t, s.Handle(ctx, Command{Kind: CommandAuth, Token: "forged"}))
	require.Equal(t, StateUnauthenticated, s.State())
	require.Zero(t, hub.Online())
	require.False(t, s.Conn().Closed())

	require.NoError(t, s.Handle(ctx, Command{Kind: CommandAuth, Token: "token-alice"}))
	require.Equal(t, StateAuthenticated, s.State())

	id, ok := s.Identity()
	require.True(t, ok)
	require.EqualValues(t, 1, id.ID)

	conn, ok := hub.Registry().Get(1)
	require.True(t, ok)
	require.Same(t, s.Conn(), conn)
}

func TestSessionIgnoresSecondAuth(t *testing.T) {
	var calls atomic.Int32
	verifier := VerifierFunc(func(ctx context.Context, token string) (Identity, error) {
		calls.Add(1)
		return tokenVerifier(testUsers).Verify(ctx, token)
	})
	hub := NewHub(verifier, &memoryMessages{}, staticMembers{}, nil, 8)
	s := hub.NewSession()
	ctx := context.Background()

	require.NoError(t, s.Handle(ctx, Command{Kind: CommandAuth, Token: "token-alice"}))
	require.ErrorIs(t, s.Handle(ctx, Command{Kind: CommandAuth, Token: "token-bob"}), ErrAlreadyAuthenticated)

	id, _ := s.Identity()
	require.Equal(t, "alice", id.Username)
	require.EqualValues(t, 1, calls.Load())
	_, bobOnline := hub.Registry().Get(2)
	require.False(t, bobOnline)
}

func TestSessionDirectMessageRoundTrip(t *testing.T) {
	hub := newTestHub(t)
	ctx := context.Background()

	a := hub.NewSession()
	b := hub.NewSession()
	require.NoError(t, a.Handle(ctx, Command{Kind: CommandAuth, Token: "token-alice"}))
	require.NoError(t, b.Handle(ctx, Command{Kind: CommandAuth, Token: "token-bob"}))

	require.NoError(t, a.Handle(ctx, Command{
		Kind:  CommandSend,
		Draft: Draft{Kind: store.MessageKindPrivate, ReceiverID: idPtr(2), Text: strPtr("hey")},
	}))

	toBob := mustEvent(t, b.Conn())
	echo := mustEvent(t, a.Conn())
	require.Same(t, toBob, echo)
	require.EqualValues(t, 1, toBob.Message.SenderID)
	require.Equal(t, "hey", *toBob.Message.Content)
}

func TestSessionDuplicateLoginReplacesOlderSession(t *testing.T) {
	hub := newTestHub(t)
	ctx := context.Background()

	older := hub.NewSession()
	newer := hub.NewSession()
	require.NoError(t, older.Handle(ctx, Command{Kind: CommandAuth, Token: "token-alice"}))
	require.NoError(t, newer.Handle(ctx, Command{Kind: CommandAuth, Token: "token-alice"}))

	require.True(t, older.Conn().Closed())
	require.Equal(t, CloseReplaced, older.Conn().Reason())

	// The replaced session tears down after the newer one registered.
	older.Close()

	conn, ok := hub.Registry().Get(1)
	require.True(t, ok)
	require.Same(t, newer.Conn(), conn)
	require.False(t, newer.Conn().Closed())
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	hub := newTestHub(t)
	ctx := context.Background()

	s := hub.NewSession()
	require.NoError(t, s.Handle(ctx, Command{Kind: CommandAuth, Token: "token-alice"}))
	other := hub.NewSession()
	require.NoError(t, other.Handle(ctx, Command{Kind: CommandAuth, Token: "token-bob"}))

	s.Close()
	afterOnce := hub.Online()
	s.Close()

	require.Equal(t, afterOnce, hub.Online())
	require.Equal(t, 1, hub.Online())
	require.Equal(t, StateClosed, s.State())
	require.True(t, s.Conn().Closed())
	require.Equal(t, CloseNormal, s.Conn().Reason())

	require.ErrorIs(t, s.Handle(ctx, Command{Kind: CommandAuth, Token: "token-alice"}), ErrSessionClosed)
	_, ok := hub.Registry().Get(1)
	require.False(t, ok)
}

func TestSessionCloseUnauthenticated(t *testing.T) {
	hub := newTestHub(t)

	s := hub.NewSession()
	s.Close()
	s.Close()

	require.Equal(t, StateClosed, s.State())
	require.True(t, s.Conn().Closed())
	require.Zero(t, hub.Online())
}

func TestHubKick(t *testing.T) {
	hub := newTestHub(t)

	s := hub.NewSession()
	require.NoError(t, s.Handle(context.Background(), Command{Kind: CommandAuth, Token: "token-bob"}))

	require.True(t, hub.Kick(2))
	require.Equal(t, CloseKicked, s.Conn().Reason())
	require.False(t, hub.Kick(2))

	s.Close()
	require.Equal(t, CloseKicked, s.Conn().Reason())
}

func TestSessionKickDuringVerifyRejectsAuth(t *testing.T) {
	var hub *Hub
	verifier := VerifierFunc(func(ctx context.Context, token string) (Identity, error) {
		id, err := tokenVerifier(testUsers).Verify(ctx, token)
		// The ban commits and kicks while this verification is in flight.
		hub.Kick(id.ID)
		return id, err
	})
	hub = NewHub(verifier, &memoryMessages{}, staticMembers{}, nil, 8)

	s := hub.NewSession()
	err := s.Handle(context.Background(), Command{Kind: CommandAuth, Token: "token-alice"})
	require.ErrorIs(t, err, ErrKicked)
	require.Equal(t, StateUnauthenticated, s.State())
	require.Zero(t, hub.Online())
	require.False(t, s.Conn().Closed())
}

func TestSessionKickBeforeAuthDoesNotBlockLaterLogin(t *testing.T) {
	hub := newTestHub(t)
	require.False(t, hub.Kick(1))

	s := hub.NewSession()
	require.NoError(t, s.Handle(context.Background(), Command{Kind: CommandAuth, Token: "token-alice"}))
	require.Equal(t, 1, hub.Online())
}
