package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// SessionState is the lifecycle position of a session.
type SessionState int

const (
	StateUnauthenticated SessionState = iota
	StateAuthenticated
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "closed"
	}
}

// Session drives one physical connection from open to teardown. Commands
// must be handed to Handle in arrival order by a single reader goroutine;
// Close may be called from anywhere and any number of times.
type Session struct {
	conn       *Conn
	verifier   Verifier
	registry   *Registry
	dispatcher *Dispatcher
	log        *zerolog.Logger

	mu       sync.Mutex
	state    SessionState
	identity Identity

	closeOnce sync.Once
}

// Conn returns the outbound side of the session.
func (s *Session) Conn() *Conn {
	return s.conn
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Identity returns the bound user once the session has authenticated.
func (s *Session) Identity() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity, s.state == StateAuthenticated
}

// Handle processes one inbound command. Errors are informational: the
// session stays usable whatever Handle returns.
func (s *Session) Handle(ctx context.Context, cmd Command) error {
	switch cmd.Kind {
	case CommandAuth:
		return s.authenticate(ctx, cmd.Token)
	case CommandSend:
		return s.send(ctx, cmd.Draft)
	default:
		return fmt.Errorf("unknown command kind %d", cmd.Kind)
	}
}

func (s *Session) authenticate(ctx context.Context, token string) error {
	switch s.State() {
	case StateAuthenticated:
		return ErrAlreadyAuthenticated
	case StateClosed:
		return ErrSessionClosed
	}

	mark := s.registry.mark()
	identity, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateUnauthenticated {
		return ErrSessionClosed
	}
	if !s.registry.registerSince(identity.ID, s.conn, mark) {
		return ErrKicked
	}
	s.identity = identity
	s.state = StateAuthenticated

	s.log.Debug().Int64("user_id", identity.ID).Str("username", identity.Username).Msg("session authenticated")
	return nil
}

func (s *Session) send(ctx context.Context, draft Draft) error {
	sender, ok := s.Identity()
	if !ok {
		return ErrNotAuthenticated
	}
	_, err := s.dispatcher.Dispatch(ctx, sender, draft)
	return err
}

// Close tears the session down: it unregisters the connection if it was
// registered and closes it. Only the first call does anything.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		if s.state == StateAuthenticated {
			s.registry.Unregister(s.identity.ID, s.conn)
		}
		s.state = StateClosed
		s.mu.Unlock()

		s.conn.Close(CloseNormal)
	})
}
