package core

import "errors"

var (
	// ErrInvalidDraft is returned when a draft has the wrong target or no body.
	ErrInvalidDraft = errors.New("invalid message draft")
	// ErrPersistence is returned when the message could not be stored.
	ErrPersistence = errors.New("persist message")
	// ErrRecipients is returned when group membership could not be resolved.
	ErrRecipients = errors.New("resolve recipients")

	// ErrNotAuthenticated is returned for sends on a session that has not authenticated.
	ErrNotAuthenticated = errors.New("session not authenticated")
	// ErrAlreadyAuthenticated is returned for a second auth frame on one session.
	ErrAlreadyAuthenticated = errors.New("session already authenticated")
	// ErrKicked is returned when the user was kicked while their credentials
	// were being verified.
	ErrKicked = errors.New("kicked during authentication")
	// ErrSessionClosed is returned for commands arriving after teardown.
	ErrSessionClosed = errors.New("session closed")

	// ErrConnClosed is returned when pushing to a closed connection.
	ErrConnClosed = errors.New("connection closed")
	// ErrSlowConsumer is returned when a connection's outbound buffer is full.
	ErrSlowConsumer = errors.New("slow consumer")
)
