package core

import "github.com/vovakirdan/shinehub-server/internal/store"

// EventKind is a notification the core pushes to connections.
type EventKind int

const (
	// EventNewMessage delivers a freshly persisted message.
	EventNewMessage EventKind = iota
)

// Event is sent to connections to describe what happened in the system.
// A single Event value is shared by every recipient of a fan-out and must
// not be mutated after it is pushed.
type Event struct {
	Kind    EventKind
	Message *store.Message
}
