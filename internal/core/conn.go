package core

import (
	"sync"
	"sync/atomic"
)

// CloseReason tells the transport why a connection was closed from the server side.
type CloseReason int

const (
	// CloseNormal is used when the session itself tears down.
	CloseNormal CloseReason = iota
	// CloseReplaced is used when a newer session authenticated as the same user.
	CloseReplaced
	// CloseKicked is used when moderation removed the user.
	CloseKicked
)

func (r CloseReason) String() string {
	switch r {
	case CloseReplaced:
		return "session replaced"
	case CloseKicked:
		return "kicked"
	default:
		return "closed"
	}
}

// Conn is the outbound side of one live connection. Pushes never block:
// the transport drains Events and stops once Done is closed.
type Conn struct {
	userID atomic.Int64
	events chan *Event
	done   chan struct{}

	mu     sync.Mutex
	closed bool
	reason CloseReason
}

// NewConn creates a connection with room for buffer pending events.
func NewConn(buffer int) *Conn {
	if buffer <= 0 {
		buffer = 1
	}
	return &Conn{
		events: make(chan *Event, buffer),
		done:   make(chan struct{}),
	}
}

// UserID returns the user the connection is registered for, or 0.
func (c *Conn) UserID() int64 {
	return c.userID.Load()
}

// Push queues ev for delivery.
func (c *Conn) Push(ev *Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.events <- ev:
		return nil
	default:
		return ErrSlowConsumer
	}
}

// Events returns the queue the transport writer drains.
func (c *Conn) Events() <-chan *Event {
	return c.events
}

// Done is closed once the connection is closed.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Close marks the connection closed. Only the first call has an effect;
// it reports whether this call closed the connection.
func (c *Conn) Close(reason CloseReason) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	c.closed = true
	c.reason = reason
	close(c.done)
	return true
}

// Closed reports whether Close has been called.
func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Reason returns why the connection was closed.
func (c *Conn) Reason() CloseReason {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reason
}
