package core

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vovakirdan/shinehub-server/internal/store"
)

// memoryMessages assigns sequential ids without touching a database.
type memoryMessages struct {
	next atomic.Int64
}

func (m *memoryMessages) InsertMessage(_ context.Context, msg *store.Message) error {
	msg.ID = m.next.Add(1)
	msg.CreatedAt = time.Now().UTC()
	msg.SenderName = "sender"
	return nil
}

type staticMembers map[int64][]int64

func (s staticMembers) ListGroupMembers(_ context.Context, groupID int64) ([]int64, error) {
	return s[groupID], nil
}

func online(reg *Registry, userID int64) *Conn {
	conn := NewConn(8)
	reg.Register(userID, conn)
	return conn
}

// drain returns every event currently queued on conn.
func drain(conn *Conn) []*Event {
	var out []*Event
	for {
		select {
		case ev := <-conn.Events():
			out = append(out, ev)
		default:
			return out
		}
	}
}

func mustEvent(t *testing.T, conn *Conn) *Event {
	t.Helper()

	select {
	case ev := <-conn.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("expected event for user %d not received", conn.UserID())
		return nil
	}
}

func idPtr(id int64) *int64   { return &id }
func strPtr(s string) *string { return &s }

func tokenVerifier(users map[string]Identity) Verifier {
	return VerifierFunc(func(_ context.Context, token string) (Identity, error) {
		id, ok := users[token]
		if !ok {
			return Identity{}, errors.New("bad token")
		}
		return id, nil
	})
}
