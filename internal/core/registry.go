package core

import "sync"

// Registry maps each online user to their single live connection.
type Registry struct {
	mu    sync.Mutex
	conns map[int64]*Conn

	// kicks counts Kick calls; kickedAt holds the count at each user's last kick.
	kicks    uint64
	kickedAt map[int64]uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		conns:    make(map[int64]*Conn),
		kickedAt: make(map[int64]uint64),
	}
}

// Register makes conn the live connection for userID. A previously
// registered connection is closed with CloseReplaced.
func (r *Registry) Register(userID int64, conn *Conn) {
	r.register(userID, conn, 0, false)
}

// mark returns the current position in the kick history, to be passed to
// registerSince later.
func (r *Registry) mark() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.kicks
}

// registerSince is Register, refused when userID was kicked after mark.
func (r *Registry) registerSince(userID int64, conn *Conn, mark uint64) bool {
	return r.register(userID, conn, mark, true)
}

func (r *Registry) register(userID int64, conn *Conn, mark uint64, checkKicks bool) bool {
	r.mu.Lock()
	if checkKicks && r.kickedAt[userID] > mark {
		r.mu.Unlock()
		return false
	}
	conn.userID.Store(userID)
	prev := r.conns[userID]
	r.conns[userID] = conn
	r.mu.Unlock()

	if prev != nil && prev != conn {
		prev.Close(CloseReplaced)
	}
	return true
}

// Unregister removes userID only while conn is still the registered connection,
// so a stale teardown cannot evict a newer session. It reports whether an
// entry was removed.
func (r *Registry) Unregister(userID int64, conn *Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.conns[userID]; !ok || cur != conn {
		return false
	}
	delete(r.conns, userID)
	return true
}

// Get returns the live connection for userID.
func (r *Registry) Get(userID int64) (*Conn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.conns[userID]
	return conn, ok
}

// GetMany returns the live connections for userIDs in the order given,
// skipping users that are offline.
func (r *Registry) GetMany(userIDs []int64) []*Conn {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns := make([]*Conn, 0, len(userIDs))
	for _, id := range userIDs {
		if conn, ok := r.conns[id]; ok {
			conns = append(conns, conn)
		}
	}
	return conns
}

// Kick removes and closes the connection for userID with CloseKicked. It is
// recorded even when userID is offline so that authentications already in
// flight for the user are refused.
func (r *Registry) Kick(userID int64) bool {
	r.mu.Lock()
	r.kicks++
	r.kickedAt[userID] = r.kicks
	conn, ok := r.conns[userID]
	if ok {
		delete(r.conns, userID)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	conn.Close(CloseKicked)
	return true
}

// Len returns the number of online users.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}
