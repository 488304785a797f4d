package core

import "github.com/rs/zerolog"

// DefaultSendBuffer is the per-connection outbound queue size used when none is configured.
const DefaultSendBuffer = 32

// Hub wires the registry and dispatcher together and hands out sessions.
type Hub struct {
	verifier   Verifier
	registry   *Registry
	dispatcher *Dispatcher
	log        *zerolog.Logger
	sendBuffer int
}

// NewHub creates a chat hub. sendBuffer bounds each connection's outbound queue.
func NewHub(verifier Verifier, messages MessageStore, members MembershipOracle, logger *zerolog.Logger, sendBuffer int) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if sendBuffer <= 0 {
		sendBuffer = DefaultSendBuffer
	}
	registry := NewRegistry()
	return &Hub{
		verifier:   verifier,
		registry:   registry,
		dispatcher: NewDispatcher(messages, members, registry, logger),
		log:        logger,
		sendBuffer: sendBuffer,
	}
}

// NewSession starts an unauthenticated session with a fresh connection.
func (h *Hub) NewSession() *Session {
	return &Session{
		conn:       NewConn(h.sendBuffer),
		verifier:   h.verifier,
		registry:   h.registry,
		dispatcher: h.dispatcher,
		log:        h.log,
	}
}

// Registry exposes the connection registry.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Dispatcher exposes the message dispatcher.
func (h *Hub) Dispatcher() *Dispatcher {
	return h.dispatcher
}

// Kick disconnects userID if they are online.
func (h *Hub) Kick(userID int64) bool {
	kicked := h.registry.Kick(userID)
	if kicked {
		h.log.Info().Int64("user_id", userID).Msg("user kicked")
	}
	return kicked
}

// Online returns the number of connected users.
func (h *Hub) Online() int {
	return h.registry.Len()
}
