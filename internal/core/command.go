package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandAuth presents a bearer credential for the session.
	CommandAuth CommandKind = iota
	// CommandSend submits a message draft for delivery.
	CommandSend
)

// Command represents an action requested by a client.
type Command struct {
	Kind  CommandKind
	Token string
	Draft Draft
}
