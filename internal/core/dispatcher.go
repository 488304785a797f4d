package core

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/vovakirdan/shinehub-server/internal/store"
)

// Dispatcher persists drafts and fans the stored message out to the live
// connections of its recipients.
type Dispatcher struct {
	messages MessageStore
	members  MembershipOracle
	registry *Registry
	log      *zerolog.Logger
}

// NewDispatcher creates a dispatcher over the given collaborators.
func NewDispatcher(messages MessageStore, members MembershipOracle, registry *Registry, logger *zerolog.Logger) *Dispatcher {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Dispatcher{
		messages: messages,
		members:  members,
		registry: registry,
		log:      logger,
	}
}

// Dispatch validates draft, stores it and pushes the stored message to every
// online recipient. Nothing is pushed unless the message was stored. A failed
// push to one recipient does not affect the others.
func (d *Dispatcher) Dispatch(ctx context.Context, sender Identity, draft Draft) (*store.Message, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	msg := draft.message(sender.ID)
	if err := d.messages.InsertMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	recipients, err := d.recipients(ctx, msg)
	if err != nil {
		return msg, err
	}

	ev := &Event{Kind: EventNewMessage, Message: msg}
	delivered := 0
	for _, conn := range d.registry.GetMany(recipients) {
		if err := conn.Push(ev); err != nil {
			d.log.Debug().Err(err).
				Int64("message_id", msg.ID).
				Int64("user_id", conn.UserID()).
				Msg("push failed")
			continue
		}
		delivered++
	}

	d.log.Debug().
		Int64("message_id", msg.ID).
		Int64("sender_id", sender.ID).
		Str("kind", string(msg.Kind)).
		Int("recipients", len(recipients)).
		Int("delivered", delivered).
		Msg("message dispatched")
	return msg, nil
}

// recipients resolves who should receive msg. Private messages go to the
// receiver and back to the sender; group messages go to whoever is a member
// right now.
func (d *Dispatcher) recipients(ctx context.Context, msg *store.Message) ([]int64, error) {
	switch msg.Kind {
	case store.MessageKindPrivate:
		return lo.Uniq([]int64{*msg.ReceiverID, msg.SenderID}), nil
	case store.MessageKindGroup:
		members, err := d.members.ListGroupMembers(ctx, *msg.GroupID)
		if err != nil {
			return nil, fmt.Errorf("%w: group %d: %w", ErrRecipients, *msg.GroupID, err)
		}
		return lo.Uniq(members), nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidDraft, msg.Kind)
	}
}
