package core

import (
	"fmt"

	"github.com/vovakirdan/shinehub-server/internal/store"
)

// Draft is a message composed by a client that has not been stored yet.
type Draft struct {
	Kind       store.MessageKind
	ReceiverID *int64
	GroupID    *int64
	Text       *string
	ImageURL   *string
}

// Validate checks that exactly one target matching Kind is set and that
// the draft carries text, an image or both.
func (d Draft) Validate() error {
	switch d.Kind {
	case store.MessageKindPrivate:
		if !validID(d.ReceiverID) || d.GroupID != nil {
			return fmt.Errorf("%w: private message needs exactly a receiver", ErrInvalidDraft)
		}
	case store.MessageKindGroup:
		if !validID(d.GroupID) || d.ReceiverID != nil {
			return fmt.Errorf("%w: group message needs exactly a group", ErrInvalidDraft)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidDraft, d.Kind)
	}

	if !nonEmpty(d.Text) && !nonEmpty(d.ImageURL) {
		return fmt.Errorf("%w: empty body", ErrInvalidDraft)
	}
	return nil
}

func (d Draft) message(senderID int64) *store.Message {
	msg := &store.Message{
		SenderID:   senderID,
		Kind:       d.Kind,
		ReceiverID: d.ReceiverID,
		GroupID:    d.GroupID,
	}
	if nonEmpty(d.Text) {
		msg.Content = d.Text
	}
	if nonEmpty(d.ImageURL) {
		msg.ImageURL = d.ImageURL
	}
	return msg
}

func validID(id *int64) bool {
	return id != nil && *id > 0
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}
