package http

import (
	"github.com/samber/lo"

	"github.com/vovakirdan/shinehub-server/internal/core"
	"github.com/vovakirdan/shinehub-server/internal/proto"
	"github.com/vovakirdan/shinehub-server/internal/store"
)

// inboundToCommand maps a client frame to a core command. Frames of unknown
// type are reported as not ok and dropped by the caller.
func inboundToCommand(inbound proto.Inbound) (core.Command, bool) {
	switch inbound.Type {
	case proto.InboundTypeAuth:
		return core.Command{Kind: core.CommandAuth, Token: inbound.Token}, true
	case proto.InboundTypeMessage:
		return core.Command{
			Kind: core.CommandSend,
			Draft: core.Draft{
				Kind:       store.MessageKind(inbound.MessageType),
				ReceiverID: positive(inbound.ReceiverID),
				GroupID:    positive(inbound.GroupID),
				Text:       present(inbound.Content),
				ImageURL:   present(inbound.ImageURL),
			},
		}, true
	default:
		return core.Command{}, false
	}
}

func outboundFromEvent(event *core.Event) (proto.Outbound, bool) {
	switch event.Kind {
	case core.EventNewMessage:
		if event.Message == nil {
			return proto.Outbound{}, false
		}
		msg := messageToProto(event.Message)
		return proto.Outbound{Type: proto.OutboundTypeNewMessage, Message: &msg}, true
	default:
		return proto.Outbound{}, false
	}
}

func messageToProto(m *store.Message) proto.Message {
	return proto.Message{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		GroupID:    m.GroupID,
		Content:    m.Content,
		ImageURL:   m.ImageURL,
		Type:       string(m.Kind),
		CreatedAt:  m.CreatedAt,
		SenderName: m.SenderName,
	}
}

func messagesToProto(msgs []*store.Message) []proto.Message {
	return lo.Map(msgs, func(m *store.Message, _ int) proto.Message {
		return messageToProto(m)
	})
}

// Zero ids and empty strings count as absent.
func positive(id *int64) *int64 {
	if id == nil || *id <= 0 {
		return nil
	}
	return id
}

func present(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
