package proto

import "time"

const (
	InboundTypeAuth    = "auth"
	InboundTypeMessage = "message"

	OutboundTypeNewMessage = "new_message"

	MessageTypePrivate = "private"
	MessageTypeGroup   = "group"
)

// Websocket close codes sent when the server ends a session.
const (
	CloseCodeReplaced = 4000
	CloseCodeKicked   = 4001
)

// Inbound is a frame coming from the client. Which fields are meaningful
// depends on Type.
type Inbound struct {
	Type string `json:"type"`

	// auth
	Token string `json:"token,omitempty"`

	// message
	MessageType string  `json:"messageType,omitempty"`
	ReceiverID  *int64  `json:"receiverId,omitempty"`
	GroupID     *int64  `json:"groupId,omitempty"`
	Content     *string `json:"content,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

// Outbound is a frame sent to the client.
type Outbound struct {
	Type    string   `json:"type"`
	Message *Message `json:"message,omitempty"`
}

// Message is a stored chat message as clients see it. Absent ids and
// bodies are encoded as null.
type Message struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID *int64    `json:"receiver_id"`
	GroupID    *int64    `json:"group_id"`
	Content    *string   `json:"content"`
	ImageURL   *string   `json:"image_url"`
	Type       string    `json:"type"`
	CreatedAt  time.Time `json:"created_at"`
	SenderName string    `json:"sender_name"`
}
