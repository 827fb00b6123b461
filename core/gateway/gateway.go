// Package gateway defines the messaging transport boundary. The conversation
// core depends only on these types; concrete transports live in subpackages.
package gateway

import (
	"context"
	"time"
)

// ChatID is the opaque stable identifier of a conversation partner.
type ChatID string

// MessageID is the opaque identifier a transport assigns to an outbound message.
type MessageID string

func (c ChatID) String() string    { return string(c) }
func (m MessageID) String() string { return string(m) }

// Media is a downloaded or to-be-sent attachment.
type Media struct {
	Data     []byte
	MimeType string
	FileName string
}

// Message is the inbound message shape consumed by the core.
type Message struct {
	ID        MessageID
	Chat      ChatID
	Sender    ChatID
	Text      string
	Timestamp time.Time
	HasMedia  bool

	// MediaRef is a transport-private handle used by DownloadMedia.
	MediaRef any
}

// Reaction is an emoji reaction placed on a previously sent message.
type Reaction struct {
	TargetMessageID MessageID
	Sender          ChatID
	Glyph           string
}

// MessageHandler consumes inbound messages.
type MessageHandler func(ctx context.Context, msg Message)

// ReactionHandler consumes inbound reactions.
type ReactionHandler func(ctx context.Context, r Reaction)

// Gateway abstracts the messaging transport.
type Gateway interface {
	// SendText delivers plain text and returns the transport-assigned message id.
	SendText(ctx context.Context, chat ChatID, text string) (MessageID, error)
	// SendMedia delivers text with an attachment and returns the message id.
	SendMedia(ctx context.Context, chat ChatID, text string, media Media) (MessageID, error)
	// DownloadMedia fetches the attachment carried by an inbound message.
	DownloadMedia(ctx context.Context, msg Message) (Media, error)

	// OnMessage registers the inbound message handler. Must be called before Connect.
	OnMessage(h MessageHandler)
	// OnReaction registers the inbound reaction handler. Must be called before Connect.
	OnReaction(h ReactionHandler)
}
