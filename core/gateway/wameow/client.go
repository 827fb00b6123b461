// Package wameow implements the gateway contract on top of whatsmeow, the
// multi-device WhatsApp Web client library.
package wameow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mdp/qrterminal/v3"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"

	_ "github.com/lib/pq" // postgres driver for the device credential store

	"github.com/feldmaus/wabot/core/gateway"
	"github.com/feldmaus/wabot/core/logger"
)

// Client wraps a whatsmeow client behind the gateway.Gateway interface.
type Client struct {
	wa *whatsmeow.Client

	onMessage  gateway.MessageHandler
	onReaction gateway.ReactionHandler
}

var _ gateway.Gateway = (*Client)(nil)

// New opens the device credential store on postgres, loads (or prepares to
// pair) the first device and builds a disconnected client. Call Connect to
// go online.
func New(ctx context.Context, deviceStoreDSN string) (*Client, error) {
	container, err := sqlstore.New(ctx, "postgres", deviceStoreDSN, newWALogger("store"))
	if err != nil {
		return nil, fmt.Errorf("open device store: %w", err)
	}
	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("load device: %w", err)
	}

	c := &Client{wa: whatsmeow.NewClient(device, newWALogger("client"))}
	c.wa.AddEventHandler(c.handleEvent)
	return c, nil
}

// OnMessage implements gateway.Gateway.
func (c *Client) OnMessage(h gateway.MessageHandler) { c.onMessage = h }

// OnReaction implements gateway.Gateway.
func (c *Client) OnReaction(h gateway.ReactionHandler) { c.onReaction = h }

// Connect brings the client online. On a fresh device store it prints a
// pairing QR code to stdout and blocks until the phone scans it or the code
// channel closes.
func (c *Client) Connect(ctx context.Context) error {
	if c.wa.Store.ID != nil {
		return c.wa.Connect()
	}

	qrChan, err := c.wa.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("qr channel: %w", err)
	}
	if err := c.wa.Connect(); err != nil {
		return err
	}
	for evt := range qrChan {
		switch evt.Event {
		case "code":
			logger.Info(ctx, "gateway", "pairing.qr")
			qrterminal.GenerateHalfBlock(evt.Code, qrterminal.L, os.Stdout)
		case "success":
			logger.Info(ctx, "gateway", "pairing.success")
			return nil
		default:
			logger.Warn(ctx, "gateway", "pairing.event",
				slog.String("kind", evt.Event),
			)
		}
	}
	return errors.New("pairing aborted before success")
}

// Disconnect closes the websocket. The device store stays valid for the next
// start.
func (c *Client) Disconnect() {
	c.wa.Disconnect()
}

// SendText implements gateway.Gateway.
func (c *Client) SendText(ctx context.Context, chat gateway.ChatID, text string) (gateway.MessageID, error) {
	jid, err := types.ParseJID(chat.String())
	if err != nil {
		return "", fmt.Errorf("parse jid %q: %w", chat, err)
	}
	resp, err := c.wa.SendMessage(ctx, jid, &waE2E.Message{Conversation: proto.String(text)})
	if err != nil {
		return "", err
	}
	return gateway.MessageID(resp.ID), nil
}

// SendMedia uploads the attachment to WhatsApp media servers and sends it as
// an image message with the given caption.
func (c *Client) SendMedia(ctx context.Context, chat gateway.ChatID, text string, media gateway.Media) (gateway.MessageID, error) {
	jid, err := types.ParseJID(chat.String())
	if err != nil {
		return "", fmt.Errorf("parse jid %q: %w", chat, err)
	}
	up, err := c.wa.Upload(ctx, media.Data, whatsmeow.MediaImage)
	if err != nil {
		return "", fmt.Errorf("upload media: %w", err)
	}
	img := &waE2E.ImageMessage{
		Caption:       proto.String(text),
		Mimetype:      proto.String(media.MimeType),
		URL:           &up.URL,
		DirectPath:    &up.DirectPath,
		MediaKey:      up.MediaKey,
		FileEncSHA256: up.FileEncSHA256,
		FileSHA256:    up.FileSHA256,
		FileLength:    &up.FileLength,
	}
	resp, err := c.wa.SendMessage(ctx, jid, &waE2E.Message{ImageMessage: img})
	if err != nil {
		return "", err
	}
	return gateway.MessageID(resp.ID), nil
}

// DownloadMedia implements gateway.Gateway.
func (c *Client) DownloadMedia(ctx context.Context, msg gateway.Message) (gateway.Media, error) {
	img, ok := msg.MediaRef.(*waE2E.ImageMessage)
	if !ok || img == nil {
		return gateway.Media{}, errors.New("message carries no downloadable image")
	}
	data, err := c.wa.Download(ctx, img)
	if err != nil {
		return gateway.Media{}, err
	}
	return gateway.Media{Data: data, MimeType: img.GetMimetype()}, nil
}

func (c *Client) handleEvent(evt interface{}) {
	switch v := evt.(type) {
	case *events.Message:
		c.dispatchMessage(v)
	case *events.Connected:
		logger.Info(logger.Background(), "gateway", "connected")
	case *events.Disconnected:
		logger.Warn(logger.Background(), "gateway", "disconnected")
	case *events.LoggedOut:
		logger.Error(logger.Background(), "gateway", "logged_out",
			slog.String("reason", v.Reason.String()),
		)
	}
}

// dispatchMessage converts a raw whatsmeow message event into either a
// reaction or a message for the registered handlers. Message kinds the bot
// has no use for (stickers, documents, calls) are dropped silently.
func (c *Client) dispatchMessage(v *events.Message) {
	if v.Info.IsFromMe || v.Message == nil {
		return
	}
	ctx := logger.Background()

	if reaction := v.Message.GetReactionMessage(); reaction != nil {
		if c.onReaction == nil {
			return
		}
		c.onReaction(ctx, gateway.Reaction{
			TargetMessageID: gateway.MessageID(reaction.GetKey().GetID()),
			Sender:          chatID(v.Info.Sender),
			Glyph:           reaction.GetText(),
		})
		return
	}

	if c.onMessage == nil {
		return
	}
	out := gateway.Message{
		ID:        gateway.MessageID(v.Info.ID),
		Chat:      chatID(v.Info.Chat),
		Sender:    chatID(v.Info.Sender),
		Timestamp: v.Info.Timestamp,
	}
	switch {
	case v.Message.GetConversation() != "":
		out.Text = v.Message.GetConversation()
	case v.Message.GetExtendedTextMessage().GetText() != "":
		out.Text = v.Message.GetExtendedTextMessage().GetText()
	case v.Message.GetImageMessage() != nil:
		img := v.Message.GetImageMessage()
		out.Text = img.GetCaption()
		out.HasMedia = true
		out.MediaRef = img
	default:
		return
	}
	c.onMessage(ctx, out)
}

// chatID normalizes a JID to its non-agent/device form so the same user maps
// to the same key regardless of which device sent the message.
func chatID(j types.JID) gateway.ChatID {
	return gateway.ChatID(j.ToNonAD().String())
}
