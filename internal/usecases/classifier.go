package usecases

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"
	waProto "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"

	"wavebot/internal/entities"
)

var firstMessageTokenRe = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// Classifier normalizes one raw message event into an InboundMessage with
// its derived signals. Classification never fails; anything malformed or out
// of scope is reported as a skip.
type Classifier struct {
	queueKeyword string
	log          *slog.Logger
}

func NewClassifier(queueKeyword string, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{
		queueKeyword: queueKeyword,
		log:          logger.With("component", "classifier"),
	}
}

// Classify returns the normalized message and true, or a zero value and
// false when the event must be ignored.
func (c *Classifier) Classify(evt *events.Message) (entities.InboundMessage, bool) {
	// Ignore notifications and messages sent by the bot itself.
	if evt == nil || evt.Message == nil || evt.Info.IsFromMe {
		return entities.InboundMessage{}, false
	}

	// Group flows are out of scope; direct one-to-one only.
	if evt.Info.IsGroup {
		return entities.InboundMessage{}, false
	}

	jid := senderJID(evt)
	text := extractText(evt.Message)
	if text == "" {
		c.log.Debug("ignoring message without text content", "sender", jid.String())
		return entities.InboundMessage{}, false
	}

	token := ""
	if m := firstMessageTokenRe.FindString(text); m != "" {
		if id, err := uuid.Parse(strings.ToLower(m)); err == nil {
			token = id.String()
		}
	}

	return entities.InboundMessage{
		SenderJID:         jid.String(),
		Phone:             jid.User,
		Text:              text,
		MessageID:         evt.Info.ID,
		Timestamp:         evt.Info.Timestamp,
		DisplayName:       evt.Info.PushName,
		FirstMessageToken: token,
		IsQueueKeyword:    c.queueKeyword != "" && strings.Contains(text, c.queueKeyword),
	}, true
}

// senderJID prefers the chat JID for direct chats and falls back to the
// sender address when the chat is not a plain user JID.
func senderJID(evt *events.Message) types.JID {
	if evt.Info.Chat.Server == types.DefaultUserServer {
		return evt.Info.Chat
	}
	return evt.Info.Sender
}

// extractText resolves the first non-empty text field among the message
// content variants.
func extractText(msg *waProto.Message) string {
	if t := msg.GetExtendedTextMessage().GetText(); t != "" {
		return t
	}
	if t := msg.GetConversation(); t != "" {
		return t
	}
	if t := msg.GetImageMessage().GetCaption(); t != "" {
		return t
	}
	if t := msg.GetVideoMessage().GetCaption(); t != "" {
		return t
	}
	if t := msg.GetDocumentMessage().GetCaption(); t != "" {
		return t
	}
	return ""
}
