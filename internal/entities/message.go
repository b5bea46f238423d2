package entities

import "time"

const (
	SentByUser      = "user"
	SentByAssistant = "assistant"
)

// InboundMessage is the normalized form of one direct-chat event. It is
// built per event by the classifier and never persisted as-is.
type InboundMessage struct {
	SenderJID   string
	Phone       string
	Text        string
	MessageID   string
	Timestamp   time.Time
	DisplayName string

	// FirstMessageToken is the UUID embedded in a user's very first message,
	// normalized to lowercase. Empty when the text carries none.
	FirstMessageToken string
	IsQueueKeyword    bool
}

// StoredMessage is one row of the append-only whatsapp_messages log.
// AccountID is empty for messages from phones that resolve to no account.
type StoredMessage struct {
	AccountID string
	Content   string
	MessageID string
	Phone     string
	SentBy    string
}
