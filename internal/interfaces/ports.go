package interfaces

import (
	"context"

	"wavebot/internal/entities"
)

// Transport is the narrow capability set the core needs from the messaging
// channel session. Lifecycle (connect, reconnect, credentials) belongs to the
// caller composing the system, not to this interface.
type Transport interface {
	// SendText delivers one text message and returns the channel-assigned
	// message id.
	SendText(ctx context.Context, phone, text string) (string, error)
	// ChatPresence emits a composing (true) or paused (false) indicator.
	ChatPresence(ctx context.Context, phone string, composing bool) error
}

// Typing controls the per-recipient composing indicator around sends.
type Typing interface {
	Start(ctx context.Context, phone string)
	Stop(ctx context.Context, phone string)
}

// Sender dispatches one outbound message with human-like pacing.
type Sender interface {
	Send(ctx context.Context, phone, text string) (string, error)
}

// AccountStore reads and binds user_data rows. Lookups return (nil, nil)
// when no row matches.
type AccountStore interface {
	AccountByID(ctx context.Context, id string) (*entities.Account, error)
	AccountByPhone(ctx context.Context, phone string) (*entities.Account, error)
	// BindPhone marks the account integrated with the given phone, guarded by
	// whatsapp_integrated = false. Returns false when the guard failed and no
	// row changed.
	BindPhone(ctx context.Context, accountID, phone string) (bool, error)
}

// ProfileStore reads match profiles and flips two-way conversation flags.
type ProfileStore interface {
	LatestProfileForAccount(ctx context.Context, accountID string) (*entities.MatchProfile, error)
	ProfileByID(ctx context.Context, id string) (*entities.MatchProfile, error)
	// DisableTwoWay clears the two-way flag for the party matching userID.
	// Returns false when the profile has no such party.
	DisableTwoWay(ctx context.Context, profileID, userID string) (bool, error)
	UserContext(ctx context.Context, accountID string) (entities.UserContext, error)
}

// MessageStore is the append-only conversation log.
type MessageStore interface {
	Append(ctx context.Context, m entities.StoredMessage) error
	// Recent returns up to limit of the newest messages, oldest first.
	// When accountID is empty the log is filtered by phone instead.
	Recent(ctx context.Context, accountID, phone string, limit int) ([]entities.StoredMessage, error)
}
