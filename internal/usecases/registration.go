package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"wavebot/internal/interfaces"
)

// Reply copy for the registration conflict states.
const (
	replyConflictPhone     = "You have already registered with a different phone number! Please use your registered number to continue. 🙏"
	replyNumberTaken       = "We appreciate your interest! However, this phone number is already registered with another account. Please try using a different number to continue. Thank you for your understanding! 🙏"
	replyAlreadyRegistered = "You're already registered! We'll be sending you matches soon. 🎉"
)

func onboardingSequence(chatBaseURL string) []string {
	return []string{
		"hey hey, it’s Wave 👋 your matchmaker who’s got your back.",
		"I’ll do the scouting - you just stay you. no swiping. no cringe.",
		"ready? start here → " + chatBaseURL,
		"trust me, this bit matters - it’s how I’ll actually find your kind of person ✨",
	}
}

// Registration binds a phone number to an existing account when its first
// message carries the account token. Unregistered → PendingBinding →
// Registered; Registered is absorbing.
type Registration struct {
	accounts    interfaces.AccountStore
	sender      interfaces.Sender
	chatBaseURL string
	log         *slog.Logger
}

func NewRegistration(accounts interfaces.AccountStore, sender interfaces.Sender, chatBaseURL string, logger *slog.Logger) *Registration {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registration{
		accounts:    accounts,
		sender:      sender,
		chatBaseURL: chatBaseURL,
		log:         logger.With("component", "registration"),
	}
}

// Register resolves one first-contact message. Conflicts get a worded reply
// and change nothing; a lost race is logged and absorbed without a
// customer-visible error.
func (r *Registration) Register(ctx context.Context, accountID, phone string) error {
	current, err := r.accounts.AccountByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("read account %s: %w", accountID, err)
	}
	if current == nil {
		r.log.Warn("first message carried a token for an unknown account", "account_id", accountID, "phone", phone)
		return nil
	}

	// Account already bound to a different number.
	if current.WhatsAppIntegrated && current.Phone != "" && current.Phone != phone {
		r.reply(ctx, phone, replyConflictPhone)
		return nil
	}

	existing, err := r.accounts.AccountByPhone(ctx, phone)
	if err != nil {
		return fmt.Errorf("check phone %s: %w", phone, err)
	}

	// Number already bound to a different account.
	if existing != nil && existing.ID != accountID {
		r.reply(ctx, phone, replyNumberTaken)
		return nil
	}

	// Idempotent retry of a completed registration.
	if existing != nil && existing.ID == accountID {
		r.reply(ctx, phone, replyAlreadyRegistered)
		return nil
	}

	// The guard re-validates the binding at write time: a second first
	// message racing for the same account loses here, not at the read above.
	bound, err := r.accounts.BindPhone(ctx, accountID, phone)
	if err != nil {
		return fmt.Errorf("bind phone %s to account %s: %w", phone, accountID, err)
	}
	if !bound {
		r.log.Warn("lost registration race, no rows updated", "account_id", accountID, "phone", phone)
		return nil
	}

	for _, text := range onboardingSequence(r.chatBaseURL) {
		r.reply(ctx, phone, text)
	}
	r.log.Info("registered account", "account_id", accountID, "phone", phone)
	return nil
}

func (r *Registration) reply(ctx context.Context, phone, text string) {
	if _, err := r.sender.Send(ctx, phone, text); err != nil {
		r.log.Error("failed to send registration reply", "phone", phone, "error", err)
	}
}
