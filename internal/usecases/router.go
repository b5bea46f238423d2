package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"wavebot/internal/entities"
	"wavebot/internal/interfaces"
)

var queueSequenceRegistered = []string{
	"I like the optimism!",
	"give me a few days - I’m filtering out the chaos 😌",
	"you’ll hear from me as soon as I find someone who feels like your wavelength 💌",
}

func queueSequenceUnregistered(chatBaseURL string) []string {
	return []string{
		"I can see you're not registered with us yet! 😊",
		"You can register here: " + chatBaseURL,
		"Once registered, we'll help you find your perfect match! ✨",
	}
}

// Router selects exactly one flow per inbound message:
// registration → queue acknowledgment → AI conversation → silent absorb.
type Router struct {
	accounts     interfaces.AccountStore
	profiles     interfaces.ProfileStore
	messages     interfaces.MessageStore
	sender       interfaces.Sender
	registration *Registration
	conversation *Conversation
	chatBaseURL  string
	log          *slog.Logger
}

func NewRouter(
	accounts interfaces.AccountStore,
	profiles interfaces.ProfileStore,
	messages interfaces.MessageStore,
	sender interfaces.Sender,
	registration *Registration,
	conversation *Conversation,
	chatBaseURL string,
	logger *slog.Logger,
) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		accounts:     accounts,
		profiles:     profiles,
		messages:     messages,
		sender:       sender,
		registration: registration,
		conversation: conversation,
		chatBaseURL:  chatBaseURL,
		log:          logger.With("component", "router"),
	}
}

// HandleMessage processes one classified inbound message in full isolation;
// a failure here never affects the next message.
func (r *Router) HandleMessage(ctx context.Context, msg entities.InboundMessage) error {
	accountID := msg.FirstMessageToken
	if accountID == "" {
		account, err := r.accounts.AccountByPhone(ctx, msg.Phone)
		if err != nil {
			return fmt.Errorf("resolve account for phone %s: %w", msg.Phone, err)
		}
		if account != nil {
			accountID = account.ID
		}
	}

	// Record the inbound message before any branch can produce a reply.
	if msg.MessageID != "" && msg.Text != "" && msg.Phone != "" {
		err := r.messages.Append(ctx, entities.StoredMessage{
			AccountID: accountID,
			Content:   msg.Text,
			MessageID: msg.MessageID,
			Phone:     msg.Phone,
			SentBy:    entities.SentByUser,
		})
		if err != nil {
			r.log.Error("failed to store inbound message", "phone", msg.Phone, "error", err)
		}
	}

	switch {
	case msg.FirstMessageToken != "":
		return r.registration.Register(ctx, msg.FirstMessageToken, msg.Phone)

	case msg.IsQueueKeyword:
		sequence := queueSequenceRegistered
		if accountID == "" {
			sequence = queueSequenceUnregistered(r.chatBaseURL)
		}
		r.sendSequence(ctx, msg.Phone, sequence)
		return nil

	case accountID != "":
		return r.handleTwoWay(ctx, accountID, msg)
	}

	// Unresolved sender with no recognized trigger: drop without a reply.
	r.log.Debug("no flow for message", "phone", msg.Phone)
	return nil
}

// handleTwoWay runs the AI branch when the account sits inside an active
// two-way conversation window; anything else is absorbed silently.
func (r *Router) handleTwoWay(ctx context.Context, accountID string, msg entities.InboundMessage) error {
	profile, err := r.profiles.LatestProfileForAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("load latest profile for account %s: %w", accountID, err)
	}
	if profile == nil {
		r.log.Debug("no match profile for account", "account_id", accountID)
		return nil
	}

	party, ok := profile.Party(accountID)
	if !ok {
		return nil
	}
	if profile.Status != entities.ProfileStatusMatched ||
		party.Nudge != entities.NudgeConnectionCheckIn ||
		!party.AllowTwoWay {
		r.log.Debug("no active two-way window", "account_id", accountID, "profile_id", profile.ID)
		return nil
	}

	reply, err := r.conversation.Respond(ctx, ConversationInput{
		AccountID:   accountID,
		ProfileID:   profile.ID,
		OtherUserID: party.OtherUserID,
		Nudge:       party.Nudge,
		Phone:       msg.Phone,
	})
	if err != nil {
		// The user gets silence rather than an error message.
		r.log.Error("conversation engine failed", "account_id", accountID, "error", err)
		return nil
	}
	if reply == "" {
		return nil
	}

	sentID, err := r.sender.Send(ctx, msg.Phone, reply)
	if err != nil {
		// Not delivered, so never logged as an assistant message.
		r.log.Error("failed to dispatch reply", "phone", msg.Phone, "error", err)
		return nil
	}

	err = r.messages.Append(ctx, entities.StoredMessage{
		AccountID: accountID,
		Content:   reply,
		MessageID: sentID,
		Phone:     msg.Phone,
		SentBy:    entities.SentByAssistant,
	})
	if err != nil {
		r.log.Error("failed to store assistant message", "phone", msg.Phone, "error", err)
	}
	return nil
}

func (r *Router) sendSequence(ctx context.Context, phone string, sequence []string) {
	for _, text := range sequence {
		if _, err := r.sender.Send(ctx, phone, text); err != nil {
			r.log.Error("failed to send sequence message", "phone", phone, "error", err)
		}
	}
}
