package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"wavebot/internal/entities"
	"wavebot/internal/interfaces"
)

const (
	historyLimit          = 30
	completionTemperature = 0.7
	completionMaxTokens   = 500

	toolEndConversation = "end_conversation"
	endConversationAck  = "got it, thanks for the update!"
)

// ErrUnknownNudgeStatus means no persona template exists for the requested
// follow-up stage; the engine fails closed instead of prompting blind.
var ErrUnknownNudgeStatus = errors.New("no persona template for nudge status")

// ConversationInput identifies the active two-way window a reply is
// generated for.
type ConversationInput struct {
	AccountID   string
	ProfileID   string
	OtherUserID string
	Nudge       entities.NudgeStatus
	Phone       string
}

// Conversation builds a bounded-context prompt from the stored history and
// both parties' redacted contexts, issues exactly one completion request per
// inbound message, and interprets the optional end_conversation tool call.
type Conversation struct {
	profiles interfaces.ProfileStore
	messages interfaces.MessageStore
	llm      interfaces.CompletionClient
	model    string
	log      *slog.Logger
}

func NewConversation(profiles interfaces.ProfileStore, messages interfaces.MessageStore, llm interfaces.CompletionClient, model string, logger *slog.Logger) *Conversation {
	if logger == nil {
		logger = slog.Default()
	}
	return &Conversation{
		profiles: profiles,
		messages: messages,
		llm:      llm,
		model:    model,
		log:      logger.With("component", "conversation"),
	}
}

// Respond returns the reply text for one inbound message, or an empty string
// when there is nothing to say. Completion failures are not retried.
func (c *Conversation) Respond(ctx context.Context, in ConversationInput) (string, error) {
	own, err := c.profiles.UserContext(ctx, in.AccountID)
	if err != nil {
		return "", fmt.Errorf("load context for account %s: %w", in.AccountID, err)
	}
	other, err := c.profiles.UserContext(ctx, in.OtherUserID)
	if err != nil {
		return "", fmt.Errorf("load context for counterparty %s: %w", in.OtherUserID, err)
	}

	history, err := c.messages.Recent(ctx, in.AccountID, in.Phone, historyLimit)
	if err != nil {
		return "", fmt.Errorf("load chat history for account %s: %w", in.AccountID, err)
	}

	system, err := personaPrompt(in, own, other)
	if err != nil {
		return "", err
	}

	turns := make([]interfaces.ChatMessage, 0, len(history)+1)
	turns = append(turns, interfaces.ChatMessage{Role: "system", Content: system})
	for _, m := range history {
		turns = append(turns, interfaces.ChatMessage{Role: m.SentBy, Content: m.Content})
	}

	result, err := c.llm.Complete(ctx, interfaces.CompletionRequest{
		Model:       c.model,
		Messages:    turns,
		Tools:       []interfaces.Tool{endConversationTool()},
		Temperature: completionTemperature,
		MaxTokens:   completionMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("completion: %w", err)
	}

	if result.ToolCall != nil && result.ToolCall.Name == toolEndConversation {
		if ack, ok := c.endConversation(ctx, result.ToolCall); ok {
			return ack, nil
		}
		// Tool resolution failed; fall back to the text reply if there is one.
	}

	return strings.TrimSpace(result.Content), nil
}

// endConversation flips the two-way flag for the party named in the tool
// call and returns the fixed acknowledgment. Returns false on any failure so
// the caller can fall back to the text content.
func (c *Conversation) endConversation(ctx context.Context, call *interfaces.ToolCall) (string, bool) {
	var args struct {
		ProfilesID string `json:"profiles_id"`
		UserID     string `json:"user_id"`
	}
	if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
		c.log.Error("invalid end_conversation arguments", "error", err)
		return "", false
	}

	profile, err := c.profiles.ProfileByID(ctx, args.ProfilesID)
	if err != nil || profile == nil {
		c.log.Error("profile not found for end_conversation", "profile_id", args.ProfilesID, "error", err)
		return "", false
	}
	if _, ok := profile.Party(args.UserID); !ok {
		c.log.Error("end_conversation user is on neither side of the profile",
			"profile_id", args.ProfilesID, "user_id", args.UserID)
		return "", false
	}

	disabled, err := c.profiles.DisableTwoWay(ctx, args.ProfilesID, args.UserID)
	if err != nil || !disabled {
		c.log.Error("failed to disable two-way conversation",
			"profile_id", args.ProfilesID, "user_id", args.UserID, "error", err)
		return "", false
	}

	c.log.Info("two-way conversation closed", "profile_id", args.ProfilesID, "user_id", args.UserID)
	return endConversationAck, true
}

func endConversationTool() interfaces.Tool {
	return interfaces.Tool{
		Name:        toolEndConversation,
		Description: "Call this function when the conversation's goal is complete and you have the information you need. This signals that two-way messaging for this user should be turned off.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"profiles_id": map[string]any{
					"type":        "string",
					"description": "The unique identifier for the profile associated with this conversation.",
				},
				"user_id": map[string]any{
					"type":        "string",
					"description": "The unique identifier for the user whose conversation is ending.",
				},
			},
			"required": []string{"profiles_id", "user_id"},
		},
	}
}
