package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wavebot/internal/entities"
	"wavebot/internal/interfaces"
)

func conversationInput() ConversationInput {
	return ConversationInput{
		AccountID:   femaleID,
		ProfileID:   profileID,
		OtherUserID: maleID,
		Nudge:       entities.NudgeConnectionCheckIn,
		Phone:       testPhone,
	}
}

func TestRespondBuildsPromptAndHistory(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.contexts[femaleID] = entities.UserContext{Persona: `{"interests":["hiking"]}`, Metadata: `{"name":"Ana"}`}
	profiles.contexts[maleID] = entities.UserContext{Persona: `{"interests":["music"]}`, Metadata: `{"name":"Ben"}`}
	messages := &fakeMessages{history: []entities.StoredMessage{
		{Content: "have you connected yet?", SentBy: entities.SentByAssistant},
		{Content: "yes we did!", SentBy: entities.SentByUser},
	}}
	llm := &fakeLLM{result: interfaces.CompletionResult{Content: "  ooh love that! what's the vibe so far?  "}}
	c := NewConversation(profiles, messages, llm, "test-model", nil)

	reply, err := c.Respond(context.Background(), conversationInput())
	require.NoError(t, err)
	assert.Equal(t, "ooh love that! what's the vibe so far?", reply)

	require.Len(t, llm.requests, 1)
	req := llm.requests[0]
	assert.Equal(t, "test-model", req.Model)
	assert.InDelta(t, 0.7, req.Temperature, 0.001)
	assert.Equal(t, 500, req.MaxTokens)

	require.Len(t, req.Messages, 3)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, femaleID)
	assert.Contains(t, req.Messages[0].Content, maleID)
	assert.Contains(t, req.Messages[0].Content, profileID)
	assert.Contains(t, req.Messages[0].Content, `{"interests":["hiking"]}`)
	assert.Equal(t, "assistant", req.Messages[1].Role)
	assert.Equal(t, "have you connected yet?", req.Messages[1].Content)
	assert.Equal(t, "user", req.Messages[2].Role)

	require.Len(t, req.Tools, 1)
	assert.Equal(t, "end_conversation", req.Tools[0].Name)
}

func TestRespondEmptyContent(t *testing.T) {
	profiles := newFakeProfiles()
	llm := &fakeLLM{result: interfaces.CompletionResult{Content: "   "}}
	c := NewConversation(profiles, &fakeMessages{}, llm, "test-model", nil)

	reply, err := c.Respond(context.Background(), conversationInput())
	require.NoError(t, err)
	assert.Empty(t, reply)
}

func TestRespondCompletionError(t *testing.T) {
	profiles := newFakeProfiles()
	llm := &fakeLLM{err: assert.AnError}
	c := NewConversation(profiles, &fakeMessages{}, llm, "test-model", nil)

	_, err := c.Respond(context.Background(), conversationInput())
	assert.Error(t, err)
}

func TestRespondUnknownNudgeFailsClosed(t *testing.T) {
	profiles := newFakeProfiles()
	llm := &fakeLLM{}
	c := NewConversation(profiles, &fakeMessages{}, llm, "test-model", nil)

	in := conversationInput()
	in.Nudge = entities.NudgeUnknown
	_, err := c.Respond(context.Background(), in)
	require.ErrorIs(t, err, ErrUnknownNudgeStatus)
	assert.Empty(t, llm.requests)
}

func TestRespondEndConversationToolCall(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.byID[profileID] = matchedProfile()
	llm := &fakeLLM{result: interfaces.CompletionResult{
		Content: "should not be used",
		ToolCall: &interfaces.ToolCall{
			Name:      "end_conversation",
			Arguments: `{"profiles_id":"` + profileID + `","user_id":"` + femaleID + `"}`,
		},
	}}
	c := NewConversation(profiles, &fakeMessages{}, llm, "test-model", nil)

	reply, err := c.Respond(context.Background(), conversationInput())
	require.NoError(t, err)
	assert.Equal(t, endConversationAck, reply)

	require.Len(t, profiles.disableCalls, 1)
	assert.Equal(t, profileID, profiles.disableCalls[0].ProfileID)
	assert.Equal(t, femaleID, profiles.disableCalls[0].UserID)
}

func TestRespondToolCallFallbacks(t *testing.T) {
	cases := []struct {
		name  string
		setup func(*fakeProfiles, *fakeLLM)
	}{
		{
			"malformed arguments",
			func(p *fakeProfiles, l *fakeLLM) {
				l.result.ToolCall.Arguments = "{not json"
			},
		},
		{
			"unknown profile",
			func(p *fakeProfiles, l *fakeLLM) {
				delete(p.byID, profileID)
			},
		},
		{
			"user on neither side",
			func(p *fakeProfiles, l *fakeLLM) {
				l.result.ToolCall.Arguments = `{"profiles_id":"` + profileID + `","user_id":"stranger"}`
			},
		},
		{
			"disable rejected",
			func(p *fakeProfiles, l *fakeLLM) {
				p.disableOK = false
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			profiles := newFakeProfiles()
			profiles.byID[profileID] = matchedProfile()
			llm := &fakeLLM{result: interfaces.CompletionResult{
				Content: "fallback text",
				ToolCall: &interfaces.ToolCall{
					Name:      "end_conversation",
					Arguments: `{"profiles_id":"` + profileID + `","user_id":"` + femaleID + `"}`,
				},
			}}
			tc.setup(profiles, llm)
			c := NewConversation(profiles, &fakeMessages{}, llm, "test-model", nil)

			reply, err := c.Respond(context.Background(), conversationInput())
			require.NoError(t, err)
			assert.Equal(t, "fallback text", reply)
		})
	}
}

func TestRespondHistoryReadFailureAborts(t *testing.T) {
	profiles := newFakeProfiles()
	llm := &fakeLLM{}
	c := NewConversation(profiles, &fakeMessages{recentErr: assert.AnError}, llm, "test-model", nil)

	_, err := c.Respond(context.Background(), conversationInput())
	require.Error(t, err)
	assert.Empty(t, llm.requests)
}
