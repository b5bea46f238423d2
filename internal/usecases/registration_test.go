package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wavebot/internal/entities"
)

const (
	testAccountID = "3fa85f64-5717-4562-b3fc-2c963f66afa6"
	testPhone     = "6281234567890"
	testChatURL   = "app.example.com/chat"
)

func TestRegisterFreshAccount(t *testing.T) {
	accounts := newFakeAccounts()
	accounts.byID[testAccountID] = &entities.Account{ID: testAccountID}
	sender := &fakeSender{}
	reg := NewRegistration(accounts, sender, testChatURL, nil)

	err := reg.Register(context.Background(), testAccountID, testPhone)
	require.NoError(t, err)

	require.Len(t, accounts.bindCalls, 1)
	assert.Equal(t, testAccountID, accounts.bindCalls[0].AccountID)
	assert.Equal(t, testPhone, accounts.bindCalls[0].Phone)

	want := onboardingSequence(testChatURL)
	require.Len(t, sender.sent, len(want))
	for i, text := range want {
		assert.Equal(t, testPhone, sender.sent[i].Phone)
		assert.Equal(t, text, sender.sent[i].Text)
	}
}

func TestRegisterIdempotentRetry(t *testing.T) {
	accounts := newFakeAccounts()
	accounts.byID[testAccountID] = &entities.Account{ID: testAccountID, Phone: testPhone, WhatsAppIntegrated: true}
	accounts.byPhone[testPhone] = accounts.byID[testAccountID]
	sender := &fakeSender{}
	reg := NewRegistration(accounts, sender, testChatURL, nil)

	err := reg.Register(context.Background(), testAccountID, testPhone)
	require.NoError(t, err)

	assert.Empty(t, accounts.bindCalls)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, replyAlreadyRegistered, sender.sent[0].Text)
}

func TestRegisterAccountBoundToOtherPhone(t *testing.T) {
	accounts := newFakeAccounts()
	accounts.byID[testAccountID] = &entities.Account{ID: testAccountID, Phone: "628999", WhatsAppIntegrated: true}
	sender := &fakeSender{}
	reg := NewRegistration(accounts, sender, testChatURL, nil)

	err := reg.Register(context.Background(), testAccountID, testPhone)
	require.NoError(t, err)

	assert.Empty(t, accounts.bindCalls)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, replyConflictPhone, sender.sent[0].Text)
}

func TestRegisterPhoneTakenByOtherAccount(t *testing.T) {
	accounts := newFakeAccounts()
	accounts.byID[testAccountID] = &entities.Account{ID: testAccountID}
	accounts.byPhone[testPhone] = &entities.Account{ID: "b55e0f3e-0000-4000-8000-000000000001", Phone: testPhone, WhatsAppIntegrated: true}
	sender := &fakeSender{}
	reg := NewRegistration(accounts, sender, testChatURL, nil)

	err := reg.Register(context.Background(), testAccountID, testPhone)
	require.NoError(t, err)

	assert.Empty(t, accounts.bindCalls)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, replyNumberTaken, sender.sent[0].Text)
}

func TestRegisterLostRace(t *testing.T) {
	accounts := newFakeAccounts()
	accounts.byID[testAccountID] = &entities.Account{ID: testAccountID}
	accounts.bindOK = false
	sender := &fakeSender{}
	reg := NewRegistration(accounts, sender, testChatURL, nil)

	err := reg.Register(context.Background(), testAccountID, testPhone)
	require.NoError(t, err)

	require.Len(t, accounts.bindCalls, 1)
	assert.Empty(t, sender.sent)
}

func TestRegisterUnknownAccount(t *testing.T) {
	accounts := newFakeAccounts()
	sender := &fakeSender{}
	reg := NewRegistration(accounts, sender, testChatURL, nil)

	err := reg.Register(context.Background(), testAccountID, testPhone)
	require.NoError(t, err)

	assert.Empty(t, accounts.bindCalls)
	assert.Empty(t, sender.sent)
}
