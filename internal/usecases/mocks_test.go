package usecases

import (
	"context"
	"fmt"

	"wavebot/internal/entities"
	"wavebot/internal/interfaces"
)

type fakeAccounts struct {
	byID    map[string]*entities.Account
	byPhone map[string]*entities.Account

	bindCalls []struct{ AccountID, Phone string }
	bindOK    bool
	bindErr   error

	byIDErr    error
	byPhoneErr error
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{
		byID:    make(map[string]*entities.Account),
		byPhone: make(map[string]*entities.Account),
		bindOK:  true,
	}
}

func (f *fakeAccounts) AccountByID(_ context.Context, id string) (*entities.Account, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byID[id], nil
}

func (f *fakeAccounts) AccountByPhone(_ context.Context, phone string) (*entities.Account, error) {
	if f.byPhoneErr != nil {
		return nil, f.byPhoneErr
	}
	return f.byPhone[phone], nil
}

func (f *fakeAccounts) BindPhone(_ context.Context, accountID, phone string) (bool, error) {
	f.bindCalls = append(f.bindCalls, struct{ AccountID, Phone string }{accountID, phone})
	if f.bindErr != nil {
		return false, f.bindErr
	}
	return f.bindOK, nil
}

type fakeProfiles struct {
	latest   *entities.MatchProfile
	byID     map[string]*entities.MatchProfile
	contexts map[string]entities.UserContext

	disableCalls []struct{ ProfileID, UserID string }
	disableOK    bool
	disableErr   error

	latestErr  error
	contextErr error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{
		byID:      make(map[string]*entities.MatchProfile),
		contexts:  make(map[string]entities.UserContext),
		disableOK: true,
	}
}

func (f *fakeProfiles) LatestProfileForAccount(_ context.Context, _ string) (*entities.MatchProfile, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	return f.latest, nil
}

func (f *fakeProfiles) ProfileByID(_ context.Context, id string) (*entities.MatchProfile, error) {
	return f.byID[id], nil
}

func (f *fakeProfiles) DisableTwoWay(_ context.Context, profileID, userID string) (bool, error) {
	f.disableCalls = append(f.disableCalls, struct{ ProfileID, UserID string }{profileID, userID})
	if f.disableErr != nil {
		return false, f.disableErr
	}
	return f.disableOK, nil
}

func (f *fakeProfiles) UserContext(_ context.Context, accountID string) (entities.UserContext, error) {
	if f.contextErr != nil {
		return entities.UserContext{}, f.contextErr
	}
	return f.contexts[accountID], nil
}

type fakeMessages struct {
	appended  []entities.StoredMessage
	history   []entities.StoredMessage
	appendErr error
	recentErr error
}

func (f *fakeMessages) Append(_ context.Context, m entities.StoredMessage) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, m)
	return nil
}

func (f *fakeMessages) Recent(_ context.Context, _, _ string, _ int) ([]entities.StoredMessage, error) {
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	return f.history, nil
}

type sentMessage struct {
	Phone string
	Text  string
}

type fakeSender struct {
	sent    []sentMessage
	sendErr error
}

func (f *fakeSender) Send(_ context.Context, phone, text string) (string, error) {
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.sent = append(f.sent, sentMessage{Phone: phone, Text: text})
	return fmt.Sprintf("wamid-%d", len(f.sent)), nil
}

type fakeLLM struct {
	requests []interfaces.CompletionRequest
	result   interfaces.CompletionResult
	err      error
}

func (f *fakeLLM) Complete(_ context.Context, req interfaces.CompletionRequest) (interfaces.CompletionResult, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return interfaces.CompletionResult{}, f.err
	}
	return f.result, nil
}

type typingEvent struct {
	Op    string
	Phone string
}
