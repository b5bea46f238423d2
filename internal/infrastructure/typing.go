package infrastructure

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"wavebot/internal/interfaces"
)

const (
	// typingRefreshInterval keeps the composing indicator alive; WhatsApp
	// clears it on its own after roughly ten seconds.
	typingRefreshInterval = 10 * time.Second
	// typingAutoStop bounds a session that was never stopped explicitly.
	typingAutoStop = 30 * time.Second
)

// TypingManager owns the per-recipient composing sessions. At most one
// session exists per recipient; starting an active one only refreshes its
// auto-stop deadline, and every session ends with exactly one paused signal.
type TypingManager struct {
	transport interfaces.Transport
	log       *slog.Logger

	mu       sync.Mutex
	sessions map[string]*typingSession
}

type typingSession struct {
	stop     chan struct{}
	deadline *time.Timer
}

func NewTypingManager(transport interfaces.Transport, logger *slog.Logger) *TypingManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &TypingManager{
		transport: transport,
		log:       logger.With("component", "typing"),
		sessions:  make(map[string]*typingSession),
	}
}

// Start begins (or refreshes) the composing indicator for one recipient.
func (m *TypingManager) Start(ctx context.Context, phone string) {
	m.mu.Lock()
	if s, ok := m.sessions[phone]; ok {
		s.deadline.Reset(typingAutoStop)
		m.mu.Unlock()
		return
	}
	s := &typingSession{stop: make(chan struct{})}
	s.deadline = time.AfterFunc(typingAutoStop, func() {
		m.Stop(context.Background(), phone)
	})
	m.sessions[phone] = s
	m.mu.Unlock()

	if err := m.transport.ChatPresence(ctx, phone, true); err != nil {
		m.log.Warn("failed to start composing presence", "phone", phone, "error", err)
	}
	go m.refreshLoop(phone, s.stop)
}

// Stop ends the session and sends the final paused signal. Safe to call when
// no session is active.
func (m *TypingManager) Stop(ctx context.Context, phone string) {
	m.mu.Lock()
	s, ok := m.sessions[phone]
	if ok {
		delete(m.sessions, phone)
	}
	m.mu.Unlock()
	if !ok {
		return
	}

	s.deadline.Stop()
	close(s.stop)

	if err := m.transport.ChatPresence(ctx, phone, false); err != nil {
		m.log.Warn("failed to clear composing presence", "phone", phone, "error", err)
	}
}

// Active reports whether a session currently exists for the recipient.
func (m *TypingManager) Active(phone string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[phone]
	return ok
}

func (m *TypingManager) refreshLoop(phone string, stop <-chan struct{}) {
	ticker := time.NewTicker(typingRefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := m.transport.ChatPresence(context.Background(), phone, true); err != nil {
				m.log.Warn("failed to refresh composing presence", "phone", phone, "error", err)
			}
		}
	}
}
