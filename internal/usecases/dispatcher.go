package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"wavebot/internal/interfaces"
)

const (
	preSendDelayMin = 250 * time.Millisecond
	preSendDelayMax = 750 * time.Millisecond
	composeDelayMin = 750 * time.Millisecond
	composeDelayMax = 1750 * time.Millisecond
)

// Dispatcher is the single outbound path. Every send gets a short random
// pause, a composing window, and a guaranteed typing stop, so replies land
// with a human cadence instead of a burst.
type Dispatcher struct {
	transport interfaces.Transport
	typing    interfaces.Typing
	sleep     func(time.Duration)
	jitter    func(min, max time.Duration) time.Duration
	log       *slog.Logger
}

func NewDispatcher(transport interfaces.Transport, typing interfaces.Typing, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		transport: transport,
		typing:    typing,
		sleep:     time.Sleep,
		jitter:    randomDelay,
		log:       logger.With("component", "dispatcher"),
	}
}

// Send delivers one text message and returns the transport message ID.
// The typing indicator is cleared even when the transport fails.
func (d *Dispatcher) Send(ctx context.Context, phone, text string) (string, error) {
	d.sleep(d.jitter(preSendDelayMin, preSendDelayMax))

	d.typing.Start(ctx, phone)
	defer d.typing.Stop(ctx, phone)

	d.sleep(d.jitter(composeDelayMin, composeDelayMax))

	id, err := d.transport.SendText(ctx, phone, text)
	if err != nil {
		return "", fmt.Errorf("send to %s: %w", phone, err)
	}
	d.log.Debug("message dispatched", "phone", phone, "message_id", id)
	return id, nil
}

func randomDelay(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + rand.N(max-min)
}
