package messaging

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/pixil98/go-summoners/internal/entity"
)

const (
	BroadcastSubject = "world.broadcast"

	DefaultBroadcastRate  = rate.Limit(5)
	DefaultBroadcastBurst = 10
)

var ErrNotStarted = errors.New("nats server not started")

// ErrThrottled is returned when a world broadcast was dropped by the limiter.
var ErrThrottled = errors.New("broadcast throttled")

// Bus is the subset of NatsServer the publisher needs.
type Bus interface {
	Publish(subject string, data []byte) error
}

// PlayerSubject is the subject a player's session listens on.
func PlayerSubject(id entity.ID) string {
	return fmt.Sprintf("player-%s", id)
}

// NatsPublisher delivers chat text to players over NATS.
type NatsPublisher struct {
	bus     Bus
	limiter *rate.Limiter
	width   int
}

type PublisherOpt func(*NatsPublisher)

// WithBroadcastLimit caps world broadcasts at r per second with the given
// burst.
func WithBroadcastLimit(r rate.Limit, burst int) PublisherOpt {
	return func(p *NatsPublisher) {
		p.limiter = rate.NewLimiter(r, burst)
	}
}

// WithWrapWidth word-wraps every message for terminal sessions.
func WithWrapWidth(width int) PublisherOpt {
	return func(p *NatsPublisher) {
		p.width = width
	}
}

func NewNatsPublisher(bus Bus, opts ...PublisherOpt) *NatsPublisher {
	p := &NatsPublisher{
		bus:     bus,
		limiter: rate.NewLimiter(DefaultBroadcastRate, DefaultBroadcastBurst),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Broadcast sends msg to every connected player.
func (p *NatsPublisher) Broadcast(msg string) error {
	if !p.limiter.Allow() {
		slog.Warn("dropping world broadcast", "message", msg)
		return ErrThrottled
	}
	if err := p.bus.Publish(BroadcastSubject, []byte(wrap(msg, p.width))); err != nil {
		return fmt.Errorf("publishing broadcast: %w", err)
	}
	return nil
}

func (p *NatsPublisher) SendToPlayer(id entity.ID, msg string) error {
	if err := p.bus.Publish(PlayerSubject(id), []byte(wrap(msg, p.width))); err != nil {
		return fmt.Errorf("publishing to %s: %w", id, err)
	}
	return nil
}
