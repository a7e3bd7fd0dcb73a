package sms

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrCircuitOpen is returned while the breaker is rejecting sends
var ErrCircuitOpen = errors.New("sms provider circuit open")

// BreakerState is the position of a Breaker
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// BreakerConfig controls when a Breaker trips and recovers
type BreakerConfig struct {
	FailureThreshold int           // consecutive failures before opening (default 5)
	ResetTimeout     time.Duration // wait before a half-open probe (default 30s)
}

// Breaker stops calling a failing SMS provider until it has had time to recover
type Breaker struct {
	mu          sync.Mutex
	state       BreakerState
	failures    int
	threshold   int
	reset       time.Duration
	lastFailure time.Time
	now         func() time.Time
	logger      *zap.Logger
}

func NewBreaker(cfg BreakerConfig, logger *zap.Logger) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Breaker{
		threshold: cfg.FailureThreshold,
		reset:     cfg.ResetTimeout,
		now:       time.Now,
		logger:    logger,
	}
}

// Allow reports whether a send may go through. An open breaker moves to
// half-open once the reset timeout has elapsed since the last failure.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerOpen:
		if b.now().Sub(b.lastFailure) < b.reset {
			return false
		}
		b.transition(BreakerHalfOpen)
		return true
	default:
		return true
	}
}

func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.transition(BreakerClosed)
}

func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	b.lastFailure = b.now()
	if b.state == BreakerHalfOpen || b.failures >= b.threshold {
		b.transition(BreakerOpen)
	}
}

func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// caller holds b.mu
func (b *Breaker) transition(to BreakerState) {
	if b.state == to {
		return
	}
	b.logger.Warn("SMS breaker state change",
		zap.Stringer("from", b.state),
		zap.Stringer("to", to),
		zap.Int("failures", b.failures))
	b.state = to
}

// Sender is anything that can deliver a text message
type Sender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// GuardedNotifier fails fast with ErrCircuitOpen while the provider is unhealthy
type GuardedNotifier struct {
	next    Sender
	breaker *Breaker
}

func NewGuardedNotifier(next Sender, breaker *Breaker) *GuardedNotifier {
	return &GuardedNotifier{next: next, breaker: breaker}
}

func (g *GuardedNotifier) Send(ctx context.Context, to, body string) (string, error) {
	if to == "" {
		return "", ErrNoRecipient
	}
	if !g.breaker.Allow() {
		return "", ErrCircuitOpen
	}
	id, err := g.next.Send(ctx, to, body)
	if err != nil {
		g.breaker.RecordFailure()
		return "", err
	}
	g.breaker.RecordSuccess()
	return id, nil
}
