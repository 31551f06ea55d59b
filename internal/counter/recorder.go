package counter

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/rd-risk-mcp-server/internal/domain"
)

// Recorder defaults
const (
	DefaultTimeout          = 2 * time.Second
	DefaultBreakerThreshold = 5
	DefaultBreakerTimeout   = 30 * time.Second
)

// Recorder feeds completed assessments into a CounterStore without ever holding up the caller.
// Each increment runs on its own goroutine with a deadline behind a circuit breaker; failures
// are logged and dropped.
type Recorder struct {
	store   domain.CounterStore
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
	logger  *logrus.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

var _ domain.CompletionHook = (*Recorder)(nil)

// NewRecorder wraps store
func NewRecorder(store domain.CounterStore, cfg domain.CounterConfig, logger *logrus.Logger) *Recorder {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.BreakerThreshold == 0 {
		cfg.BreakerThreshold = DefaultBreakerThreshold
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = DefaultBreakerTimeout
	}

	settings := gobreaker.Settings{
		Name:    "AssessmentCounter",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"circuit_breaker": name,
				"from_state":      from.String(),
				"to_state":        to.String(),
			}).Warn("Circuit breaker state changed")
		},
	}

	return &Recorder{
		store:   store,
		breaker: gobreaker.NewCircuitBreaker(settings),
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// AssessmentCompleted schedules one increment for the outcome's tier and returns immediately
func (r *Recorder) AssessmentCompleted(ctx context.Context, outcome *domain.AssessmentOutcome) {
	if outcome == nil {
		return
	}
	tier := outcome.Tier
	// the increment outlives the request that produced it
	base := context.WithoutCancel(ctx)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.logger.WithField("tier", tier.String()).Debug("Recorder closed, dropping increment")
		return
	}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				r.logger.WithFields(logrus.Fields{
					"tier":  tier.String(),
					"panic": p,
				}).Error("Counter store panicked while recording")
			}
		}()
		if err := r.Record(base, tier); err != nil {
			entry := r.logger.WithError(err).WithField("tier", tier.String())
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				entry.Debug("Counter circuit open, dropping increment")
				return
			}
			entry.Warn("Failed to record completed assessment")
		}
	}()
}

// Record performs one increment synchronously through the breaker
func (r *Recorder) Record(ctx context.Context, tier domain.Tier) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.breaker.Execute(func() (interface{}, error) {
		return nil, r.store.Increment(ctx, tier)
	})
	return err
}

// Totals reads the aggregate counts from the store
func (r *Recorder) Totals(ctx context.Context) (*domain.CounterTotals, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.store.Totals(ctx)
}

// State reports the breaker state for health output
func (r *Recorder) State() gobreaker.State {
	return r.breaker.State()
}

// Ping checks the backing store when it supports it
func (r *Recorder) Ping(ctx context.Context) error {
	if p, ok := r.store.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Wait blocks until every scheduled increment has finished
func (r *Recorder) Wait() {
	r.wg.Wait()
}

// Close stops accepting increments, drains the in-flight ones and closes the store
func (r *Recorder) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	r.wg.Wait()
	return r.store.Close()
}
