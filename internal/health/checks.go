package health

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
)

// PingFunc probes an external dependency
type PingFunc func(ctx context.Context) error

// PingCheck reports a dependency reachable or not. A non-critical dependency that fails only
// degrades the service to a warning.
type PingCheck struct {
	name     string
	ping     PingFunc
	critical bool
	priority int
	timeout  time.Duration
}

func NewPingCheck(name string, ping PingFunc, critical bool, priority int, timeout time.Duration) *PingCheck {
	return &PingCheck{name: name, ping: ping, critical: critical, priority: priority, timeout: timeout}
}

func (p *PingCheck) Name() string  { return p.name }
func (p *PingCheck) Priority() int { return p.priority }

func (p *PingCheck) Check(ctx context.Context) ComponentHealth {
	start := time.Now()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	err := p.ping(ctx)
	if err != nil {
		status := HealthStateWarning
		if p.critical {
			status = HealthStateUnhealthy
		}
		return ComponentHealth{
			Name:        p.name,
			Status:      status,
			Message:     p.name + " unreachable",
			LastChecked: time.Now(),
			Duration:    time.Since(start),
			Error:       err.Error(),
		}
	}

	return ComponentHealth{
		Name:        p.name,
		Status:      HealthStateHealthy,
		Message:     p.name + " reachable",
		LastChecked: time.Now(),
		Duration:    time.Since(start),
	}
}

// StateReporter exposes a circuit breaker state
type StateReporter interface {
	State() gobreaker.State
}

// BreakerCheck turns an open or half-open breaker into a warning
type BreakerCheck struct {
	name    string
	breaker StateReporter
}

func NewBreakerCheck(name string, breaker StateReporter) *BreakerCheck {
	return &BreakerCheck{name: name, breaker: breaker}
}

func (b *BreakerCheck) Name() string  { return b.name }
func (b *BreakerCheck) Priority() int { return 3 }

func (b *BreakerCheck) Check(ctx context.Context) ComponentHealth {
	state := b.breaker.State()
	result := ComponentHealth{
		Name:        b.name,
		Status:      HealthStateHealthy,
		Message:     "Circuit closed",
		LastChecked: time.Now(),
		Metadata:    map[string]interface{}{"state": state.String()},
	}

	switch state {
	case gobreaker.StateOpen:
		result.Status = HealthStateWarning
		result.Message = "Circuit open, increments are being dropped"
	case gobreaker.StateHalfOpen:
		result.Status = HealthStateWarning
		result.Message = "Circuit half-open, probing backend"
	}
	return result
}

// SizeReporter exposes the number of live entries in a bounded store
type SizeReporter interface {
	Len() int
}

// CapacityCheck warns once a bounded store passes 90% of its capacity
type CapacityCheck struct {
	name     string
	store    SizeReporter
	capacity int
}

func NewCapacityCheck(name string, store SizeReporter, capacity int) *CapacityCheck {
	return &CapacityCheck{name: name, store: store, capacity: capacity}
}

func (c *CapacityCheck) Name() string  { return c.name }
func (c *CapacityCheck) Priority() int { return 1 }

func (c *CapacityCheck) Check(ctx context.Context) ComponentHealth {
	n := c.store.Len()
	result := ComponentHealth{
		Name:        c.name,
		Status:      HealthStateHealthy,
		Message:     "Within capacity",
		LastChecked: time.Now(),
		Metadata: map[string]interface{}{
			"entries":  n,
			"capacity": c.capacity,
		},
	}
	if c.capacity > 0 && n*10 >= c.capacity*9 {
		result.Status = HealthStateWarning
		result.Message = "Near capacity, oldest entries will be evicted"
	}
	return result
}
