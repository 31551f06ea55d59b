package health

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBreaker struct {
	mock.Mock
}

func (m *MockBreaker) State() gobreaker.State {
	args := m.Called()
	return args.Get(0).(gobreaker.State)
}

type fixedSize int

func (f fixedSize) Len() int { return int(f) }

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestChecker_AllHealthy(t *testing.T) {
	breaker := new(MockBreaker)
	breaker.On("State").Return(gobreaker.StateClosed)

	hc := NewChecker("1.0.0", time.Second, testLogger())
	hc.RegisterCheck(NewCapacityCheck("sessions", fixedSize(10), 100))
	hc.RegisterCheck(NewBreakerCheck("counter_breaker", breaker))
	hc.RegisterCheck(NewPingCheck("counter", func(context.Context) error { return nil }, false, 2, 0))

	status := hc.Check(context.Background())

	assert.Equal(t, HealthStateHealthy, status.Overall)
	assert.Equal(t, http.StatusOK, status.HTTPStatus())
	assert.Equal(t, "1.0.0", status.Version)
	assert.Len(t, status.Components, 3)
	assert.Equal(t, []string{"sessions", "counter", "counter_breaker"}, hc.Names())
	breaker.AssertExpectations(t)
}

func TestChecker_NonCriticalFailureWarns(t *testing.T) {
	breaker := new(MockBreaker)
	breaker.On("State").Return(gobreaker.StateOpen)

	hc := NewChecker("1.0.0", time.Second, testLogger())
	hc.RegisterCheck(NewBreakerCheck("counter_breaker", breaker))
	hc.RegisterCheck(NewPingCheck("counter", func(context.Context) error {
		return errors.New("connection refused")
	}, false, 2, 0))

	status := hc.Check(context.Background())

	assert.Equal(t, HealthStateWarning, status.Overall)
	assert.Equal(t, http.StatusOK, status.HTTPStatus())
	assert.Equal(t, "connection refused", status.Components["counter"].Error)
	assert.Equal(t, "open", status.Components["counter_breaker"].Metadata["state"])
}

func TestChecker_CriticalFailureIsUnhealthy(t *testing.T) {
	hc := NewChecker("1.0.0", time.Second, testLogger())
	hc.RegisterCheck(NewPingCheck("database", func(context.Context) error {
		return errors.New("timeout")
	}, true, 1, 10*time.Millisecond))
	hc.RegisterCheck(NewCapacityCheck("sessions", fixedSize(95), 100))

	status := hc.Check(context.Background())

	assert.Equal(t, HealthStateUnhealthy, status.Overall)
	assert.Equal(t, http.StatusServiceUnavailable, status.HTTPStatus())
	assert.Equal(t, HealthStateWarning, status.Components["sessions"].Status)
}

func TestPingCheck_HonoursTimeout(t *testing.T) {
	check := NewPingCheck("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, true, 1, 20*time.Millisecond)

	result := check.Check(context.Background())

	require.Equal(t, HealthStateUnhealthy, result.Status)
	assert.Contains(t, result.Error, "deadline exceeded")
}

func TestBreakerCheck_HalfOpen(t *testing.T) {
	breaker := new(MockBreaker)
	breaker.On("State").Return(gobreaker.StateHalfOpen)

	result := NewBreakerCheck("counter_breaker", breaker).Check(context.Background())

	assert.Equal(t, HealthStateWarning, result.Status)
	assert.Equal(t, "half-open", result.Metadata["state"])
}

func TestChecker_NoChecks(t *testing.T) {
	status := NewChecker("dev", 0, testLogger()).Check(context.Background())

	assert.Equal(t, HealthStateHealthy, status.Overall)
	assert.Empty(t, status.Components)
}
