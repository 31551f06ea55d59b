// Package health reports the state of the screening service's supporting components.
// The decision core itself has no external dependencies; checks here cover the session store,
// the completion counter and its circuit breaker, and the database when one is configured.
package health

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type HealthState string

const (
	HealthStateHealthy   HealthState = "healthy"
	HealthStateUnhealthy HealthState = "unhealthy"
	HealthStateWarning   HealthState = "warning"
	HealthStateUnknown   HealthState = "unknown"
)

type ComponentHealth struct {
	Name        string                 `json:"name"`
	Status      HealthState            `json:"status"`
	Message     string                 `json:"message"`
	LastChecked time.Time              `json:"last_checked"`
	Duration    time.Duration          `json:"duration"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	Error       string                 `json:"error,omitempty"`
}

type HealthStatus struct {
	Overall    HealthState                `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version"`
	Uptime     string                     `json:"uptime"`
	Components map[string]ComponentHealth `json:"components"`
}

// HTTPStatus maps the overall state onto a response code. Warnings still answer 200.
func (s *HealthStatus) HTTPStatus() int {
	if s.Overall == HealthStateUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

type HealthCheck interface {
	Name() string
	Check(ctx context.Context) ComponentHealth
	Priority() int
}

type Checker struct {
	version string
	timeout time.Duration
	started time.Time
	logger  *logrus.Logger
	checks  map[string]HealthCheck
	mutex   sync.RWMutex
}

// NewChecker creates a checker with no registered checks
func NewChecker(version string, timeout time.Duration, logger *logrus.Logger) *Checker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Checker{
		version: version,
		timeout: timeout,
		started: time.Now(),
		logger:  logger,
		checks:  make(map[string]HealthCheck),
	}
}

func (h *Checker) RegisterCheck(check HealthCheck) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.checks[check.Name()] = check
}

// Names lists the registered checks by priority
func (h *Checker) Names() []string {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	checks := make([]HealthCheck, 0, len(h.checks))
	for _, c := range h.checks {
		checks = append(checks, c)
	}
	sort.Slice(checks, func(i, j int) bool {
		if checks[i].Priority() != checks[j].Priority() {
			return checks[i].Priority() < checks[j].Priority()
		}
		return checks[i].Name() < checks[j].Name()
	})

	names := make([]string, len(checks))
	for i, c := range checks {
		names[i] = c.Name()
	}
	return names
}

// Check runs every registered check in parallel and folds the results
func (h *Checker) Check(ctx context.Context) *HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	h.mutex.RLock()
	checks := make([]HealthCheck, 0, len(h.checks))
	for _, c := range h.checks {
		checks = append(checks, c)
	}
	h.mutex.RUnlock()

	startTime := time.Now()
	results := make(chan ComponentHealth, len(checks))
	var wg sync.WaitGroup
	for _, check := range checks {
		wg.Add(1)
		go func(c HealthCheck) {
			defer wg.Done()
			results <- c.Check(ctx)
		}(check)
	}
	wg.Wait()
	close(results)

	overall := HealthStateHealthy
	components := make(map[string]ComponentHealth, len(checks))
	var failing []string
	for result := range results {
		components[result.Name] = result
		switch result.Status {
		case HealthStateUnhealthy:
			overall = HealthStateUnhealthy
			failing = append(failing, result.Name)
		case HealthStateWarning:
			if overall == HealthStateHealthy {
				overall = HealthStateWarning
			}
			failing = append(failing, result.Name)
		}
	}

	if overall != HealthStateHealthy {
		sort.Strings(failing)
		h.logger.WithFields(logrus.Fields{
			"overall_status": overall,
			"components":     failing,
		}).Warn("Health check completed with issues")
	}

	return &HealthStatus{
		Overall:    overall,
		Timestamp:  startTime.UTC(),
		Version:    h.version,
		Uptime:     time.Since(h.started).Round(time.Second).String(),
		Components: components,
	}
}
