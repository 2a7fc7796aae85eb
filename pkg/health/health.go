// Package health runs dependency checks for the HTTP server and the stream
// worker and serves them as liveness and readiness endpoints.
package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"net/http"
	"sync"
	"time"
)

type Status string

const (
	StatusUp       Status = "up"
	StatusDown     Status = "down"
	StatusDegraded Status = "degraded"
)

// Check probes one dependency.
type Check func(ctx context.Context) ComponentHealth

type ComponentHealth struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

type Report struct {
	Status     Status                     `json:"status"`
	Components map[string]ComponentHealth `json:"components"`
	Timestamp  string                     `json:"timestamp"`
}

// Pinger is satisfied by the Redis and PostgreSQL clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingCheck reports p as down when its ping fails. With optional set, a
// failure only degrades the service.
func PingCheck(p Pinger, optional bool) Check {
	return func(ctx context.Context) ComponentHealth {
		if err := p.Ping(ctx); err != nil {
			status := StatusDown
			if optional {
				status = StatusDegraded
			}
			return ComponentHealth{Status: status, Message: err.Error()}
		}
		return ComponentHealth{Status: StatusUp}
	}
}

// Checker runs the registered checks concurrently. Each check gets its own
// deadline so one hung dependency cannot stall the probe.
type Checker struct {
	mu           sync.RWMutex
	checks       map[string]Check
	checkTimeout time.Duration
	logger       *slog.Logger
}

func NewChecker() *Checker {
	return &Checker{
		checks:       make(map[string]Check),
		checkTimeout: 2 * time.Second,
		logger:       slog.Default().With("component", "health"),
	}
}

func (c *Checker) Register(name string, check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// Run executes every check and reports the worst status.
func (c *Checker) Run(ctx context.Context) Report {
	c.mu.RLock()
	checks := maps.Clone(c.checks)
	c.mu.RUnlock()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[string]ComponentHealth, len(checks))
	)
	for name, check := range checks {
		wg.Go(func() {
			cctx, cancel := context.WithTimeout(ctx, c.checkTimeout)
			defer cancel()
			start := time.Now()
			res := check(cctx)
			res.Latency = time.Since(start).Round(time.Millisecond).String()
			mu.Lock()
			results[name] = res
			mu.Unlock()
		})
	}
	wg.Wait()

	status := StatusUp
	for name, res := range results {
		if res.Status != StatusUp {
			c.logger.Warn("dependency unhealthy", "dependency", name, "status", res.Status, "message", res.Message)
		}
		status = worse(status, res.Status)
	}
	return Report{
		Status:     status,
		Components: results,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
}

func worse(a, b Status) Status {
	rank := map[Status]int{StatusUp: 0, StatusDegraded: 1, StatusDown: 2}
	if rank[b] > rank[a] {
		return b
	}
	return a
}

// LiveHandler answers liveness probes without running checks.
func (c *Checker) LiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
	}
}

// ReadyHandler answers 503 while a required dependency is down. A degraded
// service still takes traffic.
func (c *Checker) ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		report := c.Run(ctx)
		w.Header().Set("Content-Type", "application/json")
		if report.Status == StatusDown {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		json.NewEncoder(w).Encode(report)
	}
}
