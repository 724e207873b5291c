// Package monitor polls the product database and reports connectivity
// transitions to the activity feed.
//
// Logging is edge-triggered: an entry is appended only when the
// observed state differs from the previous one, so thirty consecutive
// healthy polls produce no noise. The very first probe result is always
// reported, since before it the state is unknown.
package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mferr/scandesk/internal/activity"
)

const (
	// DefaultInterval matches the 30 second cadence the shell has
	// always polled at.
	DefaultInterval = 30 * time.Second

	probeTimeout = 10 * time.Second
	stopTimeout  = time.Second
)

// ProbeFunc tests the dependency and reports (connected, message). It
// must not panic; failures come back in the message.
type ProbeFunc func(ctx context.Context) (connected bool, message string)

// Status is a point-in-time view of the dependency.
type Status struct {
	Connected   bool
	LastChecked time.Time
	LastMessage string
}

// Monitor owns DependencyStatus. Only its poll loop and Check mutate
// the status; everyone else reads snapshots.
type Monitor struct {
	probe    ProbeFunc
	log      *activity.Log
	interval time.Duration

	// checkMu serializes Check so the manual-retry path and the poll
	// loop cannot interleave a probe with a status write.
	checkMu sync.Mutex

	mu      sync.Mutex
	status  Status
	checked bool
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// New builds a monitor. A non-positive interval uses DefaultInterval.
func New(probe ProbeFunc, log *activity.Log, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{probe: probe, log: log, interval: interval}
}

// Start launches the poll loop. Calling Start on a running monitor is a
// no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	stop, done := m.stop, m.done
	m.mu.Unlock()

	m.log.Infof("Database monitoring started")
	go m.loop(stop, done)
}

func (m *Monitor) loop(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		m.Check(ctx)
		cancel()

		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

// Stop signals the loop and waits up to a second for it to exit. A
// missed join is logged and otherwise ignored; the loop holds no
// resources that outlive the process.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	stop, done := m.stop, m.done
	m.mu.Unlock()

	close(stop)
	select {
	case <-done:
	case <-time.After(stopTimeout):
		slog.Warn("database monitor did not stop in time")
	}
}

// Check probes the dependency once, updates the status snapshot and
// applies the edge-triggered logging rule. It is used by both the poll
// loop and the manual retry path and is safe to call concurrently.
func (m *Monitor) Check(ctx context.Context) (bool, string) {
	m.checkMu.Lock()
	defer m.checkMu.Unlock()

	connected, message := m.probe(ctx)

	m.mu.Lock()
	prev, known := m.status.Connected, m.checked
	m.status = Status{
		Connected:   connected,
		LastChecked: time.Now(),
		LastMessage: message,
	}
	m.checked = true
	m.mu.Unlock()

	if known && connected == prev {
		return connected, message
	}

	switch {
	case connected:
		m.log.Successf("Database connection restored")
	case known:
		m.log.Errorf("Database connection lost: %s", message)
	default:
		m.log.Errorf("Database connection failed: %s", message)
	}
	return connected, message
}

// Status returns the latest snapshot.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Running reports whether the poll loop is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}
