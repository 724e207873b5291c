package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/mferr/scandesk/internal/activity"
)

// DefaultSettleDelay is how long Start waits for the serve goroutine to
// fail before declaring the service up.
const DefaultSettleDelay = 2 * time.Second

// Config describes the service to supervise.
type Config struct {
	Host        string
	Port        int // 0 picks a free port
	CertFile    string
	KeyFile     string
	SettleDelay time.Duration
	Handler     http.Handler
	Log         *activity.Log
}

// Status is a point-in-time view of the supervised service.
type Status struct {
	Running bool
	Host    string
	Port    int // actual bound port once running
	TLS     bool
	LocalIP string // outbound address, "localhost" when discovery failed
}

// Supervisor starts the embedded service exactly once and answers
// status and URL queries about it.
type Supervisor struct {
	cfg Config

	// startMu serializes Start so concurrent callers agree on a single
	// service instance.
	startMu sync.Mutex

	mu     sync.Mutex
	status Status
	srv    *http.Server
}

// New builds a supervisor; nothing runs until Start.
func New(cfg Config) *Supervisor {
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	return &Supervisor{cfg: cfg}
}

// Start brings the service up. It is idempotent: if the service is
// already running it returns nil immediately, and concurrent callers
// all observe Running once the first attempt completes. A failed start
// leaves the supervisor stopped; it never retries on its own.
func (s *Supervisor) Start() error {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	if s.Status().Running {
		return nil
	}

	useTLS := tlsMaterialPresent(s.cfg.CertFile, s.cfg.KeyFile)
	localIP := OutboundIP()

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.cfg.Log.Errorf("Failed to start server: %v", err)
		return fmt.Errorf("bind %s: %w", addr, err)
	}
	port := ln.Addr().(*net.TCPAddr).Port

	srv := &http.Server{
		Handler:           s.cfg.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		defer close(serveErr)
		var err error
		if useTLS {
			err = srv.ServeTLS(ln, s.cfg.CertFile, s.cfg.KeyFile)
		} else {
			err = srv.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		s.cfg.Log.Errorf("Failed to start server: %v", err)
		return fmt.Errorf("start server: %w", err)
	case <-time.After(s.cfg.SettleDelay):
	}

	// Serve failures after the settle window cannot revert Running;
	// they are reported and left for an external restart.
	go func() {
		if err, ok := <-serveErr; ok && err != nil {
			s.cfg.Log.Errorf("Server error: %v", err)
			slog.Error("scanner service failed", "error", err)
		}
	}()

	s.mu.Lock()
	s.srv = srv
	s.status = Status{
		Running: true,
		Host:    s.cfg.Host,
		Port:    port,
		TLS:     useTLS,
		LocalIP: localIP,
	}
	s.mu.Unlock()

	scheme := "http"
	if useTLS {
		scheme = "https"
	}
	s.cfg.Log.Successf("Server started on %s://%s:%d", scheme, localIP, port)
	return nil
}

// Stop shuts the service down. It is meant for process shutdown only.
func (s *Supervisor) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.status.Running = false
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Status returns the latest snapshot.
func (s *Supervisor) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// URLs derives the browser-facing addresses. network is empty when the
// outbound address could not be discovered, and ok is false while the
// service is not running.
func (s *Supervisor) URLs() (local, network string, ok bool) {
	st := s.Status()
	if !st.Running {
		return "", "", false
	}
	scheme := "http"
	if st.TLS {
		scheme = "https"
	}
	local = fmt.Sprintf("%s://localhost:%d", scheme, st.Port)
	if st.LocalIP != "" && st.LocalIP != "localhost" {
		network = fmt.Sprintf("%s://%s:%d", scheme, st.LocalIP, st.Port)
	}
	return local, network, true
}

// tlsMaterialPresent reports whether both PEM files exist. Existence is
// the whole contract; parsing happens in ServeTLS.
func tlsMaterialPresent(certFile, keyFile string) bool {
	if certFile == "" || keyFile == "" {
		return false
	}
	if _, err := os.Stat(certFile); err != nil {
		return false
	}
	if _, err := os.Stat(keyFile); err != nil {
		return false
	}
	return true
}
