package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRun_HeadlessStartsAndStops(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	// Port 0 keeps parallel test runs from fighting over a bind.
	cfgPath := filepath.Join(home, "config.toml")
	content := "[server]\nhost = \"127.0.0.1\"\nport = 0\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if err := Run(ctx, Options{ConfigPath: cfgPath, NoUI: true}); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	logPath := filepath.Join(home, ".local", "share", "scandesk", "logs", "scandesk.log")
	raw, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("diagnostic log missing: %v", err)
	}
	// Feed entries must reach the file; headless runs have no other
	// record of them.
	if !strings.Contains(string(raw), "Price Scanner System starting") {
		t.Fatalf("diagnostic log missing activity feed entries:\n%s", raw)
	}
}

func TestRun_BadConfigFails(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfgPath := filepath.Join(home, "config.toml")
	if err := os.WriteFile(cfgPath, []byte("[server\nport="), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := Run(ctx, Options{ConfigPath: cfgPath, NoUI: true}); err == nil {
		t.Fatal("Run() = nil error, want config parse failure")
	}
}
