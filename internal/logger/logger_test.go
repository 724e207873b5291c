package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetup_WritesToRotatingFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	log, closer, err := Setup(Config{Dir: dir})
	if err != nil {
		t.Fatalf("Setup error: %v", err)
	}
	defer func() { _ = closer.Close() }()

	log.Info("hello", "component", "test")

	raw, err := os.ReadFile(filepath.Join(dir, "scandesk.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(raw), "hello") {
		t.Fatalf("log file missing entry: %q", raw)
	}
}

func TestSetup_EmptyDir(t *testing.T) {
	if _, _, err := Setup(Config{}); err == nil {
		t.Fatal("Setup with empty dir should fail")
	}
}
