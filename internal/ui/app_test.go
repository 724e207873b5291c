package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mferr/scandesk/internal/activity"
	"github.com/mferr/scandesk/internal/monitor"
	"github.com/mferr/scandesk/internal/server"
	"github.com/mferr/scandesk/internal/status"
)

type fakeAutostart struct {
	enabled bool
	fail    bool
}

func (f *fakeAutostart) IsEnabled() bool { return f.enabled }

func (f *fakeAutostart) Enable(string) error {
	if f.fail {
		return context.DeadlineExceeded
	}
	f.enabled = true
	return nil
}

func (f *fakeAutostart) Disable() error {
	if f.fail {
		return context.DeadlineExceeded
	}
	f.enabled = false
	return nil
}

func testModel(t *testing.T) Model {
	t.Helper()
	return testModelWith(t, activity.NewLog(10))
}

func testModelWith(t *testing.T, log *activity.Log) Model {
	t.Helper()
	sup := server.New(server.Config{Host: "127.0.0.1", Log: log})
	probe := func(context.Context) (bool, string) { return true, "connection successful" }
	mon := monitor.New(probe, log, time.Minute)

	m := New(Options{
		Log:        log,
		Supervisor: sup,
		Monitor:    mon,
		Autostart:  &fakeAutostart{},
	})

	// Simulate the first window size so the viewport exists.
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 90, Height: 30})
	return updated.(Model)
}

// lastEntry appends to the log and returns the sequenced entry, the way
// the subscription delivers it.
func lastEntry(t *testing.T, log *activity.Log, message string) activity.Entry {
	t.Helper()
	log.Infof("%s", message)
	return log.Recent(1)[0]
}

func TestUpdate_EntryMsgAppendsToFeed(t *testing.T) {
	log := activity.NewLog(10)
	m := testModelWith(t, log)

	updated, _ := m.Update(entryMsg(lastEntry(t, log, "hello feed")))
	m = updated.(Model)

	if len(m.lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(m.lines))
	}
	if !strings.Contains(m.lines[0], "hello feed") {
		t.Fatalf("line = %q, want message included", m.lines[0])
	}
	if !strings.Contains(m.View(), "hello feed") {
		t.Fatal("View() does not render the new entry")
	}
}

func TestUpdate_FeedIsBounded(t *testing.T) {
	log := activity.NewLog(10)
	m := testModelWith(t, log)

	for i := 0; i < activity.DefaultCapacity+25; i++ {
		updated, _ := m.Update(entryMsg(lastEntry(t, log, "x")))
		m = updated.(Model)
	}
	if len(m.lines) != activity.DefaultCapacity {
		t.Fatalf("lines = %d, want %d", len(m.lines), activity.DefaultCapacity)
	}
}

func TestUpdate_DropsEntriesCoveredBySeed(t *testing.T) {
	log := activity.NewLog(10)
	seeded := lastEntry(t, log, "before the shell")
	m := testModelWith(t, log)

	if len(m.lines) != 1 {
		t.Fatalf("seeded lines = %d, want 1", len(m.lines))
	}

	// The subscription delivers the seeded entry again; the view must
	// not show it twice.
	updated, _ := m.Update(entryMsg(seeded))
	m = updated.(Model)
	if len(m.lines) != 1 {
		t.Fatalf("lines after duplicate delivery = %d, want 1", len(m.lines))
	}

	// A genuinely new entry still lands.
	updated, _ = m.Update(entryMsg(lastEntry(t, log, "after the shell")))
	m = updated.(Model)
	if len(m.lines) != 2 {
		t.Fatalf("lines after new entry = %d, want 2", len(m.lines))
	}
	if !strings.Contains(m.lines[1], "after the shell") {
		t.Fatalf("lines[1] = %q, want the new entry", m.lines[1])
	}
}

func TestUpdate_QuitKeys(t *testing.T) {
	m := testModel(t)

	for _, key := range []string{"q", "ctrl+c", "esc"} {
		_, cmd := m.Update(keyMsg(key))
		if cmd == nil {
			t.Fatalf("key %q returned nil cmd, want quit", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("key %q did not quit", key)
		}
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestHealthBadge(t *testing.T) {
	m := testModel(t)

	m.health = status.Healthy
	if !strings.Contains(m.healthBadge(), "HEALTHY") {
		t.Fatal("badge missing HEALTHY")
	}
	m.health = status.Degraded
	if !strings.Contains(m.healthBadge(), "DEGRADED") {
		t.Fatal("badge missing DEGRADED")
	}
	m.health = status.Down
	if !strings.Contains(m.healthBadge(), "DOWN") {
		t.Fatal("badge missing DOWN")
	}
}

func TestServerLine_StartingThenStopped(t *testing.T) {
	m := testModel(t)

	if got := m.serverLine(); !strings.Contains(got, "Starting") {
		t.Fatalf("fresh model serverLine = %q, want Starting", got)
	}

	m.startedAt = time.Now().Add(-time.Minute)
	if got := m.serverLine(); !strings.Contains(got, "Stopped") {
		t.Fatalf("stale model serverLine = %q, want Stopped", got)
	}
}

func TestURLLine_NotRunning(t *testing.T) {
	m := testModel(t)
	if got := m.urlLine(true); !strings.Contains(got, "Not available") {
		t.Fatalf("urlLine = %q, want Not available", got)
	}
}

func TestToggleAutostartCmd(t *testing.T) {
	m := testModel(t)

	msg := m.toggleAutostartCmd()()
	am, ok := msg.(autostartMsg)
	if !ok {
		t.Fatalf("msg = %T, want autostartMsg", msg)
	}
	if am.err != nil || !am.enabled {
		t.Fatalf("toggle on = %+v, want enabled", am)
	}

	updated, _ := m.Update(am)
	m = updated.(Model)
	if !m.autostartOn {
		t.Fatal("model did not record enabled autostart")
	}

	msg = m.toggleAutostartCmd()()
	am = msg.(autostartMsg)
	if am.err != nil || am.enabled {
		t.Fatalf("toggle off = %+v, want disabled", am)
	}
}

func TestJoinLines_Empty(t *testing.T) {
	if got := joinLines(nil); got != "No activity yet." {
		t.Fatalf("joinLines(nil) = %q", got)
	}
}
