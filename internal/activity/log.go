package activity

import (
	"fmt"
	"sync"
	"time"
)

// DefaultCapacity bounds the log when the caller does not choose one.
const DefaultCapacity = 100

// Level classifies an activity entry.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

// String returns the level label used in the rendered feed.
func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "SUCCESS"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Entry is a single immutable activity record. Seq increases by one per
// append, so an entry can be identified across Recent snapshots and
// subscriber deliveries.
type Entry struct {
	Seq     uint64
	Time    time.Time
	Level   Level
	Message string
}

// Format renders the entry the way the feed displays it.
func (e Entry) Format() string {
	return fmt.Sprintf("[%s] %s: %s", e.Time.Format("15:04:05"), e.Level, e.Message)
}

// Log is a bounded, ordered, append-only activity record. It is safe
// for concurrent use by any number of producers.
type Log struct {
	mu       sync.Mutex
	capacity int
	seq      uint64
	entries  []Entry
	subs     []func(Entry)
}

// NewLog creates a log holding at most capacity entries. Non-positive
// capacities fall back to DefaultCapacity.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{capacity: capacity}
}

// Append records a new entry, evicting the oldest one when the log is
// full, then notifies every subscriber in registration order.
// Subscribers run with the log lock held so notification order matches
// append order across all producers; they must return quickly.
func (l *Log) Append(level Level, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	entry := Entry{Seq: l.seq, Time: time.Now(), Level: level, Message: message}

	l.entries = append(l.entries, entry)
	if len(l.entries) > l.capacity {
		// Slide rather than re-slice so the backing array does not
		// pin evicted entries forever.
		copy(l.entries, l.entries[len(l.entries)-l.capacity:])
		l.entries = l.entries[:l.capacity]
	}

	for _, sub := range l.subs {
		sub(entry)
	}
}

// Infof appends an INFO entry.
func (l *Log) Infof(format string, args ...any) {
	l.Append(LevelInfo, fmt.Sprintf(format, args...))
}

// Successf appends a SUCCESS entry.
func (l *Log) Successf(format string, args ...any) {
	l.Append(LevelSuccess, fmt.Sprintf(format, args...))
}

// Errorf appends an ERROR entry.
func (l *Log) Errorf(format string, args ...any) {
	l.Append(LevelError, fmt.Sprintf(format, args...))
}

// Recent returns up to n of the newest entries in append order. The
// returned slice is a copy and never mutates.
func (l *Log) Recent(n int) []Entry {
	if n <= 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if n > len(l.entries) {
		n = len(l.entries)
	}
	if n == 0 {
		return nil
	}
	out := make([]Entry, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

// Len reports the current number of retained entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Subscribe registers fn to run on every future append. Subscriptions
// last for the life of the process; there is no unsubscribe.
func (l *Log) Subscribe(fn func(Entry)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subs = append(l.subs, fn)
}
