// Package ui implements the Bubble Tea shell around the scanner
// service.
//
// # Threading model
//
// Bubble Tea runs Update and View on a single goroutine; all widget
// state lives inside Model and is only ever touched there. Background
// work reaches the UI exclusively through messages:
//
//   - the activity subscriber hands each new entry to a buffered relay;
//     a dedicated goroutine forwards them with Program.Send, so a slow
//     or not-yet-started program never blocks a producer,
//   - key-triggered work (manual retry, browser open, autostart toggle)
//     runs as tea.Cmd functions on their own goroutines and comes back
//     as result messages,
//   - a 5 second tick re-reads the supervisor and monitor snapshots.
//
// Send after the program has exited is a no-op, so producers that
// outlive the UI drop their notifications silently instead of crashing.
//
// The subscription is registered before the model seeds its view from
// Recent, so no entry can fall between the snapshot and the
// subscription; entries covered by both carry a sequence number the
// event loop uses to drop the duplicate delivery. Appends from inside
// Update are still off limits: state changes belong in tea.Cmd
// goroutines so the event loop never blocks on the log mutex.
package ui
