// Package activity provides the bounded activity feed shared by every
// background component in scandesk.
//
// # Overview
//
// The supervisor, the dependency monitor and the manual-retry path all
// report what they are doing by appending entries to a single Log. The
// UI subscribes to the Log and renders new entries as they arrive, and
// can ask for a snapshot of recent history at any time.
//
// # Data Flow
//
//	Producers (any goroutine):          Consumer (UI goroutine):
//	┌──────────────────────┐           ┌───────────────────────┐
//	│ supervisor.Start()   │           │ subscriber callback   │
//	│ monitor poll loop    │──Append──→│  → Program.Send(msg)  │
//	│ manual retry         │           │ Recent(n) on demand   │
//	└──────────────────────┘           └───────────────────────┘
//
// # Guarantees
//
//   - The log never holds more than its capacity; the oldest entry is
//     evicted first (FIFO).
//   - Append order is total across producers: the mutex inside Log is
//     the single synchronization point for all writers.
//   - Recent returns a copy, so callers never observe later evictions.
//
// Subscribers are invoked synchronously while the log lock is held,
// which keeps notification order identical to append order. A slow
// subscriber therefore stalls producers; subscribers are expected to do
// nothing more than hand the entry off (the UI subscriber only enqueues
// a message into the Bubble Tea program).
package activity
