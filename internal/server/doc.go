// Package server owns the lifecycle of the embedded scanner service.
//
// # Lifecycle
//
// Start binds the listener synchronously, so port conflicts and
// permission errors surface immediately, then serves on a background
// goroutine. After a short settle delay it checks whether serving
// already failed before declaring the service running. Once running,
// the status never reverts; the supervisor does not retry a failed
// start, and Stop exists only for process shutdown.
//
// # Protocol selection
//
// When both the certificate and key files exist the service serves
// HTTPS, otherwise plain HTTP. Presence is the only check performed
// here; invalid material fails inside ServeTLS and is reported like any
// other startup failure.
//
// # Address discovery
//
// The machine's outbound address is discovered with a connected UDP
// socket (no packets are sent). Discovery can never fail the start: it
// degrades to "localhost", in which case no network URL is advertised.
package server
