// Package status derives the overall tri-state health of the system
// from the supervisor and dependency-monitor snapshots. Nothing here is
// stored; callers recompute on every refresh.
package status

// Health is the aggregate condition shown by the status badge.
type Health int

const (
	// Down means the embedded service is not running. Dependency
	// state is irrelevant once the service itself is down.
	Down Health = iota
	// Degraded means the service is serving but its database is
	// unreachable.
	Degraded
	// Healthy means both the service and its database are up.
	Healthy
)

// Aggregate computes the health for the given snapshots.
func Aggregate(serverRunning, databaseConnected bool) Health {
	switch {
	case !serverRunning:
		return Down
	case !databaseConnected:
		return Degraded
	default:
		return Healthy
	}
}

// String returns the badge label.
func (h Health) String() string {
	switch h {
	case Healthy:
		return "HEALTHY"
	case Degraded:
		return "DEGRADED"
	default:
		return "DOWN"
	}
}
