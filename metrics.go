package conduct

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on key dispatch events.
type MetricsProvider interface {
	// OnNotification is called when a notification enters the queue.
	// Synthetic cascade notifications are included.
	OnNotification(event EventKind, depth int)

	// OnRuleMatched is called for each rule evaluated during a dispatch.
	OnRuleMatched(source string, event EventKind)

	// OnDispatch is called when a notification has been fully processed.
	// Commands is the size of the applied batch; duration covers snapshot,
	// rule evaluation, and command application.
	OnDispatch(commands int, duration time.Duration)

	// OnCascadeExceeded is called when a cascade passes the depth bound.
	OnCascadeExceeded(depth int)
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnNotification(_ EventKind, _ int)   {}
func (NoOpMetricsProvider) OnRuleMatched(_ string, _ EventKind) {}
func (NoOpMetricsProvider) OnDispatch(_ int, _ time.Duration)   {}
func (NoOpMetricsProvider) OnCascadeExceeded(_ int)             {}
