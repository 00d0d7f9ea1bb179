package conduct

// These errors are caller errors, not internal engine failures. Both are
// fatal for the operation that produced them; neither is retried, since
// dispatch is deterministic and retrying without changing the rule set
// would reproduce the same result.

import "fmt"

// ConfigurationError occurs when the form wiring is wrong: registering a
// field after dispatch has begun, registering a duplicate field ID, or
// referencing an unregistered field in a Rule or Command.
type ConfigurationError struct {
	Op     string // the operation that failed, e.g. "register", "apply"
	Field  string // the field ID involved, if any
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("conduct: %s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("conduct: %s %q: %s", e.Op, e.Field, e.Reason)
}

// CoordinationError occurs when a rule cascade exceeds the Coordinator's
// depth bound. The dispatch that triggered it is abandoned with field state
// as of the last fully applied command; the Coordinator remains usable for
// subsequent independent notifications.
type CoordinationError struct {
	Source string    // field whose notification exceeded the bound
	Event  EventKind // event kind of that notification
	Depth  int       // cascade depth reached
	Bound  int       // configured bound
}

func (e *CoordinationError) Error() string {
	return fmt.Sprintf("conduct: cascade from %q (%s) reached depth %d, bound is %d",
		e.Source, e.Event, e.Depth, e.Bound)
}
