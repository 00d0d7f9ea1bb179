package conduct

// State tracks where a Loader is in its lifecycle. The states are ordered
// by what the application can rely on: Loading and Empty have no usable
// form, Healthy and Degraded do.
type State int32

const (
	// StateLoading: initializing, no definition processed yet.
	StateLoading State = iota

	// StateHealthy: the latest definition was applied successfully.
	StateHealthy

	// StateDegraded: the latest update failed but an earlier valid
	// definition is still active.
	StateDegraded

	// StateEmpty: the initial load failed and no valid definition has
	// ever been applied. The Loader keeps watching for one.
	StateEmpty
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateHealthy:
		return "healthy"
	case StateDegraded:
		return "degraded"
	case StateEmpty:
		return "empty"
	default:
		return "unknown"
	}
}
