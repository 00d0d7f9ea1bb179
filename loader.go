package conduct

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/pipz"
)

// DefaultDebounce is the default coalescing window for definition changes.
const DefaultDebounce = 100 * time.Millisecond

var rebuildID = pipz.NewIdentity("rebuild", "Applies a validated definition")

// Loader keeps a form in sync with its definition source. It watches the
// source for changes, decodes and validates each update, and hands valid
// definitions to a rebuild callback. Invalid updates are rejected and the
// previous definition stays active, so a bad deploy degrades the form
// instead of breaking it.
//
// Where Build wires a form once, a Loader does it continuously.
type Loader struct {
	watcher        Watcher
	pipeline       pipz.Chainable[*Request]
	debounce       time.Duration
	startupTimeout time.Duration
	syncMode       bool
	clock          clockz.Clock
	codec          Codec
	onStop         func(State)

	state        atomic.Int32
	current      atomic.Pointer[FormDefinition]
	lastError    atomic.Pointer[error]
	errorHistory *ring[error]

	mu      sync.Mutex
	started bool

	// Sync mode only: the watcher channel, drained via Process.
	changes <-chan []byte
}

// NewLoader creates a Loader over a definition source.
//
// The watcher emits raw bytes; the codec decodes them into a
// FormDefinition, which is validated before the rebuild callback fn runs
// with the previous and new definitions. fn typically calls Build and
// swaps the resulting form into the application.
//
// Options wrap fn in pipz reliability middleware; instance settings use
// chainable methods before Start:
//
//	loader := conduct.NewLoader(
//	    conduct.NewFileWatcher("form.yaml"),
//	    func(ctx context.Context, prev, curr conduct.FormDefinition) error {
//	        form, err := conduct.Build(curr, rules)
//	        if err != nil {
//	            return err
//	        }
//	        return app.Swap(form)
//	    },
//	    conduct.WithRetry(3),
//	).Codec(conduct.YAMLCodec{}).Debounce(200 * time.Millisecond)
func NewLoader(
	watcher Watcher,
	fn func(ctx context.Context, prev, curr FormDefinition) error,
	opts ...Option,
) *Loader {
	rebuild := pipz.Effect(rebuildID, func(ctx context.Context, req *Request) error {
		return fn(ctx, req.Previous, req.Current)
	})

	l := &Loader{
		watcher:      watcher,
		pipeline:     buildPipeline(rebuild, opts),
		debounce:     DefaultDebounce,
		clock:        clockz.RealClock,
		codec:        JSONCodec{},
		errorHistory: newRing[error](0),
	}
	l.state.Store(int32(StateLoading))
	return l
}

// Debounce sets the coalescing window: changes arriving within it collapse
// into one update. Default DefaultDebounce. Call before Start.
func (l *Loader) Debounce(d time.Duration) *Loader {
	l.debounce = d
	return l
}

// SyncMode disables the background watch goroutine and debouncing; after
// Start, each subsequent update is consumed by an explicit Process call.
// For deterministic tests. Call before Start.
func (l *Loader) SyncMode() *Loader {
	l.syncMode = true
	return l
}

// Clock injects a clock, letting tests drive the debounce timer with
// clockz.NewFakeClock. Call before Start.
func (l *Loader) Clock(clock clockz.Clock) *Loader {
	l.clock = clock
	return l
}

// Codec sets the definition decoder. Default JSONCodec. Call before Start.
func (l *Loader) Codec(codec Codec) *Loader {
	l.codec = codec
	return l
}

// StartupTimeout bounds the wait for the watcher's initial emission;
// Start fails if nothing arrives in time. Default: wait indefinitely.
// Call before Start.
func (l *Loader) StartupTimeout(d time.Duration) *Loader {
	l.startupTimeout = d
	return l
}

// OnStop registers a callback invoked with the final state when the watch
// loop exits. Call before Start.
func (l *Loader) OnStop(fn func(State)) *Loader {
	l.onStop = fn
	return l
}

// ErrorHistorySize retains the last n errors across failed updates; a
// successful update clears them. 0 (the default) keeps only LastError.
// Call before Start.
func (l *Loader) ErrorHistorySize(n int) *Loader {
	l.errorHistory = newRing[error](n)
	return l
}

// State returns the Loader's current state.
func (l *Loader) State() State {
	return State(l.state.Load())
}

// Current returns the active definition, or false if no valid definition
// has been applied yet.
func (l *Loader) Current() (FormDefinition, bool) {
	ptr := l.current.Load()
	if ptr == nil {
		return FormDefinition{}, false
	}
	return *ptr, true
}

// LastError returns the most recent failure, or nil.
func (l *Loader) LastError() error {
	ptr := l.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// ErrorHistory returns retained failures, oldest first. Nil unless enabled
// with ErrorHistorySize.
func (l *Loader) ErrorHistory() []error {
	return l.errorHistory.all()
}

// Start begins watching. It blocks until the initial definition has been
// processed and returns its outcome; watching then continues in the
// background, so an invalid initial definition still recovers when a valid
// update lands.
//
// In sync mode no background goroutine runs; call Process to consume
// updates. Start may only be called once.
func (l *Loader) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return fmt.Errorf("loader already started")
	}
	l.started = true
	l.mu.Unlock()

	capitan.Emit(ctx, LoaderStarted,
		KeyDebounce.Field(l.debounce),
	)

	changes, err := l.watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	raw, err := l.first(ctx, changes)
	if err != nil {
		return err
	}
	capitan.Emit(ctx, DefinitionReceived)
	initialErr := l.process(ctx, raw)

	if l.syncMode {
		l.changes = changes
		return initialErr
	}

	go l.watch(ctx, changes)
	return initialErr
}

// first blocks for the watcher's initial emission, honoring the startup
// timeout if one is configured.
func (l *Loader) first(ctx context.Context, changes <-chan []byte) ([]byte, error) {
	waitCtx := ctx
	if l.startupTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = l.clock.WithTimeout(ctx, l.startupTimeout)
		defer cancel()
	}

	select {
	case raw, ok := <-changes:
		if !ok {
			return nil, fmt.Errorf("watcher closed before emitting initial definition")
		}
		return raw, nil
	case <-waitCtx.Done():
		if l.startupTimeout > 0 && waitCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("startup timeout: no initial definition within %v", l.startupTimeout)
		}
		return nil, waitCtx.Err()
	}
}

// Process consumes the next pending update, if any. Sync mode only;
// reports whether an update was consumed.
func (l *Loader) Process(ctx context.Context) bool {
	if !l.syncMode {
		return false
	}

	select {
	case raw, ok := <-l.changes:
		if !ok {
			return false
		}
		capitan.Emit(ctx, DefinitionReceived)
		_ = l.process(ctx, raw) //nolint:errcheck // Outcome lands in state and LastError
		return true
	default:
		return false
	}
}

// process runs one update through decode, validate, and rebuild.
func (l *Loader) process(ctx context.Context, raw []byte) error {
	prevState := l.State()

	var def FormDefinition
	if err := l.codec.Unmarshal(raw, &def); err != nil {
		l.fail(ctx, prevState, err)
		capitan.Emit(ctx, DecodeFailed,
			KeyError.Field(err.Error()),
		)
		return fmt.Errorf("decode failed: %w", err)
	}

	if err := def.Validate(); err != nil {
		l.fail(ctx, prevState, err)
		capitan.Emit(ctx, ValidationFailed,
			KeyForm.Field(def.Name),
			KeyError.Field(err.Error()),
		)
		return fmt.Errorf("validation failed: %w", err)
	}

	var prev FormDefinition
	if ptr := l.current.Load(); ptr != nil {
		prev = *ptr
	}

	req := &Request{Previous: prev, Current: def, Raw: raw}
	processed, err := l.pipeline.Process(ctx, req)
	if err != nil {
		l.fail(ctx, prevState, err)
		capitan.Emit(ctx, BuildFailed,
			KeyForm.Field(def.Name),
			KeyError.Field(err.Error()),
		)
		return fmt.Errorf("rebuild failed: %w", err)
	}

	l.current.Store(&processed.Current)
	l.lastError.Store(nil)
	l.errorHistory.clear()
	l.transition(ctx, prevState, StateHealthy)
	capitan.Emit(ctx, BuildSucceeded,
		KeyForm.Field(processed.Current.Name),
	)
	return nil
}

// fail records an error and moves to Degraded, or Empty when no valid
// definition has ever been applied.
func (l *Loader) fail(ctx context.Context, prevState State, err error) {
	e := err
	l.lastError.Store(&e)
	l.errorHistory.push(err)

	next := StateDegraded
	if l.current.Load() == nil {
		next = StateEmpty
	}
	l.transition(ctx, prevState, next)
}

func (l *Loader) transition(ctx context.Context, from, to State) {
	if from == to {
		return
	}
	l.state.Store(int32(to))
	capitan.Emit(ctx, LoaderStateChanged,
		KeyOldState.Field(from.String()),
		KeyNewState.Field(to.String()),
	)
}

// watch is the background loop: it holds the latest raw bytes while the
// debounce timer runs, so a burst of writes produces one rebuild.
func (l *Loader) watch(ctx context.Context, changes <-chan []byte) {
	defer func() {
		capitan.Emit(ctx, LoaderStopped,
			KeyNewState.Field(l.State().String()),
		)
		if l.onStop != nil {
			l.onStop(l.State())
		}
	}()

	var (
		timer   clockz.Timer
		pending []byte
	)

	for {
		var fire <-chan time.Time
		if timer != nil {
			fire = timer.C()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case raw, ok := <-changes:
			if !ok {
				if pending != nil {
					_ = l.process(ctx, pending) //nolint:errcheck // Outcome lands in state and LastError
				}
				return
			}
			capitan.Emit(ctx, DefinitionReceived)
			pending = raw
			timer = l.bump(timer)

		case <-fire:
			if pending != nil {
				_ = l.process(ctx, pending) //nolint:errcheck // Outcome lands in state and LastError
				pending = nil
			}
		}
	}
}

// bump starts the debounce timer, or pushes it out if already running.
func (l *Loader) bump(timer clockz.Timer) clockz.Timer {
	if timer == nil {
		return l.clock.NewTimer(l.debounce)
	}
	if !timer.Stop() {
		select {
		case <-timer.C():
		default:
		}
	}
	timer.Reset(l.debounce)
	return timer
}
