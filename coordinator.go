package conduct

import (
	"context"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// DefaultDepthBound is the default cascade depth bound.
const DefaultDepthBound = 32

// DefaultHistorySize is the default number of change records retained.
const DefaultHistorySize = 64

// Coordinator governs a set of fields and is the only component allowed to
// read all of their state and issue mutation Commands. It owns the field
// registry, the RuleSet, and the dispatch queue.
//
// A Coordinator is constructed once per form with its complete RuleSet;
// fields register themselves during construction via their New* functions.
// The first notification seals the registry.
//
// A Coordinator holds shared references to its fields but not their
// lifetime; fields may be constructed by a surrounding factory (see Build)
// and outlive nothing but the form session.
//
// Dispatch is single-threaded and takes no locks. All notifications must
// originate from one logical thread of control; concurrent callers must
// serialize access externally.
type Coordinator struct {
	rules   *RuleSet
	clock   clockz.Clock
	metrics MetricsProvider
	bound   int
	history *ring[ChangeRecord]

	fields map[string]Field
	order  []string

	queue       []Notification
	dispatching bool
	sealed      bool
	seq         uint64
}

// NewCoordinator creates a Coordinator that dispatches with the given rule
// set. A nil rule set is treated as empty: every notification is a no-op.
//
// Instance configuration uses chainable methods before the first dispatch:
//
//	coord := conduct.NewCoordinator(rules).
//	    DepthBound(8).
//	    Clock(clock)
func NewCoordinator(rules *RuleSet) *Coordinator {
	if rules == nil {
		rules = NewRuleSet()
	}
	return &Coordinator{
		rules:   rules,
		clock:   clockz.RealClock,
		bound:   DefaultDepthBound,
		history: newRing[ChangeRecord](DefaultHistorySize),
		fields:  make(map[string]Field),
	}
}

// DepthBound sets the maximum cascade depth per original notification.
// Default: DefaultDepthBound. Must be called before the first dispatch.
func (c *Coordinator) DepthBound(n int) *Coordinator {
	if n > 0 {
		c.bound = n
	}
	return c
}

// Clock sets a custom clock for notification timestamps.
// Use this with clockz.FakeClock for deterministic tests.
func (c *Coordinator) Clock(clock clockz.Clock) *Coordinator {
	c.clock = clock
	return c
}

// Metrics sets a metrics provider for observability integration.
func (c *Coordinator) Metrics(provider MetricsProvider) *Coordinator {
	c.metrics = provider
	return c
}

// HistorySize sets the number of change records retained.
// Use 0 to disable change history. Default: DefaultHistorySize.
func (c *Coordinator) HistorySize(n int) *Coordinator {
	c.history = newRing[ChangeRecord](n)
	return c
}

// Field returns the registered field with the given ID.
func (c *Coordinator) Field(id string) (Field, bool) {
	f, ok := c.fields[id]
	return f, ok
}

// History returns the retained change records, oldest first.
func (c *Coordinator) History() []ChangeRecord {
	return c.history.all()
}

// Snapshot returns an immutable copy of every governed field's state.
func (c *Coordinator) Snapshot() Snapshot {
	snap := make(Snapshot, len(c.order))
	for _, id := range c.order {
		snap[id] = c.fields[id].state()
	}
	return snap
}

// register adds a field to the registry. Fields call this from their
// constructors; it fails once the Coordinator has sealed.
func (c *Coordinator) register(f Field) error {
	if c.sealed {
		return &ConfigurationError{
			Op:     "register",
			Field:  f.ID(),
			Reason: "coordinator is sealed; fields register before the first dispatch",
		}
	}
	if _, exists := c.fields[f.ID()]; exists {
		return &ConfigurationError{
			Op:     "register",
			Field:  f.ID(),
			Reason: "field ID already registered",
		}
	}
	c.fields[f.ID()] = f
	c.order = append(c.order, f.ID())
	return nil
}

// record stores a change record for a field mutation. Fields call this from
// their setters; it is the observable side effect of the mutation surface.
func (c *Coordinator) record(field string, attr Attribute, from, to string) {
	c.history.push(ChangeRecord{
		Field: field,
		Attr:  attr,
		From:  from,
		To:    to,
		Time:  c.clock.Now(),
	})
}

// seal closes registration and checks every rule source against the
// registry. A rule keyed on an unregistered field is a wiring mistake and
// fails here rather than silently never matching.
func (c *Coordinator) seal(ctx context.Context) error {
	for _, id := range c.rules.sources() {
		if _, ok := c.fields[id]; !ok {
			return &ConfigurationError{
				Op:     "seal",
				Field:  id,
				Reason: "rule references unregistered field",
			}
		}
	}
	c.sealed = true
	capitan.Emit(ctx, CoordinatorSealed,
		KeyFields.Field(len(c.order)),
	)
	return nil
}

// Notify is the single entry point for notifications. Fields call it from
// their user-action entry points; application code may also call it
// directly to replay a recorded action.
//
// The notification joins the dispatch queue. If a dispatch loop is already
// running further up the stack, Notify returns immediately and the outer
// loop processes the notification in order; otherwise Notify runs the loop
// until the queue drains or a dispatch fails. Each popped notification is
// processed to completion before the next begins, and cascades enqueue
// rather than recurse, so behavior does not depend on stack limits.
//
// A failed dispatch clears the queue and surfaces the error to the
// outermost caller. Field state is left as of the last fully applied
// command; rules must be written to be safe to partially apply.
func (c *Coordinator) Notify(n Notification) error {
	ctx := context.Background()

	if !c.sealed {
		if err := c.seal(ctx); err != nil {
			return err
		}
	}

	c.enqueue(ctx, n)
	if c.dispatching {
		return nil
	}

	c.dispatching = true
	defer func() { c.dispatching = false }()

	for len(c.queue) > 0 {
		next := c.queue[0]
		c.queue = c.queue[1:]
		if err := c.dispatch(ctx, next); err != nil {
			c.queue = c.queue[:0]
			return err
		}
	}
	return nil
}

// enqueue stamps identity and ordering onto a notification and appends it
// to the queue.
func (c *Coordinator) enqueue(ctx context.Context, n Notification) {
	c.seq++
	n.ID = uuid.NewString()
	n.Seq = c.seq
	n.Time = c.clock.Now()
	c.queue = append(c.queue, n)

	capitan.Emit(ctx, NotificationReceived,
		KeyField.Field(n.Source),
		KeyEvent.Field(string(n.Event)),
		KeySeq.Field(int(n.Seq)),
		KeyDepth.Field(n.Depth),
	)
	if c.metrics != nil {
		c.metrics.OnNotification(n.Event, n.Depth)
	}
}

// dispatch processes one notification: snapshot, match, evaluate, apply.
func (c *Coordinator) dispatch(ctx context.Context, n Notification) error {
	if n.Depth > c.bound {
		capitan.Emit(ctx, CascadeExceeded,
			KeyField.Field(n.Source),
			KeyEvent.Field(string(n.Event)),
			KeyDepth.Field(n.Depth),
		)
		if c.metrics != nil {
			c.metrics.OnCascadeExceeded(n.Depth)
		}
		return &CoordinationError{
			Source: n.Source,
			Event:  n.Event,
			Depth:  n.Depth,
			Bound:  c.bound,
		}
	}

	start := c.clock.Now()
	snap := c.Snapshot()

	// Evaluate every matching rule against the pre-mutation snapshot and
	// collect one ordered batch before touching any live field.
	var batch []Command
	for _, rule := range c.rules.match(n.Source, n.Event) {
		capitan.Emit(ctx, RuleMatched,
			KeyField.Field(n.Source),
			KeyEvent.Field(string(n.Event)),
		)
		if c.metrics != nil {
			c.metrics.OnRuleMatched(n.Source, n.Event)
		}
		batch = append(batch, rule(snap, n)...)
	}

	for _, cmd := range batch {
		f, ok := c.fields[cmd.Target]
		if !ok {
			return &ConfigurationError{
				Op:     "apply",
				Field:  cmd.Target,
				Reason: "command targets unregistered field",
			}
		}
		changed, err := f.apply(cmd)
		if err != nil {
			return err
		}
		if changed {
			capitan.Emit(ctx, CommandApplied,
				KeyField.Field(cmd.Target),
				KeyAttribute.Field(cmd.Attr.String()),
				KeyDepth.Field(n.Depth),
			)
			c.enqueue(ctx, Notification{
				Source: cmd.Target,
				Event:  cmd.Attr.event(),
				Depth:  n.Depth + 1,
			})
		}
	}

	capitan.Emit(ctx, DispatchCompleted,
		KeyField.Field(n.Source),
		KeyEvent.Field(string(n.Event)),
		KeyCommands.Field(len(batch)),
	)
	if c.metrics != nil {
		c.metrics.OnDispatch(len(batch), c.clock.Since(start))
	}
	return nil
}
