// Package conduct provides coordination primitives for form-like component
// state.
//
// The core type is Coordinator, which governs a set of independent fields
// (text inputs, toggles, choice lists) and keeps them mutually consistent
// without the fields referencing one another. Fields report user actions as
// Notifications; the Coordinator matches declarative Rules against an
// immutable snapshot of the whole form and applies the resulting mutation
// Commands back to the fields.
//
// # Dispatch
//
// A user action flows through a single dispatch pipeline:
//
//	User action → Notification → Snapshot → Rules → Commands → Fields
//
// Notifications are processed strictly in arrival order through an internal
// queue. A Command that changes field state enqueues a synthetic Notification
// so rules can cascade; cascades join the same queue rather than recursing,
// and a configurable depth bound (default 32) fails the dispatch with a
// CoordinationError before a ping-pong rule pair can loop forever.
//
// # Rules
//
// Rules are pure functions keyed by (source field, event kind):
//
//	rules := conduct.NewRuleSet()
//	rules.On("pickup", conduct.Toggled, func(s conduct.Snapshot, n conduct.Notification) []conduct.Command {
//	    f, _ := s.Field("pickup")
//	    return []conduct.Command{
//	        conduct.SetEnabled("deliveryDate", !f.Checked),
//	        conduct.SetVisible("address", !f.Checked),
//	    }
//	})
//
// Rules read only from the Snapshot and never mutate fields directly; all
// writes go through the Coordinator. Registration order is evaluation order.
//
// # Declarative forms
//
// The definition layer builds a live form from a declarative description:
//
//	form, err := conduct.Build(def, rules)
//
// Definitions carry validation tags and can be decoded from JSON, YAML, or
// TOML via the Codec interface. Loader watches a definition source (a file,
// or any Watcher implementation) and rebuilds the form when the definition
// changes, with the same state machine and pipeline options as a
// configuration reload:
//
//	loader := conduct.NewLoader(
//	    conduct.NewFileWatcher("form.yaml"),
//	    func(ctx context.Context, prev, curr conduct.FormDefinition) error {
//	        return app.Rebuild(curr)
//	    },
//	    conduct.WithRetry(3),
//	)
//
// # Observability
//
// The package emits capitan signals for every stage of dispatch and loading.
// Hook them for audit trails, logging, or alerting:
//
//	capitan.Hook(conduct.CascadeExceeded, func(_ context.Context, e *capitan.Event) {
//	    field, _ := conduct.KeyField.From(e)
//	    log.Printf("runaway cascade from %s", field)
//	})
//
// # Concurrency
//
// A Coordinator assumes a single logical thread of control, such as a UI
// event loop or one request handler. Dispatch takes no locks; if the
// surrounding application is concurrent, callers must serialize access to
// each Coordinator instance themselves.
package conduct
